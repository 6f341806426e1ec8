package profile

import (
	"context"
	"regexp"
	"strings"
)

var (
	urgentPattern  = regexp.MustCompile(`\b(urgent|immediately|now|asap|today)\b`)
	emojiPattern   = regexp.MustCompile(`[\x{1F600}-\x{1F64F}]`)
	shortWordPattern = regexp.MustCompile(`\b[a-z]{1,2}\b`)
)

type features struct {
	hasOTP        bool
	hasKYC        bool
	hasCrypto     bool
	hasJob        bool
	hasDelivery   bool
	hasBank       bool
	hasCard       bool
	hasPaymentApp bool
	hasPrize      bool
	hasTax        bool
	authority     bool
	shortLink     bool
	apkReference  bool
	threatWords   bool
	formalPhrases bool
	linkPresent   bool
	mixedLanguage bool
	urgentCount   int
	exclamations  int
	emojiCount    int
	grammarErrors int
	capsAbuse     float64
	messageCount  int
}

// RuleProfiler infers a persona from surface features of the scammer's
// messages. It is deterministic and serves as both the offline
// implementation and the baseline that the LLM profile is merged against.
type RuleProfiler struct{}

func NewRuleProfiler() *RuleProfiler {
	return &RuleProfiler{}
}

func (p *RuleProfiler) Profile(_ context.Context, messages []string) (Persona, error) {
	f := extractFeatures(messages)
	experience := inferExperience(f)
	aggression := inferAggression(f)

	return Persona{
		AgeRange:         inferAge(experience, f),
		GenderLikelihood: map[string]float64{"male": 0.7, "female": 0.3},
		ExperienceLevel:  experience,
		ScriptType:       inferScriptType(f),
		RegionHint:       inferRegion(f),
		AggressionLevel:  aggression,
		Confidence:       inferConfidence(f),
		Tactics:          inferTactics(f),
	}, nil
}

func extractFeatures(messages []string) features {
	text := strings.ToLower(strings.Join(messages, " "))
	raw := strings.Join(messages, " ")

	containsAny := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(text, k) {
				return true
			}
		}
		return false
	}

	upper := 0
	for _, c := range raw {
		if c >= 'A' && c <= 'Z' {
			upper++
		}
	}
	capsAbuse := 0.0
	if len(raw) > 0 {
		capsAbuse = float64(upper) / float64(len(raw))
	}

	return features{
		hasOTP:        containsAny("otp", "one time password"),
		hasKYC:        containsAny("kyc"),
		hasCrypto:     containsAny("crypto", "wallet"),
		hasJob:        containsAny("job", "hr"),
		hasDelivery:   containsAny("delivery", "package"),
		hasBank:       containsAny("bank", "account", "upi", "ifsc"),
		hasCard:       containsAny("credit card", "debit card", "cvv", "expiry"),
		hasPaymentApp: containsAny("gpay", "phonepe", "paytm", "paypal"),
		hasPrize:      containsAny("won", "lottery", "reward", "prize"),
		hasTax:        containsAny("tax", "gst", "income tax"),
		authority:     containsAny("rbi", "government", "police", "customs", "income tax department"),
		shortLink:     containsAny("bit.ly", "tinyurl", "t.co"),
		apkReference:  containsAny("apk", "download app", "install app"),
		threatWords:   containsAny("blocked", "suspended", "terminated", "legal action", "arrest"),
		formalPhrases: containsAny("dear customer", "as per", "kindly", "regards"),
		linkPresent:   containsAny("http", "www"),
		mixedLanguage: containsAny("please", "kripya", "aap"),
		urgentCount:   len(urgentPattern.FindAllString(text, -1)),
		exclamations:  strings.Count(text, "!"),
		emojiCount:    len(emojiPattern.FindAllString(raw, -1)),
		grammarErrors: len(shortWordPattern.FindAllString(text, -1)),
		capsAbuse:     capsAbuse,
		messageCount:  len(messages),
	}
}

func inferExperience(f features) string {
	if f.formalPhrases && f.urgentCount <= 1 && f.grammarErrors < 3 {
		return "high"
	}
	if f.exclamations > 3 || f.urgentCount > 2 {
		return "low"
	}
	return "medium"
}

func inferScriptType(f features) string {
	scores := map[string]int{"bank": 0, "hr": 0, "crypto": 0, "delivery": 0}
	if f.hasOTP {
		scores["bank"] += 3
	}
	if f.hasKYC {
		scores["bank"] += 2
	}
	if f.hasBank {
		scores["bank"] += 2
	}
	if f.hasCard {
		scores["bank"] += 2
	}
	if f.hasPaymentApp {
		scores["bank"]++
	}
	if f.authority {
		scores["bank"]++
	}
	if f.hasJob {
		scores["hr"] += 3
	}
	if f.formalPhrases {
		scores["hr"]++
	}
	if f.mixedLanguage {
		scores["hr"]++
	}
	if f.hasCrypto {
		scores["crypto"] += 3
	}
	if f.shortLink {
		scores["crypto"]++
	}
	if f.emojiCount > 2 {
		scores["crypto"]++
	}
	if f.capsAbuse > 0.1 {
		scores["crypto"]++
	}
	if f.hasDelivery {
		scores["delivery"] += 3
	}
	if f.linkPresent {
		scores["hr"]++
		scores["delivery"]++
	}
	if f.urgentCount > 0 {
		scores["delivery"]++
	}

	best, bestScore := "unknown", 0
	for _, name := range []string{"bank", "hr", "crypto", "delivery"} {
		if scores[name] > bestScore {
			best, bestScore = name, scores[name]
		}
	}
	if bestScore < 3 {
		return "unknown"
	}
	return best
}

func inferAggression(f features) float64 {
	score := float64(f.urgentCount)*0.2 + float64(f.exclamations)*0.1
	if f.threatWords {
		score += 0.3
	}
	if f.capsAbuse > 0.1 {
		score += 0.1
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

func inferAge(experience string, f features) string {
	if experience == "low" && f.emojiCount > 0 {
		return "18-25"
	}
	return "25-35"
}

func inferRegion(f features) string {
	if f.hasKYC || f.hasPaymentApp {
		return "South Asia"
	}
	if f.hasTax && f.authority {
		return "Government Impersonation"
	}
	return "Unknown"
}

func inferConfidence(f features) float64 {
	signals := 0
	for _, on := range []bool{
		f.hasOTP, f.hasKYC, f.hasCrypto, f.hasJob, f.hasDelivery,
		f.hasBank, f.hasCard, f.hasPaymentApp, f.authority, f.threatWords,
	} {
		if on {
			signals++
		}
	}
	c := 0.4 + float64(signals)*0.12
	if c > 0.9 {
		return 0.9
	}
	return c
}

func inferTactics(f features) []string {
	var tactics []string
	if f.urgentCount > 0 {
		tactics = append(tactics, "urgency")
	}
	if f.threatWords || f.authority {
		tactics = append(tactics, "fear")
	}
	if f.hasPrize {
		tactics = append(tactics, "greed")
	}
	if f.apkReference {
		tactics = append(tactics, "install prompt")
	}
	if f.shortLink || f.linkPresent {
		tactics = append(tactics, "link lure")
	}
	return tactics
}
