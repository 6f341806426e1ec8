package intel

import (
	"context"
	"regexp"
	"strings"
)

var (
	upiPattern   = regexp.MustCompile(`\b[a-zA-Z0-9][a-zA-Z0-9._-]+@[a-zA-Z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(?:\+91[\s-]?)?\b[6-9]\d{9}\b`)
	linkPattern  = regexp.MustCompile(`https?://[^\s<>"]+`)
	bankPattern  = regexp.MustCompile(`\b\d{11,18}\b`)
)

// Tactic labels are matched verbatim against the strategy engine's safety
// keywords, so the risky ones carry the triggering keyword in the label.
var tacticKeywords = []struct {
	keyword string
	label   string
}{
	{"anydesk", "remote access via anydesk"},
	{"teamviewer", "remote access via teamviewer"},
	{"remote access", "remote access request"},
	{"install", "install prompt"},
	{"download", "download prompt"},
	{"click", "click bait"},
	{"urgent", "urgency"},
	{"immediately", "urgency"},
	{"hurry", "urgency"},
	{"police", "fear"},
	{"arrest", "fear"},
	{"blocked", "fear"},
	{"won", "greed"},
	{"prize", "greed"},
	{"lottery", "greed"},
}

// RegexExtractor is the deterministic extractor. It backs tests and serves
// as the offline implementation when no model key is configured.
type RegexExtractor struct{}

func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

func (e *RegexExtractor) Extract(_ context.Context, latest string, prev Record) (Record, error) {
	lowered := strings.ToLower(latest)

	found := Record{
		PhishingLinks: linkPattern.FindAllString(latest, -1),
		PhoneNumbers:  phonePattern.FindAllString(latest, -1),
	}

	// UPI handles look like emails; skip matches that are part of a URL.
	for _, m := range upiPattern.FindAllString(latest, -1) {
		if !strings.Contains(latest, "//"+m) && !strings.Contains(m, ".com") {
			found.UPIIDs = append(found.UPIIDs, m)
		}
	}

	// Long digit runs that are not phone numbers are treated as account numbers.
	for _, m := range bankPattern.FindAllString(latest, -1) {
		if !phonePattern.MatchString(m) {
			found.BankAccounts = append(found.BankAccounts, m)
		}
	}

	for _, tk := range tacticKeywords {
		if strings.Contains(lowered, tk.keyword) {
			found.Tactics = append(found.Tactics, tk.label)
		}
	}

	merged := prev.Merge(found)
	merged.MissingInfo = merged.ComputeMissing()
	return merged, nil
}
