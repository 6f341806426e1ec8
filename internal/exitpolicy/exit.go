// Package exitpolicy decides whether and how a honeypot conversation should
// end. Evaluate is a pure function: identical inputs always yield an
// identical decision, including the metrics vector.
package exitpolicy

import (
	"strings"

	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/session"
	"github.com/greyline-systems/honeytrap/internal/strategy"
)

// Phase is the termination mode chosen for the conversation.
type Phase string

const (
	PhaseContinue            Phase = "CONTINUE"
	PhaseSoftExit            Phase = "SOFT_EXIT"
	PhaseControlledBreakdown Phase = "CONTROLLED_BREAKDOWN"
	PhaseTerminate           Phase = "TERMINATE"
)

// Decision carries the termination verdict plus the raw signals that led to
// it, for observability and tests.
type Decision struct {
	ShouldExit bool               `json:"shouldExit"`
	Phase      Phase              `json:"exitPhase"`
	Reason     string             `json:"reason"`
	Metrics    map[string]float64 `json:"metrics"`
}

const (
	maxTurnLimit         = 20
	saturationThreshold  = 0.8
	saturationMinTurns   = 10
	repetitionThreshold  = 0.7
	frustrationThreshold = 0.8
)

var frustrationKeywords = []string{
	"fast", "now", "hurry", "quick", "urgent",
	"police", "arrest", "blocked", "immediately",
}

// Evaluate computes the exit signals and applies the decision cascade; the
// first matching branch wins. Every branch populates the metrics vector.
func Evaluate(sess *session.Session, rec intel.Record, strat strategy.Decision) Decision {
	scammerMsgs := sess.ScammerTexts()

	repetition := repetitionSignal(scammerMsgs)
	saturation := rec.Saturation()
	frustration := frustrationSignal(scammerMsgs)

	metrics := map[string]float64{
		"repetition":       repetition,
		"intel_saturation": saturation,
		"frustration":      frustration,
		"turns":            float64(sess.TurnCount),
	}

	if sess.TurnCount >= maxTurnLimit {
		return Decision{true, PhaseTerminate, "maximum turn limit reached", metrics}
	}

	if saturation > saturationThreshold && sess.TurnCount > saturationMinTurns {
		return Decision{true, PhaseSoftExit, "intelligence goals achieved", metrics}
	}

	if repetition > repetitionThreshold || frustration > frustrationThreshold {
		return Decision{true, PhaseControlledBreakdown, "scammer aggression or circular loop detected", metrics}
	}

	if strat.NextGoal == strategy.GoalExitAndReport {
		return Decision{true, PhaseSoftExit, "strategy agent requested exit", metrics}
	}

	return Decision{false, PhaseContinue, "conversation in progress", metrics}
}

// repetitionSignal measures how circular the scammer's side has become:
// among the prior utterances, how many are substring-related to the latest
// one (either contains the other), normalized by 5 and capped at 1. Needs at
// least 3 scammer utterances. Substring containment over-triggers on short
// common phrases like "ok"; the rule is kept as-is for compatibility with
// the thresholds above.
func repetitionSignal(scammerMsgs []string) float64 {
	if len(scammerMsgs) < 3 {
		return 0
	}

	lowered := make([]string, len(scammerMsgs))
	for i, m := range scammerMsgs {
		lowered[i] = strings.ToLower(m)
	}

	last := lowered[len(lowered)-1]
	similar := 0
	for _, m := range lowered[:len(lowered)-1] {
		if strings.Contains(m, last) || strings.Contains(last, m) {
			similar++
		}
	}

	signal := float64(similar) / 5.0
	if signal > 1 {
		return 1
	}
	return signal
}

// frustrationSignal counts urgency/threat keywords in the single most recent
// scammer utterance, normalized by 3 and capped at 1.
func frustrationSignal(scammerMsgs []string) float64 {
	if len(scammerMsgs) == 0 {
		return 0
	}

	latest := strings.ToLower(scammerMsgs[len(scammerMsgs)-1])
	matches := 0
	for _, word := range frustrationKeywords {
		if strings.Contains(latest, word) {
			matches++
		}
	}

	signal := float64(matches) / 3.0
	if signal > 1 {
		return 1
	}
	return signal
}
