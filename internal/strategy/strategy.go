package strategy

import (
	"strings"

	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
	"github.com/greyline-systems/honeytrap/internal/session"
)

// Goal is what the honeypot should try to accomplish on the next turn.
type Goal string

const (
	GoalExtractUPI    Goal = "extract_upi"
	GoalExtractLink   Goal = "extract_link"
	GoalExtractPhone  Goal = "extract_phone"
	GoalDelay         Goal = "delay"
	GoalExitAndReport Goal = "exit_and_report"
)

// IsExtraction reports whether the goal targets an intelligence category.
func (g Goal) IsExtraction() bool {
	return g == GoalExtractUPI || g == GoalExtractLink || g == GoalExtractPhone
}

type Method string

const (
	MethodConfusedCompliance Method = "confused_compliance"
	MethodClarification      Method = "clarification"
	MethodDelay              Method = "delay"
)

type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// Decision is the strategy engine's output for one turn. It is never
// persisted; only its effect on session state survives the turn.
type Decision struct {
	NextGoal  Goal   `json:"nextGoal"`
	Method    Method `json:"method"`
	RiskLevel Risk   `json:"riskLevel"`
}

type Config struct {
	MaxTurns         int
	RepetitionWindow int
	MinIntel         int
	SafetyKeywords   []string
}

func DefaultConfig() Config {
	return Config{
		MaxTurns:         12,
		RepetitionWindow: 3,
		MinIntel:         2,
		SafetyKeywords: []string{
			"install", "download", "click", "call immediately",
			"remote access", "anydesk", "teamviewer",
		},
	}
}

// Engine decides the next goal as a priority cascade; the first matching
// rule wins. It is a pure function of its inputs.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 12
	}
	if cfg.RepetitionWindow <= 0 {
		cfg.RepetitionWindow = 3
	}
	if cfg.MinIntel <= 0 {
		cfg.MinIntel = 2
	}
	if len(cfg.SafetyKeywords) == 0 {
		cfg.SafetyKeywords = DefaultConfig().SafetyKeywords
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Decide(persona profile.Persona, rec intel.Record, _ session.State, turnCount int, recent []string) Decision {
	// 1. Safety override: the scammer is pushing something dangerous.
	if e.highRisk(persona, rec) {
		return Decision{GoalExitAndReport, MethodDelay, RiskHigh}
	}

	// 2. Enough actionable identifiers collected.
	if rec.ActionableCount() >= e.cfg.MinIntel {
		return Decision{GoalExitAndReport, MethodDelay, RiskLow}
	}

	// 3. Turn budget exhausted.
	if turnCount >= e.cfg.MaxTurns {
		return Decision{GoalExitAndReport, MethodDelay, RiskMedium}
	}

	// 4. The scammer is looping; switch targets.
	if e.repetitionDetected(recent) {
		return e.alternate(rec)
	}

	// 5. Target the highest-priority missing category.
	return e.normal(rec)
}

func (e *Engine) highRisk(persona profile.Persona, rec intel.Record) bool {
	tactics := append(append([]string{}, rec.Tactics...), persona.Tactics...)
	for _, tactic := range tactics {
		lowered := strings.ToLower(tactic)
		for _, keyword := range e.cfg.SafetyKeywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) repetitionDetected(recent []string) bool {
	if len(recent) < e.cfg.RepetitionWindow {
		return false
	}
	window := recent[len(recent)-e.cfg.RepetitionWindow:]
	first := strings.ToLower(strings.TrimSpace(window[0]))
	for _, msg := range window[1:] {
		if strings.ToLower(strings.TrimSpace(msg)) != first {
			return false
		}
	}
	return true
}

func (e *Engine) normal(rec intel.Record) Decision {
	if rec.HasMissing(intel.CategoryUPI) {
		return Decision{GoalExtractUPI, MethodConfusedCompliance, RiskLow}
	}
	if rec.HasMissing(intel.CategoryLink) {
		return Decision{GoalExtractLink, MethodClarification, RiskMedium}
	}
	if rec.HasMissing(intel.CategoryPhone) {
		return Decision{GoalExtractPhone, MethodClarification, RiskMedium}
	}
	return Decision{GoalDelay, MethodDelay, RiskLow}
}

func (e *Engine) alternate(rec intel.Record) Decision {
	if rec.HasMissing(intel.CategoryPhone) {
		return Decision{GoalExtractPhone, MethodClarification, RiskMedium}
	}
	return Decision{GoalExitAndReport, MethodDelay, RiskMedium}
}
