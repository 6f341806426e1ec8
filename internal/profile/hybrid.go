package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/greyline-systems/honeytrap/internal/gemini"
)

const llmSystemPrompt = `You are a cyber-security analyst. Analyze the conversation transcript of a scammer and infer their persona.

Return ONLY a JSON object strictly matching this schema:
{
  "age_range": "string (e.g. 20-30)",
  "gender_likelihood": {"male": 0.0, "female": 0.0},
  "experience_level": "low | medium | high",
  "script_type": "bank | hr | crypto | delivery | unknown",
  "region_hint": "string",
  "aggression_level": 0.0,
  "confidence": 0.0
}`

// HybridProfiler combines the deterministic rule profiler with an LLM
// profile, merged by confidence weighting. The LLM side is optional; when it
// fails or is absent the rule profile is used alone.
type HybridProfiler struct {
	rules  *RuleProfiler
	llm    *gemini.Client
	logger *slog.Logger
}

func NewHybridProfiler(llm *gemini.Client, logger *slog.Logger) *HybridProfiler {
	return &HybridProfiler{rules: NewRuleProfiler(), llm: llm, logger: logger}
}

func (p *HybridProfiler) Profile(ctx context.Context, messages []string) (Persona, error) {
	rulePersona, _ := p.rules.Profile(ctx, messages)
	if p.llm == nil {
		return rulePersona, nil
	}

	llmPersona, err := p.llmProfile(ctx, messages)
	if err != nil {
		p.logger.Warn("llm profiling failed, using rule profile", "error", err)
		return rulePersona, nil
	}

	return mergePersonas(rulePersona, llmPersona), nil
}

func (p *HybridProfiler) llmProfile(ctx context.Context, messages []string) (Persona, error) {
	raw, err := p.llm.Complete(ctx, llmSystemPrompt, strings.Join(messages, "\n"), 0.1)
	if err != nil {
		return Persona{}, fmt.Errorf("llm profile: %w", err)
	}

	var persona Persona
	if err := json.Unmarshal([]byte(gemini.StripCodeFence(raw)), &persona); err != nil {
		return Persona{}, fmt.Errorf("parse profile: %w", err)
	}
	return persona, nil
}

func mergePersonas(rule, llm Persona) Persona {
	pickByConfidence := func(rv, lv string) string {
		if rule.Confidence >= llm.Confidence {
			return rv
		}
		return lv
	}

	gender := map[string]float64{}
	for _, g := range []string{"male", "female"} {
		gender[g] = weightedAvg(rule.GenderLikelihood[g], rule.Confidence, llm.GenderLikelihood[g], llm.Confidence)
	}

	confidence := weightedAvg(rule.Confidence, rule.Confidence, llm.Confidence, llm.Confidence)
	if ceiling := max(rule.Confidence, llm.Confidence); confidence > ceiling {
		confidence = ceiling
	}

	return Persona{
		AgeRange:         pickByConfidence(rule.AgeRange, llm.AgeRange),
		GenderLikelihood: gender,
		ExperienceLevel:  pickByConfidence(rule.ExperienceLevel, llm.ExperienceLevel),
		ScriptType:       pickByConfidence(rule.ScriptType, llm.ScriptType),
		RegionHint:       pickByConfidence(rule.RegionHint, llm.RegionHint),
		AggressionLevel:  weightedAvg(rule.AggressionLevel, rule.Confidence, llm.AggressionLevel, llm.Confidence),
		Confidence:       confidence,
		Tactics:          rule.Tactics,
	}
}

func weightedAvg(v1, c1, v2, c2 float64) float64 {
	if c1+c2 == 0 {
		return 0
	}
	return (v1*c1 + v2*c2) / (c1 + c2)
}
