package profile

import "context"

// Persona describes the scammer on the other side of the conversation.
// It is overwritten each turn from the accumulated scammer utterances.
type Persona struct {
	AgeRange         string             `json:"age_range"`
	GenderLikelihood map[string]float64 `json:"gender_likelihood"`
	ExperienceLevel  string             `json:"experience_level"`
	ScriptType       string             `json:"script_type"`
	RegionHint       string             `json:"region_hint"`
	AggressionLevel  float64            `json:"aggression_level"`
	Confidence       float64            `json:"confidence"`
	Tactics          []string           `json:"tactics"`
}

// Profiler infers a persona from the scammer-side utterances so far.
type Profiler interface {
	Profile(ctx context.Context, messages []string) (Persona, error)
}
