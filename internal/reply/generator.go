package reply

import (
	"context"

	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
	"github.com/greyline-systems/honeytrap/internal/session"
	"github.com/greyline-systems/honeytrap/internal/strategy"
)

// Fallback is the low-content filler substituted when generation fails.
const Fallback = "im a bit confused what should i do next"

// Generator produces the victim's next utterance. Implementations must never
// return an empty string alongside a nil error.
type Generator interface {
	Generate(ctx context.Context, strat strategy.Decision, persona profile.Persona, rec intel.Record, history []session.Message) (string, error)
}
