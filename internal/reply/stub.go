package reply

import (
	"context"

	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
	"github.com/greyline-systems/honeytrap/internal/session"
	"github.com/greyline-systems/honeytrap/internal/strategy"
)

var stubLines = map[strategy.Goal]string{
	strategy.GoalExtractUPI:    "uh wait how do i send it where exactly",
	strategy.GoalExtractLink:   "is that link safe i am scared to click",
	strategy.GoalExtractPhone:  "can i just call you pls what number",
	strategy.GoalDelay:         "sorry my net is very slow one sec",
	strategy.GoalExitAndReport: "i think i need some time my hands shaking",
}

// StubGenerator returns a canned goal-appropriate line. It is the offline
// implementation and the deterministic one used in tests.
type StubGenerator struct{}

func NewStubGenerator() *StubGenerator {
	return &StubGenerator{}
}

func (StubGenerator) Generate(_ context.Context, strat strategy.Decision, _ profile.Persona, _ intel.Record, _ []session.Message) (string, error) {
	if line, ok := stubLines[strat.NextGoal]; ok {
		return line, nil
	}
	return Fallback, nil
}
