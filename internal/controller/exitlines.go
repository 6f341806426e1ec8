package controller

import (
	"math/rand"

	"github.com/greyline-systems/honeytrap/internal/exitpolicy"
	"github.com/greyline-systems/honeytrap/internal/reply"
	"github.com/greyline-systems/honeytrap/internal/session"
)

// Fixed replies owned by the controller.
const (
	alreadyHandledReply = "Thank you. I've already handled this."
	repeatFallbackReply = "Sorry, could you repeat that?"
	terminateReply      = "wait something is wrong with my phone i will check and come back pls give me some time"
)

var softExitLines = []string{
	"my battery is about to die i will try again later pls",
	"someone at the door one min i come back",
	"i am getting late for work can we do this after some time",
	"net is not working properly here let me go outside and try",
	"my son is calling me i have to go now sorry",
	"bank app is showing error i will try from other phone later",
}

var breakdownLines = []string{
	"pls stop i am very scared now my hands shaking",
	"i dont understand anything anymore why this happening to me",
	"you keep saying same thing i already tried it did not work",
	"i am crying pls dont do police i am old person",
	"too much pressure i cant think pls give me one minute",
	"my head is spinning i dont know what to press anymore",
}

// pickExitLine draws a stalling line for the phase, never repeating a line
// within one session. The used set lives on the session record so the
// guarantee survives persistence.
func pickExitLine(sess *session.Session, phase exitpolicy.Phase) string {
	var pool []string
	switch phase {
	case exitpolicy.PhaseControlledBreakdown:
		pool = breakdownLines
	default:
		pool = softExitLines
	}

	var unused []string
	for _, line := range pool {
		if !sess.HasUsedExitLine(line) {
			unused = append(unused, line)
		}
	}
	if len(unused) == 0 {
		return reply.Fallback
	}

	line := unused[rand.Intn(len(unused))]
	sess.MarkExitLineUsed(line)
	return line
}
