package reply

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/greyline-systems/honeytrap/internal/gemini"
	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
	"github.com/greyline-systems/honeytrap/internal/session"
	"github.com/greyline-systems/honeytrap/internal/strategy"
)

const historyWindow = 5

// LLMGenerator produces victim replies with Gemini using the persona prompt.
type LLMGenerator struct {
	llm    *gemini.Client
	logger *slog.Logger
}

func NewLLMGenerator(llm *gemini.Client, logger *slog.Logger) *LLMGenerator {
	return &LLMGenerator{llm: llm, logger: logger}
}

func (g *LLMGenerator) Generate(ctx context.Context, strat strategy.Decision, persona profile.Persona, rec intel.Record, history []session.Message) (string, error) {
	known, _ := json.Marshal(map[string][]string{
		"upi_ids":        rec.UPIIDs,
		"bank_accounts":  rec.BankAccounts,
		"phone_numbers":  rec.PhoneNumbers,
		"phishing_links": rec.PhishingLinks,
	})

	scriptType := persona.ScriptType
	if scriptType == "" {
		scriptType = "unknown"
	}

	system := fmt.Sprintf(victimSystemPrompt,
		scriptType,
		string(known),
		strings.Join(rec.MissingInfo, ", "),
		strat.NextGoal,
		strat.Method,
	)

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	var lines []string
	for _, m := range window {
		lines = append(lines, m.Sender+": "+m.Text)
	}

	raw, err := g.llm.Complete(ctx, system, fmt.Sprintf(historyPromptTemplate, strings.Join(lines, "\n")), 0.65)
	if err != nil {
		return "", fmt.Errorf("llm reply: %w", err)
	}

	text := strings.TrimSpace(raw)
	// Strip a "victim:"-style prefix the model sometimes adds.
	if idx := strings.Index(text, ":"); idx >= 0 && idx < 10 {
		text = strings.TrimSpace(text[idx+1:])
	}
	if text == "" {
		return "", fmt.Errorf("empty reply from model")
	}
	return text, nil
}
