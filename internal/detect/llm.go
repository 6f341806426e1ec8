package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/greyline-systems/honeytrap/internal/gemini"
	"github.com/greyline-systems/honeytrap/internal/session"
)

const systemPrompt = `You are a scam detection system. Classify the latest message from an unknown sender, using the conversation history for context.

Scam categories: UPI_FRAUD, BANK_FRAUD, PHISHING, OTHER. Use NONE when the message is not a scam.

Return ONLY a JSON object:
{"isScam": true, "confidence": 0.0, "scamType": "UPI_FRAUD"}`

// LLMDetector classifies messages with Gemini.
type LLMDetector struct {
	llm    *gemini.Client
	logger *slog.Logger
}

func NewLLMDetector(llm *gemini.Client, logger *slog.Logger) *LLMDetector {
	return &LLMDetector{llm: llm, logger: logger}
}

func (d *LLMDetector) Detect(ctx context.Context, text string, history []session.Message, _ map[string]any) (Result, error) {
	var lines []string
	for _, m := range history {
		lines = append(lines, m.Sender+": "+m.Text)
	}
	prompt := fmt.Sprintf("HISTORY:\n%s\n\nLATEST MESSAGE:\n%s\n\nJSON OUTPUT:", strings.Join(lines, "\n"), text)

	raw, err := d.llm.Complete(ctx, systemPrompt, prompt, 0)
	if err != nil {
		return Result{}, fmt.Errorf("llm detection: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(gemini.StripCodeFence(raw)), &result); err != nil {
		d.logger.Error("failed to parse detection response", "error", err, "raw", raw)
		return Result{}, fmt.Errorf("parse detection: %w", err)
	}
	if !result.IsScam && result.ScamType == "" {
		result.ScamType = TypeNone
	}
	return result, nil
}
