package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/greyline-systems/honeytrap/internal/gemini"
)

// LLMExtractor extracts intelligence from scammer messages using Gemini.
type LLMExtractor struct {
	llm    *gemini.Client
	logger *slog.Logger
}

func NewLLMExtractor(llm *gemini.Client, logger *slog.Logger) *LLMExtractor {
	return &LLMExtractor{llm: llm, logger: logger}
}

func (e *LLMExtractor) Extract(ctx context.Context, latest string, prev Record) (Record, error) {
	known, err := json.Marshal(prev)
	if err != nil {
		return prev, fmt.Errorf("marshal context: %w", err)
	}

	prompt := fmt.Sprintf(userPromptTemplate, string(known), latest)

	raw, err := e.llm.Complete(ctx, systemPrompt, prompt, 0)
	if err != nil {
		return prev, fmt.Errorf("llm extraction: %w", err)
	}

	var found Record
	if err := json.Unmarshal([]byte(gemini.StripCodeFence(raw)), &found); err != nil {
		e.logger.Error("failed to parse extraction response", "error", err, "raw", raw)
		return prev, fmt.Errorf("parse extraction: %w", err)
	}

	merged := prev.Merge(found)
	if len(merged.MissingInfo) == 0 && merged.Saturation() < 1.0 {
		// The model sometimes omits missing_info entirely; recompute.
		merged.MissingInfo = merged.ComputeMissing()
	}

	e.logger.Debug("extraction complete",
		"upi_ids", len(merged.UPIIDs),
		"bank_accounts", len(merged.BankAccounts),
		"phone_numbers", len(merged.PhoneNumbers),
		"phishing_links", len(merged.PhishingLinks),
	)

	return merged, nil
}
