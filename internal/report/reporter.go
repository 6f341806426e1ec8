package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/greyline-systems/honeytrap/internal/intel"
)

// Reporter delivers the final extracted intelligence for a terminal session.
// Delivery is best-effort: the controller logs failures and never retries
// synchronously.
type Reporter interface {
	Report(ctx context.Context, sessionID string, rec intel.Record, turns int, scamType string) error
}

// Client posts final results to the reporting callback endpoint.
type Client struct {
	url    string
	apiKey string
	client *http.Client
	logger *slog.Logger
}

func NewClient(url, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type extractedIntelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

type payload struct {
	SessionID              string                `json:"sessionId"`
	ScamDetected           bool                  `json:"scamDetected"`
	TotalMessagesExchanged int                   `json:"totalMessagesExchanged"`
	ExtractedIntelligence  extractedIntelligence `json:"extractedIntelligence"`
	AgentNotes             string                `json:"agentNotes"`
}

func buildPayload(sessionID string, rec intel.Record, turns int, scamType string) payload {
	return payload{
		SessionID:              sessionID,
		ScamDetected:           true,
		TotalMessagesExchanged: turns,
		ExtractedIntelligence: extractedIntelligence{
			BankAccounts:       emptyNotNil(rec.BankAccounts),
			UPIIDs:             emptyNotNil(rec.UPIIDs),
			PhishingLinks:      emptyNotNil(rec.PhishingLinks),
			PhoneNumbers:       emptyNotNil(rec.PhoneNumbers),
			SuspiciousKeywords: emptyNotNil(rec.Tactics),
		},
		AgentNotes: fmt.Sprintf("Scam type: %s. Scammer used %s tactics.", scamType, strings.Join(rec.Tactics, ", ")),
	}
}

// Report sends the final result. When no API key is configured the POST is
// skipped with a warning, which keeps local runs from hitting the live
// endpoint.
func (c *Client) Report(ctx context.Context, sessionID string, rec intel.Record, turns int, scamType string) error {
	p := buildPayload(sessionID, rec, turns, scamType)

	if c.apiKey == "" {
		c.logger.Warn("callback api key not set, skipping report", "session_id", sessionID)
		return nil
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("callback status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Info("session reported", "session_id", sessionID, "turns", turns, "scam_type", scamType)
	return nil
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
