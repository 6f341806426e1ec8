package detect

import (
	"context"
	"strings"

	"github.com/greyline-systems/honeytrap/internal/session"
)

// Scam type labels reported to the callback.
const (
	TypeUPIFraud  = "UPI_FRAUD"
	TypeBankFraud = "BANK_FRAUD"
	TypePhishing  = "PHISHING"
	TypeOther     = "OTHER"
	TypeNone      = "NONE"
)

// Result is the detection verdict for one inbound message.
type Result struct {
	IsScam     bool    `json:"isScam"`
	Confidence float64 `json:"confidence"`
	ScamType   string  `json:"scamType"`
}

// Detector classifies an inbound message as scam or not.
type Detector interface {
	Detect(ctx context.Context, text string, history []session.Message, metadata map[string]any) (Result, error)
}

var scamKeywords = []string{
	"upi", "bank", "account", "transfer", "payment",
	"link", "verify", "urgent", "prize", "won",
}

// KeywordDetector is the deterministic detector: simple keyword matching
// with a type guess. It backs tests and offline operation.
type KeywordDetector struct{}

func NewKeywordDetector() *KeywordDetector {
	return &KeywordDetector{}
}

func (KeywordDetector) Detect(_ context.Context, text string, _ []session.Message, _ map[string]any) (Result, error) {
	lowered := strings.ToLower(text)

	isScam := false
	for _, keyword := range scamKeywords {
		if strings.Contains(lowered, keyword) {
			isScam = true
			break
		}
	}
	if !isScam {
		return Result{IsScam: false, Confidence: 0.3, ScamType: TypeNone}, nil
	}

	scamType := TypeOther
	switch {
	case strings.Contains(lowered, "upi") || strings.Contains(lowered, "payment"):
		scamType = TypeUPIFraud
	case strings.Contains(lowered, "bank") || strings.Contains(lowered, "account"):
		scamType = TypeBankFraud
	case strings.Contains(lowered, "link") || strings.Contains(lowered, "verify"):
		scamType = TypePhishing
	}

	return Result{IsScam: true, Confidence: 0.85, ScamType: scamType}, nil
}
