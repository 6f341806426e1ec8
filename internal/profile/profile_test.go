package profile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/greyline-systems/honeytrap/internal/gemini"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRuleProfiler_BankScript(t *testing.T) {
	p := NewRuleProfiler()

	persona, err := p.Profile(context.Background(), []string{
		"Dear customer, your bank account KYC is pending",
		"Share the OTP to avoid account suspension",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if persona.ScriptType != "bank" {
		t.Errorf("expected bank script, got %q", persona.ScriptType)
	}
	if persona.RegionHint != "South Asia" {
		t.Errorf("expected South Asia region hint for kyc, got %q", persona.RegionHint)
	}
	if persona.Confidence < 0.4 || persona.Confidence > 0.9 {
		t.Errorf("confidence out of range: %f", persona.Confidence)
	}
}

func TestRuleProfiler_Aggression(t *testing.T) {
	p := NewRuleProfiler()

	calm, _ := p.Profile(context.Background(), []string{"hello, how are you"})
	if calm.AggressionLevel != 0 {
		t.Errorf("expected zero aggression for calm message, got %f", calm.AggressionLevel)
	}

	hot, _ := p.Profile(context.Background(), []string{
		"URGENT!!! pay now immediately or your account will be blocked and police will arrest you!!!",
	})
	if hot.AggressionLevel < 0.5 {
		t.Errorf("expected high aggression, got %f", hot.AggressionLevel)
	}
	if hot.AggressionLevel > 1.0 {
		t.Errorf("aggression must be capped at 1.0, got %f", hot.AggressionLevel)
	}
}

func TestRuleProfiler_Tactics(t *testing.T) {
	p := NewRuleProfiler()

	persona, _ := p.Profile(context.Background(), []string{
		"you won a prize! claim urgent at http://bit.ly/xyz or it will be blocked",
	})

	want := map[string]bool{"urgency": false, "fear": false, "greed": false, "link lure": false}
	for _, tac := range persona.Tactics {
		if _, ok := want[tac]; ok {
			want[tac] = true
		}
	}
	for tac, seen := range want {
		if !seen {
			t.Errorf("expected tactic %q, got %v", tac, persona.Tactics)
		}
	}
}

func TestHybridProfiler_MergesByConfidence(t *testing.T) {
	llmPersona := Persona{
		AgeRange:         "30-40",
		GenderLikelihood: map[string]float64{"male": 0.5, "female": 0.5},
		ExperienceLevel:  "high",
		ScriptType:       "crypto",
		RegionHint:       "Eastern Europe",
		AggressionLevel:  0.9,
		Confidence:       0.95,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(llmPersona)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": string(body)}}}},
			},
		})
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	p := NewHybridProfiler(llm, discardLogger())
	persona, err := p.Profile(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The bland rule profile has low confidence, so the LLM's categorical
	// fields should win the merge.
	if persona.ScriptType != "crypto" {
		t.Errorf("expected llm script type to win, got %q", persona.ScriptType)
	}
	if persona.AgeRange != "30-40" {
		t.Errorf("expected llm age range to win, got %q", persona.AgeRange)
	}
	if persona.Confidence > 0.95 {
		t.Errorf("merged confidence must not exceed the higher input, got %f", persona.Confidence)
	}
	if persona.AggressionLevel <= 0.0 || persona.AggressionLevel > 0.9 {
		t.Errorf("expected weighted aggression in (0, 0.9], got %f", persona.AggressionLevel)
	}
}

func TestHybridProfiler_FallsBackToRules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	p := NewHybridProfiler(llm, discardLogger())
	persona, err := p.Profile(context.Background(), []string{"your bank account otp kyc"})
	if err != nil {
		t.Fatalf("fallback must not surface an error: %v", err)
	}
	if persona.ScriptType != "bank" {
		t.Errorf("expected rule profile on llm failure, got %q", persona.ScriptType)
	}
}
