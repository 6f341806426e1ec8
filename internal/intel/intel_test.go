package intel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/greyline-systems/honeytrap/internal/gemini"
)

func TestMerge_Monotonic(t *testing.T) {
	prev := Record{
		UPIIDs:       []string{"fraud@okbank"},
		PhoneNumbers: []string{"9876543210"},
		Tactics:      []string{"urgency"},
	}
	newer := Record{
		UPIIDs:      []string{"fraud@okbank", "second@paytm"},
		Tactics:     []string{"fear"},
		MissingInfo: []string{CategoryLink, CategoryBank},
	}

	merged := prev.Merge(newer)

	if len(merged.UPIIDs) != 2 {
		t.Errorf("expected 2 upi ids, got %v", merged.UPIIDs)
	}
	if len(merged.PhoneNumbers) != 1 {
		t.Errorf("phone numbers must survive a merge that omits them, got %v", merged.PhoneNumbers)
	}
	if len(merged.Tactics) != 2 {
		t.Errorf("expected tactics union, got %v", merged.Tactics)
	}
	if len(merged.MissingInfo) != 2 {
		t.Errorf("expected missing info from newer record, got %v", merged.MissingInfo)
	}
}

func TestMerge_RejectsUnknownCategories(t *testing.T) {
	merged := Record{}.Merge(Record{
		MissingInfo: []string{CategoryUPI, "credit_score", "email"},
	})

	if len(merged.MissingInfo) != 1 || merged.MissingInfo[0] != CategoryUPI {
		t.Errorf("expected unknown categories rejected, got %v", merged.MissingInfo)
	}
}

func TestSaturation(t *testing.T) {
	r := Record{
		UPIIDs:       []string{"a@b"},
		PhoneNumbers: []string{"9876543210"},
	}
	if got := r.Saturation(); got != 0.5 {
		t.Errorf("expected saturation 0.5, got %f", got)
	}

	full := Record{
		UPIIDs:        []string{"a@b"},
		BankAccounts:  []string{"123456789012"},
		PhoneNumbers:  []string{"9876543210"},
		PhishingLinks: []string{"http://bad.example"},
	}
	if got := full.Saturation(); got != 1.0 {
		t.Errorf("expected saturation 1.0, got %f", got)
	}

	if got := (Record{}).Saturation(); got != 0 {
		t.Errorf("expected saturation 0 for empty record, got %f", got)
	}
}

func TestActionableCount(t *testing.T) {
	r := Record{
		UPIIDs:        []string{"a@b"},
		BankAccounts:  []string{"123456789012"},
		PhishingLinks: []string{"http://bad.example"},
	}
	if got := r.ActionableCount(); got != 2 {
		t.Errorf("links are not actionable; expected 2, got %d", got)
	}
}

func TestRegexExtractor(t *testing.T) {
	e := NewRegexExtractor()

	rec, err := e.Extract(context.Background(),
		"pay to winner@okaxis or call 9876543210 now. verify at https://secure-kyc.example/verify URGENT", Record{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.UPIIDs) != 1 || rec.UPIIDs[0] != "winner@okaxis" {
		t.Errorf("expected upi id winner@okaxis, got %v", rec.UPIIDs)
	}
	if len(rec.PhoneNumbers) != 1 || rec.PhoneNumbers[0] != "9876543210" {
		t.Errorf("expected phone 9876543210, got %v", rec.PhoneNumbers)
	}
	if len(rec.PhishingLinks) != 1 {
		t.Errorf("expected one link, got %v", rec.PhishingLinks)
	}
	hasUrgency := false
	for _, tac := range rec.Tactics {
		if tac == "urgency" {
			hasUrgency = true
		}
	}
	if !hasUrgency {
		t.Errorf("expected urgency tactic, got %v", rec.Tactics)
	}

	// bank_account remains missing, the rest were found
	if !rec.HasMissing(CategoryBank) {
		t.Errorf("expected bank_account missing, got %v", rec.MissingInfo)
	}
	if rec.HasMissing(CategoryUPI) {
		t.Errorf("upi_id should not be missing, got %v", rec.MissingInfo)
	}
}

func TestRegexExtractor_SafetyTactics(t *testing.T) {
	e := NewRegexExtractor()

	rec, err := e.Extract(context.Background(), "please install anydesk app for verification", Record{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var anydesk, install bool
	for _, tac := range rec.Tactics {
		switch tac {
		case "remote access via anydesk":
			anydesk = true
		case "install prompt":
			install = true
		}
	}
	if !anydesk || !install {
		t.Errorf("expected anydesk and install tactics, got %v", rec.Tactics)
	}
}

func TestLLMExtractor_MergesAndFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		found, _ := json.Marshal(Record{
			UPIIDs:      []string{"scam@upi"},
			Tactics:     []string{"urgency"},
			MissingInfo: []string{CategoryPhone, CategoryLink, CategoryBank},
		})
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "```json\n" + string(found) + "\n```"}}}},
			},
		})
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	e := NewLLMExtractor(llm, discardLogger())
	prev := Record{PhoneNumbers: []string{"9876543210"}}

	rec, err := e.Extract(context.Background(), "send to scam@upi fast", prev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.UPIIDs) != 1 || rec.UPIIDs[0] != "scam@upi" {
		t.Errorf("expected extracted upi id, got %v", rec.UPIIDs)
	}
	if len(rec.PhoneNumbers) != 1 {
		t.Errorf("previous phone number lost in merge: %v", rec.PhoneNumbers)
	}
}

func TestLLMExtractor_ReturnsPrevOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	e := NewLLMExtractor(llm, discardLogger())
	prev := Record{UPIIDs: []string{"kept@upi"}}

	rec, err := e.Extract(context.Background(), "anything", prev)
	if err == nil {
		t.Fatal("expected error from failing backend")
	}
	if len(rec.UPIIDs) != 1 || rec.UPIIDs[0] != "kept@upi" {
		t.Errorf("expected previous record returned on failure, got %v", rec.UPIIDs)
	}
}
