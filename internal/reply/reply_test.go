package reply

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/greyline-systems/honeytrap/internal/gemini"
	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
	"github.com/greyline-systems/honeytrap/internal/session"
	"github.com/greyline-systems/honeytrap/internal/strategy"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func candidate(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestLLMGenerator_StripsSpeakerPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(candidate("victim: uh wait one sec pls"))
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	g := NewLLMGenerator(llm, discardLogger())
	strat := strategy.Decision{NextGoal: strategy.GoalDelay, Method: strategy.MethodDelay}

	text, err := g.Generate(context.Background(), strat, profile.Persona{}, intel.Record{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "uh wait one sec pls" {
		t.Errorf("expected prefix stripped, got %q", text)
	}
}

func TestLLMGenerator_EmptyReplyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(candidate("   "))
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	g := NewLLMGenerator(llm, discardLogger())
	_, err := g.Generate(context.Background(), strategy.Decision{NextGoal: strategy.GoalDelay}, profile.Persona{}, intel.Record{}, nil)
	if err == nil {
		t.Fatal("expected error for empty reply")
	}
}

func TestLLMGenerator_WindowsHistory(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			gotPrompt = body.Contents[0].Parts[0].Text
		}
		json.NewEncoder(w).Encode(candidate("ok"))
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	var history []session.Message
	for i := 0; i < 10; i++ {
		history = append(history, session.Message{Sender: session.SenderScammer, Text: "msg", Timestamp: int64(i)})
	}
	history = append(history, session.Message{Sender: session.SenderScammer, Text: "latest threat", Timestamp: 11})

	g := NewLLMGenerator(llm, discardLogger())
	_, err := g.Generate(context.Background(), strategy.Decision{NextGoal: strategy.GoalDelay}, profile.Persona{}, intel.Record{}, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gotPrompt, "latest threat") {
		t.Error("expected latest message in prompt")
	}
	// Only the last 5 entries go into the prompt.
	if n := strings.Count(gotPrompt, "scammer: msg"); n != 4 {
		t.Errorf("expected 4 older messages in window, got %d", n)
	}
}

func TestStubGenerator_GoalLines(t *testing.T) {
	g := NewStubGenerator()

	for _, goal := range []strategy.Goal{
		strategy.GoalExtractUPI, strategy.GoalExtractLink, strategy.GoalExtractPhone,
		strategy.GoalDelay, strategy.GoalExitAndReport,
	} {
		text, err := g.Generate(context.Background(), strategy.Decision{NextGoal: goal}, profile.Persona{}, intel.Record{}, nil)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", goal, err)
		}
		if text == "" {
			t.Errorf("stub must never return empty for %q", goal)
		}
	}

	text, _ := g.Generate(context.Background(), strategy.Decision{NextGoal: strategy.Goal("unknown")}, profile.Persona{}, intel.Record{}, nil)
	if text != Fallback {
		t.Errorf("expected fallback for unknown goal, got %q", text)
	}
}
