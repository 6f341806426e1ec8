package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// NATS subjects emitted by the honeypot.
const (
	SubjectSessionReported = "honeypot.session.reported"
	SubjectTurnProcessed   = "honeypot.turn.processed"
)

// TurnEvent is published after each processed turn.
type TurnEvent struct {
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	Turn      int    `json:"turn"`
	State     string `json:"state"`
	Goal      string `json:"goal"`
	ExitPhase string `json:"exit_phase"`
	Timestamp string `json:"timestamp"`
}

// ReportedEvent is published once when a session reaches REPORTED.
type ReportedEvent struct {
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	ScamType  string `json:"scam_type"`
	Turns     int    `json:"turns"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

// Publisher emits honeypot events to NATS. It is optional; the service runs
// without it.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

func (p *Publisher) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

// NewEventID returns a fresh id for an event payload.
func NewEventID() string {
	return uuid.New().String()
}

// Timestamp formats now for event payloads.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
