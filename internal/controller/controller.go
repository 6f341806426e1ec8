// Package controller sequences one honeypot turn: load session, run the
// collaborator pipeline and the decision engines, apply the state
// transition, persist, and report terminal sessions. Exactly one save
// happens per processed message, and internal failures never reach the
// caller.
package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greyline-systems/honeytrap/internal/detect"
	"github.com/greyline-systems/honeytrap/internal/events"
	"github.com/greyline-systems/honeytrap/internal/exitpolicy"
	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
	"github.com/greyline-systems/honeytrap/internal/reply"
	"github.com/greyline-systems/honeytrap/internal/report"
	"github.com/greyline-systems/honeytrap/internal/session"
	"github.com/greyline-systems/honeytrap/internal/store"
	"github.com/greyline-systems/honeytrap/internal/strategy"
)

// Request is the transport-agnostic inbound contract.
type Request struct {
	SessionID string            `json:"sessionId"`
	Message   session.Message   `json:"message"`
	History   []session.Message `json:"conversationHistory"`
	Metadata  map[string]any    `json:"metadata"`
}

// Response is the caller-facing result. Status is always "success"; internal
// failures degrade to a safe reply.
type Response struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// Archiver persists final reports durably, beyond the session store's TTL.
type Archiver interface {
	SaveReport(ctx context.Context, sessionID string, rec intel.Record, turns int, scamType string) (uuid.UUID, error)
}

// EventSink publishes honeypot events.
type EventSink interface {
	Publish(subject string, data any) error
}

// Controller wires the collaborators and decision engines for turn
// processing. Reporter, archiver, and sink are optional.
type Controller struct {
	store     *store.Store
	detector  detect.Detector
	profiler  profile.Profiler
	extractor intel.Extractor
	generator reply.Generator
	strategy  *strategy.Engine
	reporter  report.Reporter
	archiver  Archiver
	sink      EventSink
	logger    *slog.Logger
	timeout   time.Duration
	locks     *sessionLocks
}

type Options struct {
	Store     *store.Store
	Detector  detect.Detector
	Profiler  profile.Profiler
	Extractor intel.Extractor
	Generator reply.Generator
	Strategy  *strategy.Engine
	Reporter  report.Reporter
	Archiver  Archiver
	Sink      EventSink
	Logger    *slog.Logger
	Timeout   time.Duration
}

func New(opts Options) *Controller {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Strategy == nil {
		opts.Strategy = strategy.New(strategy.DefaultConfig())
	}
	return &Controller{
		store:     opts.Store,
		detector:  opts.Detector,
		profiler:  opts.Profiler,
		extractor: opts.Extractor,
		generator: opts.Generator,
		strategy:  opts.Strategy,
		reporter:  opts.Reporter,
		archiver:  opts.Archiver,
		sink:      opts.Sink,
		logger:    opts.Logger,
		timeout:   opts.Timeout,
		locks:     newSessionLocks(),
	}
}

// turnResult carries what the pipeline decided, for events and reporting.
type turnResult struct {
	reply    string
	strategy strategy.Decision
	exit     exitpolicy.Decision
}

// ProcessMessage handles one inbound message end to end. Turns for the same
// session id are serialized; the lock covers load through save so a
// concurrent turn can never observe the same pre-update state.
func (c *Controller) ProcessMessage(ctx context.Context, req Request) Response {
	lock := c.locks.acquire(req.SessionID)
	defer c.locks.release(req.SessionID, lock)

	sess := c.store.Get(ctx, req.SessionID)

	// Idempotent short-circuit: a reported session mutates nothing.
	if sess.Reported {
		c.logger.Info("session already reported", "session_id", sess.ID)
		return Response{Status: "success", Reply: alreadyHandledReply}
	}

	sess.Append(session.SenderScammer, req.Message.Text, req.Message.Timestamp)

	result := c.orchestrate(ctx, sess, req)

	sess.Append(session.SenderHoneypot, result.reply, req.Message.Timestamp+1)
	sess.TurnCount++

	if ok := c.store.Save(ctx, sess); !ok {
		c.logger.Error("session save reported failure", "session_id", sess.ID)
	}

	c.publishTurn(sess, result)

	if sess.Reported {
		c.report(sess, result)
	}

	return Response{Status: "success", Reply: result.reply}
}

// orchestrate runs the collaborator pipeline and the decision engines for
// one turn and applies the state transition. Collaborator failures degrade
// to last-known-good values; a panic anywhere degrades to the fixed
// clarification reply.
func (c *Controller) orchestrate(ctx context.Context, sess *session.Session, req Request) (result turnResult) {
	result.reply = repeatFallbackReply
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("orchestration panic", "session_id", sess.ID, "panic", r)
			result.reply = repeatFallbackReply
		}
	}()

	text := req.Message.Text

	// Detection.
	det, err := c.detect(ctx, text, sess.History, req.Metadata)
	if err != nil {
		c.logger.Warn("detection failed, assuming not scam", "session_id", sess.ID, "error", err)
		det = detect.Result{ScamType: detect.TypeNone}
	}
	if det.IsScam && sess.ScamType == "" {
		sess.ScamType = det.ScamType
	}
	c.logger.Debug("turn stage", "stage", "detection", "session_id", sess.ID, "is_scam", det.IsScam, "scam_type", det.ScamType)

	scammerTexts := sess.ScammerTexts()

	// Profiling. The prior persona is kept when profiling fails.
	persona, err := c.profile(ctx, scammerTexts)
	if err != nil {
		c.logger.Warn("profiling failed, keeping prior persona", "session_id", sess.ID, "error", err)
		persona = sess.Persona
	}
	sess.Persona = persona
	c.logger.Debug("turn stage", "stage", "profiling", "session_id", sess.ID, "script_type", persona.ScriptType, "aggression", persona.AggressionLevel)

	// Intelligence extraction. Extractors return the prior record on error,
	// so intelligence never regresses.
	rec, err := c.extract(ctx, text, sess.Intelligence)
	if err != nil {
		c.logger.Warn("extraction failed, keeping prior intelligence", "session_id", sess.ID, "error", err)
		rec = sess.Intelligence
	}
	sess.Intelligence = rec
	c.logger.Debug("turn stage", "stage", "extraction", "session_id", sess.ID, "actionable", rec.ActionableCount())

	// Strategy.
	strat := c.strategy.Decide(persona, rec, sess.State, sess.TurnCount, scammerTexts)
	c.logger.Debug("turn stage", "stage", "strategy", "session_id", sess.ID, "goal", strat.NextGoal, "risk", strat.RiskLevel)

	// Reply generation.
	replyText, err := c.generate(ctx, strat, persona, rec, sess.History)
	if err != nil || replyText == "" {
		c.logger.Warn("reply generation failed, using filler", "session_id", sess.ID, "error", err)
		replyText = reply.Fallback
	}

	// Exit evaluation uses the already-updated intelligence and strategy.
	exitDec := exitpolicy.Evaluate(sess, rec, strat)
	c.logger.Debug("turn stage", "stage", "exit", "session_id", sess.ID, "phase", exitDec.Phase, "reason", exitDec.Reason, "metrics", exitDec.Metrics)

	// Exit override of the generated reply.
	switch exitDec.Phase {
	case exitpolicy.PhaseTerminate:
		replyText = terminateReply
	case exitpolicy.PhaseSoftExit, exitpolicy.PhaseControlledBreakdown:
		replyText = pickExitLine(sess, exitDec.Phase)
	}

	// State transition; the exit signal wins over progression.
	oldState := sess.State
	exitRequested := exitDec.ShouldExit || strat.NextGoal == strategy.GoalExitAndReport
	sess.Advance(det.IsScam, strat.NextGoal.IsExtraction(), exitRequested)
	if oldState != sess.State {
		c.logger.Info("state transition", "session_id", sess.ID, "from", oldState, "to", sess.State)
	}

	result.reply = replyText
	result.strategy = strat
	result.exit = exitDec
	return result
}

func (c *Controller) detect(ctx context.Context, text string, history []session.Message, metadata map[string]any) (detect.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.detector.Detect(ctx, text, history, metadata)
}

func (c *Controller) profile(ctx context.Context, messages []string) (profile.Persona, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.profiler.Profile(ctx, messages)
}

func (c *Controller) extract(ctx context.Context, text string, prev intel.Record) (intel.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.extractor.Extract(ctx, text, prev)
}

func (c *Controller) generate(ctx context.Context, strat strategy.Decision, persona profile.Persona, rec intel.Record, history []session.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.generator.Generate(ctx, strat, persona, rec, history)
}

// report notifies the reporting callback and the archive for a newly
// terminal session. Both are best-effort: failures are logged, never
// retried, and never affect the reply already computed.
func (c *Controller) report(sess *session.Session, result turnResult) {
	scamType := sess.ScamType
	if scamType == "" {
		scamType = "UNKNOWN"
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if c.reporter != nil {
		if err := c.reporter.Report(ctx, sess.ID, sess.Intelligence, sess.TurnCount, scamType); err != nil {
			c.logger.Error("report callback failed", "session_id", sess.ID, "error", err)
		}
	}

	if c.archiver != nil {
		if _, err := c.archiver.SaveReport(ctx, sess.ID, sess.Intelligence, sess.TurnCount, scamType); err != nil {
			c.logger.Error("report archive failed", "session_id", sess.ID, "error", err)
		}
	}

	if c.sink != nil {
		evt := events.ReportedEvent{
			EventID:   events.NewEventID(),
			SessionID: sess.ID,
			ScamType:  scamType,
			Turns:     sess.TurnCount,
			Reason:    result.exit.Reason,
			Timestamp: events.Timestamp(),
		}
		if err := c.sink.Publish(events.SubjectSessionReported, evt); err != nil {
			c.logger.Warn("failed to publish reported event", "session_id", sess.ID, "error", err)
		}
	}
}

func (c *Controller) publishTurn(sess *session.Session, result turnResult) {
	if c.sink == nil {
		return
	}
	evt := events.TurnEvent{
		EventID:   events.NewEventID(),
		SessionID: sess.ID,
		Turn:      sess.TurnCount,
		State:     string(sess.State),
		Goal:      string(result.strategy.NextGoal),
		ExitPhase: string(result.exit.Phase),
		Timestamp: events.Timestamp(),
	}
	if err := c.sink.Publish(events.SubjectTurnProcessed, evt); err != nil {
		c.logger.Warn("failed to publish turn event", "session_id", sess.ID, "error", err)
	}
}
