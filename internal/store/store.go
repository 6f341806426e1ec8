package store

import (
	"context"
	"log/slog"

	"github.com/greyline-systems/honeytrap/internal/session"
)

// Backend is a raw session backend. Implementations may fail; the Store
// wrapper is what gives callers the never-fail contract.
type Backend interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
	Delete(ctx context.Context, id string) error
}

// Store wraps a durable backend with an in-process fallback. When the
// durable backend is unreachable the store degrades to the fallback and
// logs; it never propagates a backend error to the caller. The fallback does
// not enforce TTLs.
type Store struct {
	primary  Backend
	fallback *Memory
	logger   *slog.Logger
}

// New builds a store over primary. primary may be nil, in which case the
// store runs purely in memory (degraded from the start).
func New(primary Backend, logger *slog.Logger) *Store {
	if primary == nil {
		logger.Warn("no durable backend configured, sessions are in-memory only")
	}
	return &Store{
		primary:  primary,
		fallback: NewMemory(),
		logger:   logger,
	}
}

// Get loads the session for id, or returns a freshly initialized session if
// it is absent or the backend fails. It never fails the caller.
func (s *Store) Get(ctx context.Context, id string) *session.Session {
	if s.primary != nil {
		sess, err := s.primary.Get(ctx, id)
		if err == nil {
			if sess != nil {
				return sess
			}
			s.logger.Info("creating new session", "session_id", id)
			return session.New(id)
		}
		s.logger.Error("session load failed, trying fallback", "session_id", id, "error", err)
	}

	sess, err := s.fallback.Get(ctx, id)
	if err == nil && sess != nil {
		return sess
	}
	s.logger.Info("creating new session", "session_id", id)
	return session.New(id)
}

// Save persists the session, reporting success. A durable-backend failure
// degrades to the fallback rather than failing the save.
func (s *Store) Save(ctx context.Context, sess *session.Session) bool {
	if s.primary != nil {
		err := s.primary.Save(ctx, sess)
		if err == nil {
			return true
		}
		s.logger.Error("session save failed, using fallback", "session_id", sess.ID, "error", err)
	}
	if err := s.fallback.Save(ctx, sess); err != nil {
		s.logger.Error("fallback save failed", "session_id", sess.ID, "error", err)
		return false
	}
	return true
}

// Delete removes the session from both backends. Best-effort, used for
// cleanup and tests.
func (s *Store) Delete(ctx context.Context, id string) {
	if s.primary != nil {
		if err := s.primary.Delete(ctx, id); err != nil {
			s.logger.Warn("session delete failed", "session_id", id, "error", err)
		}
	}
	_ = s.fallback.Delete(ctx, id)
}
