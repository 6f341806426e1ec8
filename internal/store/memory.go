package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/greyline-systems/honeytrap/internal/session"
)

// Memory holds sessions in-process as serialized records, mirroring how the
// durable backend stores them so Get always hands back an independent copy.
// It does not enforce TTLs.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &sess, nil
}

func (m *Memory) Save(_ context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}

	m.mu.Lock()
	m.sessions[sess.ID] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
