package store

import (
	"context"
	"sync"

	"netwatch/internal/model"
)

// Retention limits for the in-memory store. These are memory bounds, not
// backpressure: writes are never rejected, the oldest entries are dropped
// instead.
const (
	MaxLogEntries      = 1000
	MaxExtensionEvents = 500
)

// Memory is the bounded in-process store. Each collection has its own
// mutex, so a blocklist read never waits on a log write, and no lock is
// ever held while taking another. All accessors trade in copies; callers
// never see a reference into live state.
type Memory struct {
	logsMu sync.Mutex
	logs   []model.LogEntry

	eventsMu sync.Mutex
	events   []model.ExtensionEvent

	blocklistMu sync.Mutex
	blocklist   model.Blocklist
}

// NewMemory returns a store seeded with the default blocklist.
func NewMemory() *Memory {
	return &Memory{
		blocklist: model.Blocklist{
			URLPatterns: []string{
				`.*tracker\..*`,
				`.*analytics\..*`,
				`.*doubleclick\..*`,
			},
			YouTubeChannels: []string{"@spam"},
		},
	}
}

// AddLog appends a batch and trims the sequence to the newest
// MaxLogEntries in the same critical section.
func (m *Memory) AddLog(_ context.Context, entry model.LogEntry) error {
	m.logsMu.Lock()
	defer m.logsMu.Unlock()

	m.logs = append(m.logs, entry.Clone())
	if n := len(m.logs); n > MaxLogEntries {
		m.logs = append(m.logs[:0], m.logs[n-MaxLogEntries:]...)
	}
	return nil
}

// GetLogs returns a copy of the stored batches, oldest first.
func (m *Memory) GetLogs(_ context.Context) ([]model.LogEntry, error) {
	m.logsMu.Lock()
	defer m.logsMu.Unlock()

	out := make([]model.LogEntry, len(m.logs))
	for i, entry := range m.logs {
		out[i] = entry.Clone()
	}
	return out, nil
}

// GetBlocklist returns a copy of the current blocklist.
func (m *Memory) GetBlocklist(_ context.Context) (model.Blocklist, error) {
	m.blocklistMu.Lock()
	defer m.blocklistMu.Unlock()

	return m.blocklist.Clone(), nil
}

// UpdateBlocklist replaces the blocklist wholesale. Patterns are stored
// verbatim; regex validity is the consumer's concern.
func (m *Memory) UpdateBlocklist(_ context.Context, bl model.Blocklist) error {
	m.blocklistMu.Lock()
	defer m.blocklistMu.Unlock()

	m.blocklist = bl.Clone()
	return nil
}

// AddExtensionEvent appends an event and trims the sequence to the newest
// MaxExtensionEvents in the same critical section.
func (m *Memory) AddExtensionEvent(_ context.Context, ev model.ExtensionEvent) error {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	m.events = append(m.events, ev.Clone())
	if n := len(m.events); n > MaxExtensionEvents {
		m.events = append(m.events[:0], m.events[n-MaxExtensionEvents:]...)
	}
	return nil
}

// GetExtensionEvents returns a copy of the stored events, oldest first.
func (m *Memory) GetExtensionEvents(_ context.Context) ([]model.ExtensionEvent, error) {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	out := make([]model.ExtensionEvent, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Clone()
	}
	return out, nil
}
