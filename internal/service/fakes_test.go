package service

import (
	"context"
	"sync"

	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/hub"
	"github.com/okaytrev/softball-lineup/internal/repository"
)

type fakeSheets struct {
	mu       sync.Mutex
	games    []domain.GameSubmission
	lineups  []domain.LineupSubmission
	rows     []domain.HistoricalStatRow
	last     *domain.LineupRecord
	saveErr  error
	loadErr  error
	lineErr  error
	duringFn func()
}

func (f *fakeSheets) SaveGameStats(_ context.Context, sub domain.GameSubmission) error {
	if f.duringFn != nil {
		f.duringFn()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.games = append(f.games, sub)
	return nil
}

func (f *fakeSheets) SaveLineup(_ context.Context, sub domain.LineupSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.lineups = append(f.lineups, sub)
	return nil
}

func (f *fakeSheets) LoadLineup(context.Context) (*domain.LineupRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lineErr != nil {
		return nil, f.lineErr
	}
	return f.last, nil
}

func (f *fakeSheets) LoadStats(context.Context) ([]domain.HistoricalStatRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.rows, nil
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	puts   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string][]byte)}
}

func (m *memoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []hub.Event
}

func (c *capturePublisher) Publish(ev hub.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *capturePublisher) types() []hub.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []hub.EventType
	for _, ev := range c.events {
		out = append(out, ev.Type)
	}
	return out
}
