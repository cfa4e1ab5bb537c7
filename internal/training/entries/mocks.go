package entries

import (
	"context"
	"sort"
	"sync"

	"github.com/bdjoric/fitlog/internal/training/sessions"
)

type repoMock struct {
	mutex   sync.Mutex
	entries map[int]TrainingEntry
	nextID  int
}

func newRepoMock() *repoMock {
	return &repoMock{
		entries: make(map[int]TrainingEntry),
		nextID:  1,
	}
}

func (r *repoMock) Add(_ context.Context, entry TrainingEntry) (*TrainingEntry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	entry.ID = r.nextID
	r.entries[entry.ID] = entry
	r.nextID++
	return &entry, nil
}

func (r *repoMock) Get(_ context.Context, id int, userID string) (*TrainingEntry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return nil, ErrEntryNotFound
	}
	return &entry, nil
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]TrainingEntry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	entries := make([]TrainingEntry, 0)
	for _, entry := range r.entries {
		if entry.UserID != params.UserID {
			continue
		}
		if params.SessionID != nil && entry.TrainingSessionID != *params.SessionID {
			continue
		}
		if params.ExerciseTypeID != nil && entry.ExerciseTypeID != *params.ExerciseTypeID {
			continue
		}
		if params.SessionStartFrom != nil && entry.SessionStart.Before(*params.SessionStartFrom) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (r *repoMock) Update(_ context.Context, entry *TrainingEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	current, ok := r.entries[entry.ID]
	if !ok || current.UserID != entry.UserID {
		return ErrEntryNotFound
	}
	r.entries[entry.ID] = *entry
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int, userID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

type sessionsMock struct {
	mutex    sync.Mutex
	sessions map[int]sessions.TrainingSession
}

func newSessionsMock() *sessionsMock {
	return &sessionsMock{
		sessions: make(map[int]sessions.TrainingSession),
	}
}

func (m *sessionsMock) add(session sessions.TrainingSession) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *sessionsMock) Get(_ context.Context, id int, userID string) (*sessions.TrainingSession, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	session, ok := m.sessions[id]
	if !ok || session.UserID != userID {
		return nil, sessions.ErrSessionNotFound
	}
	return &session, nil
}
