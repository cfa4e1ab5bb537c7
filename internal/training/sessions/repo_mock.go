package sessions

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mutex    sync.Mutex
	sessions map[int]TrainingSession
	nextID   int
}

func newRepoMock() *repoMock {
	return &repoMock{
		sessions: make(map[int]TrainingSession),
		nextID:   1,
	}
}

func (r *repoMock) Add(_ context.Context, session TrainingSession) (*TrainingSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	session.ID = r.nextID
	r.sessions[session.ID] = session
	r.nextID++
	return &session, nil
}

func (r *repoMock) Get(_ context.Context, id int, userID string) (*TrainingSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (r *repoMock) List(_ context.Context, userID string) ([]TrainingSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	sessions := make([]TrainingSession, 0)
	for _, session := range r.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	return sessions, nil
}

func (r *repoMock) Update(_ context.Context, session *TrainingSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	current, ok := r.sessions[session.ID]
	if !ok || current.UserID != session.UserID {
		return ErrSessionNotFound
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int, userID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}
