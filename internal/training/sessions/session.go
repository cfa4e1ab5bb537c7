package sessions

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("training session not found")
	ErrValidation      = errors.New("training session validation failed")
)

// TrainingSession is a single visit to the gym: a time range owned by one user.
// The owner is never serialized, clients only ever see their own sessions.
type TrainingSession struct {
	ID        int       `json:"id"`
	UserID    string    `json:"-"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type NewSession struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}
