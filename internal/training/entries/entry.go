package entries

import (
	"errors"
	"time"
)

var (
	ErrEntryNotFound   = errors.New("training entry not found")
	ErrSessionNotOwned = errors.New("training session not found")
	ErrValidation      = errors.New("training entry validation failed")
)

// TrainingEntry is one exercise performed within a training session:
// the weight moved, and how many sets of how many repetitions.
type TrainingEntry struct {
	ID                int     `json:"id"`
	UserID            string  `json:"-"`
	TrainingSessionID int     `json:"trainingSessionId"`
	ExerciseTypeID    int     `json:"exerciseTypeId"`
	Weight            float64 `json:"weight"`
	Sets              int     `json:"sets"`
	Reps              int     `json:"reps"`

	// joined in from exercise_type and training_session
	ExerciseName string    `json:"exerciseName,omitempty"`
	SessionStart time.Time `json:"sessionStart"`
}

type NewEntry struct {
	TrainingSessionID int     `json:"trainingSessionId"`
	ExerciseTypeID    int     `json:"exerciseTypeId"`
	Weight            float64 `json:"weight"`
	Sets              int     `json:"sets"`
	Reps              int     `json:"reps"`
}
