package exercisetypes

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mutex         sync.Mutex
	exerciseTypes map[int]ExerciseType
	nextID        int
}

func newRepoMock() *repoMock {
	return &repoMock{
		exerciseTypes: make(map[int]ExerciseType),
		nextID:        1,
	}
}

func (r *repoMock) Add(_ context.Context, name string) (*ExerciseType, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	exerciseType := ExerciseType{
		ID:   r.nextID,
		Name: name,
	}
	r.exerciseTypes[exerciseType.ID] = exerciseType
	r.nextID++
	return &exerciseType, nil
}

func (r *repoMock) Get(_ context.Context, id int) (*ExerciseType, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	exerciseType, ok := r.exerciseTypes[id]
	if !ok {
		return nil, ErrExerciseTypeNotFound
	}
	return &exerciseType, nil
}

func (r *repoMock) List(_ context.Context) ([]ExerciseType, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	exerciseTypes := make([]ExerciseType, 0, len(r.exerciseTypes))
	for _, exerciseType := range r.exerciseTypes {
		exerciseTypes = append(exerciseTypes, exerciseType)
	}
	sort.Slice(exerciseTypes, func(i, j int) bool {
		return exerciseTypes[i].Name < exerciseTypes[j].Name
	})
	return exerciseTypes, nil
}
