package exercisetypes

// ExerciseType is global reference data, shared by all users and
// seeded via migrations. Not owned by anyone.
type ExerciseType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
