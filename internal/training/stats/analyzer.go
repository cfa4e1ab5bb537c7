package stats

import (
	"context"
	"sort"
	"time"

	"github.com/bdjoric/fitlog/internal/telemetry/tracing"
	"github.com/bdjoric/fitlog/internal/training/entries"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=stats_test

// DefaultDaysBack is the trailing window used when the client
// does not ask for a specific one.
const DefaultDaysBack = 28

type entriesLister interface {
	List(ctx context.Context, params entries.ListParams) ([]entries.TrainingEntry, error)
}

// ExerciseStat sums up one exercise type over the requested window.
type ExerciseStat struct {
	ExerciseTypeID   int     `json:"exerciseTypeId"`
	ExerciseTypeName string  `json:"exerciseTypeName"`
	TimesPerformed   int     `json:"timesPerformed"`
	TotalRepetitions int     `json:"totalRepetitions"`
	AverageWeight    float64 `json:"averageWeight"`
	MaxWeight        float64 `json:"maxWeight"`
}

// ExerciseHistory represents the history of one exercise type,
// so that for each training day we get the average weight and reps.
type ExerciseHistory struct {
	ExerciseTypeID int                    `json:"exerciseTypeId"`
	Stats          map[time.Time]DayStats `json:"stats"`
}

type DayStats struct {
	AvgWeight float64 `json:"avgWeight"`
	AvgReps   int     `json:"avgReps"`
	Sets      int     `json:"sets"`
}

type Analyzer struct {
	repo entriesLister

	// NowFunc is a field so tests can pin the clock.
	NowFunc func() time.Time
}

func NewAnalyzer(repo entriesLister) *Analyzer {
	return &Analyzer{
		repo:    repo,
		NowFunc: time.Now,
	}
}

// UserStats aggregates the user's entries per exercise type over the
// trailing daysBack window, ordered by exercise name.
func (a *Analyzer) UserStats(ctx context.Context, userID string, daysBack int) (_ []ExerciseStat, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.userStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}
	span.SetAttributes(attribute.Int("days_back", daysBack))

	from := a.NowFunc().AddDate(0, 0, -daysBack)
	userEntries, err := a.repo.List(ctx, entries.ListParams{
		UserID:           userID,
		SessionStartFrom: &from,
	})
	if err != nil {
		return nil, err
	}

	type2stat := make(map[int]*ExerciseStat)
	for _, entry := range userEntries {
		stat, ok := type2stat[entry.ExerciseTypeID]
		if !ok {
			stat = &ExerciseStat{
				ExerciseTypeID:   entry.ExerciseTypeID,
				ExerciseTypeName: entry.ExerciseName,
			}
			type2stat[entry.ExerciseTypeID] = stat
		}
		stat.TimesPerformed++
		stat.TotalRepetitions += entry.Sets * entry.Reps
		stat.AverageWeight += entry.Weight
		if entry.Weight > stat.MaxWeight {
			stat.MaxWeight = entry.Weight
		}
	}

	userStats := make([]ExerciseStat, 0, len(type2stat))
	for _, stat := range type2stat {
		stat.AverageWeight /= float64(stat.TimesPerformed)
		userStats = append(userStats, *stat)
	}

	sort.Slice(userStats, func(i, j int) bool {
		return userStats[i].ExerciseTypeName < userStats[j].ExerciseTypeName
	})

	return userStats, nil
}

// History returns per-day averages for a single exercise type,
// over the user's whole training log.
func (a *Analyzer) History(ctx context.Context, userID string, exerciseTypeID int) (_ *ExerciseHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_type_id", exerciseTypeID))

	userEntries, err := a.repo.List(ctx, entries.ListParams{
		UserID:         userID,
		ExerciseTypeID: &exerciseTypeID,
	})
	if err != nil {
		return nil, err
	}

	day2entries := make(map[time.Time][]entries.TrainingEntry)
	for _, entry := range userEntries {
		day := entry.SessionStart.Truncate(24 * time.Hour)
		day2entries[day] = append(day2entries[day], entry)
	}

	history := &ExerciseHistory{
		ExerciseTypeID: exerciseTypeID,
		Stats:          make(map[time.Time]DayStats),
	}
	for day, dayEntries := range day2entries {
		var weightSum float64
		var repsSum, setsSum int
		for _, entry := range dayEntries {
			weightSum += entry.Weight
			repsSum += entry.Reps
			setsSum += entry.Sets
		}
		history.Stats[day] = DayStats{
			AvgWeight: weightSum / float64(len(dayEntries)),
			AvgReps:   repsSum / len(dayEntries),
			Sets:      setsSum,
		}
	}

	return history, nil
}
