// Package scoring turns one user-day of logs into 0-100 category scores.
// Every function is total: an empty denominator scores 0.
package scoring

import (
	"github.com/google/uuid"
	"github.com/limbo/discipline/pkg/entity"
)

const MaxScore = 100

// Percent returns round(100*num/den) with halves rounded away from zero.
// num is clamped to [0, den].
func Percent(num, den int) int {
	if den <= 0 || num <= 0 {
		return 0
	}
	if num > den {
		num = den
	}
	return (2*MaxScore*num + den) / (2 * den)
}

func Tasks(tasks []entity.Task) int {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return Percent(completed, len(tasks))
}

// Workout counts log rows, not scheduled exercises.
func Workout(logs []entity.CompletionLog) int {
	return Percent(countCompleted(logs), len(logs))
}

// Mind divides by every mind exercise the user has defined.
func Mind(logs []entity.CompletionLog, exercises []entity.MindExercise) int {
	return Percent(countCompleted(logs), len(exercises))
}

// Routine divides by today's relevant routines: all morning and night routines
// plus weekly routines scheduled on weekday (0 = Sunday).
func Routine(logs []entity.CompletionLog, routines []entity.Routine, weekday int) int {
	relevant := make(map[uuid.UUID]struct{}, len(routines))
	for _, r := range routines {
		if RoutineRelevant(r, weekday) {
			relevant[r.ID] = struct{}{}
		}
	}
	completed := 0
	for _, l := range logs {
		if _, ok := relevant[l.ParentID]; ok && l.Completed {
			completed++
		}
	}
	return Percent(completed, len(relevant))
}

func RoutineRelevant(r entity.Routine, weekday int) bool {
	switch r.Type {
	case entity.RoutineMorning, entity.RoutineNight:
		return true
	case entity.RoutineWeekly:
		return r.DayOfWeek != nil && *r.DayOfWeek == weekday
	default:
		return false
	}
}

// Dev only looks at daily goals.
func Dev(logs []entity.DevGoalLog, goals []entity.DevGoal) int {
	daily := make(map[uuid.UUID]struct{}, len(goals))
	for _, g := range goals {
		if g.Type == entity.DevGoalDaily {
			daily[g.ID] = struct{}{}
		}
	}
	completed := 0
	for _, l := range logs {
		if _, ok := daily[l.DevGoalID]; ok && l.Completed {
			completed++
		}
	}
	return Percent(completed, len(daily))
}

// Scores holds the five category scores of a day.
type Scores struct {
	Tasks   int
	Workout int
	Mind    int
	Routine int
	Dev     int
}

// Overall is the rounded mean over all five categories, empty ones included.
// A day without any rows at all scores 0.
func (s Scores) Overall(hasAnyActivity bool) int {
	if !hasAnyActivity {
		return 0
	}
	sum := s.Tasks + s.Workout + s.Mind + s.Routine + s.Dev
	return (2*sum + 5) / 10
}

func countCompleted(logs []entity.CompletionLog) int {
	n := 0
	for _, l := range logs {
		if l.Completed {
			n++
		}
	}
	return n
}
