package entity

import (
	"time"

	"github.com/google/uuid"
)

// Dates are calendar days in "YYYY-MM-DD" form
const DateLayout = "2006-01-02"

type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CurrentStreak  int       `json:"current_streak"`
	BestStreak     int       `json:"best_streak"`
	LastStreakDate *string   `json:"last_streak_date,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"uid"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DueTime     *string    `json:"due_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type WorkoutType struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Name      string    `json:"name"`
	IsWeekly  bool      `json:"is_weekly"`
	MaxTime   *int      `json:"max_time,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Exercise struct {
	ID            uuid.UUID `json:"id"`
	WorkoutTypeID uuid.UUID `json:"workout_type_id"`
	Name          string    `json:"name"`
	Sets          *int      `json:"sets,omitempty"`
	Reps          *int      `json:"reps,omitempty"`
	Duration      *string   `json:"duration,omitempty"`
	// nil means every day
	DayOfWeek  *int      `json:"day_of_week,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

type MindExercise struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"uid"`
	Name       string    `json:"name"`
	Time       string    `json:"time"`
	Duration   *int      `json:"duration,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

type RoutineType string

const (
	RoutineMorning RoutineType = "morning"
	RoutineNight   RoutineType = "night"
	RoutineWeekly  RoutineType = "weekly"
)

type Routine struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"uid"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        RoutineType `json:"type"`
	DayOfWeek   *int        `json:"day_of_week,omitempty"`
	OrderIndex  int         `json:"order_index"`
	CreatedAt   time.Time   `json:"created_at"`
}

type DevGoalType string

const (
	DevGoalDaily   DevGoalType = "daily"
	DevGoalWeekly  DevGoalType = "weekly"
	DevGoalMonthly DevGoalType = "monthly"
	DevGoalYearly  DevGoalType = "yearly"
)

type DevGoal struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"uid"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Type        DevGoalType `json:"type"`
	TargetHours *int        `json:"target_hours,omitempty"`
	OrderIndex  int         `json:"order_index"`
	CreatedAt   time.Time   `json:"created_at"`
}

type DevGoalLog struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"uid"`
	DevGoalID  uuid.UUID `json:"dev_goal_id"`
	Date       string    `json:"date"`
	HoursSpent int       `json:"hours_spent"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
}

// LogKind selects one of the per-day completion log tables.
type LogKind string

const (
	LogWorkout LogKind = "workout"
	LogMind    LogKind = "mind"
	LogRoutine LogKind = "routine"
)

// CompletionLog is a per-date completion record of a definition: an exercise
// for workout logs, a mind exercise for mind logs, a routine for routine logs.
type CompletionLog struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"uid"`
	ParentID    uuid.UUID  `json:"parent_id"`
	Date        string     `json:"date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type WaterIntake struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Date      string    `json:"date"`
	Amount    int       `json:"amount"`
	Target    int       `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyPerformance is a cache of scores derived from the day's logs.
type DailyPerformance struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"uid"`
	Date         string    `json:"date"`
	TasksScore   int       `json:"tasks_score"`
	WorkoutScore int       `json:"workout_score"`
	MindScore    int       `json:"mind_score"`
	RoutineScore int       `json:"routine_score"`
	DevScore     int       `json:"dev_score"`
	OverallScore int       `json:"overall_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
