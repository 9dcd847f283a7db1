package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/limbo/discipline/pkg/entity"
)

type CreateTaskRequest struct {
	Title   string  `validate:"required,max=200"`
	Date    string  `validate:"required,calendar_date"`
	DueTime *string `validate:"omitempty,clock_time"`
}

// Nil fields stay untouched
type UpdateTaskRequest struct {
	Title     *string `validate:"omitempty,min=1,max=200"`
	Completed *bool
	DueTime   *string `validate:"omitempty,clock_time"`
}

type CreateWorkoutTypeRequest struct {
	Name     string `validate:"required,max=100"`
	IsWeekly bool
	MaxTime  *int `validate:"omitempty,gte=0"`
}

type CreateExerciseRequest struct {
	Name       string  `validate:"required,max=100"`
	Sets       *int    `validate:"omitempty,gte=0"`
	Reps       *int    `validate:"omitempty,gte=0"`
	Duration   *string `validate:"omitempty,max=50"`
	DayOfWeek  *int    `validate:"omitempty,gte=0,lte=6"`
	OrderIndex int     `validate:"gte=0"`
}

type CreateMindExerciseRequest struct {
	Name       string `validate:"required,max=100"`
	Time       string `validate:"required,clock_time"`
	Duration   *int   `validate:"omitempty,gte=0"`
	OrderIndex int    `validate:"gte=0"`
}

type CreateRoutineRequest struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	Type        string `validate:"required,oneof=morning night weekly"`
	DayOfWeek   *int   `validate:"omitempty,gte=0,lte=6"`
	OrderIndex  int    `validate:"gte=0"`
}

type CreateDevGoalRequest struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=500"`
	Type        string `validate:"required,oneof=daily weekly monthly yearly"`
	TargetHours *int   `validate:"omitempty,gte=0"`
	OrderIndex  int    `validate:"gte=0"`
}

type LogCompletionRequest struct {
	ParentID  uuid.UUID `validate:"required"`
	Date      string    `validate:"required,calendar_date"`
	Completed bool
}

type PatchCompletionRequest struct {
	Completed *bool `validate:"required"`
}

type LogDevGoalRequest struct {
	DevGoalID  uuid.UUID `validate:"required"`
	Date       string    `validate:"required,calendar_date"`
	HoursSpent int       `validate:"gte=0"`
	Completed  bool
}

type PatchDevGoalLogRequest struct {
	HoursSpent *int `validate:"omitempty,gte=0"`
	Completed  *bool
}

type WaterIntakeRequest struct {
	Date   string `validate:"required,calendar_date"`
	Amount int    `validate:"gte=0"`
	// Falls back to the configured default target
	Target *int `validate:"omitempty,gt=0"`
}

type UserServiceI interface {
	// Returns the user, creating the row on first access
	EnsureUser(ctx context.Context, id uuid.UUID, name string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type TasksServiceI interface {
	CreateTask(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error)
	GetTasks(ctx context.Context, uid uuid.UUID, date string) ([]entity.Task, error)
	UpdateTask(ctx context.Context, uid, taskID uuid.UUID, req *UpdateTaskRequest) (*entity.Task, error)
	DeleteTask(ctx context.Context, uid, taskID uuid.UUID) error
}

type DefinitionsServiceI interface {
	CreateWorkoutType(ctx context.Context, uid uuid.UUID, req *CreateWorkoutTypeRequest) (*entity.WorkoutType, error)
	GetWorkoutTypes(ctx context.Context, uid uuid.UUID) ([]entity.WorkoutType, error)
	CreateExercise(ctx context.Context, uid, workoutTypeID uuid.UUID, req *CreateExerciseRequest) (*entity.Exercise, error)
	GetExercises(ctx context.Context, uid, workoutTypeID uuid.UUID) ([]entity.Exercise, error)
	CreateMindExercise(ctx context.Context, uid uuid.UUID, req *CreateMindExerciseRequest) (*entity.MindExercise, error)
	GetMindExercises(ctx context.Context, uid uuid.UUID) ([]entity.MindExercise, error)
	CreateRoutine(ctx context.Context, uid uuid.UUID, req *CreateRoutineRequest) (*entity.Routine, error)
	GetRoutines(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error)
	CreateDevGoal(ctx context.Context, uid uuid.UUID, req *CreateDevGoalRequest) (*entity.DevGoal, error)
	GetDevGoals(ctx context.Context, uid uuid.UUID) ([]entity.DevGoal, error)
}

type LogsServiceI interface {
	// Creates the log or patches the existing one for the same (date, parent)
	LogCompletion(ctx context.Context, uid uuid.UUID, kind entity.LogKind, req *LogCompletionRequest) (*entity.CompletionLog, error)
	PatchCompletion(ctx context.Context, uid uuid.UUID, kind entity.LogKind, logID uuid.UUID, req *PatchCompletionRequest) (*entity.CompletionLog, error)
	GetCompletions(ctx context.Context, uid uuid.UUID, kind entity.LogKind, date string) ([]entity.CompletionLog, error)
	LogDevGoal(ctx context.Context, uid uuid.UUID, req *LogDevGoalRequest) (*entity.DevGoalLog, error)
	PatchDevGoalLog(ctx context.Context, uid, logID uuid.UUID, req *PatchDevGoalLogRequest) (*entity.DevGoalLog, error)
	GetDevGoalLogs(ctx context.Context, uid uuid.UUID, date string) ([]entity.DevGoalLog, error)
	// Returns zero amount with the default target when nothing is stored
	GetWaterIntake(ctx context.Context, uid uuid.UUID, date string) (*entity.WaterIntake, error)
	SetWaterIntake(ctx context.Context, uid uuid.UUID, req *WaterIntakeRequest) (*entity.WaterIntake, error)
}

type PerformanceServiceI interface {
	// Cache-aside read; today is always recomputed
	GetDay(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error)
	// Fills days without a cached row, ordered by date
	GetRange(ctx context.Context, uid uuid.UUID, start, end string) ([]entity.DailyPerformance, error)
	// Explicit orchestrator run, streak included
	Recalculate(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error)
}

//go:generate mockgen -destination=mocks/mock_recalculator.go -package=mocks . DayRecalculator,DayCloser

// DayRecalculator is what mutating services call after a successful write.
type DayRecalculator interface {
	RecalculateDay(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error)
}

// DayCloser evaluates a day's overall score against the user's streak.
type DayCloser interface {
	UpdateStreak(ctx context.Context, uid uuid.UUID, date string, overall int) (*entity.User, error)
}
