package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/discipline/pkg/entity"
)

type UsersRepositoryI interface {
	// Inserts user if there is no row with its ID yet
	CreateIfNotExists(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Writes streak counters only
	UpdateStreak(ctx context.Context, user *entity.User) error
}

type TasksRepositoryI interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	GetByUserAndDate(ctx context.Context, uid uuid.UUID, date string) ([]entity.Task, error)
	// Updates title, completion and due time of task with task.ID
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorkoutsRepositoryI interface {
	CreateType(ctx context.Context, wt *entity.WorkoutType) error
	GetTypes(ctx context.Context, uid uuid.UUID) ([]entity.WorkoutType, error)
	GetTypeByID(ctx context.Context, id uuid.UUID) (*entity.WorkoutType, error)
	CreateExercise(ctx context.Context, ex *entity.Exercise) error
	GetExercises(ctx context.Context, workoutTypeID uuid.UUID) ([]entity.Exercise, error)
}

type MindExercisesRepositoryI interface {
	Create(ctx context.Context, me *entity.MindExercise) error
	GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.MindExercise, error)
}

type RoutinesRepositoryI interface {
	Create(ctx context.Context, r *entity.Routine) error
	GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error)
}

type DevGoalsRepositoryI interface {
	Create(ctx context.Context, g *entity.DevGoal) error
	GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.DevGoal, error)
	// Creates or patches the log keyed by (user, date, goal)
	UpsertLog(ctx context.Context, l *entity.DevGoalLog) error
	GetLogByID(ctx context.Context, id uuid.UUID) (*entity.DevGoalLog, error)
	GetLogs(ctx context.Context, uid uuid.UUID, date string) ([]entity.DevGoalLog, error)
	UpdateLog(ctx context.Context, l *entity.DevGoalLog) error
}

type CompletionLogsRepositoryI interface {
	// Creates or patches the log keyed by (user, date, parent)
	Upsert(ctx context.Context, kind entity.LogKind, l *entity.CompletionLog) error
	GetByID(ctx context.Context, kind entity.LogKind, id uuid.UUID) (*entity.CompletionLog, error)
	GetByUserAndDate(ctx context.Context, kind entity.LogKind, uid uuid.UUID, date string) ([]entity.CompletionLog, error)
	// Updates completed and completed_at of log with l.ID
	Update(ctx context.Context, kind entity.LogKind, l *entity.CompletionLog) error
}

type WaterIntakeRepositoryI interface {
	Get(ctx context.Context, uid uuid.UUID, date string) (*entity.WaterIntake, error)
	Upsert(ctx context.Context, w *entity.WaterIntake) error
}

type PerformanceRepositoryI interface {
	Get(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error)
	// Inserts or replaces the row keyed by (user, date), filling ID and timestamps
	Upsert(ctx context.Context, p *entity.DailyPerformance) error
	// Rows between from and to inclusive, ordered by date
	GetRange(ctx context.Context, uid uuid.UUID, from, to string) ([]entity.DailyPerformance, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
	// Extra query string, e.g. "sslmode=disable"
	Params string
}

func (pgcfg *PGCfg) ConnString() string {
	s := fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
	if pgcfg.Params != "" {
		s += "?" + pgcfg.Params
	}
	return s
}
