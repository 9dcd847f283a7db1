package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/pkg/entity"
)

type WorkoutsRepository struct {
	conn PgConnection
}

func NewWorkoutsRepo(conn PgConnection) *WorkoutsRepository {
	return &WorkoutsRepository{
		conn: conn,
	}
}

func (wr *WorkoutsRepository) CreateType(ctx context.Context, wt *entity.WorkoutType) error {
	row := wr.conn.QueryRow(ctx, `INSERT INTO workout_types (user_id, name, is_weekly, max_time) VALUES ($1, $2, $3, $4) RETURNING id, created_at;`,
		wt.UserID, wt.Name, wt.IsWeekly, wt.MaxTime,
	)
	if err := row.Scan(&wt.ID, &wt.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeFKViolation {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("creating workout type error: " + err.Error())
	}
	return nil
}

func (wr *WorkoutsRepository) GetTypes(ctx context.Context, uid uuid.UUID) ([]entity.WorkoutType, error) {
	rows, err := wr.conn.Query(ctx, `SELECT id, user_id, name, is_weekly, max_time, created_at
		FROM workout_types WHERE user_id = $1 ORDER BY created_at;`, uid)
	if err != nil {
		return nil, errors.New("getting workout types error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.WorkoutType, 0)
	for rows.Next() {
		wt := entity.WorkoutType{}
		if err = rows.Scan(&wt.ID, &wt.UserID, &wt.Name, &wt.IsWeekly, &wt.MaxTime, &wt.CreatedAt); err != nil {
			return nil, errors.New("workout type row parsing error: " + err.Error())
		}
		result = append(result, wt)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected workout type rows error: " + err.Error())
	}
	return result, nil
}

func (wr *WorkoutsRepository) GetTypeByID(ctx context.Context, id uuid.UUID) (*entity.WorkoutType, error) {
	var wt entity.WorkoutType
	row := wr.conn.QueryRow(ctx, `SELECT id, user_id, name, is_weekly, max_time, created_at FROM workout_types WHERE id = $1;`, id)
	if err := row.Scan(&wt.ID, &wt.UserID, &wt.Name, &wt.IsWeekly, &wt.MaxTime, &wt.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrDefinitionNotFound
		}
		return nil, errors.New("getting workout type error: " + err.Error())
	}
	return &wt, nil
}

func (wr *WorkoutsRepository) CreateExercise(ctx context.Context, ex *entity.Exercise) error {
	row := wr.conn.QueryRow(ctx, `INSERT INTO exercises (workout_type_id, name, sets, reps, duration, day_of_week, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at;`,
		ex.WorkoutTypeID, ex.Name, ex.Sets, ex.Reps, ex.Duration, ex.DayOfWeek, ex.OrderIndex,
	)
	if err := row.Scan(&ex.ID, &ex.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeFKViolation {
			return errorvalues.ErrDefinitionNotFound
		}
		return errors.New("creating exercise error: " + err.Error())
	}
	return nil
}

func (wr *WorkoutsRepository) GetExercises(ctx context.Context, workoutTypeID uuid.UUID) ([]entity.Exercise, error) {
	rows, err := wr.conn.Query(ctx, `SELECT id, workout_type_id, name, sets, reps, duration, day_of_week, order_index, created_at
		FROM exercises WHERE workout_type_id = $1 ORDER BY order_index;`, workoutTypeID)
	if err != nil {
		return nil, errors.New("getting exercises error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Exercise, 0)
	for rows.Next() {
		ex := entity.Exercise{}
		err = rows.Scan(&ex.ID, &ex.WorkoutTypeID, &ex.Name, &ex.Sets, &ex.Reps, &ex.Duration, &ex.DayOfWeek, &ex.OrderIndex, &ex.CreatedAt)
		if err != nil {
			return nil, errors.New("exercise row parsing error: " + err.Error())
		}
		result = append(result, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected exercise rows error: " + err.Error())
	}
	return result, nil
}
