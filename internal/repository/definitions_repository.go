package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/pkg/entity"
)

// Standing, date-independent declarations a user scores against:
// mind exercises and routines.

type MindExercisesRepository struct {
	conn PgConnection
}

func NewMindExercisesRepo(conn PgConnection) *MindExercisesRepository {
	return &MindExercisesRepository{
		conn: conn,
	}
}

func (mr *MindExercisesRepository) Create(ctx context.Context, me *entity.MindExercise) error {
	row := mr.conn.QueryRow(ctx, `INSERT INTO mind_exercises (user_id, name, time, duration, order_index)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at;`,
		me.UserID, me.Name, me.Time, me.Duration, me.OrderIndex,
	)
	if err := row.Scan(&me.ID, &me.CreatedAt); err != nil {
		return ownerInsertError("creating mind exercise error: ", err)
	}
	return nil
}

func (mr *MindExercisesRepository) GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.MindExercise, error) {
	rows, err := mr.conn.Query(ctx, `SELECT id, user_id, name, time, duration, order_index, created_at
		FROM mind_exercises WHERE user_id = $1 ORDER BY order_index;`, uid)
	if err != nil {
		return nil, errors.New("getting mind exercises error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.MindExercise, 0)
	for rows.Next() {
		me := entity.MindExercise{}
		if err = rows.Scan(&me.ID, &me.UserID, &me.Name, &me.Time, &me.Duration, &me.OrderIndex, &me.CreatedAt); err != nil {
			return nil, errors.New("mind exercise row parsing error: " + err.Error())
		}
		result = append(result, me)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected mind exercise rows error: " + err.Error())
	}
	return result, nil
}

type RoutinesRepository struct {
	conn PgConnection
}

func NewRoutinesRepo(conn PgConnection) *RoutinesRepository {
	return &RoutinesRepository{
		conn: conn,
	}
}

func (rr *RoutinesRepository) Create(ctx context.Context, r *entity.Routine) error {
	row := rr.conn.QueryRow(ctx, `INSERT INTO routines (user_id, name, description, type, day_of_week, order_index)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at;`,
		r.UserID, r.Name, r.Description, string(r.Type), r.DayOfWeek, r.OrderIndex,
	)
	if err := row.Scan(&r.ID, &r.CreatedAt); err != nil {
		return ownerInsertError("creating routine error: ", err)
	}
	return nil
}

func (rr *RoutinesRepository) GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error) {
	rows, err := rr.conn.Query(ctx, `SELECT id, user_id, name, description, type, day_of_week, order_index, created_at
		FROM routines WHERE user_id = $1 ORDER BY order_index;`, uid)
	if err != nil {
		return nil, errors.New("getting routines error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Routine, 0)
	for rows.Next() {
		r := entity.Routine{}
		var routineType string
		if err = rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &routineType, &r.DayOfWeek, &r.OrderIndex, &r.CreatedAt); err != nil {
			return nil, errors.New("routine row parsing error: " + err.Error())
		}
		r.Type = entity.RoutineType(routineType)
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected routine rows error: " + err.Error())
	}
	return result, nil
}

func ownerInsertError(prefix string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeFKViolation {
		return errorvalues.ErrUserNotFound
	}
	return errors.New(prefix + err.Error())
}
