package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/pkg/entity"
)

type logTable struct {
	name         string
	parentColumn string
}

// Table names are never taken from input, only from this map
var logTables = map[entity.LogKind]logTable{
	entity.LogWorkout: {name: "workout_logs", parentColumn: "exercise_id"},
	entity.LogMind:    {name: "mind_exercise_logs", parentColumn: "mind_exercise_id"},
	entity.LogRoutine: {name: "routine_logs", parentColumn: "routine_id"},
}

func tableFor(kind entity.LogKind) (logTable, error) {
	t, ok := logTables[kind]
	if !ok {
		return logTable{}, fmt.Errorf("%w: %q", errorvalues.ErrUnknownLogKind, kind)
	}
	return t, nil
}

// CompletionLogsRepository serves the workout, mind exercise and routine log tables.
type CompletionLogsRepository struct {
	conn PgConnection
}

func NewCompletionLogsRepo(conn PgConnection) *CompletionLogsRepository {
	return &CompletionLogsRepository{
		conn: conn,
	}
}

func (cr *CompletionLogsRepository) Upsert(ctx context.Context, kind entity.LogKind, l *entity.CompletionLog) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %[1]s (user_id, %[2]s, date, completed, completed_at) VALUES ($1, $2, $3, $4, $5) `+
		`ON CONFLICT (user_id, date, %[2]s) DO UPDATE SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at `+
		`RETURNING id, created_at;`, t.name, t.parentColumn)
	row := cr.conn.QueryRow(ctx, query, l.UserID, l.ParentID, l.Date, l.Completed, l.CompletedAt)
	if err = row.Scan(&l.ID, &l.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeFKViolation {
			return errorvalues.ErrDefinitionNotFound
		}
		return fmt.Errorf("upserting %s log error: %s", kind, err.Error())
	}
	return nil
}

func (cr *CompletionLogsRepository) GetByID(ctx context.Context, kind entity.LogKind, id uuid.UUID) (*entity.CompletionLog, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, user_id, %s, date::text, completed, completed_at, created_at FROM %s WHERE id = $1;`, t.parentColumn, t.name)
	var l entity.CompletionLog
	row := cr.conn.QueryRow(ctx, query, id)
	if err = row.Scan(&l.ID, &l.UserID, &l.ParentID, &l.Date, &l.Completed, &l.CompletedAt, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrLogNotFound
		}
		return nil, fmt.Errorf("getting %s log error: %s", kind, err.Error())
	}
	return &l, nil
}

func (cr *CompletionLogsRepository) GetByUserAndDate(ctx context.Context, kind entity.LogKind, uid uuid.UUID, date string) ([]entity.CompletionLog, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, user_id, %s, date::text, completed, completed_at, created_at FROM %s WHERE user_id = $1 AND date = $2;`, t.parentColumn, t.name)
	rows, err := cr.conn.Query(ctx, query, uid, date)
	if err != nil {
		return nil, fmt.Errorf("getting %s logs error: %s", kind, err.Error())
	}
	defer rows.Close()
	result := make([]entity.CompletionLog, 0)
	for rows.Next() {
		l := entity.CompletionLog{}
		if err = rows.Scan(&l.ID, &l.UserID, &l.ParentID, &l.Date, &l.Completed, &l.CompletedAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s log row parsing error: %s", kind, err.Error())
		}
		result = append(result, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected %s log rows error: %s", kind, err.Error())
	}
	return result, nil
}

func (cr *CompletionLogsRepository) Update(ctx context.Context, kind entity.LogKind, l *entity.CompletionLog) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET completed = $1, completed_at = $2 WHERE id = $3;`, t.name)
	ct, err := cr.conn.Exec(ctx, query, l.Completed, l.CompletedAt, l.ID)
	if err != nil {
		return fmt.Errorf("updating %s log error: %s", kind, err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrLogNotFound
	}
	return nil
}
