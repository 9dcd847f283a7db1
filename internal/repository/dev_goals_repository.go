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

type DevGoalsRepository struct {
	conn PgConnection
}

func NewDevGoalsRepo(conn PgConnection) *DevGoalsRepository {
	return &DevGoalsRepository{
		conn: conn,
	}
}

func (dr *DevGoalsRepository) Create(ctx context.Context, g *entity.DevGoal) error {
	row := dr.conn.QueryRow(ctx, `INSERT INTO dev_goals (user_id, title, description, type, target_hours, order_index)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at;`,
		g.UserID, g.Title, g.Description, string(g.Type), g.TargetHours, g.OrderIndex,
	)
	if err := row.Scan(&g.ID, &g.CreatedAt); err != nil {
		return ownerInsertError("creating dev goal error: ", err)
	}
	return nil
}

func (dr *DevGoalsRepository) GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.DevGoal, error) {
	rows, err := dr.conn.Query(ctx, `SELECT id, user_id, title, description, type, target_hours, order_index, created_at
		FROM dev_goals WHERE user_id = $1 ORDER BY order_index;`, uid)
	if err != nil {
		return nil, errors.New("getting dev goals error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.DevGoal, 0)
	for rows.Next() {
		g := entity.DevGoal{}
		var goalType string
		if err = rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &goalType, &g.TargetHours, &g.OrderIndex, &g.CreatedAt); err != nil {
			return nil, errors.New("dev goal row parsing error: " + err.Error())
		}
		g.Type = entity.DevGoalType(goalType)
		result = append(result, g)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected dev goal rows error: " + err.Error())
	}
	return result, nil
}

func (dr *DevGoalsRepository) UpsertLog(ctx context.Context, l *entity.DevGoalLog) error {
	row := dr.conn.QueryRow(ctx, `INSERT INTO dev_goal_logs (user_id, dev_goal_id, date, hours_spent, completed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date, dev_goal_id) DO UPDATE SET hours_spent = EXCLUDED.hours_spent, completed = EXCLUDED.completed
		RETURNING id, created_at;`,
		l.UserID, l.DevGoalID, l.Date, l.HoursSpent, l.Completed,
	)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeFKViolation {
			return errorvalues.ErrDefinitionNotFound
		}
		return errors.New("upserting dev goal log error: " + err.Error())
	}
	return nil
}

func (dr *DevGoalsRepository) GetLogByID(ctx context.Context, id uuid.UUID) (*entity.DevGoalLog, error) {
	var l entity.DevGoalLog
	row := dr.conn.QueryRow(ctx, `SELECT id, user_id, dev_goal_id, date::text, hours_spent, completed, created_at
		FROM dev_goal_logs WHERE id = $1;`, id)
	if err := row.Scan(&l.ID, &l.UserID, &l.DevGoalID, &l.Date, &l.HoursSpent, &l.Completed, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrLogNotFound
		}
		return nil, errors.New("getting dev goal log error: " + err.Error())
	}
	return &l, nil
}

func (dr *DevGoalsRepository) GetLogs(ctx context.Context, uid uuid.UUID, date string) ([]entity.DevGoalLog, error) {
	rows, err := dr.conn.Query(ctx, `SELECT id, user_id, dev_goal_id, date::text, hours_spent, completed, created_at
		FROM dev_goal_logs WHERE user_id = $1 AND date = $2;`, uid, date)
	if err != nil {
		return nil, errors.New("getting dev goal logs error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.DevGoalLog, 0)
	for rows.Next() {
		l := entity.DevGoalLog{}
		if err = rows.Scan(&l.ID, &l.UserID, &l.DevGoalID, &l.Date, &l.HoursSpent, &l.Completed, &l.CreatedAt); err != nil {
			return nil, errors.New("dev goal log row parsing error: " + err.Error())
		}
		result = append(result, l)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected dev goal log rows error: " + err.Error())
	}
	return result, nil
}

func (dr *DevGoalsRepository) UpdateLog(ctx context.Context, l *entity.DevGoalLog) error {
	ct, err := dr.conn.Exec(ctx, `UPDATE dev_goal_logs SET hours_spent = $1, completed = $2 WHERE id = $3;`,
		l.HoursSpent, l.Completed, l.ID,
	)
	if err != nil {
		return errors.New("updating dev goal log error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrLogNotFound
	}
	return nil
}
