package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/pkg/entity"
)

type PerformanceRepository struct {
	conn PgConnection
}

func NewPerformanceRepo(conn PgConnection) *PerformanceRepository {
	return &PerformanceRepository{
		conn: conn,
	}
}

const performanceColumns = `id, user_id, date::text, tasks_score, workout_score, mind_score, routine_score, dev_score, overall_score, created_at, updated_at`

func scanPerformance(row pgx.Row, p *entity.DailyPerformance) error {
	return row.Scan(&p.ID, &p.UserID, &p.Date, &p.TasksScore, &p.WorkoutScore, &p.MindScore,
		&p.RoutineScore, &p.DevScore, &p.OverallScore, &p.CreatedAt, &p.UpdatedAt)
}

func (pr *PerformanceRepository) Get(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	var p entity.DailyPerformance
	row := pr.conn.QueryRow(ctx, `SELECT `+performanceColumns+` FROM daily_performance WHERE user_id = $1 AND date = $2;`, uid, date)
	if err := scanPerformance(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrPerformanceNotFound
		}
		return nil, errors.New("getting daily performance error: " + err.Error())
	}
	return &p, nil
}

// Upsert is a single statement, so concurrent writers for one (user, date)
// never leave two rows or a half-written one. A row whose scores did not
// change is left untouched and keeps its updated_at.
func (pr *PerformanceRepository) Upsert(ctx context.Context, p *entity.DailyPerformance) error {
	row := pr.conn.QueryRow(ctx, `INSERT INTO daily_performance (user_id, date, tasks_score, workout_score, mind_score, routine_score, dev_score, overall_score) `+
		`VALUES ($1, $2, $3, $4, $5, $6, $7, $8) `+
		`ON CONFLICT (user_id, date) DO UPDATE SET tasks_score = EXCLUDED.tasks_score, workout_score = EXCLUDED.workout_score, `+
		`mind_score = EXCLUDED.mind_score, routine_score = EXCLUDED.routine_score, dev_score = EXCLUDED.dev_score, `+
		`overall_score = EXCLUDED.overall_score, updated_at = NOW() `+
		`WHERE (daily_performance.tasks_score, daily_performance.workout_score, daily_performance.mind_score, `+
		`daily_performance.routine_score, daily_performance.dev_score, daily_performance.overall_score) `+
		`IS DISTINCT FROM (EXCLUDED.tasks_score, EXCLUDED.workout_score, EXCLUDED.mind_score, `+
		`EXCLUDED.routine_score, EXCLUDED.dev_score, EXCLUDED.overall_score) `+
		`RETURNING id, created_at, updated_at;`,
		p.UserID, p.Date, p.TasksScore, p.WorkoutScore, p.MindScore, p.RoutineScore, p.DevScore, p.OverallScore,
	)
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// conflict with identical scores: nothing was written
		row = pr.conn.QueryRow(ctx, `SELECT id, created_at, updated_at FROM daily_performance WHERE user_id = $1 AND date = $2;`,
			p.UserID, p.Date)
		if err = row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return errors.New("reading unchanged daily performance error: " + err.Error())
		}
		return nil
	}
	if err != nil {
		return ownerInsertError("upserting daily performance error: ", err)
	}
	return nil
}

func (pr *PerformanceRepository) GetRange(ctx context.Context, uid uuid.UUID, from, to string) ([]entity.DailyPerformance, error) {
	rows, err := pr.conn.Query(ctx, `SELECT `+performanceColumns+` FROM daily_performance WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date;`,
		uid, from, to)
	if err != nil {
		return nil, errors.New("getting performance range error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.DailyPerformance, 0)
	for rows.Next() {
		p := entity.DailyPerformance{}
		if err = scanPerformance(rows, &p); err != nil {
			return nil, errors.New("performance row parsing error: " + err.Error())
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected performance rows error: " + err.Error())
	}
	return result, nil
}
