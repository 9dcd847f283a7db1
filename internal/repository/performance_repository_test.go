package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/repository"
	"github.com/limbo/discipline/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

var performanceColumns = []string{"id", "user_id", "date", "tasks_score", "workout_score", "mind_score",
	"routine_score", "dev_score", "overall_score", "created_at", "updated_at"}

func TestGetPerformance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewPerformanceRepo(mock)
	ctx := context.Background()
	now := time.Now()
	p := entity.DailyPerformance{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         "2025-01-10",
		TasksScore:   67,
		WorkoutScore: 100,
		OverallScore: 33,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	query := regexp.QuoteMeta(`FROM daily_performance WHERE user_id = $1 AND date = $2;`)
	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, p.Date).
			WillReturnRows(pgxmock.NewRows(performanceColumns).
				AddRow(p.ID, p.UserID, p.Date, 67, 100, 0, 0, 0, 33, now, now))
		result, err := repo.Get(ctx, userID, p.Date)
		assert.NoError(t, err)
		assert.Equal(t, p, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(userID, p.Date).WillReturnError(pgx.ErrNoRows)
		_, err := repo.Get(ctx, userID, p.Date)
		assert.ErrorIs(t, err, errorvalues.ErrPerformanceNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(userID, p.Date).WillReturnError(errors.New("db error"))
		_, err := repo.Get(ctx, userID, p.Date)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrPerformanceNotFound)
	})
}

func TestUpsertPerformance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewPerformanceRepo(mock)
	ctx := context.Background()
	p := entity.DailyPerformance{
		UserID:       userID,
		Date:         "2025-01-10",
		TasksScore:   67,
		WorkoutScore: 100,
		MindScore:    50,
		RoutineScore: 0,
		DevScore:     0,
		OverallScore: 43,
	}
	pid := uuid.New()
	created := time.Now().Add(-time.Hour)
	updated := time.Now()
	query := regexp.QuoteMeta(`INSERT INTO daily_performance (user_id, date, tasks_score, workout_score, mind_score, routine_score, dev_score, overall_score) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (user_id, date) DO UPDATE`)
	args := []any{p.UserID, p.Date, p.TasksScore, p.WorkoutScore, p.MindScore, p.RoutineScore, p.DevScore, p.OverallScore}
	t.Run("upserted", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(pid, created, updated))
		entry := p
		err := repo.Upsert(ctx, &entry)
		assert.NoError(t, err)
		assert.Equal(t, pid, entry.ID)
		assert.Equal(t, created, entry.CreatedAt)
		assert.Equal(t, updated, entry.UpdatedAt)
	})
	t.Run("unchanged scores keep timestamps", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(args...).WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at, updated_at FROM daily_performance WHERE user_id = $1 AND date = $2;`)).
			WithArgs(p.UserID, p.Date).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(pid, created, created))
		entry := p
		err := repo.Upsert(ctx, &entry)
		assert.NoError(t, err)
		assert.Equal(t, pid, entry.ID)
		assert.Equal(t, created, entry.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("unchanged row read fails", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(args...).WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at, updated_at FROM daily_performance`)).
			WithArgs(p.UserID, p.Date).
			WillReturnError(errors.New("db error"))
		entry := p
		assert.Error(t, repo.Upsert(ctx, &entry))
	})
	t.Run("owner not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(args...).WillReturnError(&pgconn.PgError{Code: "23503"})
		entry := p
		assert.ErrorIs(t, repo.Upsert(ctx, &entry), errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(args...).WillReturnError(errors.New("db error"))
		entry := p
		assert.Error(t, repo.Upsert(ctx, &entry))
	})
}

func TestGetPerformanceRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewPerformanceRepo(mock)
	ctx := context.Background()
	now := time.Now()
	query := regexp.QuoteMeta(`FROM daily_performance WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date;`)
	t.Run("ordered rows", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, "2025-01-01", "2025-01-03").
			WillReturnRows(pgxmock.NewRows(performanceColumns).
				AddRow(uuid.New(), userID, "2025-01-01", 100, 0, 0, 0, 0, 20, now, now).
				AddRow(uuid.New(), userID, "2025-01-03", 0, 0, 0, 0, 0, 0, now, now))
		result, err := repo.GetRange(ctx, userID, "2025-01-01", "2025-01-03")
		assert.NoError(t, err)
		if assert.Len(t, result, 2) {
			assert.Equal(t, "2025-01-01", result[0].Date)
			assert.Equal(t, 20, result[0].OverallScore)
			assert.Equal(t, "2025-01-03", result[1].Date)
		}
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, "2025-01-01", "2025-01-03").
			WillReturnError(errors.New("db error"))
		_, err := repo.GetRange(ctx, userID, "2025-01-01", "2025-01-03")
		assert.Error(t, err)
	})
}
