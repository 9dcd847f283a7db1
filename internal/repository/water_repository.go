package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/pkg/entity"
)

type WaterIntakeRepository struct {
	conn PgConnection
}

func NewWaterIntakeRepo(conn PgConnection) *WaterIntakeRepository {
	return &WaterIntakeRepository{
		conn: conn,
	}
}

func (wr *WaterIntakeRepository) Get(ctx context.Context, uid uuid.UUID, date string) (*entity.WaterIntake, error) {
	var w entity.WaterIntake
	row := wr.conn.QueryRow(ctx, `SELECT id, user_id, date::text, amount, target, created_at FROM water_intake WHERE user_id = $1 AND date = $2;`, uid, date)
	if err := row.Scan(&w.ID, &w.UserID, &w.Date, &w.Amount, &w.Target, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrWaterIntakeNotFound
		}
		return nil, errors.New("getting water intake error: " + err.Error())
	}
	return &w, nil
}

func (wr *WaterIntakeRepository) Upsert(ctx context.Context, w *entity.WaterIntake) error {
	row := wr.conn.QueryRow(ctx, `INSERT INTO water_intake (user_id, date, amount, target) VALUES ($1, $2, $3, $4) `+
		`ON CONFLICT (user_id, date) DO UPDATE SET amount = EXCLUDED.amount, target = EXCLUDED.target RETURNING id, created_at;`,
		w.UserID, w.Date, w.Amount, w.Target,
	)
	if err := row.Scan(&w.ID, &w.CreatedAt); err != nil {
		return ownerInsertError("upserting water intake error: ", err)
	}
	return nil
}
