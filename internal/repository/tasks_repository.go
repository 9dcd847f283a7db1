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

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(conn PgConnection) *TasksRepository {
	return &TasksRepository{
		conn: conn,
	}
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) error {
	row := tr.conn.QueryRow(ctx, `INSERT INTO tasks (user_id, title, date, completed, completed_at, due_time)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at;`,
		task.UserID,
		task.Title,
		task.Date,
		task.Completed,
		task.CompletedAt,
		task.DueTime,
	)
	if err := row.Scan(&task.ID, &task.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeFKViolation {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("creating task db error: " + err.Error())
	}
	return nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var task entity.Task
	row := tr.conn.QueryRow(ctx, `SELECT id, user_id, title, date::text, completed, completed_at, due_time, created_at
		FROM tasks WHERE id = $1;`, id)
	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Date, &task.Completed, &task.CompletedAt, &task.DueTime, &task.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by id error: " + err.Error())
	}
	return &task, nil
}

func (tr *TasksRepository) GetByUserAndDate(ctx context.Context, uid uuid.UUID, date string) ([]entity.Task, error) {
	rows, err := tr.conn.Query(ctx, `SELECT id, user_id, title, date::text, completed, completed_at, due_time, created_at
		FROM tasks WHERE user_id = $1 AND date = $2 ORDER BY created_at;`, uid, date)
	if err != nil {
		return nil, errors.New("getting tasks by date error: " + err.Error())
	}
	defer rows.Close()
	tasks := make([]entity.Task, 0)
	for rows.Next() {
		t := entity.Task{}
		err = rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Date, &t.Completed, &t.CompletedAt, &t.DueTime, &t.CreatedAt)
		if err != nil {
			return nil, errors.New("task row parsing error: " + err.Error())
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected task rows error: " + err.Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE tasks SET title = $1, completed = $2, completed_at = $3, due_time = $4 WHERE id = $5;`,
		task.Title, task.Completed, task.CompletedAt, task.DueTime, task.ID,
	)
	if err != nil {
		return errors.New("updating task error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting task error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}
