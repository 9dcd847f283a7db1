package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/repository"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/entity"
)

type TasksService struct {
	repo         repository.TasksRepositoryI
	recalculator DayRecalculator
	clock        clock.Clock
}

func NewTasksService(tasksRepo repository.TasksRepositoryI, recalculator DayRecalculator, c clock.Clock) *TasksService {
	if tasksRepo == nil {
		log.Fatal("provided nil tasksRepo")
	}
	return &TasksService{
		repo:         tasksRepo,
		recalculator: recalculator,
		clock:        c,
	}
}

func (ts *TasksService) CreateTask(ctx context.Context, uid uuid.UUID, req *CreateTaskRequest) (*entity.Task, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	task := entity.Task{
		UserID:  uid,
		Title:   req.Title,
		Date:    req.Date,
		DueTime: req.DueTime,
	}
	if err := ts.repo.Create(ctx, &task); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	recalculateQuietly(ctx, ts.recalculator, uid, task.Date)
	return &task, nil
}

func (ts *TasksService) GetTasks(ctx context.Context, uid uuid.UUID, date string) ([]entity.Task, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	tasks, err := ts.repo.GetByUserAndDate(ctx, uid, date)
	if err != nil {
		return nil, storeError(err)
	}
	return tasks, nil
}

func (ts *TasksService) UpdateTask(ctx context.Context, uid, taskID uuid.UUID, req *UpdateTaskRequest) (*entity.Task, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	task, err := ts.ownedTask(ctx, uid, taskID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.DueTime != nil {
		task.DueTime = req.DueTime
	}
	if req.Completed != nil && *req.Completed != task.Completed {
		task.Completed = *req.Completed
		task.CompletedAt = completionTime(ts.clock, task.Completed)
	}
	if err = ts.repo.Update(ctx, task); err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	recalculateQuietly(ctx, ts.recalculator, uid, task.Date)
	return task, nil
}

func (ts *TasksService) DeleteTask(ctx context.Context, uid, taskID uuid.UUID) error {
	task, err := ts.ownedTask(ctx, uid, taskID)
	if err != nil {
		return err
	}
	if err = ts.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return storeError(err)
	}
	recalculateQuietly(ctx, ts.recalculator, uid, task.Date)
	return nil
}

func (ts *TasksService) ownedTask(ctx context.Context, uid, taskID uuid.UUID) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	if task.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return task, nil
}
