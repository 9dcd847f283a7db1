package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/repository"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/entity"
)

const DefaultWaterTarget = 3000

type LogsRepos struct {
	Completions repository.CompletionLogsRepositoryI
	DevGoals    repository.DevGoalsRepositoryI
	Water       repository.WaterIntakeRepositoryI
}

// LogsService records per-day completions. Every successful write is
// followed by a recalculation of the log's day.
type LogsService struct {
	repos        LogsRepos
	recalculator DayRecalculator
	clock        clock.Clock
	waterTarget  int
}

func NewLogsService(repos LogsRepos, recalculator DayRecalculator, c clock.Clock, waterTarget int) *LogsService {
	if repos.Completions == nil || repos.DevGoals == nil || repos.Water == nil {
		log.Fatal("on logs service provided nil repos")
	}
	if waterTarget <= 0 {
		waterTarget = DefaultWaterTarget
	}
	return &LogsService{
		repos:        repos,
		recalculator: recalculator,
		clock:        c,
		waterTarget:  waterTarget,
	}
}

func (ls *LogsService) LogCompletion(ctx context.Context, uid uuid.UUID, kind entity.LogKind, req *LogCompletionRequest) (*entity.CompletionLog, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	l := entity.CompletionLog{
		UserID:      uid,
		ParentID:    req.ParentID,
		Date:        req.Date,
		Completed:   req.Completed,
		CompletedAt: completionTime(ls.clock, req.Completed),
	}
	if err := ls.repos.Completions.Upsert(ctx, kind, &l); err != nil {
		if errors.Is(err, errorvalues.ErrDefinitionNotFound) || errors.Is(err, errorvalues.ErrUnknownLogKind) {
			return nil, err
		}
		return nil, storeError(err)
	}
	recalculateQuietly(ctx, ls.recalculator, uid, l.Date)
	return &l, nil
}

func (ls *LogsService) PatchCompletion(ctx context.Context, uid uuid.UUID, kind entity.LogKind, logID uuid.UUID, req *PatchCompletionRequest) (*entity.CompletionLog, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	l, err := ls.repos.Completions.GetByID(ctx, kind, logID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrLogNotFound) || errors.Is(err, errorvalues.ErrUnknownLogKind) {
			return nil, err
		}
		return nil, storeError(err)
	}
	if l.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	if *req.Completed != l.Completed {
		l.Completed = *req.Completed
		l.CompletedAt = completionTime(ls.clock, l.Completed)
	}
	if err = ls.repos.Completions.Update(ctx, kind, l); err != nil {
		if errors.Is(err, errorvalues.ErrLogNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	recalculateQuietly(ctx, ls.recalculator, uid, l.Date)
	return l, nil
}

func (ls *LogsService) GetCompletions(ctx context.Context, uid uuid.UUID, kind entity.LogKind, date string) ([]entity.CompletionLog, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	logs, err := ls.repos.Completions.GetByUserAndDate(ctx, kind, uid, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUnknownLogKind) {
			return nil, err
		}
		return nil, storeError(err)
	}
	return logs, nil
}

func (ls *LogsService) LogDevGoal(ctx context.Context, uid uuid.UUID, req *LogDevGoalRequest) (*entity.DevGoalLog, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	l := entity.DevGoalLog{
		UserID:     uid,
		DevGoalID:  req.DevGoalID,
		Date:       req.Date,
		HoursSpent: req.HoursSpent,
		Completed:  req.Completed,
	}
	if err := ls.repos.DevGoals.UpsertLog(ctx, &l); err != nil {
		if errors.Is(err, errorvalues.ErrDefinitionNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	recalculateQuietly(ctx, ls.recalculator, uid, l.Date)
	return &l, nil
}

func (ls *LogsService) PatchDevGoalLog(ctx context.Context, uid, logID uuid.UUID, req *PatchDevGoalLogRequest) (*entity.DevGoalLog, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	l, err := ls.repos.DevGoals.GetLogByID(ctx, logID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrLogNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	if l.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	if req.HoursSpent != nil {
		l.HoursSpent = *req.HoursSpent
	}
	if req.Completed != nil {
		l.Completed = *req.Completed
	}
	if err = ls.repos.DevGoals.UpdateLog(ctx, l); err != nil {
		if errors.Is(err, errorvalues.ErrLogNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	recalculateQuietly(ctx, ls.recalculator, uid, l.Date)
	return l, nil
}

func (ls *LogsService) GetDevGoalLogs(ctx context.Context, uid uuid.UUID, date string) ([]entity.DevGoalLog, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	logs, err := ls.repos.DevGoals.GetLogs(ctx, uid, date)
	if err != nil {
		return nil, storeError(err)
	}
	return logs, nil
}

func (ls *LogsService) GetWaterIntake(ctx context.Context, uid uuid.UUID, date string) (*entity.WaterIntake, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	w, err := ls.repos.Water.Get(ctx, uid, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWaterIntakeNotFound) {
			return &entity.WaterIntake{UserID: uid, Date: date, Amount: 0, Target: ls.waterTarget}, nil
		}
		return nil, storeError(err)
	}
	return w, nil
}

func (ls *LogsService) SetWaterIntake(ctx context.Context, uid uuid.UUID, req *WaterIntakeRequest) (*entity.WaterIntake, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	target := ls.waterTarget
	if req.Target != nil {
		target = *req.Target
	}
	w := entity.WaterIntake{
		UserID: uid,
		Date:   req.Date,
		Amount: req.Amount,
		Target: target,
	}
	if err := ls.repos.Water.Upsert(ctx, &w); err != nil {
		return nil, ownerError(err)
	}
	recalculateQuietly(ctx, ls.recalculator, uid, w.Date)
	return &w, nil
}

func completionTime(c clock.Clock, completed bool) *time.Time {
	if !completed {
		return nil
	}
	now := c.Now()
	return &now
}
