package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/metrics"
	"github.com/limbo/discipline/internal/repository"
	"github.com/limbo/discipline/internal/scoring"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/entity"
)

const (
	DefaultStreakThreshold = 70
	// Longest range GetRange will fill
	MaxRangeDays = 366
)

// AggregatorRepos are the reads and the single write an aggregation needs.
type AggregatorRepos struct {
	Tasks         repository.TasksRepositoryI
	Logs          repository.CompletionLogsRepositoryI
	MindExercises repository.MindExercisesRepositoryI
	Routines      repository.RoutinesRepositoryI
	DevGoals      repository.DevGoalsRepositoryI
	Performance   repository.PerformanceRepositoryI
}

// Aggregator recomputes one user-day from raw logs and upserts the result.
type Aggregator struct {
	repos AggregatorRepos
	clock clock.Clock
}

func NewAggregator(repos AggregatorRepos, c clock.Clock) *Aggregator {
	if repos.Tasks == nil || repos.Logs == nil || repos.MindExercises == nil ||
		repos.Routines == nil || repos.DevGoals == nil || repos.Performance == nil {
		log.Fatal("on aggregator provided nil repos")
	}
	return &Aggregator{
		repos: repos,
		clock: c,
	}
}

// Aggregate computes (uid, date) and upserts the DailyPerformance row.
// Nothing is written when a read fails.
func (a *Aggregator) Aggregate(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	p, err := a.Compute(ctx, uid, date)
	if err != nil {
		return nil, err
	}
	if err = a.repos.Performance.Upsert(ctx, p); err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

// Compute reads every category for (uid, date) and scores it without
// writing anything. The result carries no ID or timestamps.
func (a *Aggregator) Compute(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	start := time.Now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		tasks         []entity.Task
		workoutLogs   []entity.CompletionLog
		mindLogs      []entity.CompletionLog
		routineLogs   []entity.CompletionLog
		devLogs       []entity.DevGoalLog
		mindExercises []entity.MindExercise
		routines      []entity.Routine
		devGoals      []entity.DevGoal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = a.repos.Tasks.GetByUserAndDate(gctx, uid, date)
		return
	})
	g.Go(func() (err error) {
		workoutLogs, err = a.repos.Logs.GetByUserAndDate(gctx, entity.LogWorkout, uid, date)
		return
	})
	g.Go(func() (err error) {
		mindLogs, err = a.repos.Logs.GetByUserAndDate(gctx, entity.LogMind, uid, date)
		return
	})
	g.Go(func() (err error) {
		routineLogs, err = a.repos.Logs.GetByUserAndDate(gctx, entity.LogRoutine, uid, date)
		return
	})
	g.Go(func() (err error) {
		devLogs, err = a.repos.DevGoals.GetLogs(gctx, uid, date)
		return
	})
	g.Go(func() (err error) {
		mindExercises, err = a.repos.MindExercises.GetByUser(gctx, uid)
		return
	})
	g.Go(func() (err error) {
		routines, err = a.repos.Routines.GetByUser(gctx, uid)
		return
	})
	g.Go(func() (err error) {
		devGoals, err = a.repos.DevGoals.GetByUser(gctx, uid)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(err)
	}

	scores := scoring.Scores{
		Tasks:   scoring.Tasks(tasks),
		Workout: scoring.Workout(workoutLogs),
		Mind:    scoring.Mind(mindLogs, mindExercises),
		Routine: scoring.Routine(routineLogs, routines, clock.Weekday(a.clock)),
		Dev:     scoring.Dev(devLogs, devGoals),
	}
	hasAnyActivity := len(tasks) > 0 || len(workoutLogs) > 0 || len(mindLogs) > 0 ||
		len(routineLogs) > 0 || len(devLogs) > 0

	return &entity.DailyPerformance{
		UserID:       uid,
		Date:         date,
		TasksScore:   scores.Tasks,
		WorkoutScore: scores.Workout,
		MindScore:    scores.Mind,
		RoutineScore: scores.Routine,
		DevScore:     scores.Dev,
		OverallScore: scores.Overall(hasAnyActivity),
	}, nil
}

// StreakEngine moves a user's streak counters from today's overall score.
type StreakEngine struct {
	users     repository.UsersRepositoryI
	clock     clock.Clock
	threshold int
	// Count a qualifying day at most once
	oncePerDay bool
}

func NewStreakEngine(users repository.UsersRepositoryI, c clock.Clock, threshold int, oncePerDay bool) *StreakEngine {
	if users == nil {
		log.Fatal("on streak engine provided nil users repo")
	}
	if threshold <= 0 || threshold > scoring.MaxScore {
		threshold = DefaultStreakThreshold
	}
	return &StreakEngine{
		users:      users,
		clock:      c,
		threshold:  threshold,
		oncePerDay: oncePerDay,
	}
}

// UpdateStreak applies overall to the streak when date is today and returns
// the resulting user. Past and future dates leave counters untouched.
func (se *StreakEngine) UpdateStreak(ctx context.Context, uid uuid.UUID, date string, overall int) (*entity.User, error) {
	user, err := se.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	if date != clock.Today(se.clock) {
		metrics.StreakTransitionsTotal.WithLabelValues(metrics.TransitionPastDate).Inc()
		return user, nil
	}
	next := *user
	transition := se.apply(&next, date, overall)
	metrics.StreakTransitionsTotal.WithLabelValues(transition).Inc()
	if transition == metrics.TransitionNoop || transition == metrics.TransitionCounted {
		return user, nil
	}
	if err = se.users.UpdateStreak(ctx, &next); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	return &next, nil
}

// apply mutates u in place and names the transition taken.
func (se *StreakEngine) apply(u *entity.User, date string, overall int) string {
	if overall >= se.threshold {
		if se.oncePerDay && u.LastStreakDate != nil && *u.LastStreakDate == date {
			return metrics.TransitionCounted
		}
		u.CurrentStreak++
		u.BestStreak = max(u.BestStreak, u.CurrentStreak)
		if se.oncePerDay {
			d := date
			u.LastStreakDate = &d
		}
		return metrics.TransitionIncrement
	}
	if u.CurrentStreak > 0 {
		u.CurrentStreak = 0
		u.LastStreakDate = nil
		return metrics.TransitionReset
	}
	return metrics.TransitionNoop
}

// PerformanceService is the orchestrator in front of the aggregator and the
// streak engine, and the cache-aside reader of daily performance.
type PerformanceService struct {
	aggregator  *Aggregator
	closer      DayCloser
	performance repository.PerformanceRepositoryI
	clock       clock.Clock
	locks       *keyedMutex
}

func NewPerformanceService(aggregator *Aggregator, closer DayCloser, performance repository.PerformanceRepositoryI, c clock.Clock) *PerformanceService {
	if aggregator == nil || closer == nil || performance == nil {
		log.Fatal("on performance service provided nil dependencies")
	}
	return &PerformanceService{
		aggregator:  aggregator,
		closer:      closer,
		performance: performance,
		clock:       c,
		locks:       newKeyedMutex(),
	}
}

// RecalculateDay runs aggregation then the streak update for (uid, date).
// A missing user skips the streak step.
func (ps *PerformanceService) RecalculateDay(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	return ps.recalculate(ctx, uid, date, metrics.TriggerMutation)
}

func (ps *PerformanceService) Recalculate(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	return ps.recalculate(ctx, uid, date, metrics.TriggerManual)
}

func (ps *PerformanceService) recalculate(ctx context.Context, uid uuid.UUID, date, trigger string) (*entity.DailyPerformance, error) {
	unlock := ps.locks.Lock(lockKey(uid, date))
	defer unlock()

	p, err := ps.aggregator.Aggregate(ctx, uid, date)
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues(trigger, metrics.ResultFailure).Inc()
		return nil, err
	}
	if _, err = ps.closer.UpdateStreak(ctx, uid, date, p.OverallScore); err != nil && !errors.Is(err, errorvalues.ErrUserNotFound) {
		metrics.RecalculationsTotal.WithLabelValues(trigger, metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("updating streak: %w", err)
	}
	metrics.RecalculationsTotal.WithLabelValues(trigger, metrics.ResultSuccess).Inc()
	return p, nil
}

// aggregateOnly refreshes the cached row without touching the streak.
func (ps *PerformanceService) aggregateOnly(ctx context.Context, uid uuid.UUID, date, trigger string) (*entity.DailyPerformance, error) {
	unlock := ps.locks.Lock(lockKey(uid, date))
	defer unlock()

	p, err := ps.aggregator.Aggregate(ctx, uid, date)
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues(trigger, metrics.ResultFailure).Inc()
		return nil, err
	}
	metrics.RecalculationsTotal.WithLabelValues(trigger, metrics.ResultSuccess).Inc()
	return p, nil
}

// computeOnly scores a day that has not happened yet. Such days are never
// cached: they can still change and a stored row would go stale.
func (ps *PerformanceService) computeOnly(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheFuture).Inc()
	return ps.aggregator.Compute(ctx, uid, date)
}

func (ps *PerformanceService) GetDay(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	today := clock.Today(ps.clock)
	if date > today {
		return ps.computeOnly(ctx, uid, date)
	}
	if date == today {
		metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheRefresh).Inc()
		return ps.aggregateOnly(ctx, uid, date, metrics.TriggerRead)
	}
	p, err := ps.performance.Get(ctx, uid, date)
	if err == nil {
		metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheHit).Inc()
		return p, nil
	}
	if !errors.Is(err, errorvalues.ErrPerformanceNotFound) {
		return nil, storeError(err)
	}
	metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheMiss).Inc()
	return ps.aggregateOnly(ctx, uid, date, metrics.TriggerRead)
}

func (ps *PerformanceService) GetRange(ctx context.Context, uid uuid.UUID, start, end string) ([]entity.DailyPerformance, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is after %s", errorvalues.ErrInvalidDateRange, start, end)
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days requested, at most %d allowed", errorvalues.ErrInvalidDateRange, days, MaxRangeDays)
	}

	cached, err := ps.performance.GetRange(ctx, uid, start, end)
	if err != nil {
		return nil, storeError(err)
	}
	byDate := make(map[string]entity.DailyPerformance, len(cached))
	for _, p := range cached {
		byDate[p.Date] = p
	}

	today := clock.Today(ps.clock)
	result := make([]entity.DailyPerformance, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(entity.DateLayout)
		if date > today {
			future, err := ps.computeOnly(ctx, uid, date)
			if err != nil {
				return nil, err
			}
			result = append(result, *future)
			continue
		}
		p, ok := byDate[date]
		switch {
		case date == today:
			metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheRefresh).Inc()
		case ok:
			metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheHit).Inc()
			result = append(result, p)
			continue
		default:
			metrics.CacheLookupsTotal.WithLabelValues(metrics.CacheMiss).Inc()
		}
		fresh, err := ps.aggregateOnly(ctx, uid, date, metrics.TriggerRange)
		if err != nil {
			return nil, err
		}
		result = append(result, *fresh)
	}
	return result, nil
}

func lockKey(uid uuid.UUID, date string) string {
	return uid.String() + "/" + date
}

// recalculateQuietly is the best-effort step after a successful mutation:
// the write already happened, so failures are only logged.
func recalculateQuietly(ctx context.Context, r DayRecalculator, uid uuid.UUID, date string) {
	if r == nil {
		return
	}
	if _, err := r.RecalculateDay(ctx, uid, date); err != nil {
		slog.Warn("daily performance recalculation failed",
			slog.String("uid", uid.String()),
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
	}
}
