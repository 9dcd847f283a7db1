package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/service"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/entity"
)

// Variables for tests
var (
	ownerID = uuid.New()
	// Friday
	today     = "2025-01-10"
	yesterday = "2025-01-09"
	tomorrow  = "2025-01-11"
	testClock = clock.Fixed{At: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
)

type usersFake struct {
	mu        sync.Mutex
	users     map[uuid.UUID]entity.User
	findErr   error
	updateErr error
	updates   int
}

func newUsersFake(users ...entity.User) *usersFake {
	f := &usersFake{users: make(map[uuid.UUID]entity.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *usersFake) CreateIfNotExists(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		f.users[user.ID] = *user
	}
	return nil
}

func (f *usersFake) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[uid]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	return &u, nil
}

func (f *usersFake) UpdateStreak(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[user.ID]
	if !ok {
		return errorvalues.ErrUserNotFound
	}
	u.CurrentStreak, u.BestStreak, u.LastStreakDate = user.CurrentStreak, user.BestStreak, user.LastStreakDate
	f.users[user.ID] = u
	f.updates++
	return nil
}

func (f *usersFake) get(uid uuid.UUID) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[uid]
}

type tasksFake struct {
	tasks []entity.Task
	err   error
}

func (f *tasksFake) Create(ctx context.Context, task *entity.Task) error {
	if f.err != nil {
		return f.err
	}
	task.ID = uuid.New()
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *tasksFake) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, errorvalues.ErrTaskNotFound
}

func (f *tasksFake) GetByUserAndDate(ctx context.Context, uid uuid.UUID, date string) ([]entity.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]entity.Task, 0)
	for _, t := range f.tasks {
		if t.UserID == uid && t.Date == date {
			result = append(result, t)
		}
	}
	return result, nil
}

func (f *tasksFake) Update(ctx context.Context, task *entity.Task) error {
	if f.err != nil {
		return f.err
	}
	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = *task
			return nil
		}
	}
	return errorvalues.ErrTaskNotFound
}

func (f *tasksFake) Delete(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errorvalues.ErrTaskNotFound
}

type completionsFake struct {
	logs map[entity.LogKind][]entity.CompletionLog
	err  error
}

func newCompletionsFake() *completionsFake {
	return &completionsFake{logs: make(map[entity.LogKind][]entity.CompletionLog)}
}

func (f *completionsFake) add(kind entity.LogKind, parentID uuid.UUID, date string, completed bool) {
	f.logs[kind] = append(f.logs[kind], entity.CompletionLog{
		ID:        uuid.New(),
		UserID:    ownerID,
		ParentID:  parentID,
		Date:      date,
		Completed: completed,
	})
}

func (f *completionsFake) Upsert(ctx context.Context, kind entity.LogKind, l *entity.CompletionLog) error {
	if f.err != nil {
		return f.err
	}
	for i, existing := range f.logs[kind] {
		if existing.UserID == l.UserID && existing.Date == l.Date && existing.ParentID == l.ParentID {
			l.ID = existing.ID
			f.logs[kind][i] = *l
			return nil
		}
	}
	l.ID = uuid.New()
	f.logs[kind] = append(f.logs[kind], *l)
	return nil
}

func (f *completionsFake) GetByID(ctx context.Context, kind entity.LogKind, id uuid.UUID) (*entity.CompletionLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, l := range f.logs[kind] {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, errorvalues.ErrLogNotFound
}

func (f *completionsFake) GetByUserAndDate(ctx context.Context, kind entity.LogKind, uid uuid.UUID, date string) ([]entity.CompletionLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]entity.CompletionLog, 0)
	for _, l := range f.logs[kind] {
		if l.UserID == uid && l.Date == date {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *completionsFake) Update(ctx context.Context, kind entity.LogKind, l *entity.CompletionLog) error {
	if f.err != nil {
		return f.err
	}
	for i, existing := range f.logs[kind] {
		if existing.ID == l.ID {
			f.logs[kind][i] = *l
			return nil
		}
	}
	return errorvalues.ErrLogNotFound
}

type mindFake struct {
	exercises []entity.MindExercise
	err       error
}

func (f *mindFake) Create(ctx context.Context, me *entity.MindExercise) error {
	if f.err != nil {
		return f.err
	}
	me.ID = uuid.New()
	f.exercises = append(f.exercises, *me)
	return nil
}

func (f *mindFake) GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.MindExercise, error) {
	return f.exercises, f.err
}

type routinesFake struct {
	routines []entity.Routine
	err      error
}

func (f *routinesFake) Create(ctx context.Context, r *entity.Routine) error {
	if f.err != nil {
		return f.err
	}
	r.ID = uuid.New()
	f.routines = append(f.routines, *r)
	return nil
}

func (f *routinesFake) GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error) {
	return f.routines, f.err
}

type devGoalsFake struct {
	goals []entity.DevGoal
	logs  []entity.DevGoalLog
	err   error
}

func (f *devGoalsFake) Create(ctx context.Context, g *entity.DevGoal) error {
	if f.err != nil {
		return f.err
	}
	g.ID = uuid.New()
	f.goals = append(f.goals, *g)
	return nil
}

func (f *devGoalsFake) GetByUser(ctx context.Context, uid uuid.UUID) ([]entity.DevGoal, error) {
	return f.goals, f.err
}

func (f *devGoalsFake) UpsertLog(ctx context.Context, l *entity.DevGoalLog) error {
	if f.err != nil {
		return f.err
	}
	for i, existing := range f.logs {
		if existing.UserID == l.UserID && existing.Date == l.Date && existing.DevGoalID == l.DevGoalID {
			l.ID = existing.ID
			f.logs[i] = *l
			return nil
		}
	}
	l.ID = uuid.New()
	f.logs = append(f.logs, *l)
	return nil
}

func (f *devGoalsFake) GetLogByID(ctx context.Context, id uuid.UUID) (*entity.DevGoalLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, l := range f.logs {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, errorvalues.ErrLogNotFound
}

func (f *devGoalsFake) GetLogs(ctx context.Context, uid uuid.UUID, date string) ([]entity.DevGoalLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]entity.DevGoalLog, 0)
	for _, l := range f.logs {
		if l.UserID == uid && l.Date == date {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *devGoalsFake) UpdateLog(ctx context.Context, l *entity.DevGoalLog) error {
	if f.err != nil {
		return f.err
	}
	for i, existing := range f.logs {
		if existing.ID == l.ID {
			f.logs[i] = *l
			return nil
		}
	}
	return errorvalues.ErrLogNotFound
}

type waterFake struct {
	intakes map[string]entity.WaterIntake
	err     error
}

func (f *waterFake) Get(ctx context.Context, uid uuid.UUID, date string) (*entity.WaterIntake, error) {
	if f.err != nil {
		return nil, f.err
	}
	w, ok := f.intakes[date]
	if !ok {
		return nil, errorvalues.ErrWaterIntakeNotFound
	}
	return &w, nil
}

func (f *waterFake) Upsert(ctx context.Context, w *entity.WaterIntake) error {
	if f.err != nil {
		return f.err
	}
	if f.intakes == nil {
		f.intakes = make(map[string]entity.WaterIntake)
	}
	if existing, ok := f.intakes[w.Date]; ok {
		w.ID = existing.ID
	} else {
		w.ID = uuid.New()
	}
	f.intakes[w.Date] = *w
	return nil
}

type performanceFake struct {
	mu        sync.Mutex
	rows      map[string]entity.DailyPerformance
	getErr    error
	upsertErr error
	upserts   int
}

func newPerformanceFake() *performanceFake {
	return &performanceFake{rows: make(map[string]entity.DailyPerformance)}
}

func (f *performanceFake) Get(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[date]
	if !ok {
		return nil, errorvalues.ErrPerformanceNotFound
	}
	return &p, nil
}

func (f *performanceFake) Upsert(ctx context.Context, p *entity.DailyPerformance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if existing, ok := f.rows[p.Date]; ok {
		p.ID = existing.ID
	} else {
		p.ID = uuid.New()
	}
	f.rows[p.Date] = *p
	f.upserts++
	return nil
}

func (f *performanceFake) GetRange(ctx context.Context, uid uuid.UUID, from, to string) ([]entity.DailyPerformance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	result := make([]entity.DailyPerformance, 0)
	for date, p := range f.rows {
		if date >= from && date <= to {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (f *performanceFake) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts
}

type recalculatorFake struct {
	dates []string
	err   error
}

func (f *recalculatorFake) RecalculateDay(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	f.dates = append(f.dates, date)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.DailyPerformance{UserID: uid, Date: date}, nil
}

// store bundles fakes for every repository the engine reads.
type store struct {
	users       *usersFake
	tasks       *tasksFake
	completions *completionsFake
	mind        *mindFake
	routines    *routinesFake
	devGoals    *devGoalsFake
	performance *performanceFake
}

func newStore(users ...entity.User) *store {
	return &store{
		users:       newUsersFake(users...),
		tasks:       &tasksFake{},
		completions: newCompletionsFake(),
		mind:        &mindFake{},
		routines:    &routinesFake{},
		devGoals:    &devGoalsFake{},
		performance: newPerformanceFake(),
	}
}

func (s *store) aggregator(c clock.Clock) *service.Aggregator {
	return service.NewAggregator(service.AggregatorRepos{
		Tasks:         s.tasks,
		Logs:          s.completions,
		MindExercises: s.mind,
		Routines:      s.routines,
		DevGoals:      s.devGoals,
		Performance:   s.performance,
	}, c)
}

func (s *store) performanceService(c clock.Clock, oncePerDay bool) *service.PerformanceService {
	engine := service.NewStreakEngine(s.users, c, service.DefaultStreakThreshold, oncePerDay)
	return service.NewPerformanceService(s.aggregator(c), engine, s.performance, c)
}

func (s *store) addTasks(date string, total, completed int) {
	for i := 0; i < total; i++ {
		s.tasks.tasks = append(s.tasks.tasks, entity.Task{
			ID:        uuid.New(),
			UserID:    ownerID,
			Title:     "task",
			Date:      date,
			Completed: i < completed,
		})
	}
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func strPtr(v string) *string {
	return &v
}
