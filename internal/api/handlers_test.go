package api_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/discipline/internal/api"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/metrics"
	"github.com/limbo/discipline/internal/service"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/entity"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerID   = uuid.New()
	today     = "2025-01-10"
	testClock = clock.Fixed{At: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
)

// Stubs embed the service interface, so methods a stub does not override panic.

type userStub struct {
	service.UserServiceI
	ensured int
	err     error
}

func (s *userStub) EnsureUser(ctx context.Context, id uuid.UUID, name string) (*entity.User, error) {
	s.ensured++
	if s.err != nil {
		return nil, s.err
	}
	return &entity.User{ID: id, Name: name}, nil
}

func (s *userStub) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return &entity.User{ID: id, Name: "owner", CurrentStreak: 3}, nil
}

type tasksStub struct {
	service.TasksServiceI
	date    string
	created *service.CreateTaskRequest
	err     error
}

func (s *tasksStub) GetTasks(ctx context.Context, uid uuid.UUID, date string) ([]entity.Task, error) {
	s.date = date
	return []entity.Task{{ID: uuid.New(), UserID: uid, Date: date}}, s.err
}

func (s *tasksStub) CreateTask(ctx context.Context, uid uuid.UUID, req *service.CreateTaskRequest) (*entity.Task, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Task{ID: uuid.New(), UserID: uid, Title: req.Title, Date: req.Date}, nil
}

func (s *tasksStub) UpdateTask(ctx context.Context, uid, taskID uuid.UUID, req *service.UpdateTaskRequest) (*entity.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Task{ID: taskID, UserID: uid, Completed: req.Completed != nil && *req.Completed}, nil
}

func (s *tasksStub) DeleteTask(ctx context.Context, uid, taskID uuid.UUID) error {
	return s.err
}

type definitionsStub struct {
	service.DefinitionsServiceI
}

func (s *definitionsStub) GetRoutines(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error) {
	return []entity.Routine{{ID: uuid.New(), UserID: uid, Name: "stretch", Type: entity.RoutineMorning}}, nil
}

type logsStub struct {
	service.LogsServiceI
	kind entity.LogKind
	req  *service.LogCompletionRequest
	err  error
}

func (s *logsStub) LogCompletion(ctx context.Context, uid uuid.UUID, kind entity.LogKind, req *service.LogCompletionRequest) (*entity.CompletionLog, error) {
	s.kind, s.req = kind, req
	if s.err != nil {
		return nil, s.err
	}
	return &entity.CompletionLog{ID: uuid.New(), UserID: uid, ParentID: req.ParentID, Date: req.Date, Completed: req.Completed}, nil
}

func (s *logsStub) GetWaterIntake(ctx context.Context, uid uuid.UUID, date string) (*entity.WaterIntake, error) {
	return &entity.WaterIntake{UserID: uid, Date: date, Amount: 0, Target: service.DefaultWaterTarget}, nil
}

type performanceStub struct {
	service.PerformanceServiceI
	date       string
	start, end string
	err        error
}

func (s *performanceStub) GetDay(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	s.date = date
	if s.err != nil {
		return nil, s.err
	}
	return &entity.DailyPerformance{UserID: uid, Date: date, OverallScore: 80}, nil
}

func (s *performanceStub) GetRange(ctx context.Context, uid uuid.UUID, start, end string) ([]entity.DailyPerformance, error) {
	s.start, s.end = start, end
	if s.err != nil {
		return nil, s.err
	}
	return []entity.DailyPerformance{{UserID: uid, Date: start}}, nil
}

func (s *performanceStub) Recalculate(ctx context.Context, uid uuid.UUID, date string) (*entity.DailyPerformance, error) {
	s.date = date
	if s.err != nil {
		return nil, s.err
	}
	return &entity.DailyPerformance{UserID: uid, Date: date, OverallScore: 75}, nil
}

type stubs struct {
	users       *userStub
	tasks       *tasksStub
	logs        *logsStub
	performance *performanceStub
}

func newServer() (http.Handler, *stubs) {
	st := &stubs{
		users:       &userStub{},
		tasks:       &tasksStub{},
		logs:        &logsStub{},
		performance: &performanceStub{},
	}
	serv := api.New(&api.ServicesList{
		UserService:        st.users,
		TasksService:       st.tasks,
		DefinitionsService: &definitionsStub{},
		LogsService:        st.logs,
		PerformanceService: st.performance,
	}, api.Owner{ID: ownerID, Name: "owner"}, testClock)
	return serv.Handler(), st
}

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, _ := sonic.ConfigDefault.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h, st := newServer()
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("/health", "200"))
	rr := do(h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	// Health bypasses the owner lookup
	assert.Equal(t, 0, st.users.ensured)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("/health", "200")))
}

func TestOwnerMiddleware(t *testing.T) {
	t.Run("owner ensured", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodGet, "/api/v1/user", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var user entity.User
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, ownerID, user.ID)
		assert.Equal(t, 1, st.users.ensured)
	})
	t.Run("store failure", func(t *testing.T) {
		h, st := newServer()
		st.users.err = errors.New("db down")
		rr := do(h, http.MethodGet, "/api/v1/tasks", nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Empty(t, st.tasks.date)
	})
}

func TestTaskHandlers(t *testing.T) {
	t.Run("list defaults to today", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodGet, "/api/v1/tasks", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, today, st.tasks.date)
	})
	t.Run("list for given date", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodGet, "/api/v1/tasks?date=2025-01-03", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "2025-01-03", st.tasks.date)
	})
	t.Run("created", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodPost, "/api/v1/tasks", api.CreateTaskRequest{Title: "report", Date: today})
		assert.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, st.tasks.created)
		assert.Equal(t, "report", st.tasks.created.Title)
	})
	t.Run("empty body", func(t *testing.T) {
		h, _ := newServer()
		rr := do(h, http.MethodPost, "/api/v1/tasks", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("validation error", func(t *testing.T) {
		h, st := newServer()
		st.tasks.err = errors.Join(errorvalues.ErrValidation, errors.New("field Title failed"))
		rr := do(h, http.MethodPost, "/api/v1/tasks", api.CreateTaskRequest{Date: today})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("invalid id", func(t *testing.T) {
		h, _ := newServer()
		rr := do(h, http.MethodPatch, "/api/v1/tasks/not-a-uuid", api.UpdateTaskRequest{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("task of another user looks missing", func(t *testing.T) {
		h, st := newServer()
		st.tasks.err = errorvalues.ErrWrongOwner
		completed := true
		rr := do(h, http.MethodPatch, "/api/v1/tasks/"+uuid.NewString(), api.UpdateTaskRequest{Completed: &completed})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
	t.Run("deleted", func(t *testing.T) {
		h, _ := newServer()
		rr := do(h, http.MethodDelete, "/api/v1/tasks/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
	t.Run("store error", func(t *testing.T) {
		h, st := newServer()
		st.tasks.err = fmt.Errorf("%w: %w", errorvalues.ErrStore, errors.New("conn reset"))
		rr := do(h, http.MethodDelete, "/api/v1/tasks/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCompletionLogRoutes(t *testing.T) {
	testCases := []struct {
		Path string
		Kind entity.LogKind
	}{
		{Path: "/api/v1/workout-logs", Kind: entity.LogWorkout},
		{Path: "/api/v1/mind-exercise-logs", Kind: entity.LogMind},
		{Path: "/api/v1/routine-logs", Kind: entity.LogRoutine},
	}
	for _, tc := range testCases {
		t.Run(string(tc.Kind), func(t *testing.T) {
			h, st := newServer()
			parentID := uuid.New()
			rr := do(h, http.MethodPost, tc.Path, api.LogCompletionRequest{ParentID: parentID.String(), Date: today, Completed: true})
			require.Equal(t, http.StatusCreated, rr.Code)
			assert.Equal(t, tc.Kind, st.logs.kind)
			assert.Equal(t, parentID, st.logs.req.ParentID)
		})
	}
	t.Run("invalid parent id", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodPost, "/api/v1/mind-exercise-logs", api.LogCompletionRequest{ParentID: "x", Date: today})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Nil(t, st.logs.req)
	})
	t.Run("unknown definition", func(t *testing.T) {
		h, st := newServer()
		st.logs.err = errorvalues.ErrDefinitionNotFound
		rr := do(h, http.MethodPost, "/api/v1/routine-logs", api.LogCompletionRequest{ParentID: uuid.NewString(), Date: today})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDefinitionAndWaterReads(t *testing.T) {
	h, _ := newServer()
	rr := do(h, http.MethodGet, "/api/v1/routines", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var routines []entity.Routine
	require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &routines))
	assert.Len(t, routines, 1)

	rr = do(h, http.MethodGet, "/api/v1/water-intake", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var intake entity.WaterIntake
	require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &intake))
	assert.Equal(t, 0, intake.Amount)
	assert.Equal(t, service.DefaultWaterTarget, intake.Target)
	assert.Equal(t, today, intake.Date)
}

func TestPerformanceHandlers(t *testing.T) {
	t.Run("day defaults to today", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodGet, "/api/v1/daily-performance", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, today, st.performance.date)
		var perf entity.DailyPerformance
		require.NoError(t, sonic.ConfigDefault.Unmarshal(rr.Body.Bytes(), &perf))
		assert.Equal(t, 80, perf.OverallScore)
	})
	t.Run("range", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodGet, "/api/v1/daily-performance/range/2025-01-01/2025-01-07", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "2025-01-01", st.performance.start)
		assert.Equal(t, "2025-01-07", st.performance.end)
	})
	t.Run("inverted range", func(t *testing.T) {
		h, st := newServer()
		st.performance.err = errorvalues.ErrInvalidDateRange
		rr := do(h, http.MethodGet, "/api/v1/daily-performance/range/2025-01-07/2025-01-01", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	t.Run("recalculate", func(t *testing.T) {
		h, st := newServer()
		rr := do(h, http.MethodPost, "/api/v1/daily-performance/2025-01-09/recalculate", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "2025-01-09", st.performance.date)
	})
	t.Run("recalculate failure", func(t *testing.T) {
		h, st := newServer()
		st.performance.err = fmt.Errorf("%w: %w", errorvalues.ErrStore, errors.New("timeout"))
		rr := do(h, http.MethodPost, "/api/v1/daily-performance/2025-01-09/recalculate", nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
