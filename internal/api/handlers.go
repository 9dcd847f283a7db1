package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/service"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/entity"
	"github.com/limbo/discipline/pkg/httputil"
)

const requestTimeout = time.Second * 10

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get user")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get user", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
}

func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get tasks")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	tasks, err := s.tasksService.GetTasks(ctx, uid, s.dateParam(r))
	if err != nil {
		writeServiceError(w, logger, "get tasks", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "create task")
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !decodeBody(w, r, logger, "create task", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.tasksService.CreateTask(ctx, uid, &service.CreateTaskRequest{
		Title:   req.Title,
		Date:    req.Date,
		DueTime: req.DueTime,
	})
	if err != nil {
		writeServiceError(w, logger, "create task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created", slog.String("task_id", task.ID.String()))
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "update task")
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, logger, "update task", "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !decodeBody(w, r, logger, "update task", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.tasksService.UpdateTask(ctx, uid, id, &service.UpdateTaskRequest{
		Title:     req.Title,
		Completed: req.Completed,
		DueTime:   req.DueTime,
	})
	if err != nil {
		writeServiceError(w, logger, "update task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated", slog.String("task_id", task.ID.String()))
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "delete task")
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, logger, "delete task", "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.tasksService.DeleteTask(ctx, uid, id); err != nil {
		writeServiceError(w, logger, "delete task", err)
		return
	}
	httputil.WriteNoContent(w, http.StatusNoContent)
	logger.Info("task deleted", slog.String("task_id", id.String()))
}

func (s *Server) GetWorkoutTypes(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get workout types")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	types, err := s.definitionsService.GetWorkoutTypes(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get workout types", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, types)
}

func (s *Server) CreateWorkoutType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "create workout type")
	if !ok {
		return
	}
	var req CreateWorkoutTypeRequest
	if !decodeBody(w, r, logger, "create workout type", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	wt, err := s.definitionsService.CreateWorkoutType(ctx, uid, &service.CreateWorkoutTypeRequest{
		Name:     req.Name,
		IsWeekly: req.IsWeekly,
		MaxTime:  req.MaxTime,
	})
	if err != nil {
		writeServiceError(w, logger, "create workout type", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, wt)
	logger.Info("workout type created")
}

func (s *Server) GetExercises(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get exercises")
	if !ok {
		return
	}
	typeID, ok := pathUUID(w, r, logger, "get exercises", "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	exercises, err := s.definitionsService.GetExercises(ctx, uid, typeID)
	if err != nil {
		writeServiceError(w, logger, "get exercises", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, exercises)
}

func (s *Server) CreateExercise(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "create exercise")
	if !ok {
		return
	}
	typeID, ok := pathUUID(w, r, logger, "create exercise", "id")
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if !decodeBody(w, r, logger, "create exercise", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	ex, err := s.definitionsService.CreateExercise(ctx, uid, typeID, &service.CreateExerciseRequest{
		Name:       req.Name,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Duration:   req.Duration,
		DayOfWeek:  req.DayOfWeek,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		writeServiceError(w, logger, "create exercise", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, ex)
	logger.Info("exercise created")
}

func (s *Server) GetMindExercises(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get mind exercises")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	exercises, err := s.definitionsService.GetMindExercises(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get mind exercises", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, exercises)
}

func (s *Server) CreateMindExercise(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "create mind exercise")
	if !ok {
		return
	}
	var req CreateMindExerciseRequest
	if !decodeBody(w, r, logger, "create mind exercise", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	me, err := s.definitionsService.CreateMindExercise(ctx, uid, &service.CreateMindExerciseRequest{
		Name:       req.Name,
		Time:       req.Time,
		Duration:   req.Duration,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		writeServiceError(w, logger, "create mind exercise", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, me)
	logger.Info("mind exercise created")
}

func (s *Server) GetRoutines(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get routines")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	routines, err := s.definitionsService.GetRoutines(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get routines", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, routines)
}

func (s *Server) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "create routine")
	if !ok {
		return
	}
	var req CreateRoutineRequest
	if !decodeBody(w, r, logger, "create routine", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	routine, err := s.definitionsService.CreateRoutine(ctx, uid, &service.CreateRoutineRequest{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		DayOfWeek:   req.DayOfWeek,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		writeServiceError(w, logger, "create routine", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, routine)
	logger.Info("routine created")
}

func (s *Server) GetDevGoals(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get dev goals")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	goals, err := s.definitionsService.GetDevGoals(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get dev goals", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goals)
}

func (s *Server) CreateDevGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "create dev goal")
	if !ok {
		return
	}
	var req CreateDevGoalRequest
	if !decodeBody(w, r, logger, "create dev goal", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	goal, err := s.definitionsService.CreateDevGoal(ctx, uid, &service.CreateDevGoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		TargetHours: req.TargetHours,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		writeServiceError(w, logger, "create dev goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, goal)
	logger.Info("dev goal created")
}

func (s *Server) GetCompletions(kind entity.LogKind) http.HandlerFunc {
	op := "get " + string(kind) + " logs"
	return func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		uid, ok := s.requireUID(w, r, op)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		logs, err := s.logsService.GetCompletions(ctx, uid, kind, s.dateParam(r))
		if err != nil {
			writeServiceError(w, logger, op, err)
			return
		}
		httputil.WriteJSONResponse(w, http.StatusOK, logs)
	}
}

func (s *Server) LogCompletion(kind entity.LogKind) http.HandlerFunc {
	op := "log " + string(kind)
	return func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		uid, ok := s.requireUID(w, r, op)
		if !ok {
			return
		}
		var req LogCompletionRequest
		if !decodeBody(w, r, logger, op, &req) {
			return
		}
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			logger.Warn(op + " error: invalid parent id")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid parent_id", nil)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		l, err := s.logsService.LogCompletion(ctx, uid, kind, &service.LogCompletionRequest{
			ParentID:  parentID,
			Date:      req.Date,
			Completed: req.Completed,
		})
		if err != nil {
			writeServiceError(w, logger, op, err)
			return
		}
		httputil.WriteJSONResponse(w, http.StatusCreated, l)
		logger.Info(string(kind)+" log saved", slog.String("log_id", l.ID.String()))
	}
}

func (s *Server) PatchCompletion(kind entity.LogKind) http.HandlerFunc {
	op := "patch " + string(kind) + " log"
	return func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromCtx(r.Context())
		uid, ok := s.requireUID(w, r, op)
		if !ok {
			return
		}
		id, ok := pathUUID(w, r, logger, op, "id")
		if !ok {
			return
		}
		var req PatchCompletionRequest
		if !decodeBody(w, r, logger, op, &req) {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		l, err := s.logsService.PatchCompletion(ctx, uid, kind, id, &service.PatchCompletionRequest{
			Completed: req.Completed,
		})
		if err != nil {
			writeServiceError(w, logger, op, err)
			return
		}
		httputil.WriteJSONResponse(w, http.StatusOK, l)
		logger.Info(string(kind)+" log patched", slog.String("log_id", l.ID.String()))
	}
}

func (s *Server) GetDevGoalLogs(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get dev goal logs")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	logs, err := s.logsService.GetDevGoalLogs(ctx, uid, s.dateParam(r))
	if err != nil {
		writeServiceError(w, logger, "get dev goal logs", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, logs)
}

func (s *Server) LogDevGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "log dev goal")
	if !ok {
		return
	}
	var req LogDevGoalRequest
	if !decodeBody(w, r, logger, "log dev goal", &req) {
		return
	}
	goalID, err := uuid.Parse(req.DevGoalID)
	if err != nil {
		logger.Warn("log dev goal error: invalid dev goal id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid dev_goal_id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	l, err := s.logsService.LogDevGoal(ctx, uid, &service.LogDevGoalRequest{
		DevGoalID:  goalID,
		Date:       req.Date,
		HoursSpent: req.HoursSpent,
		Completed:  req.Completed,
	})
	if err != nil {
		writeServiceError(w, logger, "log dev goal", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, l)
	logger.Info("dev goal log saved", slog.String("log_id", l.ID.String()))
}

func (s *Server) PatchDevGoalLog(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "patch dev goal log")
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, logger, "patch dev goal log", "id")
	if !ok {
		return
	}
	var req PatchDevGoalLogRequest
	if !decodeBody(w, r, logger, "patch dev goal log", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	l, err := s.logsService.PatchDevGoalLog(ctx, uid, id, &service.PatchDevGoalLogRequest{
		HoursSpent: req.HoursSpent,
		Completed:  req.Completed,
	})
	if err != nil {
		writeServiceError(w, logger, "patch dev goal log", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, l)
	logger.Info("dev goal log patched", slog.String("log_id", l.ID.String()))
}

func (s *Server) GetWaterIntake(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get water intake")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	intake, err := s.logsService.GetWaterIntake(ctx, uid, s.dateParam(r))
	if err != nil {
		writeServiceError(w, logger, "get water intake", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, intake)
}

func (s *Server) SetWaterIntake(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "set water intake")
	if !ok {
		return
	}
	var req WaterIntakeRequest
	if !decodeBody(w, r, logger, "set water intake", &req) {
		return
	}
	if req.Date == "" {
		req.Date = clock.Today(s.clock)
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	intake, err := s.logsService.SetWaterIntake(ctx, uid, &service.WaterIntakeRequest{
		Date:   req.Date,
		Amount: req.Amount,
		Target: req.Target,
	})
	if err != nil {
		writeServiceError(w, logger, "set water intake", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, intake)
	logger.Info("water intake saved", slog.Int("amount", intake.Amount))
}

func (s *Server) GetDailyPerformance(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get daily performance")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	perf, err := s.performanceService.GetDay(ctx, uid, s.dateParam(r))
	if err != nil {
		writeServiceError(w, logger, "get daily performance", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, perf)
}

func (s *Server) GetPerformanceRange(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "get performance range")
	if !ok {
		return
	}
	// Filling a long range may aggregate every day in it
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout*3)
	defer cancel()
	perfs, err := s.performanceService.GetRange(ctx, uid, chi.URLParam(r, "start"), chi.URLParam(r, "end"))
	if err != nil {
		writeServiceError(w, logger, "get performance range", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, perfs)
}

func (s *Server) RecalculatePerformance(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := s.requireUID(w, r, "recalculate performance")
	if !ok {
		return
	}
	date := chi.URLParam(r, "date")
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	perf, err := s.performanceService.Recalculate(ctx, uid, date)
	if err != nil {
		writeServiceError(w, logger, "recalculate performance", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, perf)
	logger.Info("performance recalculated", slog.String("date", date), slog.Int("overall", perf.OverallScore))
}

func (s *Server) requireUID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	uid, err := GetUIDFromContext(r)
	if err != nil {
		GetLoggerFromCtx(r.Context()).Error(op + " error: no user in context")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return uuid.UUID{}, false
	}
	return uid, true
}

// dateParam returns the "date" query parameter, defaulting to today.
func (s *Server) dateParam(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	return clock.Today(s.clock)
}

func decodeBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, dst any) bool {
	defer r.Body.Close()
	if err := httputil.DecodeJSON(r.Body, dst); err != nil {
		logger.Warn(op+" error: invalid request body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		logger.Warn(op + " error: invalid " + name + " in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid "+name+" in path value", nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// writeServiceError maps service errors onto HTTP statuses. Entities owned by
// another user are reported as missing.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrValidation),
		errors.Is(err, errorvalues.ErrInvalidDateRange),
		errors.Is(err, errorvalues.ErrUnknownLogKind):
		logger.Warn(op+" error: invalid request", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request", err)
	case errorvalues.IsNotFound(err):
		logger.Warn(op+" error: not found", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusNotFound, "not found", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
