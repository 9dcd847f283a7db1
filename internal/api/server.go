package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/limbo/discipline/internal/service"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/entity"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	tasksService       service.TasksServiceI
	definitionsService service.DefinitionsServiceI
	logsService        service.LogsServiceI
	performanceService service.PerformanceServiceI
	clock              clock.Clock
	owner              Owner
}

type ServicesList struct {
	UserService        service.UserServiceI
	TasksService       service.TasksServiceI
	DefinitionsService service.DefinitionsServiceI
	LogsService        service.LogsServiceI
	PerformanceService service.PerformanceServiceI
}

// Owner is the single user every request acts as.
type Owner struct {
	ID   uuid.UUID
	Name string
}

func New(servicesOptions *ServicesList, owner Owner, c clock.Clock) *Server {
	s := &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		tasksService:       servicesOptions.TasksService,
		definitionsService: servicesOptions.DefinitionsService,
		logsService:        servicesOptions.LogsService,
		performanceService: servicesOptions.PerformanceService,
		clock:              c,
		owner:              owner,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware, s.MetricsMiddleware)
	s.mx.Get("/health", s.Health)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.OwnerMiddleware, s.LoggerExtensionMiddleware)

		r.Get("/user", s.GetUser)

		r.Get("/tasks", s.GetTasks)
		r.Post("/tasks", s.CreateTask)
		r.Patch("/tasks/{id}", s.UpdateTask)
		r.Delete("/tasks/{id}", s.DeleteTask)

		r.Get("/workout-types", s.GetWorkoutTypes)
		r.Post("/workout-types", s.CreateWorkoutType)
		r.Get("/workout-types/{id}/exercises", s.GetExercises)
		r.Post("/workout-types/{id}/exercises", s.CreateExercise)
		r.Get("/mind-exercises", s.GetMindExercises)
		r.Post("/mind-exercises", s.CreateMindExercise)
		r.Get("/routines", s.GetRoutines)
		r.Post("/routines", s.CreateRoutine)
		r.Get("/dev-goals", s.GetDevGoals)
		r.Post("/dev-goals", s.CreateDevGoal)

		for path, kind := range map[string]entity.LogKind{
			"/workout-logs":       entity.LogWorkout,
			"/mind-exercise-logs": entity.LogMind,
			"/routine-logs":       entity.LogRoutine,
		} {
			r.Get(path, s.GetCompletions(kind))
			r.Post(path, s.LogCompletion(kind))
			r.Patch(path+"/{id}", s.PatchCompletion(kind))
		}
		r.Get("/dev-goal-logs", s.GetDevGoalLogs)
		r.Post("/dev-goal-logs", s.LogDevGoal)
		r.Patch("/dev-goal-logs/{id}", s.PatchDevGoalLog)

		r.Get("/water-intake", s.GetWaterIntake)
		r.Post("/water-intake", s.SetWaterIntake)

		r.Get("/daily-performance", s.GetDailyPerformance)
		r.Get("/daily-performance/range/{start}/{end}", s.GetPerformanceRange)
		r.Post("/daily-performance/{date}/recalculate", s.RecalculatePerformance)
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
