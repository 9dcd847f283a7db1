// @title Discipline API
// @description Daily performance tracker: tasks, workouts, mind, routines, development goals and streaks
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/limbo/discipline/internal/api"
	"github.com/limbo/discipline/internal/repository"
	"github.com/limbo/discipline/internal/service"
	"github.com/limbo/discipline/pkg/cleanup"
	"github.com/limbo/discipline/pkg/clock"
	"github.com/limbo/discipline/pkg/config"
	"github.com/limbo/discipline/pkg/logger"
)

// Used when OWNER_ID is not set
const defaultOwnerID = "00000000-0000-0000-0000-000000000001"

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	logger.Init(
		cfg.GetStringOr("APP_ENV", "production") == "development",
		cfg.GetStringOr("LOG_LEVEL", "info"),
		cfg.GetString("SENTRY_DSN"),
	)
	defer cleanup.CleanUp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	location, err := time.LoadLocation(cfg.GetStringOr("TIMEZONE", "Local"))
	if err != nil {
		log.Fatal("invalid TIMEZONE: ", err)
	}
	clk := clock.System{Location: location}
	ownerID, err := uuid.Parse(cfg.GetStringOr("OWNER_ID", defaultOwnerID))
	if err != nil {
		log.Fatal("invalid OWNER_ID: ", err)
	}

	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
		Params:   cfg.GetString("POSTGRES_PARAMS"),
	}
	if cfg.GetBool("RUN_MIGRATIONS", true) {
		if err := repository.Migrate(&dbCfg); err != nil {
			log.Fatal("migrations error: ", err)
		}
	}
	pool, err := repository.NewPool(ctx, &dbCfg)
	if err != nil {
		log.Fatal(err)
	}

	usersRepo := repository.NewUsersRepo(pool)
	tasksRepo := repository.NewTasksRepo(pool)
	workoutsRepo := repository.NewWorkoutsRepo(pool)
	mindRepo := repository.NewMindExercisesRepo(pool)
	routinesRepo := repository.NewRoutinesRepo(pool)
	devGoalsRepo := repository.NewDevGoalsRepo(pool)
	completionsRepo := repository.NewCompletionLogsRepo(pool)
	waterRepo := repository.NewWaterIntakeRepo(pool)
	performanceRepo := repository.NewPerformanceRepo(pool)

	aggregator := service.NewAggregator(service.AggregatorRepos{
		Tasks:         tasksRepo,
		Logs:          completionsRepo,
		MindExercises: mindRepo,
		Routines:      routinesRepo,
		DevGoals:      devGoalsRepo,
		Performance:   performanceRepo,
	}, clk)
	streaks := service.NewStreakEngine(
		usersRepo,
		clk,
		cfg.GetInt("STREAK_THRESHOLD", service.DefaultStreakThreshold),
		cfg.GetBool("STREAK_ONCE_PER_DAY", true),
	)
	performanceService := service.NewPerformanceService(aggregator, streaks, performanceRepo, clk)

	serv := api.New(&api.ServicesList{
		UserService:  service.NewUserService(usersRepo),
		TasksService: service.NewTasksService(tasksRepo, performanceService, clk),
		DefinitionsService: service.NewDefinitionsService(service.DefinitionsRepos{
			Workouts:      workoutsRepo,
			MindExercises: mindRepo,
			Routines:      routinesRepo,
			DevGoals:      devGoalsRepo,
		}, performanceService, clk),
		LogsService: service.NewLogsService(service.LogsRepos{
			Completions: completionsRepo,
			DevGoals:    devGoalsRepo,
			Water:       waterRepo,
		}, performanceService, clk, cfg.GetInt("WATER_TARGET_ML", service.DefaultWaterTarget)),
		PerformanceService: performanceService,
	}, api.Owner{
		ID:   ownerID,
		Name: cfg.GetStringOr("OWNER_NAME", "owner"),
	}, clk)

	if addr := cfg.GetStringOr("METRICS_ADDRESS", ":9090"); addr != "off" {
		runMetricsServer(addr)
	}

	if err = serv.Run(ctx, cfg.GetStringOr("API_ADDRESS", ":8080")); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		return
	}
	slog.Info("server stopped")
}

func runMetricsServer(addr string) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              addr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("metrics server listening", slog.String("address", addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()
	cleanup.Register(&cleanup.Job{
		Name: "stopping metrics server",
		F: func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		},
	})
}
