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

type DefinitionsRepos struct {
	Workouts      repository.WorkoutsRepositoryI
	MindExercises repository.MindExercisesRepositoryI
	Routines      repository.RoutinesRepositoryI
	DevGoals      repository.DevGoalsRepositoryI
}

// DefinitionsService manages the standing declarations scores are measured
// against. New mind exercises, routines and dev goals change today's
// denominators, so today is recalculated after each of them.
type DefinitionsService struct {
	repos        DefinitionsRepos
	recalculator DayRecalculator
	clock        clock.Clock
}

func NewDefinitionsService(repos DefinitionsRepos, recalculator DayRecalculator, c clock.Clock) *DefinitionsService {
	if repos.Workouts == nil || repos.MindExercises == nil || repos.Routines == nil || repos.DevGoals == nil {
		log.Fatal("on definitions service provided nil repos")
	}
	return &DefinitionsService{
		repos:        repos,
		recalculator: recalculator,
		clock:        c,
	}
}

func (ds *DefinitionsService) CreateWorkoutType(ctx context.Context, uid uuid.UUID, req *CreateWorkoutTypeRequest) (*entity.WorkoutType, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	wt := entity.WorkoutType{
		UserID:   uid,
		Name:     req.Name,
		IsWeekly: req.IsWeekly,
		MaxTime:  req.MaxTime,
	}
	if err := ds.repos.Workouts.CreateType(ctx, &wt); err != nil {
		return nil, ownerError(err)
	}
	return &wt, nil
}

func (ds *DefinitionsService) GetWorkoutTypes(ctx context.Context, uid uuid.UUID) ([]entity.WorkoutType, error) {
	types, err := ds.repos.Workouts.GetTypes(ctx, uid)
	if err != nil {
		return nil, storeError(err)
	}
	return types, nil
}

func (ds *DefinitionsService) CreateExercise(ctx context.Context, uid, workoutTypeID uuid.UUID, req *CreateExerciseRequest) (*entity.Exercise, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := ds.checkWorkoutType(ctx, uid, workoutTypeID); err != nil {
		return nil, err
	}
	ex := entity.Exercise{
		WorkoutTypeID: workoutTypeID,
		Name:          req.Name,
		Sets:          req.Sets,
		Reps:          req.Reps,
		Duration:      req.Duration,
		DayOfWeek:     req.DayOfWeek,
		OrderIndex:    req.OrderIndex,
	}
	if err := ds.repos.Workouts.CreateExercise(ctx, &ex); err != nil {
		if errors.Is(err, errorvalues.ErrDefinitionNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	return &ex, nil
}

func (ds *DefinitionsService) GetExercises(ctx context.Context, uid, workoutTypeID uuid.UUID) ([]entity.Exercise, error) {
	if err := ds.checkWorkoutType(ctx, uid, workoutTypeID); err != nil {
		return nil, err
	}
	exercises, err := ds.repos.Workouts.GetExercises(ctx, workoutTypeID)
	if err != nil {
		return nil, storeError(err)
	}
	return exercises, nil
}

func (ds *DefinitionsService) checkWorkoutType(ctx context.Context, uid, workoutTypeID uuid.UUID) error {
	wt, err := ds.repos.Workouts.GetTypeByID(ctx, workoutTypeID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDefinitionNotFound) {
			return err
		}
		return storeError(err)
	}
	if wt.UserID != uid {
		return errorvalues.ErrWrongOwner
	}
	return nil
}

func (ds *DefinitionsService) CreateMindExercise(ctx context.Context, uid uuid.UUID, req *CreateMindExerciseRequest) (*entity.MindExercise, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	me := entity.MindExercise{
		UserID:     uid,
		Name:       req.Name,
		Time:       req.Time,
		Duration:   req.Duration,
		OrderIndex: req.OrderIndex,
	}
	if err := ds.repos.MindExercises.Create(ctx, &me); err != nil {
		return nil, ownerError(err)
	}
	recalculateQuietly(ctx, ds.recalculator, uid, clock.Today(ds.clock))
	return &me, nil
}

func (ds *DefinitionsService) GetMindExercises(ctx context.Context, uid uuid.UUID) ([]entity.MindExercise, error) {
	exercises, err := ds.repos.MindExercises.GetByUser(ctx, uid)
	if err != nil {
		return nil, storeError(err)
	}
	return exercises, nil
}

func (ds *DefinitionsService) CreateRoutine(ctx context.Context, uid uuid.UUID, req *CreateRoutineRequest) (*entity.Routine, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	r := entity.Routine{
		UserID:      uid,
		Name:        req.Name,
		Description: req.Description,
		Type:        entity.RoutineType(req.Type),
		DayOfWeek:   req.DayOfWeek,
		OrderIndex:  req.OrderIndex,
	}
	if err := ds.repos.Routines.Create(ctx, &r); err != nil {
		return nil, ownerError(err)
	}
	recalculateQuietly(ctx, ds.recalculator, uid, clock.Today(ds.clock))
	return &r, nil
}

func (ds *DefinitionsService) GetRoutines(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error) {
	routines, err := ds.repos.Routines.GetByUser(ctx, uid)
	if err != nil {
		return nil, storeError(err)
	}
	return routines, nil
}

func (ds *DefinitionsService) CreateDevGoal(ctx context.Context, uid uuid.UUID, req *CreateDevGoalRequest) (*entity.DevGoal, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	g := entity.DevGoal{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Type:        entity.DevGoalType(req.Type),
		TargetHours: req.TargetHours,
		OrderIndex:  req.OrderIndex,
	}
	if err := ds.repos.DevGoals.Create(ctx, &g); err != nil {
		return nil, ownerError(err)
	}
	recalculateQuietly(ctx, ds.recalculator, uid, clock.Today(ds.clock))
	return &g, nil
}

func (ds *DefinitionsService) GetDevGoals(ctx context.Context, uid uuid.UUID) ([]entity.DevGoal, error) {
	goals, err := ds.repos.DevGoals.GetByUser(ctx, uid)
	if err != nil {
		return nil, storeError(err)
	}
	return goals, nil
}

// ownerError keeps ErrUserNotFound and wraps everything else as a store failure.
func ownerError(err error) error {
	if errors.Is(err, errorvalues.ErrUserNotFound) {
		return err
	}
	return storeError(err)
}
