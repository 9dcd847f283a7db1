package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/internal/repository"
	"github.com/limbo/discipline/pkg/entity"
)

type UserService struct {
	repo repository.UsersRepositoryI
}

func NewUserService(usersRepo repository.UsersRepositoryI) *UserService {
	if usersRepo == nil {
		log.Fatal("provided nil usersRepo")
	}
	return &UserService{
		repo: usersRepo,
	}
}

func (us *UserService) EnsureUser(ctx context.Context, id uuid.UUID, name string) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errorvalues.ErrUserNotFound) {
		return nil, storeError(err)
	}
	if err = us.repo.CreateIfNotExists(ctx, &entity.User{ID: id, Name: name}); err != nil {
		return nil, storeError(err)
	}
	user, err = us.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, storeError(err)
	}
	return user, nil
}
