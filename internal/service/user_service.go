package service

import (
	"context"
	"fmt"

	"food-ordering/internal/model"
	"food-ordering/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new user administration service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GrantRole refuses to let an admin change their own role, which keeps at
// least one admin able to log in.
func (s *userService) GrantRole(ctx context.Context, actorID, targetID int64, rawRole string) error {
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return model.ErrInvalidRole
	}

	if actorID == targetID {
		return model.ErrSelfRoleChange
	}

	updated, err := s.userRepo.UpdateRole(ctx, targetID, role)
	if err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	if !updated {
		return model.ErrUserNotFound
	}

	s.logger.Info().
		Int64("actor_id", actorID).
		Int64("user_id", targetID).
		Str("role", string(role)).
		Msg("role granted")

	return nil
}
