package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"food-ordering/internal/model"
	"food-ordering/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	cost     int
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service hashing with the given bcrypt cost.
func NewAuthService(userRepo repository.UserRepository, bcryptCost int, logger zerolog.Logger) (AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("food-ordering"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &authService{
		userRepo:  userRepo,
		cost:      bcryptCost,
		dummyHash: dummy,
		logger:    logger.With().Str("service", "auth").Logger(),
	}, nil
}

// Register creates a customer account. The role is never taken from the form.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	if name == "" || email == "" || req.Password == "" {
		return nil, model.ErrMissingFields
	}

	if !emailPattern.MatchString(email) {
		return nil, model.ErrInvalidEmail
	}

	// bcrypt only reads the first 72 bytes
	if len(req.Password) > maxPasswordBytes {
		return nil, model.ErrPasswordTooLong
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("email", email).Msg("registration rejected, account exists")
		return nil, model.ErrDuplicateAccount
	}

	user, err := s.createUser(ctx, name, email, req.Password, model.RoleCustomer)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")

	return user, nil
}

// Login returns model.ErrInvalidCredentials for unknown emails and wrong
// passwords alike.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, model.ErrMissingCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		s.logger.Debug().Msg("login failed, unknown email")
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("stored password hash is unusable")
		}
		s.logger.Debug().Int64("user_id", user.ID).Msg("login failed, wrong password")
		return nil, model.ErrInvalidCredentials
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")

	return user, nil
}

// EnsureAdmin creates the administrator account, or promotes an existing
// account with the same email. An existing password is left unchanged.
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Administrator"
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin account: %w", err)
	}

	if existing != nil {
		if existing.Role != model.RoleAdmin {
			if _, err := s.userRepo.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return nil, fmt.Errorf("failed to promote admin account: %w", err)
			}
			existing.Role = model.RoleAdmin
			s.logger.Info().Int64("user_id", existing.ID).Msg("existing account promoted to admin")
		}
		return existing, nil
	}

	user, err := s.createUser(ctx, name, email, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("admin account created")

	return user, nil
}

func (s *authService) createUser(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateAccount) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
