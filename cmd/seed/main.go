// Command seed loads demo accounts and menu items into the configured
// database. Accounts that already exist are left untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"food-ordering/internal/config"
	"food-ordering/internal/database"
	"food-ordering/internal/model"
	"food-ordering/internal/repository"
	"food-ordering/internal/service"

	"github.com/rs/zerolog"
)

const demoPassword = "password123"

type demoRestaurant struct {
	name  string
	email string
	items []model.AddItemRequest
}

var restaurants = []demoRestaurant{
	{
		name:  "Luigi's Pizzeria",
		email: "luigi@example.com",
		items: []model.AddItemRequest{
			{Name: "Margherita", Price: "9.50"},
			{Name: "Quattro Formaggi", Price: "12.00"},
			{Name: "Tiramisu", Price: "5.25"},
		},
	},
	{
		name:  "Green Bowl",
		email: "greenbowl@example.com",
		items: []model.AddItemRequest{
			{Name: "Falafel Bowl", Price: "11.90"},
			{Name: "Lentil Soup", Price: "6.40"},
		},
	},
}

var customers = []model.RegisterRequest{
	{Name: "Alice", Email: "alice@example.com", Password: demoPassword},
	{Name: "Bob", Email: "bob@example.com", Password: demoPassword},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := repository.NewUserRepository(pool, logger)
	authService, err := service.NewAuthService(userRepo, cfg.Auth.BcryptCost, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	menuService := service.NewMenuService(repository.NewMenuRepository(pool, logger), logger)

	for _, c := range customers {
		if _, _, err := register(ctx, authService, c); err != nil {
			return err
		}
	}

	for _, r := range restaurants {
		user, created, err := register(ctx, authService, model.RegisterRequest{
			Name:     r.name,
			Email:    r.email,
			Password: demoPassword,
		})
		if err != nil {
			return err
		}
		if !created {
			logger.Info().Str("email", r.email).Msg("restaurant already seeded")
			continue
		}

		if _, err := userRepo.UpdateRole(ctx, user.ID, model.RoleRestaurant); err != nil {
			return fmt.Errorf("failed to promote %s: %w", r.email, err)
		}

		for i := range r.items {
			if _, err := menuService.AddItem(ctx, user.ID, &r.items[i]); err != nil {
				return fmt.Errorf("failed to add %s for %s: %w", r.items[i].Name, r.email, err)
			}
		}
		logSeeded(logger, r)
	}

	fmt.Printf("\nDemo data ready. Every account uses the password %q.\n", demoPassword)
	return nil
}

// register creates the account and reports whether it was new.
func register(ctx context.Context, auth service.AuthService, req model.RegisterRequest) (*model.User, bool, error) {
	user, err := auth.Register(ctx, &req)
	if errors.Is(err, model.ErrDuplicateAccount) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to register %s: %w", req.Email, err)
	}
	return user, true, nil
}

func logSeeded(logger zerolog.Logger, r demoRestaurant) {
	logger.Info().
		Str("restaurant", r.name).
		Str("email", r.email).
		Int("items", len(r.items)).
		Msg("restaurant seeded")
}
