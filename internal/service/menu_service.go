package service

import (
	"context"
	"fmt"
	"strings"

	"food-ordering/internal/model"
	"food-ordering/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxPrice is the first value that does not fit NUMERIC(10, 2).
var maxPrice = decimal.New(1, 8)

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

func (s *menuService) ListMenu(ctx context.Context) ([]model.MenuEntry, error) {
	entries, err := s.menuRepo.ListWithRestaurant(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}

	s.logger.Debug().Int("count", len(entries)).Msg("retrieved menu")

	return entries, nil
}

func (s *menuService) GetItem(ctx context.Context, id int64) (*model.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, model.ErrItemNotFound
	}
	return item, nil
}

// AddItem stores the price rounded to cents. Zero, negative and
// unparseable prices are rejected.
func (s *menuService) AddItem(ctx context.Context, restaurantID int64, req *model.AddItemRequest) (*model.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	rawPrice := strings.TrimSpace(req.Price)

	if name == "" || rawPrice == "" {
		return nil, model.ErrMissingItemFields
	}

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		s.logger.Debug().Str("price", rawPrice).Msg("rejected unparseable price")
		return nil, model.ErrInvalidPrice
	}

	price = price.Round(2)
	if !price.IsPositive() || price.GreaterThanOrEqual(maxPrice) {
		return nil, model.ErrInvalidPrice
	}

	item := &model.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        price,
	}

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add menu item: %w", err)
	}

	s.logger.Info().
		Int64("item_id", item.ID).
		Int64("restaurant_id", restaurantID).
		Str("price", price.StringFixed(2)).
		Msg("menu item added")

	return item, nil
}

func (s *menuService) ListRestaurantItems(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	items, err := s.menuRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant items: %w", err)
	}
	return items, nil
}
