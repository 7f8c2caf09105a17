package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	ID           int64           `json:"id" db:"id"`
	RestaurantID int64           `json:"restaurantId" db:"restaurant_id"`
	Name         string          `json:"itemName" db:"item_name"`
	Price        decimal.Decimal `json:"price" db:"price"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// MenuEntry is a menu item joined with the name of the restaurant offering it.
type MenuEntry struct {
	MenuItem
	RestaurantName string `json:"restaurantName"`
}

// AddItemRequest is the raw add-item form.
type AddItemRequest struct {
	Name  string
	Price string
}
