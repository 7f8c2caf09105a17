package handler

import (
	"net/http"

	"food-ordering/internal/model"
	"food-ordering/internal/service"
	"food-ordering/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RestaurantHandler serves the restaurant pages.
type RestaurantHandler struct {
	menu     service.MenuService
	orders   service.OrderService
	sessions *session.Manager
	renderer *Renderer
	logger   zerolog.Logger
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(
	menu service.MenuService,
	orders service.OrderService,
	sessions *session.Manager,
	renderer *Renderer,
	logger zerolog.Logger,
) *RestaurantHandler {
	return &RestaurantHandler{
		menu:     menu,
		orders:   orders,
		sessions: sessions,
		renderer: renderer,
		logger:   logger.With().Str("handler", "restaurant").Logger(),
	}
}

// Dashboard handles GET /restaurant and lists the restaurant's own items.
func (h *RestaurantHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	items, err := h.menu.ListRestaurantItems(r.Context(), s.UserID)
	if err != nil {
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "restaurant", View{Title: "Restaurant dashboard", Data: items})
}

// AddItemForm handles GET /add_item.
func (h *RestaurantHandler) AddItemForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "add_item", View{Title: "Add item"})
}

// AddItem handles POST /add_item.
func (h *RestaurantHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s := currentSession(r)
	_, err := h.menu.AddItem(r.Context(), s.UserID, &model.AddItemRequest{
		Name:  r.PostForm.Get("item_name"),
		Price: r.PostForm.Get("price"),
	})
	if err != nil {
		if de, ok := model.AsDomainError(err); ok {
			h.renderer.Render(w, r, formStatus(de), "add_item", View{
				Title: "Add item",
				Error: de.Message,
				Form:  r.PostForm,
			})
			return
		}
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	redirectWithFlash(w, r, h.sessions, "/restaurant/orders", "Item added successfully")
}

// Orders handles GET /restaurant/orders.
func (h *RestaurantHandler) Orders(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	views, err := h.orders.ListRestaurantOrders(r.Context(), s.UserID)
	if err != nil {
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "restaurant_orders", View{Title: "Restaurant orders", Data: views})
}

// UpdateOrder handles POST /update_order/{order_id}/{status}.
func (h *RestaurantHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}

	s := currentSession(r)
	_, err := h.orders.UpdateStatus(r.Context(), s.UserID, orderID, chi.URLParam(r, "status"))
	if err != nil {
		if de, ok := model.AsDomainError(err); ok {
			redirectWithFlash(w, r, h.sessions, "/restaurant/orders", de.Message)
			return
		}
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	redirectWithFlash(w, r, h.sessions, "/restaurant/orders", "Order updated")
}
