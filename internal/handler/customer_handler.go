package handler

import (
	"errors"
	"net/http"

	"food-ordering/internal/model"
	"food-ordering/internal/service"
	"food-ordering/internal/session"

	"github.com/rs/zerolog"
)

// CustomerHandler serves the customer pages.
type CustomerHandler struct {
	menu     service.MenuService
	orders   service.OrderService
	sessions *session.Manager
	renderer *Renderer
	logger   zerolog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(
	menu service.MenuService,
	orders service.OrderService,
	sessions *session.Manager,
	renderer *Renderer,
	logger zerolog.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		menu:     menu,
		orders:   orders,
		sessions: sessions,
		renderer: renderer,
		logger:   logger.With().Str("handler", "customer").Logger(),
	}
}

// Dashboard handles GET /customer.
func (h *CustomerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "customer", View{Title: "Customer dashboard"})
}

// Menu handles GET /menu.
func (h *CustomerHandler) Menu(w http.ResponseWriter, r *http.Request) {
	entries, err := h.menu.ListMenu(r.Context())
	if err != nil {
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "menu", View{Title: "Menu", Data: entries})
}

// OrderForm handles GET /order/{item_id}.
func (h *CustomerHandler) OrderForm(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "item_id")
	if !ok {
		return
	}

	item, err := h.menu.GetItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, model.ErrItemNotFound) {
			redirectWithFlash(w, r, h.sessions, "/menu", model.ErrItemNotFound.Message)
			return
		}
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "order", View{Title: "Order " + item.Name, Data: item})
}

// PlaceOrder handles POST /order/{item_id}.
func (h *CustomerHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "item_id")
	if !ok {
		return
	}

	s := currentSession(r)
	_, err := h.orders.PlaceOrder(r.Context(), s.UserID, itemID, r.PostFormValue("quantity"))
	if err != nil {
		de, isDomain := model.AsDomainError(err)
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			redirectWithFlash(w, r, h.sessions, "/menu", de.Message)
		case isDomain:
			item, getErr := h.menu.GetItem(r.Context(), itemID)
			if errors.Is(getErr, model.ErrItemNotFound) {
				redirectWithFlash(w, r, h.sessions, "/menu", model.ErrItemNotFound.Message)
				return
			}
			if getErr != nil {
				serverError(w, r, h.renderer, h.logger, getErr)
				return
			}
			h.renderer.Render(w, r, formStatus(de), "order", View{
				Title: "Order " + item.Name,
				Error: de.Message,
				Form:  r.PostForm,
				Data:  item,
			})
		default:
			serverError(w, r, h.renderer, h.logger, err)
		}
		return
	}

	redirectWithFlash(w, r, h.sessions, "/orders", "Order placed successfully!")
}

// Orders handles GET /orders.
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	views, err := h.orders.ListCustomerOrders(r.Context(), s.UserID)
	if err != nil {
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "orders", View{Title: "Your orders", Data: views})
}
