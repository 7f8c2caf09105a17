package router

import (
	"net/http"

	"food-ordering/internal/handler"
	"food-ordering/internal/middleware"
	"food-ordering/internal/model"
	"food-ordering/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the request handlers mounted by New.
type Handlers struct {
	Home       *handler.HomeHandler
	Auth       *handler.AuthHandler
	Customer   *handler.CustomerHandler
	Restaurant *handler.RestaurantHandler
	Admin      *handler.AdminHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	sessions *session.Manager,
	users middleware.UserLookup,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> Authenticate
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Authenticate(sessions, logger))

	requireRole := func(role model.Role) chi.Middlewares {
		return chi.Chain(
			middleware.RequireRole(role, users, logger),
			middleware.CSRF(logger),
		)
	}

	// Public routes
	r.Get("/", h.Home.Home)
	r.Get("/health", h.Home.Health)
	r.Get("/register", h.Auth.RegisterForm)
	r.Post("/register", h.Auth.Register)
	r.Get("/login", h.Auth.LoginForm)
	r.Post("/login", h.Auth.Login)
	r.Get("/logout", h.Auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(requireRole(model.RoleCustomer)...)

		r.Get("/customer", h.Customer.Dashboard)
		r.Get("/menu", h.Customer.Menu)
		r.Get("/order/{item_id}", h.Customer.OrderForm)
		r.Post("/order/{item_id}", h.Customer.PlaceOrder)
		r.Get("/orders", h.Customer.Orders)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireRole(model.RoleRestaurant)...)

		r.Get("/restaurant", h.Restaurant.Dashboard)
		r.Get("/add_item", h.Restaurant.AddItemForm)
		r.Post("/add_item", h.Restaurant.AddItem)
		r.Get("/restaurant/orders", h.Restaurant.Orders)
		r.Post("/update_order/{order_id}/{status}", h.Restaurant.UpdateOrder)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireRole(model.RoleAdmin)...)

		r.Get("/admin", h.Admin.Dashboard)
		r.Get("/admin/users", h.Admin.Users)
		r.Post("/admin/users/{user_id}/role", h.Admin.GrantRole)
	})

	return r
}
