package handler

import (
	"net/http"

	"food-ordering/internal/model"
	"food-ordering/internal/service"
	"food-ordering/internal/session"

	"github.com/rs/zerolog"
)

// AdminHandler serves the administrator pages.
type AdminHandler struct {
	users    service.UserService
	sessions *session.Manager
	renderer *Renderer
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	users service.UserService,
	sessions *session.Manager,
	renderer *Renderer,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:    users,
		sessions: sessions,
		renderer: renderer,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

type usersPage struct {
	Users []model.User
	Roles []model.Role
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "admin", View{Title: "Admin dashboard"})
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "admin_users", View{
		Title: "Users",
		Data:  usersPage{Users: users, Roles: model.Roles},
	})
}

// GrantRole handles POST /admin/users/{user_id}/role.
func (h *AdminHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	s := currentSession(r)
	if err := h.users.GrantRole(r.Context(), s.UserID, targetID, r.PostFormValue("role")); err != nil {
		if de, ok := model.AsDomainError(err); ok {
			redirectWithFlash(w, r, h.sessions, "/admin/users", de.Message)
			return
		}
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	redirectWithFlash(w, r, h.sessions, "/admin/users", "Role updated")
}
