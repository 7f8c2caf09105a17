package handler

import (
	"net/http"

	"food-ordering/internal/model"
	"food-ordering/internal/service"
	"food-ordering/internal/session"

	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service  service.AuthService
	sessions *session.Manager
	renderer *Renderer
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	service service.AuthService,
	sessions *session.Manager,
	renderer *Renderer,
	logger zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		renderer: renderer,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "register", View{Title: "Register"})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	_, err := h.service.Register(r.Context(), &model.RegisterRequest{
		Name:     r.PostForm.Get("name"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		if de, ok := model.AsDomainError(err); ok {
			r.PostForm.Del("password")
			h.renderer.Render(w, r, formStatus(de), "register", View{
				Title: "Register",
				Error: de.Message,
				Form:  r.PostForm,
			})
			return
		}
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	redirectWithFlash(w, r, h.sessions, "/login", "You have successfully registered! Please login.")
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "login", View{Title: "Login"})
}

// Login handles POST /login and sends the user to their role's dashboard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	user, err := h.service.Login(r.Context(), &model.LoginRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		if de, ok := model.AsDomainError(err); ok {
			r.PostForm.Del("password")
			h.renderer.Render(w, r, formStatus(de), "login", View{
				Title: "Login",
				Error: de.Message,
				Form:  r.PostForm,
			})
			return
		}
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	if _, err := h.sessions.Create(w, user); err != nil {
		serverError(w, r, h.renderer, h.logger, err)
		return
	}

	http.Redirect(w, r, user.Role.DashboardPath(), http.StatusSeeOther)
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if err := h.sessions.Destroy(r.Context(), w, s); err != nil {
		h.logger.Error().Err(err).Msg("failed to revoke session")
	}

	redirectWithFlash(w, r, h.sessions, "/login", "You have been logged out.")
}
