package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"food-ordering/internal/model"
	"food-ordering/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; an encoding failure leaves an empty body.
	_ = json.NewEncoder(w).Encode(data)
}

// pathID parses an integer chi URL parameter. Anything else is a 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

// formStatus maps a domain error shown on a re-rendered form to its status code.
func formStatus(de *model.DomainError) int {
	switch de.Code {
	case model.ErrCodeDuplicateAccount:
		return http.StatusConflict
	case model.ErrCodeAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusUnprocessableEntity
	}
}

// redirectWithFlash stores message and sends the browser to target.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, sessions *session.Manager, target, message string) {
	sessions.SetFlash(w, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// serverError logs err and renders the generic error page.
func serverError(w http.ResponseWriter, r *http.Request, rn *Renderer, logger zerolog.Logger, err error) {
	logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("handler error")
	rn.Render(w, r, http.StatusInternalServerError, "error", View{
		Title: "Something went wrong",
		Data:  "The request could not be completed. Please try again.",
	})
}

// currentSession returns the session attached by the auth middleware.
// Role-gated handlers only run with one present.
func currentSession(r *http.Request) *session.Session {
	s, _ := session.FromContext(r.Context())
	return s
}
