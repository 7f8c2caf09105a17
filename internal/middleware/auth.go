package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"food-ordering/internal/model"
	"food-ordering/internal/session"

	"github.com/rs/zerolog"
)

// CSRFField is the form field carrying the session's CSRF token.
const CSRFField = "csrf_token"

// CSRFHeader may carry the token instead of the form field.
const CSRFHeader = "X-CSRF-Token"

// UserLookup returns the stored account for a session, or nil when it no
// longer exists.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// Authenticate attaches the request's session, if any, to its context.
func Authenticate(sm *session.Manager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := sm.Load(r)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to load session")
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireRole lets the request through only when the session's role is
// role. For state-changing methods the role is re-read from users so a
// demotion takes effect before the session expires. Failures redirect to
// the login page without a message.
func RequireRole(role model.Role, users UserLookup, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok || s.Role != role {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			if !isSafeMethod(r.Method) {
				user, err := users.GetUser(r.Context(), s.UserID)
				if err != nil {
					logger.Error().Err(err).Int64("user_id", s.UserID).Msg("failed to revalidate role")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				if user == nil || user.Role != role {
					logger.Warn().
						Int64("user_id", s.UserID).
						Str("session_role", string(s.Role)).
						Msg("session role no longer matches account")
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRF rejects state-changing requests whose token does not match the
// session's. It must run after RequireRole.
func CSRF(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			s, ok := session.FromContext(r.Context())
			token := r.Header.Get(CSRFHeader)
			if token == "" {
				token = r.PostFormValue(CSRFField)
			}

			if !ok || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.CSRFToken)) != 1 {
				logger.Warn().Str("method", r.Method).Str("path", r.URL.Path).Msg("CSRF token mismatch")
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
