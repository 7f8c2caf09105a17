package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"food-ordering/internal/config"
	"food-ordering/internal/model"
	"food-ordering/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestSessions() *session.Manager {
	return session.NewManager(config.SessionConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		TTL:        time.Hour,
		CookieName: "food_session",
	}, session.NewMemoryRevoker(), zerolog.Nop())
}

func newTestRenderer(t *testing.T, sm *session.Manager) *Renderer {
	t.Helper()

	rn, err := NewRenderer(sm, zerolog.Nop())
	require.NoError(t, err)
	return rn
}

// formRequest builds a form POST, or a GET when form is nil.
func formRequest(method, target string, form url.Values) *http.Request {
	if form == nil {
		return httptest.NewRequest(method, target, nil)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withParams attaches chi URL parameters given as name, value pairs.
func withParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withSession attaches a session for the given user as the auth middleware would.
func withSession(req *http.Request, id int64, name string, role model.Role) *http.Request {
	s := &session.Session{
		ID:        "sid",
		UserID:    id,
		Name:      name,
		Role:      role,
		CSRFToken: "csrf-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return req.WithContext(session.WithSession(req.Context(), s))
}

// flashOf decodes the flash cookie set on the response, if any.
func flashOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "food_session_flash" && c.MaxAge >= 0 {
			msg, err := base64.RawURLEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			return string(msg)
		}
	}
	return ""
}
