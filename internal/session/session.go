// Package session issues and verifies signed session cookies.
package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"food-ordering/internal/config"
	"food-ordering/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoSession is returned by Load when the request carries no usable session.
var ErrNoSession = errors.New("no valid session")

// Session is the state carried by a logged-in browser.
type Session struct {
	ID        string
	UserID    int64
	Name      string
	Role      model.Role
	CSRFToken string
	ExpiresAt time.Time
}

type claims struct {
	Name string     `json:"name"`
	Role model.Role `json:"role"`
	CSRF string     `json:"csrf"`
	jwt.RegisteredClaims
}

// Manager reads and writes session and flash cookies.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	revoker    Revoker
	now        func() time.Time
	logger     zerolog.Logger
}

// NewManager creates a session manager for the given configuration.
func NewManager(cfg config.SessionConfig, revoker Revoker, logger zerolog.Logger) *Manager {
	return &Manager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.SecureCookie,
		revoker:    revoker,
		now:        time.Now,
		logger:     logger.With().Str("component", "session").Logger(),
	}
}

// Create starts a session for the user and sets its cookie.
func (m *Manager) Create(w http.ResponseWriter, user *model.User) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		CSRFToken: uuid.NewString(),
		ExpiresAt: now.Add(m.ttl).Truncate(time.Second),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: s.Name,
		Role: s.Role,
		CSRF: s.CSRFToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	http.SetCookie(w, m.cookie(m.cookieName, signed, int(m.ttl.Seconds())))

	m.logger.Debug().Int64("user_id", s.UserID).Str("session_id", s.ID).Msg("session created")

	return s, nil
}

// Load returns the request's session or ErrNoSession when the cookie is
// missing, tampered with, expired or revoked.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}

	var cl claims
	_, err = jwt.ParseWithClaims(c.Value, &cl, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		m.logger.Debug().Err(err).Msg("rejected session cookie")
		return nil, ErrNoSession
	}

	userID, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil || cl.ID == "" || cl.CSRF == "" {
		return nil, ErrNoSession
	}

	revoked, err := m.revoker.IsRevoked(r.Context(), cl.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return nil, ErrNoSession
	}

	return &Session{
		ID:        cl.ID,
		UserID:    userID,
		Name:      cl.Name,
		Role:      cl.Role,
		CSRFToken: cl.CSRF,
		ExpiresAt: cl.ExpiresAt.Time,
	}, nil
}

// Destroy revokes the session and clears its cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, m.cookie(m.cookieName, "", -1))

	if s == nil {
		return nil
	}

	if err := m.revoker.Revoke(ctx, s.ID, s.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	m.logger.Debug().Int64("user_id", s.UserID).Str("session_id", s.ID).Msg("session destroyed")

	return nil
}

// SetFlash stores a one-time message shown on the next rendered page.
func (m *Manager) SetFlash(w http.ResponseWriter, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(message))
	http.SetCookie(w, m.cookie(m.flashName(), value, 0))
}

// PeekFlash returns the pending flash message without clearing it.
func (m *Manager) PeekFlash(r *http.Request) string {
	c, err := r.Cookie(m.flashName())
	if err != nil {
		return ""
	}

	msg, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}

// ClearFlash expires the flash cookie.
func (m *Manager) ClearFlash(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(m.flashName(), "", -1))
}

func (m *Manager) flashName() string {
	return m.cookieName + "_flash"
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
