// Package integration drives the full application over HTTP against a
// PostgreSQL container.
package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"food-ordering/internal/config"
	"food-ordering/internal/events"
	"food-ordering/internal/handler"
	"food-ordering/internal/repository"
	"food-ordering/internal/router"
	"food-ordering/internal/service"
	"food-ordering/internal/session"
	"food-ordering/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "root@example.com"
	adminPassword = "rootpass"
)

// TestApp is a running application backed by a migrated database.
type TestApp struct {
	Server    *httptest.Server
	Pool      *pgxpool.Pool
	Users     repository.UserRepository
	Publisher *recordingPublisher
}

// SetupTestApp starts PostgreSQL and serves the application on a local port.
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()

	pool := testutil.NewMigratedPool(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	userRepo := repository.NewUserRepository(pool, logger)
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	publisher := &recordingPublisher{}

	authService, err := service.NewAuthService(userRepo, bcrypt.MinCost, logger)
	require.NoError(t, err)
	menuService := service.NewMenuService(menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, publisher, logger)
	userService := service.NewUserService(userRepo, logger)

	_, err = authService.EnsureAdmin(ctx, "Root", adminEmail, adminPassword)
	require.NoError(t, err)

	sessions := session.NewManager(config.SessionConfig{
		Secret:     "integration-secret-0123456789abcdef",
		TTL:        time.Hour,
		CookieName: "food_session",
	}, session.NewMemoryRevoker(), logger)

	renderer, err := handler.NewRenderer(sessions, logger)
	require.NoError(t, err)

	mux := router.New(router.Handlers{
		Home:       handler.NewHomeHandler(renderer),
		Auth:       handler.NewAuthHandler(authService, sessions, renderer, logger),
		Customer:   handler.NewCustomerHandler(menuService, orderService, sessions, renderer, logger),
		Restaurant: handler.NewRestaurantHandler(menuService, orderService, sessions, renderer, logger),
		Admin:      handler.NewAdminHandler(userService, sessions, renderer, logger),
	}, sessions, userService, logger)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &TestApp{
		Server:    server,
		Pool:      pool,
		Users:     userRepo,
		Publisher: publisher,
	}
}

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// Browser is an HTTP client with its own cookie jar that follows redirects.
type Browser struct {
	t      *testing.T
	client *http.Client
	base   string
}

// NewBrowser returns a client with an empty cookie jar for app.
func (app *TestApp) NewBrowser(t *testing.T) *Browser {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &Browser{
		t:      t,
		client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
		base:   app.Server.URL,
	}
}

// Page is a fetched response after redirects have been followed.
type Page struct {
	Status int
	Path   string
	Body   string
}

// Get fetches path.
func (b *Browser) Get(path string) Page {
	b.t.Helper()

	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return b.read(resp)
}

// Post submits form to path.
func (b *Browser) Post(path string, form url.Values) Page {
	b.t.Helper()

	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return b.read(resp)
}

// Do sends a request without a body and returns the first response.
func (b *Browser) Do(method, path string) int {
	b.t.Helper()

	req, err := http.NewRequest(method, b.base+path, nil)
	require.NoError(b.t, err)

	c := *b.client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := c.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

// Register submits the registration form.
func (b *Browser) Register(name, email, password string) Page {
	b.t.Helper()

	return b.Post("/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
}

// Login submits the login form.
func (b *Browser) Login(email, password string) Page {
	b.t.Helper()

	return b.Post("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

// Submit posts form to path with the CSRF token taken from page.
func (b *Browser) Submit(page Page, path string, form url.Values) Page {
	b.t.Helper()

	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", csrfToken(b.t, page))
	return b.Post(path, form)
}

func (b *Browser) read(resp *http.Response) Page {
	b.t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	return Page{
		Status: resp.StatusCode,
		Path:   resp.Request.URL.Path,
		Body:   string(body),
	}
}

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func csrfToken(t *testing.T, page Page) string {
	t.Helper()

	m := csrfPattern.FindStringSubmatch(page.Body)
	require.NotNil(t, m, "no CSRF token on %s", page.Path)
	return m[1]
}

// firstMatch returns the first capture group of pattern in page.
func firstMatch(t *testing.T, page Page, pattern string) string {
	t.Helper()

	m := regexp.MustCompile(pattern).FindStringSubmatch(page.Body)
	require.NotNil(t, m, "pattern %q not found on %s", pattern, page.Path)
	return strings.TrimSpace(m[1])
}
