package login

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	websess "github.com/GoCadetAdmin/GoCadetAdmin/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}
	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{Views: noOpViews{}})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Title:   "GoCadetAdmin",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{
			LocalDB: config.LocalDBAuth{Enabled: true},
			OIDC:    config.OIDCAuth{Enabled: false},
		},
	}
}

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func TestPickAuthType_DefaultsAndErrors(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp()

	initSessionStore()

	var s Service
	_ = s.Init(app, cfg, db)

	// No requested type, local enabled, choose local
	at, err := s.pickAuthType("")
	if err != nil || at != "local" {
		t.Fatalf("expected local, got at=%q err=%v", at, err)
	}

	// Local disabled, OIDC enabled
	s.cfg.Auth.LocalDB.Enabled = false
	s.cfg.Auth.OIDC.Enabled = true

	if at, err = s.pickAuthType(""); err != nil || at != "oidc" {
		t.Fatalf("expected default pick oidc, got at=%q err=%v", at, err)
	}

	// Explicitly asking local while disabled
	if _, err = s.pickAuthType("local"); !errors.Is(err, ErrLocalAuthDisabled) {
		t.Fatalf("expected ErrLocalAuthDisabled, got %v", err)
	}

	// Nothing enabled
	s.cfg.Auth.OIDC.Enabled = false
	if _, err = s.pickAuthType(""); !errors.Is(err, ErrNoAuthMethod) {
		t.Fatalf("expected ErrNoAuthMethod, got %v", err)
	}

	// Invalid method
	if _, err = s.pickAuthType("unknown"); !errors.Is(err, ErrInvalidAuthMethod) {
		t.Fatalf("expected ErrInvalidAuthMethod, got %v", err)
	}
}

func TestAuthenticate_Local(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp()

	initSessionStore()

	var s Service
	_ = s.Init(app, cfg, db)

	lp := auth.NewLocalProvider(db)

	user, err := lp.CreateUser("alice@example.com", "secret", "Dupont", "Alice", models.StatusAnimateur)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if !user.Active {
		t.Fatalf("new user must be active by default")
	}

	// Success
	got, err := s.authenticate("alice@example.com", "secret")
	if err != nil || got == nil || got.Email != "alice@example.com" {
		t.Fatalf("expected successful auth, got user=%v err=%v", got, err)
	}

	// Wrong password
	got, err = s.authenticate("alice@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) || got != nil {
		t.Fatalf("expected ErrInvalidCredentials, got user=%v err=%v", got, err)
	}

	// Unknown email maps to the same error as a wrong password
	if _, err = s.authenticate("nobody@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// Disabled account
	if err = lp.DeactivateUser(user.ID); err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	if _, err = s.authenticate("alice@example.com", "secret"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestPost_Local_Success_SetsCookieAndRedirects(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.DevMode = false // Secure cookie expected

	app := newTestApp()

	initSessionStore()

	var s Service
	_ = s.Init(app, cfg, db)

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("bob@example.com", "s3cr3t", "Martin", "Bob", models.StatusCadet); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	form := url.Values{
		"email":     {"bob@example.com"},
		"password":  {"s3cr3t"},
		"auth_type": {"local"},
	}
	resp := performPost(t, app, Path+"/", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %s", loc)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false, got %q", setCookie)
	}
}

func TestPost_Local_Success_DevModeDisablesSecure(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.DevMode = true // Secure=false expected

	app := newTestApp()

	initSessionStore()

	var s Service
	_ = s.Init(app, cfg, db)

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("carol@example.com", "pass", "Petit", "Carol", models.StatusParent); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	form := url.Values{
		"email":     {"carol@example.com"},
		"password":  {"pass"},
		"auth_type": {"local"},
	}
	resp := performPost(t, app, Path+"/", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}

func TestPost_WrongPassword_RendersError(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp()

	initSessionStore()

	var s Service
	_ = s.Init(app, cfg, db)

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("dave@example.com", "right", "Durand", "Dave", models.StatusCadet); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	form := url.Values{
		"email":     {"dave@example.com"},
		"password":  {"wrong"},
		"auth_type": {"local"},
	}
	resp := performPost(t, app, Path+"/", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(bodyBytes), ErrInvalidCredentials.Error()) {
		t.Fatalf("expected credentials error in body, got %q", string(bodyBytes))
	}
}

func TestPost_LocalDisabled_RendersError(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.Auth.LocalDB.Enabled = false

	app := newTestApp()

	initSessionStore()

	var s Service
	_ = s.Init(app, cfg, db)

	form := url.Values{
		"email":     {"eve@example.com"},
		"password":  {"whatever"},
		"auth_type": {"local"},
	}
	resp := performPost(t, app, Path+"/", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(bodyBytes), ErrLocalAuthDisabled.Error()) {
		t.Fatalf("expected local disabled error, got %q", string(bodyBytes))
	}
}
