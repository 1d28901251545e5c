package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/core/service"
	"github.com/99minutos/admin-console/internal/infrastructure/db/memory"
)

type testServer struct {
	e        *echo.Echo
	sessions *memory.SessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	users := memory.NewUserStore()
	sessions := memory.NewSessionStore()
	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	manager := service.NewSessionManager(sessions, 24*time.Hour, log)
	accounts := service.NewAccountService(users, hasher, log)

	if _, err := accounts.Bootstrap(context.Background(), "root", "root@x.com", "rootpass"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Auth:     service.NewAuthService(users, hasher, manager, log),
		Accounts: accounts,
		Sessions: manager,
		Cookie:   handler.CookieConfig{Name: "session_id", TTL: manager.TTL()},
		Readiness: []handler.Dependency{
			{Name: "users", Pinger: users},
			{Name: "sessions", Pinger: sessions},
		},
		Registerer: reg,
		Gatherer:   reg,
		Log:        log,
	})
	return &testServer{e: e, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username, password string) (*http.Cookie, map[string]any) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/login", `{"username":"`+username+`","password":"`+password+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			return c, decode(t, rec)
		}
	}
	t.Fatalf("login %s: no session cookie", username)
	return nil, nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_AdminScenario(t *testing.T) {
	s := newTestServer(t)
	root, _ := s.login(t, "root", "rootpass")

	rec := s.do(t, http.MethodPost, "/api/admin/register",
		`{"username":"alice","email":"a@x.com","password":"secret1","role":"admin"}`, root)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	aliceID, _ := decode(t, rec)["userId"].(string)
	if aliceID == "" {
		t.Fatal("register: missing userId")
	}

	alice, body := s.login(t, "alice", "secret1")
	if user, _ := body["user"].(map[string]any); user["role"] != "admin" {
		t.Fatalf("login: expected admin role, got %+v", body)
	}

	rec = s.do(t, http.MethodGet, "/api/admin/users", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("list leaked hashes: %s", rec.Body.String())
	}
	var list struct {
		Users []map[string]any `json:"users"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Users) != 2 || list.Users[0]["username"] != "alice" {
		t.Fatalf("list: expected alice first of two, got %+v", list.Users)
	}

	rec = s.do(t, http.MethodDelete, "/api/admin/users/"+aliceID, "", alice)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self delete: expected 400, got %d", rec.Code)
	}
	if decode(t, rec)["error"] != "Cannot delete yourself." {
		t.Fatalf("self delete: unexpected body %s", rec.Body.String())
	}

	rec = s.do(t, http.MethodDelete, "/api/admin/users/"+aliceID, "", root)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodDelete, "/api/admin/users/"+aliceID, "", root)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete again: expected 404, got %d", rec.Code)
	}

	// alice's session outlives her account; check-auth notices.
	rec = s.do(t, http.MethodGet, "/api/check-auth", "", alice)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("check-auth for deleted user: expected 404, got %d", rec.Code)
	}
}

func TestRouter_LoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)

	unknown := s.do(t, http.MethodPost, "/api/login", `{"username":"ghost","password":"whatever"}`, nil)
	wrong := s.do(t, http.MethodPost, "/api/login", `{"username":"root","password":"wrong-pass"}`, nil)

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}

	missing := s.do(t, http.MethodPost, "/api/login", `{"username":"root"}`, nil)
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", missing.Code)
	}
}

func TestRouter_Guards(t *testing.T) {
	s := newTestServer(t)
	root, _ := s.login(t, "root", "rootpass")

	rec := s.do(t, http.MethodPost, "/api/admin/register",
		`{"username":"bob","email":"b@x.com","password":"secret1","role":"user"}`, root)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	bob, _ := s.login(t, "bob", "secret1")

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"unknown session", &http.Cookie{Name: "session_id", Value: "forged"}, http.StatusUnauthorized},
		{"user role", bob, http.StatusForbidden},
		{"admin role", root, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := s.do(t, http.MethodGet, "/api/admin/users", "", tt.cookie); rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}

	if rec := s.do(t, http.MethodGet, "/api/check-auth", "", bob); rec.Code != http.StatusOK {
		t.Fatalf("check-auth as user: expected 200, got %d", rec.Code)
	}
}

func TestRouter_RegistrationValidationAndConflict(t *testing.T) {
	s := newTestServer(t)
	root, _ := s.login(t, "root", "rootpass")

	bad := []string{
		`{"username":"al","email":"a@x.com","password":"secret1","role":"user"}`,
		`{"username":"alice","email":"not-an-email","password":"secret1","role":"user"}`,
		`{"username":"alice","email":"a@x.com","password":"short","role":"user"}`,
		`{"username":"alice","email":"a@x.com","password":"secret1","role":"superuser"}`,
	}
	for _, body := range bad {
		if rec := s.do(t, http.MethodPost, "/api/admin/register", body, root); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}

	rec := s.do(t, http.MethodPost, "/api/admin/register", `{"username":"root","email":"other@x.com","password":"secret1","role":"user"}`, root)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate username: expected 409, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/api/admin/register", `{"username":"other","email":"root@x.com","password":"secret1","role":"user"}`, root)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", rec.Code)
	}
}

func TestRouter_LogoutInvalidatesSession(t *testing.T) {
	s := newTestServer(t)
	root, _ := s.login(t, "root", "rootpass")

	if rec := s.do(t, http.MethodGet, "/api/check-auth", "", root); rec.Code != http.StatusOK {
		t.Fatalf("check-auth: expected 200, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/logout", "", root)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if s.sessions.Len() != 0 {
		t.Fatalf("session not destroyed")
	}

	if rec := s.do(t, http.MethodGet, "/api/check-auth", "", root); rec.Code != http.StatusUnauthorized {
		t.Fatalf("check-auth after logout: expected 401, got %d", rec.Code)
	}
	// Logging out twice is fine.
	if rec := s.do(t, http.MethodPost, "/api/logout", "", root); rec.Code != http.StatusOK {
		t.Fatalf("second logout: expected 200, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("ready: unexpected %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "admin_console_requests_total") {
		t.Fatalf("metrics: unexpected %d", rec.Code)
	}
}
