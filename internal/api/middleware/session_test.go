package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
)

type stubSessionManager struct {
	validateFn func(ctx context.Context, id string) (*domain.SessionContext, error)
}

func (s *stubSessionManager) Create(context.Context, *domain.User) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSessionManager) Validate(ctx context.Context, id string) (*domain.SessionContext, error) {
	return s.validateFn(ctx, id)
}

func (s *stubSessionManager) Destroy(context.Context, string) error { return nil }

func newContext(cookie string) (echo.Context, *httptest.ResponseRecorder, *echo.Echo) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, e
}

func TestAuthenticated_LiveSession(t *testing.T) {
	want := &domain.SessionContext{SessionID: "sid", UserID: "u1", Username: "alice", Role: domain.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}
	stub := &stubSessionManager{
		validateFn: func(ctx context.Context, id string) (*domain.SessionContext, error) {
			if id != "sid" {
				t.Fatalf("unexpected session id %q", id)
			}
			return want, nil
		},
	}
	c, rec, _ := newContext("sid")

	called := false
	handler := Authenticated(stub, "session_id")(func(c echo.Context) error {
		called = true
		if SessionFrom(c) != want {
			t.Fatalf("session context not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticated_MissingCookie(t *testing.T) {
	stub := &stubSessionManager{
		validateFn: func(ctx context.Context, id string) (*domain.SessionContext, error) {
			t.Fatalf("validate should not be called without a cookie")
			return nil, nil
		},
	}
	c, rec, e := newContext("")

	handler := Authenticated(stub, "session_id")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticated_UnknownOrExpiredSession(t *testing.T) {
	stub := &stubSessionManager{
		validateFn: func(ctx context.Context, id string) (*domain.SessionContext, error) {
			return nil, nil
		},
	}
	c, rec, e := newContext("stale")

	handler := Authenticated(stub, "session_id")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticated_StoreError(t *testing.T) {
	boom := errors.New("redis down")
	stub := &stubSessionManager{
		validateFn: func(ctx context.Context, id string) (*domain.SessionContext, error) {
			return nil, boom
		},
	}
	c, _, _ := newContext("sid")

	handler := Authenticated(stub, "session_id")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	err := handler(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		t.Fatalf("store failure must not be reported as an auth failure: %v", he)
	}
}
