package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/techzone/storefront-api/internal/core/domain"
)

type stubVerifier map[string]string // token → principal id

func (v stubVerifier) Verify(token string) (string, error) {
	id, ok := v[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

type stubUsers struct {
	users map[string]*domain.User
	err   error
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func newGuardFixture() (stubVerifier, *stubUsers) {
	tokens := stubVerifier{
		"admin-token":   "a1",
		"manager-token": "m1",
		"user-token":    "u1",
		"ghost-token":   "gone",
	}
	users := &stubUsers{users: map[string]*domain.User{
		"a1": {ID: "a1", Role: domain.RoleAdmin},
		"m1": {ID: "m1", Role: domain.RoleManager},
		"u1": {ID: "u1", Role: domain.RoleUser},
	}}
	return tokens, users
}

// runGuard sends one request through guard and reports the principal the
// next handler saw and the error the guard returned.
func runGuard(t *testing.T, guard echo.MiddlewareFunc, cookie *http.Cookie) (*domain.User, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *domain.User
	err := guard(func(c echo.Context) error {
		u, ok := PrincipalFrom(c.Request().Context())
		if !ok {
			t.Fatalf("next called without a principal")
		}
		seen = u
		return c.NoContent(http.StatusOK)
	})(c)
	return seen, err
}

func TestGuard_Admits(t *testing.T) {
	tokens, users := newGuardFixture()

	cases := []struct {
		name   string
		guard  echo.MiddlewareFunc
		cookie *http.Cookie
		wantID string
	}{
		{"admin on admin guard", Guard(tokens, users, AdminCookie, domain.RoleAdmin), &http.Cookie{Name: AdminCookie, Value: "admin-token"}, "a1"},
		{"user on user guard", Guard(tokens, users, UserCookie, domain.RoleUser), &http.Cookie{Name: UserCookie, Value: "user-token"}, "u1"},
		{"manager on staff guard", Guard(tokens, users, AdminCookie, domain.RoleAdmin, domain.RoleManager), &http.Cookie{Name: AdminCookie, Value: "manager-token"}, "m1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen, err := runGuard(t, tc.guard, tc.cookie)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen == nil || seen.ID != tc.wantID {
				t.Fatalf("principal = %+v, want %s", seen, tc.wantID)
			}
		})
	}
}

func TestGuard_Rejects(t *testing.T) {
	tokens, users := newGuardFixture()
	adminGuard := Guard(tokens, users, AdminCookie, domain.RoleAdmin)
	userGuard := Guard(tokens, users, UserCookie, domain.RoleUser)

	cases := []struct {
		name   string
		guard  echo.MiddlewareFunc
		cookie *http.Cookie
	}{
		{"no cookie", adminGuard, nil},
		{"empty cookie", adminGuard, &http.Cookie{Name: AdminCookie, Value: ""}},
		{"token in the other channel", adminGuard, &http.Cookie{Name: UserCookie, Value: "admin-token"}},
		{"bad token", adminGuard, &http.Cookie{Name: AdminCookie, Value: "forged"}},
		{"deleted principal", adminGuard, &http.Cookie{Name: AdminCookie, Value: "ghost-token"}},
		{"user token on admin channel", adminGuard, &http.Cookie{Name: AdminCookie, Value: "user-token"}},
		{"manager on admin-only guard", adminGuard, &http.Cookie{Name: AdminCookie, Value: "manager-token"}},
		{"admin token on user guard", userGuard, &http.Cookie{Name: UserCookie, Value: "admin-token"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen, err := runGuard(t, tc.guard, tc.cookie)
			if err != domain.ErrUnauthenticated {
				t.Fatalf("expected the bare ErrUnauthenticated, got %v", err)
			}
			if seen != nil {
				t.Fatalf("next must not run")
			}
		})
	}
}

func TestGuard_UsesLiveRole(t *testing.T) {
	tokens, users := newGuardFixture()
	adminGuard := Guard(tokens, users, AdminCookie, domain.RoleAdmin)
	cookie := &http.Cookie{Name: AdminCookie, Value: "admin-token"}

	if _, err := runGuard(t, adminGuard, cookie); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}

	users.users["a1"].Role = domain.RoleUser
	if _, err := runGuard(t, adminGuard, cookie); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("demoted admin should be rejected, got %v", err)
	}
}

func TestGuard_StoreFailureIsNotAnAuthFailure(t *testing.T) {
	tokens, users := newGuardFixture()
	users.err = domain.ErrDependency

	_, err := runGuard(t, Guard(tokens, users, AdminCookie, domain.RoleAdmin), &http.Cookie{Name: AdminCookie, Value: "admin-token"})
	if !errors.Is(err, domain.ErrDependency) {
		t.Fatalf("expected ErrDependency, got %v", err)
	}
}
