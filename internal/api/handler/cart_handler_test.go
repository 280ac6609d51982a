package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/techzone/storefront-api/internal/api/middleware"
	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
)

type stubCartService struct {
	addFn    func(ctx context.Context, userID string, in ports.AddItemInput) (*domain.Cart, error)
	getFn    func(ctx context.Context, userID string) (*domain.CartView, error)
	updateFn func(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	removeFn func(ctx context.Context, userID, productID string) (*domain.Cart, error)
}

func (s *stubCartService) AddItem(ctx context.Context, userID string, in ports.AddItemInput) (*domain.Cart, error) {
	return s.addFn(ctx, userID, in)
}

func (s *stubCartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	return s.getFn(ctx, userID)
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	return s.updateFn(ctx, userID, productID, quantity)
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.removeFn(ctx, userID, productID)
}

func asShopper(req *http.Request, id string) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), &domain.User{ID: id, Role: domain.RoleUser}))
}

func TestCartHandler_Add(t *testing.T) {
	stub := &stubCartService{
		addFn: func(_ context.Context, userID string, in ports.AddItemInput) (*domain.Cart, error) {
			if userID != "u1" {
				t.Fatalf("principal not taken from context: %q", userID)
			}
			if in.ProductID != "p1" || in.Quantity != 2 || in.IdempotencyKey != "k-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			c := domain.NewCart(userID, expiry)
			_ = c.AddItem("p1", 2, 10)
			return c, nil
		},
	}
	h := NewCartHandler(stub)

	// userId in the body is ignored; the cart always belongs to the caller.
	req := asShopper(jsonRequest(http.MethodPost, "/api/cart/add", `{"productId":"p1","quantity":2,"userId":"someone-else"}`), "u1")
	req.Header.Set(IdempotencyKeyHeader, " k-1 ")
	rec := httptest.NewRecorder()
	if err := h.Add(newEcho().NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"totalAmount":20`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "version") {
		t.Fatalf("version must not be exposed: %s", rec.Body.String())
	}
}

func TestCartHandler_Add_InvalidQuantity(t *testing.T) {
	stub := &stubCartService{
		addFn: func(context.Context, string, ports.AddItemInput) (*domain.Cart, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewCartHandler(stub)

	bodies := []string{
		`{"productId":"p1","quantity":0}`,
		`{"productId":"p1","quantity":-3}`,
		`{"productId":"p1","quantity":10001}`,
		`{"productId":"p1","quantity":9223372036854775807}`,
		`{"quantity":1}`,
	}
	for _, body := range bodies {
		req := asShopper(jsonRequest(http.MethodPost, "/", body), "u1")
		if err := h.Add(newEcho().NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", body, err)
		}
	}
}

func TestCartHandler_Add_RejectsBadIdempotencyKey(t *testing.T) {
	stub := &stubCartService{
		addFn: func(context.Context, string, ports.AddItemInput) (*domain.Cart, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewCartHandler(stub)

	for _, key := range []string{strings.Repeat("k", 256), "caf\u00e9-key", "line\tbreak"} {
		req := asShopper(jsonRequest(http.MethodPost, "/", `{"productId":"p1","quantity":1}`), "u1")
		req.Header.Set(IdempotencyKeyHeader, key)
		err := h.Add(newEcho().NewContext(req, httptest.NewRecorder()))
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("key %q: expected ErrInvalidArgument, got %v", key, err)
		}
		if !strings.Contains(err.Error(), IdempotencyKeyHeader) {
			t.Fatalf("message should name the header: %v", err)
		}
	}
}

func TestCartHandler_RequiresPrincipal(t *testing.T) {
	h := NewCartHandler(&stubCartService{})
	e := newEcho()

	handlers := map[string]echo.HandlerFunc{
		"add":    h.Add,
		"get":    h.Get,
		"update": h.Update,
		"remove": h.Remove,
	}
	for name, fn := range handlers {
		c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"productId":"p1","quantity":1}`), httptest.NewRecorder())
		if err := fn(c); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestCartHandler_GetUpdateRemove(t *testing.T) {
	stub := &stubCartService{
		getFn: func(_ context.Context, userID string) (*domain.CartView, error) {
			return nil, domain.ErrCartNotFound
		},
		updateFn: func(_ context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
			if productID != "p2" || quantity != 5 {
				t.Fatalf("unexpected update: %s %d", productID, quantity)
			}
			return nil, domain.ErrCartItemNotFound
		},
		removeFn: func(_ context.Context, userID, productID string) (*domain.Cart, error) {
			if userID != "u1" || productID != "p3" {
				t.Fatalf("unexpected remove: %s %s", userID, productID)
			}
			return domain.NewCart(userID, expiry), nil
		},
	}
	h := NewCartHandler(stub)

	req := asShopper(httptest.NewRequest(http.MethodGet, "/api/cart", nil), "u1")
	if err := h.Get(newEcho().NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("get: expected ErrCartNotFound, got %v", err)
	}

	req = asShopper(jsonRequest(http.MethodPut, "/api/cart/update", `{"productId":"p2","quantity":5}`), "u1")
	if err := h.Update(newEcho().NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Fatalf("update: expected ErrCartItemNotFound, got %v", err)
	}

	req = asShopper(httptest.NewRequest(http.MethodDelete, "/api/cart/remove/p3", nil), "u1")
	rec := httptest.NewRecorder()
	c := newEcho().NewContext(req, rec)
	c.SetParamNames("productId")
	c.SetParamValues("p3")
	if err := h.Remove(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
