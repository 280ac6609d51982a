package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
	"github.com/techzone/storefront-api/internal/pkg/metrics"
)

const defaultMaxAttempts = 3

// CartService mutates carts one principal at a time. Every write goes through
// the locker keyed by user id and is persisted with a version check, so
// mutations from other replicas are detected and re-applied.
type CartService struct {
	carts       ports.CartRepository
	catalog     ports.ProductCatalog
	locker      ports.CartLocker
	idem        ports.IdempotencyStore
	log         zerolog.Logger
	maxAttempts int
	now         func() time.Time
}

// CartOption configures optional CartService collaborators.
type CartOption func(*CartService)

// WithIdempotency enables Idempotency-Key handling on AddItem.
func WithIdempotency(store ports.IdempotencyStore) CartOption {
	return func(s *CartService) { s.idem = store }
}

// WithMaxAttempts bounds how many times a write is re-applied after a
// version conflict. Values below one are ignored.
func WithMaxAttempts(n int) CartOption {
	return func(s *CartService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithClock(now func() time.Time) CartOption {
	return func(s *CartService) { s.now = now }
}

func NewCartService(carts ports.CartRepository, catalog ports.ProductCatalog, locker ports.CartLocker, log zerolog.Logger, opts ...CartOption) *CartService {
	s := &CartService{
		carts:       carts,
		catalog:     catalog,
		locker:      locker,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItem merges quantity units of a product into the principal's cart,
// creating the cart on first use.
func (s *CartService) AddItem(ctx context.Context, userID string, in ports.AddItemInput) (_ *domain.Cart, err error) {
	defer s.observe("add", time.Now(), &err)

	if err := domain.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	product, err := s.catalog.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	var result *domain.Cart
	err = s.locker.Do(ctx, userID, func(ctx context.Context) error {
		if in.IdempotencyKey != "" && s.idem != nil {
			replayed, err := s.replay(ctx, userID, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = replayed
				return nil
			}
		}

		updated, err := s.apply(ctx, userID, true, func(c *domain.Cart) error {
			return c.AddItem(product.ID, in.Quantity, product.Price)
		})
		if err != nil {
			if in.IdempotencyKey != "" && s.idem != nil {
				if rerr := s.idem.Release(ctx, idempotencyScope(userID), in.IdempotencyKey); rerr != nil {
					s.log.Warn().Err(rerr).Str("user_id", userID).Msg("failed to release idempotency key")
				}
			}
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// replay claims key for userID. When the key was already claimed it returns
// the current cart; a nil cart with nil error means the caller goes first.
// A store outage degrades to no deduplication rather than refusing the add.
func (s *CartService) replay(ctx context.Context, userID, key string) (*domain.Cart, error) {
	first, err := s.idem.Claim(ctx, idempotencyScope(userID), key)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("idempotency store unavailable, applying add")
		return nil, nil
	}
	if first {
		return nil, nil
	}

	s.log.Info().Str("user_id", userID).Str("idempotency_key", key).Msg("replayed add to cart")
	cart, err := s.carts.FindByUserID(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		// Claimed by a process that died before writing.
		return domain.NewCart(userID, s.now().UTC()), nil
	}
	return cart, err
}

// GetCart returns the principal's cart with each line joined to its current
// catalog entry.
func (s *CartService) GetCart(ctx context.Context, userID string) (view *domain.CartView, err error) {
	defer s.observe("get", time.Now(), &err)

	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	products := map[string]*domain.Product{}
	if len(ids) > 0 {
		if products, err = s.catalog.FindByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	view = &domain.CartView{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Items:       make([]domain.ResolvedCartItem, 0, len(cart.Items)),
		TotalAmount: cart.TotalAmount,
		CreatedAt:   cart.CreatedAt,
		UpdatedAt:   cart.UpdatedAt,
	}
	for _, it := range cart.Items {
		view.Items = append(view.Items, domain.ResolvedCartItem{CartItem: it, Product: products[it.ProductID]})
	}
	return view, nil
}

// UpdateItem sets an absolute quantity on a line already in the cart.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (_ *domain.Cart, err error) {
	defer s.observe("update", time.Now(), &err)

	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	var result *domain.Cart
	err = s.locker.Do(ctx, userID, func(ctx context.Context) error {
		updated, err := s.apply(ctx, userID, false, func(c *domain.Cart) error {
			if !c.HasItem(productID) {
				return domain.ErrCartItemNotFound
			}
			product, err := s.catalog.FindByID(ctx, productID)
			if err != nil {
				return err
			}
			return c.UpdateItem(productID, quantity, product.Price)
		})
		result = updated
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem drops a product from the cart. Removing a product that is not
// in the cart succeeds and leaves the items unchanged.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (_ *domain.Cart, err error) {
	defer s.observe("remove", time.Now(), &err)

	var result *domain.Cart
	err = s.locker.Do(ctx, userID, func(ctx context.Context) error {
		updated, err := s.apply(ctx, userID, false, func(c *domain.Cart) error {
			c.RemoveItem(productID)
			return nil
		})
		result = updated
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// apply reads the cart, runs mutate on a copy and writes it back, re-reading
// and re-applying on a version conflict up to maxAttempts times.
func (s *CartService) apply(ctx context.Context, userID string, create bool, mutate func(*domain.Cart) error) (*domain.Cart, error) {
	for attempt := 1; ; attempt++ {
		now := s.now().UTC()

		current, err := s.carts.FindByUserID(ctx, userID)
		switch {
		case errors.Is(err, domain.ErrCartNotFound) && create:
			current = domain.NewCart(userID, now)
		case err != nil:
			return nil, err
		}

		next := current.Clone()
		if err := mutate(next); err != nil {
			return nil, err
		}
		next.UpdatedAt = now

		err = s.carts.Save(ctx, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, domain.ErrCartConflict) || attempt >= s.maxAttempts {
			return nil, err
		}

		metrics.CartConflictsTotal.Inc()
		s.log.Debug().Str("user_id", userID).Int("attempt", attempt).Msg("cart version conflict, retrying")
	}
}

func (s *CartService) observe(op string, start time.Time, err *error) {
	metrics.CartOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.CartOperationsTotal.WithLabelValues(op, resultLabel(*err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCartConflict):
		return "conflict"
	default:
		return "error"
	}
}

func idempotencyScope(userID string) string {
	return "cart:add:" + userID
}
