package domain

import (
	"fmt"
	"time"
)

// CartItem is one line of a cart. Price is the catalog unit price captured
// the last time the line was added to or updated.
type CartItem struct {
	ProductID string  `json:"productId" bson:"product_id"`
	Quantity  int     `json:"quantity"  bson:"quantity"`
	Price     float64 `json:"price"     bson:"price"`
}

// Subtotal is quantity times the captured unit price.
func (i CartItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// Cart is the per-principal aggregate. TotalAmount is derived: every mutator
// ends with Recalculate, so it always equals the sum of item subtotals.
// Items hold at most one line per product.
type Cart struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Version is the optimistic concurrency token. Zero means never persisted.
	Version int64 `json:"-"`
}

// NewCart returns an empty, unpersisted cart for userID.
func NewCart(userID string, now time.Time) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MaxItemQuantity caps the units of one product a cart line may hold.
const MaxItemQuantity = 10000

// ValidateQuantity rejects anything outside 1..MaxItemQuantity.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidArgument)
	}
	if quantity > MaxItemQuantity {
		return fmt.Errorf("%w: quantity must be at most %d", ErrInvalidArgument, MaxItemQuantity)
	}
	return nil
}

// AddItem merges quantity into the line for productID, or appends a new line.
// The touched line's price is refreshed to unitPrice. A merge that would
// take the line above MaxItemQuantity is rejected and leaves the cart as is.
func (c *Cart) AddItem(productID string, quantity int, unitPrice float64) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if i := c.indexOf(productID); i >= 0 {
		if c.Items[i].Quantity > MaxItemQuantity-quantity {
			return fmt.Errorf("%w: quantity must be at most %d", ErrInvalidArgument, MaxItemQuantity)
		}
		c.Items[i].Quantity += quantity
		c.Items[i].Price = unitPrice
	} else {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity, Price: unitPrice})
	}
	c.Recalculate()
	return nil
}

// UpdateItem sets an absolute quantity on an existing line and refreshes its
// price. It never adds a line.
func (c *Cart) UpdateItem(productID string, quantity int, unitPrice float64) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i := c.indexOf(productID)
	if i < 0 {
		return ErrCartItemNotFound
	}
	c.Items[i].Quantity = quantity
	c.Items[i].Price = unitPrice
	c.Recalculate()
	return nil
}

// RemoveItem drops the line for productID. Removing an absent product is a
// no-op; the return value reports whether anything was removed.
func (c *Cart) RemoveItem(productID string) bool {
	kept := c.Items[:0]
	removed := false
	for _, it := range c.Items {
		if it.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	c.Recalculate()
	return removed
}

// HasItem reports whether productID has a line in the cart.
func (c *Cart) HasItem(productID string) bool {
	return c.indexOf(productID) >= 0
}

// Recalculate derives TotalAmount from scratch.
func (c *Cart) Recalculate() {
	var total float64
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	c.TotalAmount = total
}

// Clone returns a deep copy, so a failed write never leaks half-applied state.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

func (c *Cart) indexOf(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// ResolvedCartItem is a cart line joined with the current catalog entry.
// Product is nil when the product has since left the catalog.
type ResolvedCartItem struct {
	CartItem
	Product *Product `json:"product"`
}

// CartView is the display shape returned by GetCart.
type CartView struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Items       []ResolvedCartItem `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
