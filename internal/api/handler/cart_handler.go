package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/techzone/storefront-api/internal/core/ports"
)

// CartHandler serves the signed-in shopper's cart. The principal always comes
// from the guard, never from the request body.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Add puts a quantity of a product in the cart.
//
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string            false  "Client key; a repeated key returns the current cart"
// @Param        body             body      addToCartRequest  true   "Product and quantity"
// @Success      200              {object}  domain.Cart
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}

	var req addToCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hdr := idempotencyHeader{Key: strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader))}
	if err := c.Validate(&hdr); err != nil {
		return err
	}

	cart, err := h.service.AddItem(c.Request().Context(), u.ID, ports.AddItemInput{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		IdempotencyKey: hdr.Key,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Get returns the cart with product details.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  domain.CartView
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetCart(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Update sets the quantity of a product already in the cart.
//
// @Summary      Update cart item
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      updateCartRequest  true  "Product and new quantity"
// @Success      200   {object}  domain.Cart
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/cart/update [put]
func (h *CartHandler) Update(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}

	var req updateCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.service.UpdateItem(c.Request().Context(), u.ID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Remove drops a product from the cart. Removing a product that is not in
// the cart succeeds.
//
// @Summary      Remove cart item
// @Tags         cart
// @Produce      json
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  domain.Cart
// @Failure      401        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/cart/remove/{productId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}

	cart, err := h.service.RemoveItem(c.Request().Context(), u.ID, c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}
