package handler

// IdempotencyKeyHeader lets a client retry add-to-cart without adding twice.
const IdempotencyKeyHeader = "Idempotency-Key"

type idempotencyHeader struct {
	Key string `json:"Idempotency-Key" validate:"omitempty,max=255,printascii"`
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gte=1,max=10000"`
}

type updateCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gte=1,max=10000"`
}
