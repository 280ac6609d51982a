package domain

import "time"

// Product is the catalog view the cart needs. The catalog is owned elsewhere;
// this service only reads it.
type Product struct {
	ID          string    `json:"id"`
	ProductName string    `json:"productName"`
	Title       string    `json:"title"`
	Desc        string    `json:"desc"`
	Category    int       `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Image       Avatar    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}
