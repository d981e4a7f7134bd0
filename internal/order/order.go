// Package order turns the cart into an order request and drives a single
// submission to the order service.
package order

import (
	"context"

	"github.com/rugurujane/storefront/internal/cart"
)

// ProductInput is one line of an order request.
type ProductInput struct {
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// Request is the payload sent to the order service. There is no
// order-level total; the service computes it.
type Request struct {
	Products []ProductInput `json:"products"`
}

// Confirmation is the order service's answer to an accepted order.
type Confirmation struct {
	ID         string         `json:"id"`
	Products   []ProductInput `json:"products"`
	TotalPrice float64        `json:"totalPrice"`
}

// Service places orders.
type Service interface {
	CreateOrder(ctx context.Context, req Request) (*Confirmation, error)
}

// BuildRequest maps each line item to {productId, quantity,
// totalPrice = unit amount * quantity}, preserving cart order.
func BuildRequest(items []cart.LineItem) Request {
	products := make([]ProductInput, 0, len(items))
	for _, it := range items {
		products = append(products, ProductInput{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			TotalPrice: it.LineTotal(),
		})
	}
	return Request{Products: products}
}
