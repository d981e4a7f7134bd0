package graphql

import (
	"context"
	"fmt"

	"github.com/rugurujane/storefront/internal/catalog"
	"github.com/rugurujane/storefront/internal/order"
)

// ProductsQuery fetches the whole catalog.
const ProductsQuery = `query GetProducts {
  products {
    id
    name
    description
    inStock
    category
    gallery
    prices {
      amount
      currency {
        label
        symbol
      }
    }
    attributes {
      id
      name
      type
      items {
        id
        displayValue
        value
      }
    }
  }
}`

// CreateOrderMutation places an order.
const CreateOrderMutation = `mutation CreateOrder($products: [OrderProductInput!]!) {
  createOrder(products: $products) {
    id
    products {
      productId
      quantity
      totalPrice
    }
    totalPrice
  }
}`

// Products fetches the product catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var out struct {
		Products []catalog.Product `json:"products"`
	}
	if err := c.Do(ctx, Request{Query: ProductsQuery, OperationName: "GetProducts"}, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return out.Products, nil
}

// CreateOrder implements order.Service.
func (c *Client) CreateOrder(ctx context.Context, req order.Request) (*order.Confirmation, error) {
	var out struct {
		CreateOrder *order.Confirmation `json:"createOrder"`
	}
	err := c.Do(ctx, Request{
		Query:         CreateOrderMutation,
		OperationName: "CreateOrder",
		Variables:     map[string]any{"products": req.Products},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.CreateOrder == nil {
		return nil, fmt.Errorf("graphql: createOrder returned no order")
	}
	return out.CreateOrder, nil
}

var _ order.Service = (*Client)(nil)
