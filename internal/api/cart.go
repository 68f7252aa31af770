package api

import (
	"context"
	"net/http"

	"estate-front/internal/domain"
)

// CartUpdate is the add/update payload for a cart line.
type CartUpdate struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
}

// GetCart fetches the caller's cart.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.getJSON(ctx, "/api/cart/get", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds a line item.
func (c *Client) AddToCart(ctx context.Context, update CartUpdate) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/cart/add", update, nil)
}

// UpdateCartItem changes a line's quantity or color. Color reselection
// re-issues this same call with the current quantity.
func (c *Client) UpdateCartItem(ctx context.Context, update CartUpdate) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/cart/update", update, nil)
}

// RemoveCartItem removes one line by product id.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/remove/"+productID, nil, nil, "", nil)
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/clear", nil, nil, "", nil)
}

// Checkout converts the cart into an order. The backend tolerates partial
// failure: the result enumerates both fulfilled and unfulfillable lines.
func (c *Client) Checkout(ctx context.Context) (*domain.CheckoutResult, error) {
	var result domain.CheckoutResult
	if err := c.getJSON(ctx, "/api/cart/checkout", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UserOrders fetches the caller's order history.
func (c *Client) UserOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.getJSON(ctx, "/api/order/all/user", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
