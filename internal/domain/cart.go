package domain

// CartItem is one line of the shopper's cart: a product reference plus the
// locally selectable quantity and color.
type CartItem struct {
	ID       string  `json:"_id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Color    string  `json:"color,omitempty"`
}

// Cart is the server's cart response. TotalQuantity and TotalPrice are
// computed server-side and passed through verbatim; the client never
// recomputes them.
type Cart struct {
	Items         []CartItem `json:"cart"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalPrice    float64    `json:"totalPrice"`
}

// Empty reports whether the cart has no line items.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}
