package models

// CartItem pairs a denormalized product snapshot with a quantity. Quantity
// is always >= 1 in a valid cart; an item that would drop to zero is removed
// instead. Price, when set, is the server-computed per-item price and takes
// precedence over the embedded product's price.
type CartItem struct {
	ID       string   `json:"_id,omitempty"`
	Product  Product  `json:"product"`
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price,omitempty"`
}

// UnitPrice returns the effective per-unit price: the server override when
// present, the product price otherwise.
func (i CartItem) UnitPrice() float64 {
	if i.Price != nil {
		return *i.Price
	}
	return i.Product.Price
}

// Cart is the server's view of the logged-in user's cart.
type Cart struct {
	ID    string     `json:"_id,omitempty"`
	Items []CartItem `json:"items"`
}
