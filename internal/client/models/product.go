// Package models defines the storefront value types exchanged with the
// backend: products, cart items, users, orders and invoices. The client
// never mutates products or orders; it only renders what the backend
// returns.
package models

// Product is a catalog item. The backend's primary identifier is `_id`;
// the older `id` field is still emitted by some endpoints and is tolerated
// for backward compatibility. Key() resolves between the two.
type Product struct {
	ID          string   `json:"_id,omitempty"`
	LegacyID    string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	CreatedBy   string   `json:"createdBy,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// Key returns the identifier used for cart uniqueness: the primary id when
// present, otherwise the legacy one.
func (p Product) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.LegacyID
}

// ImageURL returns the primary image reference.
func (p Product) ImageURL() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
