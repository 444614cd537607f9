package models

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the payment state of an order. The client only ever
// submits "pending"; the rest are backend-owned transitions.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ShippingAddress is the delivery address submitted at checkout.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem is a line inside a server-owned order. Unlike CartItem its
// price is always set by the backend.
type OrderItem struct {
	ID       string  `json:"_id,omitempty"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is the server-owned aggregate. Read-only on the client except at
// creation time.
type Order struct {
	ID              string          `json:"_id,omitempty"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          OrderStatus     `json:"orderStatus"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	InvoiceNumber   string          `json:"invoiceNumber,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

// InvoiceLine is a display row on an invoice.
type InvoiceLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

// Invoice is the backend's printable projection of an order. It is never
// persisted client-side.
type Invoice struct {
	InvoiceNumber   string          `json:"invoiceNumber"`
	OrderDate       string          `json:"orderDate"`
	OrderStatus     string          `json:"orderStatus"`
	PaymentStatus   string          `json:"paymentStatus"`
	Items           []InvoiceLine   `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
}
