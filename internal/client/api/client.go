// Package api is the REST gateway client. Every backend response follows
// the `{success, data, message}` envelope; failures normalize to *Error.
// Authenticated calls carry a bearer token read from the persisted session
// store at request time.
package api

import (
	"context"

	"github.com/ayadas/cozyon-cli/internal/client/models"
)

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// CreateOrderRequest is the order-creation body. PaymentStatus is always
// submitted as "pending": the client creates orders ahead of payment and
// never reports payment completion itself.
type CreateOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentStatus   models.PaymentStatus   `json:"paymentStatus"`
}

// Client is the remote cart/order gateway consumed by the state container
// and the checkout orchestrator.
type Client interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)

	FetchCart(ctx context.Context) (*models.Cart, error)
	AddCartItem(ctx context.Context, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, productID string) error

	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	GetPaymentStatus(ctx context.Context, id string) (models.PaymentStatus, error)
}

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token with a nil error means "not logged in" and the request
// goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
