package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayadas/cozyon-cli/internal/client/models"
	"github.com/ayadas/cozyon-cli/internal/client/storage"
	"github.com/ayadas/cozyon-cli/internal/logging"
	"github.com/google/uuid"
)

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// authTransport attaches the bearer token and a request id to every
// outgoing request. The token is read from the TokenSource per request, so
// login/logout take effect without rebuilding the client.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-Id", uuid.NewString())

	if t.tokens != nil {
		token, err := t.tokens.Token(req.Context())
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// StoreTokenSource reads the persisted auth token.
type StoreTokenSource struct {
	store storage.Repository
}

func NewStoreTokenSource(store storage.Repository) *StoreTokenSource {
	return &StoreTokenSource{store: store}
}

func (s *StoreTokenSource) Token(ctx context.Context) (string, error) {
	value, err := s.store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// HTTPClient is the concrete gateway client.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a gateway client for the given base URL. tokens may
// be nil for an unauthenticated client.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{tokens: tokens},
		},
		log: log.With("component", "api"),
	}
}

// do performs one request/response cycle and decodes the envelope's data
// field into out (when out is non-nil). Any failure comes back as *Error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug(ctx, "transport failure", "method", method, "path", path, "error", err)
		return &Error{Message: err.Error(), sentinel: ErrUnavailable}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: err.Error(), sentinel: ErrUnavailable}
	}

	var env envelope
	decodeErr := json.Unmarshal(payload, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		data := json.RawMessage(payload)
		if decodeErr == nil {
			if env.Message != "" {
				message = env.Message
			}
			if len(env.Data) > 0 {
				data = env.Data
			}
		}
		apiErr := &Error{Status: resp.StatusCode, Message: message, Data: data}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.sentinel = ErrUnauthorized
		}
		return apiErr
	}

	if decodeErr != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", decodeErr)}
	}
	if !env.Success {
		return &Error{Status: resp.StatusCode, Message: orDefault(env.Message, "request rejected"), Data: env.Data}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("decode data: %v", err)}
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *HTTPClient) FetchCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type cartMutation struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (c *HTTPClient) AddCartItem(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", cartMutation{ProductID: productID, Quantity: quantity}, nil)
}

// UpdateCartItem sets the absolute quantity for a cart line.
func (c *HTTPClient) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPut, "/cart/update", cartMutation{ProductID: productID, Quantity: quantity}, nil)
}

func (c *HTTPClient) RemoveCartItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/remove/"+url.PathEscape(productID), nil, nil)
}

func (c *HTTPClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *HTTPClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *HTTPClient) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *HTTPClient) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id)+"/invoice", nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *HTTPClient) GetPaymentStatus(ctx context.Context, id string) (models.PaymentStatus, error) {
	var payload struct {
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id)+"/payment-status", nil, &payload); err != nil {
		return "", err
	}
	return payload.PaymentStatus, nil
}
