// Package session holds the authoritative in-memory cart/session state.
//
// The container mediates between the remote gateway and the persisted
// session store: the gateway is the source of truth for cart contents, the
// store is a passive local mirror, and the UI only ever reads copies of the
// container's state. Item-level mutations go to the gateway first and the
// local cart is then replaced wholesale with the server's view — there is
// no optimistic merging, because per-item prices are server-computed.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayadas/cozyon-cli/internal/client/models"
	"github.com/ayadas/cozyon-cli/internal/client/storage"
	"github.com/ayadas/cozyon-cli/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrAuthRequired is a flow-control signal, not a failure: adding to the
// cart requires a logged-in session because carts live server-side. The
// container raises the auth-prompt flag and returns this so callers can
// branch with errors.Is.
var ErrAuthRequired = errors.New("authentication required")

var errInvalidCartSnapshot = errors.New("invalid cart snapshot")

// Gateway is the slice of the remote API the container needs.
type Gateway interface {
	FetchCart(ctx context.Context) (*models.Cart, error)
	AddCartItem(ctx context.Context, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, productID string) error
}

// Container is the single owner of cart items, login state and user
// identity. Construct one per application with New and call Initialize
// before use; UI code reads through the accessor methods and never holds
// references into the container's slices.
type Container struct {
	gateway Gateway
	store   storage.Repository
	log     logging.Logger

	// syncSeq is taken before each fetch that intends to replace the cart;
	// lastApplied guards against an older in-flight response overwriting a
	// younger one (last *issued* wins, not last resolved).
	syncSeq     atomic.Uint64
	lastApplied uint64

	mu         sync.Mutex
	items      []models.CartItem
	user       *models.User
	loggedIn   bool
	authPrompt bool
}

func New(gateway Gateway, store storage.Repository, log logging.Logger) *Container {
	return &Container{
		gateway: gateway,
		store:   store,
		log:     log.With("component", "session"),
	}
}

// Initialize restores the session from the persisted store: login state
// from the auth token (an expired JWT counts as logged out and is removed),
// user identity, and the cached cart snapshot. A corrupt snapshot is
// discarded and its persisted copy deleted — never an error. When a live
// session exists the cart is refreshed from the gateway; that sync is
// best-effort and its failure leaves the cached cart visible.
func (c *Container) Initialize(ctx context.Context) {
	loggedIn := c.restoreToken(ctx)
	user := c.restoreUser(ctx)
	items := c.restoreCart(ctx)

	c.mu.Lock()
	c.loggedIn = loggedIn
	c.user = user
	c.items = items
	c.mu.Unlock()

	if loggedIn {
		if err := c.SyncCart(ctx); err != nil {
			c.log.Error(ctx, "startup cart sync failed, keeping cached cart", "error", err)
		}
	}
}

func (c *Container) restoreToken(ctx context.Context) bool {
	token, err := c.store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		c.log.Error(ctx, "failed to read persisted auth token", "error", err)
		return false
	}
	if len(token) == 0 {
		return false
	}
	if tokenExpired(string(token)) {
		c.log.Info(ctx, "persisted auth token expired, discarding")
		if err := c.store.Delete(ctx, storage.KeyAuthToken); err != nil {
			c.log.Error(ctx, "failed to remove expired token", "error", err)
		}
		return false
	}
	return true
}

func (c *Container) restoreUser(ctx context.Context) *models.User {
	raw, err := c.store.Get(ctx, storage.KeyUser)
	if err != nil {
		c.log.Error(ctx, "failed to read persisted user", "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		c.log.Warn(ctx, "discarding corrupt persisted user", "error", err)
		if err := c.store.Delete(ctx, storage.KeyUser); err != nil {
			c.log.Error(ctx, "failed to remove corrupt user", "error", err)
		}
		return nil
	}
	return &user
}

func (c *Container) restoreCart(ctx context.Context) []models.CartItem {
	raw, err := c.store.Get(ctx, storage.KeyCart)
	if err != nil {
		c.log.Error(ctx, "failed to read persisted cart", "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	items, err := decodeCartSnapshot(raw)
	if err != nil {
		c.log.Warn(ctx, "discarding corrupt persisted cart", "error", err)
		if err := c.store.Delete(ctx, storage.KeyCart); err != nil {
			c.log.Error(ctx, "failed to remove corrupt cart", "error", err)
		}
		return nil
	}
	return normalizeItems(items)
}

// tokenExpired inspects the token's exp claim without verifying the
// signature — verification is the backend's job; this only avoids
// presenting a session the backend is guaranteed to reject. Opaque
// (non-JWT) tokens are assumed live.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// decodeCartSnapshot validates the persisted shape: a JSON array whose
// elements all carry a product reference and a numeric quantity. Anything
// else is corrupt.
func decodeCartSnapshot(raw []byte) ([]models.CartItem, error) {
	var probe []struct {
		Product  json.RawMessage `json:"product"`
		Quantity *float64        `json:"quantity"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	for _, entry := range probe {
		if len(entry.Product) == 0 || string(entry.Product) == "null" || entry.Quantity == nil {
			return nil, errInvalidCartSnapshot
		}
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// normalizeItems enforces the cart invariants on a server response or
// restored snapshot: no two items share a product id (quantities merge into
// the first occurrence) and no item has quantity below one.
func normalizeItems(items []models.CartItem) []models.CartItem {
	if len(items) == 0 {
		return nil
	}
	index := make(map[string]int, len(items))
	result := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		key := item.Product.Key()
		if at, ok := index[key]; ok {
			result[at].Quantity += item.Quantity
			continue
		}
		index[key] = len(result)
		result = append(result, item)
	}
	filtered := result[:0]
	for _, item := range result {
		if item.Quantity >= 1 {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

// AddToCart adds quantity units of product to the server-side cart and
// replaces the local cart with the server's resulting state. While logged
// out it contacts nothing and mutates nothing: it raises the auth-prompt
// flag and returns ErrAuthRequired. Gateway failures are absorbed (logged)
// and leave the known-good local state untouched.
func (c *Container) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	if !c.loggedIn {
		c.authPrompt = true
		c.mu.Unlock()
		return ErrAuthRequired
	}
	c.mu.Unlock()

	if err := c.gateway.AddCartItem(ctx, product.Key(), quantity); err != nil {
		c.log.Error(ctx, "failed to add item to cart", "productID", product.Key(), "error", err)
		return nil
	}
	if err := c.SyncCart(ctx); err != nil {
		c.log.Error(ctx, "cart refresh after add failed", "error", err)
	}
	return nil
}

// RemoveFromCart removes the product's line server-side, then resyncs. The
// gateway failure is surfaced to the caller; the resync is best-effort.
func (c *Container) RemoveFromCart(ctx context.Context, productID string) error {
	if err := c.gateway.RemoveCartItem(ctx, productID); err != nil {
		return err
	}
	_ = c.SyncCart(ctx)
	return nil
}

// UpdateQuantity sets the absolute quantity of the product's line. A
// quantity of zero or less is equivalent to removal.
func (c *Container) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveFromCart(ctx, productID)
	}
	if err := c.gateway.UpdateCartItem(ctx, productID, quantity); err != nil {
		return err
	}
	_ = c.SyncCart(ctx)
	return nil
}

// SyncCart fetches the authoritative cart and replaces local state with it.
// Idempotent and safe to call repeatedly. Failures are logged and returned;
// callers treat them as non-blocking. A response that lost the race to a
// younger sync is discarded.
func (c *Container) SyncCart(ctx context.Context) error {
	seq := c.syncSeq.Add(1)

	cart, err := c.gateway.FetchCart(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to sync cart", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.lastApplied {
		c.log.Debug(ctx, "discarding stale cart sync", "seq", seq, "applied", c.lastApplied)
		return nil
	}
	c.lastApplied = seq
	c.items = normalizeItems(cart.Items)
	c.persistLocked(ctx)
	return nil
}

// ClearCart empties local state and removes the persisted snapshot. It does
// not call the gateway: it runs after logout or checkout, when the server
// side is already settled. Any sync issued before the clear is invalidated.
func (c *Container) ClearCart(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.lastApplied = c.syncSeq.Load()
	c.persistLocked(ctx)
}

// persistLocked mirrors the in-memory cart into the store: non-empty carts
// are snapshotted, an empty cart deletes the key so a stale non-empty
// snapshot never survives an intentional clear. Caller holds c.mu.
func (c *Container) persistLocked(ctx context.Context) {
	if len(c.items) == 0 {
		if err := c.store.Delete(ctx, storage.KeyCart); err != nil {
			c.log.Error(ctx, "failed to remove persisted cart", "error", err)
		}
		return
	}
	raw, err := json.Marshal(c.items)
	if err != nil {
		c.log.Error(ctx, "failed to encode cart snapshot", "error", err)
		return
	}
	if err := c.store.Set(ctx, storage.KeyCart, raw); err != nil {
		c.log.Error(ctx, "failed to persist cart snapshot", "error", err)
	}
}

// CartTotal recomputes the cart total on every call: Σ unit price × quantity,
// honoring server-set per-item price overrides.
func (c *Container) CartTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, item := range c.items {
		total += item.UnitPrice() * float64(item.Quantity)
	}
	return total
}

// CartCount recomputes the total unit count on every call.
func (c *Container) CartCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var count int
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the current cart lines.
func (c *Container) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// HandleAuthSuccess transitions to LoggedIn after a login/registration flow
// has already persisted the token and user, loads the identity into memory,
// dismisses any pending auth prompt, and refreshes the cart from the
// gateway (best-effort).
func (c *Container) HandleAuthSuccess(ctx context.Context) {
	user := c.restoreUser(ctx)

	c.mu.Lock()
	c.loggedIn = true
	c.authPrompt = false
	c.user = user
	c.mu.Unlock()

	if err := c.SyncCart(ctx); err != nil {
		c.log.Error(ctx, "cart sync after login failed", "error", err)
	}
}

// Logout transitions to LoggedOut: clears the user and the cart locally and
// removes the persisted token, user and cart snapshot. The gateway is not
// called.
func (c *Container) Logout(ctx context.Context) {
	c.mu.Lock()
	c.loggedIn = false
	c.user = nil
	c.items = nil
	c.lastApplied = c.syncSeq.Load()
	c.persistLocked(ctx)
	c.mu.Unlock()

	for _, key := range []string{storage.KeyAuthToken, storage.KeyUser} {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Error(ctx, "failed to remove persisted session key", "key", key, "error", err)
		}
	}
}

// IsLoggedIn reports the session state.
func (c *Container) IsLoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

// CurrentUser returns a copy of the logged-in identity, or nil.
func (c *Container) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// AuthPromptPending reports whether a gated action asked for a login prompt.
func (c *Container) AuthPromptPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authPrompt
}

// DismissAuthPrompt clears the prompt flag without logging in.
func (c *Container) DismissAuthPrompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authPrompt = false
}
