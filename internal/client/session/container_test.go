package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ayadas/cozyon-cli/internal/client/models"
	"github.com/ayadas/cozyon-cli/internal/client/storage"
	"github.com/ayadas/cozyon-cli/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	cart     *models.Cart
	fetchFn  func() (*models.Cart, error)
	fetchErr error

	addErr    error
	updateErr error
	removeErr error

	lastProductID string
	lastQuantity  int
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) FetchCart(ctx context.Context) (*models.Cart, error) {
	f.record("fetch")
	if f.fetchFn != nil {
		return f.fetchFn()
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.cart == nil {
		return &models.Cart{}, nil
	}
	cp := *f.cart
	cp.Items = append([]models.CartItem(nil), f.cart.Items...)
	return &cp, nil
}

func (f *fakeGateway) AddCartItem(ctx context.Context, productID string, quantity int) error {
	f.record("add")
	f.lastProductID, f.lastQuantity = productID, quantity
	return f.addErr
}

func (f *fakeGateway) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	f.record("update")
	f.lastProductID, f.lastQuantity = productID, quantity
	return f.updateErr
}

func (f *fakeGateway) RemoveCartItem(ctx context.Context, productID string) error {
	f.record("remove")
	f.lastProductID = productID
	return f.removeErr
}

type memStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStore() *memStore { return &memStore{m: map[string][]byte{}} }

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = map[string][]byte{}
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[key]
	return ok
}

// ---- helpers ----

func product(id string, price float64) models.Product {
	return models.Product{ID: id, Name: "product " + id, Price: price}
}

func line(p models.Product, qty int) models.CartItem {
	return models.CartItem{Product: p, Quantity: qty}
}

func newContainer(gw *fakeGateway, st *memStore) *Container {
	return New(gw, st, logging.NewDefault("error"))
}

func loggedInContainer(t *testing.T, gw *fakeGateway, st *memStore) *Container {
	t.Helper()
	require.NoError(t, st.Set(context.Background(), storage.KeyAuthToken, []byte("opaque-token")))
	c := newContainer(gw, st)
	c.Initialize(context.Background())
	require.True(t, c.IsLoggedIn())
	return c
}

// ---- auth gate ----

func TestAddToCart_LoggedOut_NeverContactsGateway(t *testing.T) {
	gw := &fakeGateway{}
	st := newMemStore()
	c := newContainer(gw, st)
	c.Initialize(context.Background())

	err := c.AddToCart(context.Background(), product("p1", 10), 1)
	require.ErrorIs(t, err, ErrAuthRequired)
	require.Empty(t, gw.callList())
	require.Zero(t, c.CartCount())
	require.True(t, c.AuthPromptPending())

	c.DismissAuthPrompt()
	require.False(t, c.AuthPromptPending())
}

// ---- add / replace semantics ----

func TestAddToCart_ReplacesLocalStateWithServerCart(t *testing.T) {
	p2 := product("p2", 349.99)
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(p2, 3)}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)

	require.NoError(t, c.AddToCart(context.Background(), p2, 3))

	require.Equal(t, "p2", gw.lastProductID)
	require.Equal(t, 3, gw.lastQuantity)

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, "p2", items[0].Product.Key())
	require.Equal(t, 3, items[0].Quantity)

	// Non-empty cart must be mirrored into the store.
	require.True(t, st.has(storage.KeyCart))
}

func TestAddToCart_GatewayFailureIsAbsorbed(t *testing.T) {
	p1 := product("p1", 10)
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(p1, 2)}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))

	gw.addErr = context.DeadlineExceeded
	before := c.Items()

	require.NoError(t, c.AddToCart(context.Background(), product("p9", 1), 1))
	require.Equal(t, before, c.Items(), "known-good state must survive a failed add")
}

func TestAddToCart_QuantityFloorsAtOne(t *testing.T) {
	gw := &fakeGateway{}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)

	require.NoError(t, c.AddToCart(context.Background(), product("p1", 5), 0))
	require.Equal(t, 1, gw.lastQuantity)
}

// ---- derived reads ----

func TestCartTotalAndCount(t *testing.T) {
	override := 5.0
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{
		line(product("p1", 299.99), 2),
		{Product: product("p2", 100), Quantity: 3, Price: &override},
	}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))

	require.Equal(t, 5, c.CartCount())
	require.InDelta(t, 299.99*2+5.0*3, c.CartTotal(), 1e-9)
}

func TestNormalize_NoDuplicateProductIDs(t *testing.T) {
	p1 := product("p1", 10)
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{
		line(p1, 1),
		line(product("p2", 20), 2),
		line(p1, 4),
	}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))

	items := c.Items()
	require.Len(t, items, 2)
	require.Equal(t, "p1", items[0].Product.Key())
	require.Equal(t, 5, items[0].Quantity)
	require.Equal(t, "p2", items[1].Product.Key())
}

func TestNormalize_LegacyIDCountsAsSameProduct(t *testing.T) {
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{
		{Product: models.Product{ID: "p1", Price: 10}, Quantity: 1},
		{Product: models.Product{LegacyID: "p1", Price: 10}, Quantity: 2},
	}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))

	require.Len(t, c.Items(), 1)
	require.Equal(t, 3, c.CartCount())
}

// ---- update / remove ----

func TestUpdateQuantity_ZeroIsRemove(t *testing.T) {
	p1 := product("p1", 10)
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(p1, 2)}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))
	require.True(t, st.has(storage.KeyCart))

	gw.cart = &models.Cart{}
	require.NoError(t, c.UpdateQuantity(context.Background(), "p1", 0))

	calls := gw.callList()
	require.Contains(t, calls, "remove")
	require.NotContains(t, calls, "update")

	require.Zero(t, c.CartCount())
	require.False(t, st.has(storage.KeyCart), "empty cart must remove the persisted snapshot")
}

func TestUpdateQuantity_PositiveGoesThroughUpdate(t *testing.T) {
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(product("p1", 10), 7)}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)

	require.NoError(t, c.UpdateQuantity(context.Background(), "p1", 7))
	require.Equal(t, "p1", gw.lastProductID)
	require.Equal(t, 7, gw.lastQuantity)
	require.Equal(t, 7, c.CartCount())
}

func TestRemoveFromCart_SurfacesGatewayError(t *testing.T) {
	p1 := product("p1", 10)
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(p1, 2)}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))

	gw.removeErr = context.DeadlineExceeded
	err := c.RemoveFromCart(context.Background(), "p1")
	require.Error(t, err)
	require.Equal(t, 2, c.CartCount(), "failed remove must not corrupt local state")
}

// ---- clear ----

func TestClearCart(t *testing.T) {
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(product("p1", 10), 2)}}}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))

	before := len(gw.callList())
	c.ClearCart(context.Background())

	require.Zero(t, c.CartCount())
	require.False(t, st.has(storage.KeyCart))
	require.Len(t, gw.callList(), before, "clearCart must not call the gateway")
}

// ---- persisted snapshot validation ----

func TestInitialize_CorruptSnapshotDiscardedAndRemoved(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not an array", `{"product":{},"quantity":1}`},
		{"not json", `{{{`},
		{"missing quantity", `[{"product":{"_id":"p1","price":1}}]`},
		{"non-numeric quantity", `[{"product":{"_id":"p1"},"quantity":"two"}]`},
		{"missing product", `[{"quantity":2}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			st := newMemStore()
			require.NoError(t, st.Set(context.Background(), storage.KeyCart, []byte(tc.raw)))

			c := newContainer(gw, st)
			c.Initialize(context.Background())

			require.Zero(t, c.CartCount())
			require.False(t, st.has(storage.KeyCart), "bad persisted value must be removed")

			// Idempotent: a second initialize yields the same empty result.
			c2 := newContainer(gw, st)
			c2.Initialize(context.Background())
			require.Zero(t, c2.CartCount())
		})
	}
}

func TestInitialize_ValidSnapshotVisibleWhileLoggedOut(t *testing.T) {
	snapshot, err := json.Marshal([]models.CartItem{line(product("p1", 10), 2)})
	require.NoError(t, err)

	gw := &fakeGateway{}
	st := newMemStore()
	require.NoError(t, st.Set(context.Background(), storage.KeyCart, snapshot))

	c := newContainer(gw, st)
	c.Initialize(context.Background())

	require.Equal(t, 2, c.CartCount())
	require.Empty(t, gw.callList(), "no session, no sync")
}

func TestInitialize_LoggedInSyncReplacesCachedCart(t *testing.T) {
	snapshot, err := json.Marshal([]models.CartItem{line(product("old", 10), 9)})
	require.NoError(t, err)

	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(product("fresh", 20), 1)}}}
	st := newMemStore()
	require.NoError(t, st.Set(context.Background(), storage.KeyCart, snapshot))
	require.NoError(t, st.Set(context.Background(), storage.KeyAuthToken, []byte("tok")))

	c := newContainer(gw, st)
	c.Initialize(context.Background())

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, "fresh", items[0].Product.Key())
}

func TestInitialize_SyncFailureKeepsCachedCart(t *testing.T) {
	snapshot, err := json.Marshal([]models.CartItem{line(product("cached", 10), 2)})
	require.NoError(t, err)

	gw := &fakeGateway{fetchErr: context.DeadlineExceeded}
	st := newMemStore()
	require.NoError(t, st.Set(context.Background(), storage.KeyCart, snapshot))
	require.NoError(t, st.Set(context.Background(), storage.KeyAuthToken, []byte("tok")))

	c := newContainer(gw, st)
	c.Initialize(context.Background())

	require.True(t, c.IsLoggedIn())
	require.Equal(t, 2, c.CartCount(), "cached cart stays visible when the sync fails")
}

func TestInitialize_ExpiredTokenMeansLoggedOut(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	gw := &fakeGateway{}
	st := newMemStore()
	require.NoError(t, st.Set(context.Background(), storage.KeyAuthToken, []byte(signed)))

	c := newContainer(gw, st)
	c.Initialize(context.Background())

	require.False(t, c.IsLoggedIn())
	require.False(t, st.has(storage.KeyAuthToken), "expired token must be removed")
}

// ---- session transitions ----

func TestHandleAuthSuccess(t *testing.T) {
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(product("p1", 10), 1)}}}
	st := newMemStore()
	userJSON, err := json.Marshal(models.User{ID: "u1", Name: "Aya", Email: "aya@example.com"})
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), storage.KeyUser, userJSON))

	c := newContainer(gw, st)
	c.Initialize(context.Background())
	_ = c.AddToCart(context.Background(), product("p1", 10), 1) // raises the prompt

	c.HandleAuthSuccess(context.Background())

	require.True(t, c.IsLoggedIn())
	require.False(t, c.AuthPromptPending())
	user := c.CurrentUser()
	require.NotNil(t, user)
	require.Equal(t, "Aya", user.Name)
	require.Equal(t, 1, c.CartCount(), "cart refreshed from gateway after login")
}

func TestLogout(t *testing.T) {
	gw := &fakeGateway{cart: &models.Cart{Items: []models.CartItem{line(product("p1", 10), 2)}}}
	st := newMemStore()
	userJSON, err := json.Marshal(models.User{ID: "u1", Name: "Aya"})
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), storage.KeyUser, userJSON))

	c := loggedInContainer(t, gw, st)
	require.NoError(t, c.SyncCart(context.Background()))

	c.Logout(context.Background())

	require.False(t, c.IsLoggedIn())
	require.Nil(t, c.CurrentUser())
	require.Zero(t, c.CartCount())
	require.False(t, st.has(storage.KeyAuthToken))
	require.False(t, st.has(storage.KeyUser))
	require.False(t, st.has(storage.KeyCart))
}

// ---- sync ordering ----

func TestSyncCart_StaleResponseDiscarded(t *testing.T) {
	gw := &fakeGateway{}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)

	release := make(chan struct{})
	slowStarted := make(chan struct{})
	slowCart := &models.Cart{Items: []models.CartItem{line(product("stale", 1), 1)}}
	freshCart := &models.Cart{Items: []models.CartItem{line(product("fresh", 2), 2)}}

	gw.fetchFn = func() (*models.Cart, error) {
		close(slowStarted)
		<-release
		return slowCart, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.SyncCart(context.Background()) // issued first, resolves last
	}()
	<-slowStarted

	gw.fetchFn = func() (*models.Cart, error) { return freshCart, nil }
	require.NoError(t, c.SyncCart(context.Background()))

	close(release)
	<-done

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, "fresh", items[0].Product.Key(), "older in-flight response must not overwrite the newer one")
}

func TestClearCart_InvalidatesInFlightSync(t *testing.T) {
	gw := &fakeGateway{}
	st := newMemStore()
	c := loggedInContainer(t, gw, st)

	release := make(chan struct{})
	started := make(chan struct{})
	gw.fetchFn = func() (*models.Cart, error) {
		close(started)
		<-release
		return &models.Cart{Items: []models.CartItem{line(product("ghost", 1), 1)}}, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.SyncCart(context.Background())
	}()
	<-started

	c.ClearCart(context.Background())
	close(release)
	<-done

	require.Zero(t, c.CartCount(), "a sync issued before the clear must not resurrect the cart")
	require.False(t, st.has(storage.KeyCart))
}
