package session

import (
	"context"
	"errors"
	"testing"

	"uzhavan/backend"
	"uzhavan/kvstore"
	"uzhavan/models"
)

type fakeBackend struct {
	products    []models.Product
	listErr     error
	users       map[string]models.User
	signInID    backend.Identity
	signInErr   error
	sessionUser string
	created     []models.User
}

func (f *fakeBackend) SignIn(ctx context.Context, email, secret string) (backend.Identity, error) {
	if f.signInErr != nil {
		return backend.Identity{}, f.signInErr
	}
	return f.signInID, nil
}

func (f *fakeBackend) SignUp(ctx context.Context, secret string, profile models.User) (string, error) {
	return "u_new", nil
}

func (f *fakeBackend) SignOut(ctx context.Context, userID string) error { return nil }

func (f *fakeBackend) SessionUser(ctx context.Context, token string) (string, error) {
	if f.sessionUser == "" {
		return "", backend.ErrNoSession
	}
	return f.sessionUser, nil
}

func (f *fakeBackend) UserByID(ctx context.Context, userID string) (models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return models.User{}, backend.ErrNotFound
	}
	return u, nil
}

func (f *fakeBackend) CreateProfile(ctx context.Context, u models.User) error {
	f.created = append(f.created, u)
	if f.users == nil {
		f.users = make(map[string]models.User)
	}
	f.users[u.UserID] = u
	return nil
}

func (f *fakeBackend) ListProducts(ctx context.Context) ([]models.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func newTestManager(fb *fakeBackend) (*Manager, *kvstore.MemoryStore) {
	store := kvstore.NewMemoryStore()
	m := NewManager("test", store, fb)
	return m, store
}

func TestAddToCartAccumulates(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	p := SampleProducts()[0]

	if err := m.AddToCart(p, 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := m.AddToCart(p, 3); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	cart := m.Cart()
	if len(cart) != 1 {
		t.Fatalf("expected one cart line, got %d", len(cart))
	}
	if cart[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", cart[0].Quantity)
	}
}

func TestAddToCartRejectsNonPositive(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	p := SampleProducts()[0]

	if err := m.AddToCart(p, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("quantity 0: expected ErrInvalidQuantity, got %v", err)
	}
	if err := m.AddToCart(p, -2); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if len(m.Cart()) != 0 {
		t.Errorf("cart should be untouched after rejected adds")
	}
}

func TestUpdateQuantitySetsAbsolute(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	p := SampleProducts()[0]
	m.AddToCart(p, 2)
	m.AddToCart(p, 3)

	m.UpdateCartItemQuantity(p.ProductID, 4)

	cart := m.Cart()
	if len(cart) != 1 || cart[0].Quantity != 4 {
		t.Fatalf("expected single line with quantity 4, got %+v", cart)
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	p := SampleProducts()[0]
	m.AddToCart(p, 2)

	m.UpdateCartItemQuantity(p.ProductID, 0)
	if len(m.Cart()) != 0 {
		t.Errorf("quantity 0 should remove the item")
	}

	m.AddToCart(p, 2)
	m.UpdateCartItemQuantity(p.ProductID, -1)
	if len(m.Cart()) != 0 {
		t.Errorf("negative quantity should remove the item")
	}
}

func TestRemoveFromCartAbsentIsNoop(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	p := SampleProducts()[0]
	m.AddToCart(p, 1)

	m.RemoveFromCart("no-such-product")
	if len(m.Cart()) != 1 {
		t.Errorf("removing an absent product must not touch the cart")
	}
}

func TestCartTotal(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	samples := SampleProducts()

	if got := m.CartTotal(); got != 0 {
		t.Errorf("empty cart total: expected 0, got %v", got)
	}

	// 2 kg tomatoes at 50 plus 3 coconuts at 35.
	m.AddToCart(samples[0], 2)
	m.AddToCart(samples[3], 3)
	if got := m.CartTotal(); got != 205 {
		t.Errorf("expected total 205, got %v", got)
	}
}

func TestClearCartDeletesPersistedEntry(t *testing.T) {
	m, store := newTestManager(&fakeBackend{})
	m.AddToCart(SampleProducts()[0], 2)

	if _, ok := store.Get("cart:test"); !ok {
		t.Fatalf("cart should be persisted after an add")
	}

	m.ClearCart()
	if len(m.Cart()) != 0 {
		t.Errorf("cart should be empty after clear")
	}
	if _, ok := store.Get("cart:test"); ok {
		t.Errorf("persisted cart entry should be deleted, not overwritten")
	}
}

func TestCartSurvivesRestart(t *testing.T) {
	fb := &fakeBackend{}
	store := kvstore.NewMemoryStore()

	m1 := NewManager("test", store, fb)
	m1.Initialize(context.Background())
	m1.AddToCart(SampleProducts()[0], 2)

	m2 := NewManager("test", store, fb)
	m2.Initialize(context.Background())
	cart := m2.Cart()
	if len(cart) != 1 || cart[0].Quantity != 2 {
		t.Fatalf("expected restored cart with quantity 2, got %+v", cart)
	}
}

func TestToggleLanguageInvolution(t *testing.T) {
	m, store := newTestManager(&fakeBackend{})

	if m.Language() != LanguageEnglish {
		t.Fatalf("default language should be english")
	}
	if got := m.ToggleLanguage(); got != LanguageTamil {
		t.Errorf("first toggle: expected tamil, got %s", got)
	}
	if raw, _ := store.Get("language:test"); raw != "tamil" {
		t.Errorf("language should be persisted on toggle, got %q", raw)
	}
	if got := m.ToggleLanguage(); got != LanguageEnglish {
		t.Errorf("second toggle: expected english, got %s", got)
	}
}

func TestRefreshProductsFallsBackToSamples(t *testing.T) {
	fb := &fakeBackend{listErr: errors.New("backend down")}
	m, _ := newTestManager(fb)

	m.RefreshProducts(context.Background())

	products := m.Products()
	if len(products) != len(SampleProducts()) {
		t.Fatalf("expected sample catalog fallback, got %d products", len(products))
	}
	if products[0].ProductID != "p1" {
		t.Errorf("expected sample catalog, got %+v", products[0])
	}
}

func TestRefreshProductsFallbackDisabled(t *testing.T) {
	fb := &fakeBackend{listErr: errors.New("backend down")}
	m, _ := newTestManager(fb)
	m.OnFetchError = FallbackNone

	m.RefreshProducts(context.Background())
	if len(m.Products()) != 0 {
		t.Errorf("with fallback disabled the cache must stay unchanged")
	}
}

func TestFailedLoginLeavesSessionUntouched(t *testing.T) {
	fb := &fakeBackend{signInErr: backend.ErrInvalidCredentials}
	m, _ := newTestManager(fb)
	m.AddToCart(SampleProducts()[0], 1)

	_, err := m.Login(context.Background(), "x@example.com", "wrong")
	if !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if m.LoggedIn() {
		t.Errorf("failed login must not authenticate the session")
	}
	if len(m.Cart()) != 1 {
		t.Errorf("failed login must not touch the cart")
	}
}

func TestLoginProvisionsMissingProfile(t *testing.T) {
	fb := &fakeBackend{
		signInID: backend.Identity{UserID: "u42", Token: "tok42"},
	}
	m, store := newTestManager(fb)

	id, err := m.Login(context.Background(), "new@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(fb.created) != 1 {
		t.Fatalf("expected a profile to be auto-provisioned")
	}
	u := m.User()
	if u == nil || u.Role != models.RoleConsumer || u.Name != "New User" {
		t.Errorf("expected default consumer profile, got %+v", u)
	}
	if tok, _ := store.Get("session:test"); tok != "tok42" {
		t.Errorf("session token should be persisted, got %q", tok)
	}
	if id.Token != "tok42" {
		t.Errorf("login should hand back the identity, got %+v", id)
	}
}

func TestLogoutKeepsCartAndLanguage(t *testing.T) {
	fb := &fakeBackend{
		signInID: backend.Identity{UserID: "u1", Token: "tok1"},
		users:    map[string]models.User{"u1": {UserID: "u1", Name: "Mala", Role: models.RoleConsumer}},
	}
	m, store := newTestManager(fb)

	if _, err := m.Login(context.Background(), "mala@example.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m.AddToCart(SampleProducts()[1], 1)
	m.ToggleLanguage()

	m.Logout(context.Background())

	if m.LoggedIn() || m.User() != nil {
		t.Errorf("logout must clear the identity")
	}
	if _, ok := store.Get("session:test"); ok {
		t.Errorf("logout must delete the persisted session marker")
	}
	if len(m.Cart()) != 1 {
		t.Errorf("logout must keep the cart")
	}
	if m.Language() != LanguageTamil {
		t.Errorf("logout must keep the language preference")
	}
}

func TestInitializeRestoresIdentity(t *testing.T) {
	fb := &fakeBackend{
		sessionUser: "u1",
		users:       map[string]models.User{"u1": {UserID: "u1", Name: "Mala"}},
	}
	store := kvstore.NewMemoryStore()
	store.Set("session:test", "tok1")

	m := NewManager("test", store, fb)
	m.Initialize(context.Background())

	if !m.LoggedIn() {
		t.Fatalf("expected restored session to be authenticated")
	}
	if u := m.User(); u == nil || u.UserID != "u1" {
		t.Errorf("expected user u1, got %+v", u)
	}
}

func TestSubscriberReceivesSnapshots(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	var snaps []Snapshot
	m.Subscribe(func(s Snapshot) { snaps = append(snaps, s) })

	m.AddToCart(SampleProducts()[0], 1)
	if len(snaps) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(snaps))
	}
	if len(snaps[0].Cart) != 1 {
		t.Errorf("snapshot should carry the updated cart")
	}

	// Snapshots are copies; mutating one must not leak into the manager.
	snaps[0].Cart[0].Quantity = 99
	if m.Cart()[0].Quantity != 1 {
		t.Errorf("snapshot mutation leaked into manager state")
	}
}
