// Package session owns the per-device application state: current user, cart,
// language preference, and product cache. All reads and writes to persistence
// and the remote backend go through the Manager; UI layers observe snapshots
// and never mutate state directly.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"uzhavan/backend"
	"uzhavan/kvstore"
	"uzhavan/models"
)

type Language string

const (
	LanguageEnglish Language = "english"
	LanguageTamil   Language = "tamil"

	defaultLanguage = LanguageEnglish
)

// FetchFallback names what RefreshProducts does when the catalog fetch fails.
// The storefront must always render something, so the default trades
// consistency for availability.
type FetchFallback int

const (
	FallbackNone FetchFallback = iota
	FallbackBuiltinSample
)

// ErrInvalidQuantity rejects AddToCart calls with a non-positive quantity.
// The caller contract is a positive integer; we refuse rather than clamp.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Snapshot is an immutable view handed to subscribers after every change.
type Snapshot struct {
	User     *models.User      `json:"user,omitempty"`
	LoggedIn bool              `json:"loggedIn"`
	Cart     []models.CartItem `json:"cart"`
	Language Language          `json:"language"`
	Products []models.Product  `json:"products"`
}

// Manager is the single source of truth for one session scope. Mutations are
// serialized by an internal mutex so concurrent HTTP callers cannot break the
// one-item-per-product invariant; persistence of the cart happens after every
// successful mutation, in mutation order, and persistence failures are logged
// rather than surfaced.
type Manager struct {
	mu           sync.Mutex
	scope        string
	store        kvstore.Store
	backend      backend.Service
	OnFetchError FetchFallback

	user        *models.User
	loggedIn    bool
	cart        []models.CartItem
	language    Language
	products    []models.Product
	subs        []func(Snapshot)
	initialized bool
}

func NewManager(scope string, store kvstore.Store, svc backend.Service) *Manager {
	return &Manager{
		scope:        scope,
		store:        store,
		backend:      svc,
		OnFetchError: FallbackBuiltinSample,
		language:     defaultLanguage,
	}
}

func (m *Manager) sessionKey() string  { return "session:" + m.scope }
func (m *Manager) cartKey() string     { return "cart:" + m.scope }
func (m *Manager) languageKey() string { return "language:" + m.scope }

// Subscribe registers an observer called with a snapshot after every state
// change. Subscribers must not call back into the Manager synchronously.
func (m *Manager) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

func (m *Manager) snapshotLocked() Snapshot {
	cart := make([]models.CartItem, len(m.cart))
	copy(cart, m.cart)
	products := make([]models.Product, len(m.products))
	copy(products, m.products)
	var user *models.User
	if m.user != nil {
		u := *m.user
		user = &u
	}
	return Snapshot{
		User:     user,
		LoggedIn: m.loggedIn,
		Cart:     cart,
		Language: m.language,
		Products: products,
	}
}

func (m *Manager) publish() {
	m.mu.Lock()
	snap := m.snapshotLocked()
	subs := make([]func(Snapshot), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// Initialize restores a previously authenticated identity, the persisted cart,
// and the language preference, then refreshes the product cache. It never
// returns an error: every internal failure degrades to no-session, empty cart,
// or the default language. Calling it again is a no-op.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true

	if token, ok := m.store.Get(m.sessionKey()); ok {
		if userID, err := m.backend.SessionUser(ctx, token); err == nil {
			if u, err := m.backend.UserByID(ctx, userID); err == nil {
				m.user = &u
				m.loggedIn = true
			} else {
				log.Printf("session %s: profile fetch for %s failed, staying unauthenticated: %v", m.scope, userID, err)
			}
		}
	}

	if raw, ok := m.store.Get(m.cartKey()); ok {
		var cart []models.CartItem
		if err := json.Unmarshal([]byte(raw), &cart); err == nil {
			m.cart = cart
		} else {
			log.Printf("session %s: discarding corrupt persisted cart: %v", m.scope, err)
		}
	}

	if raw, ok := m.store.Get(m.languageKey()); ok {
		if l := Language(raw); l == LanguageEnglish || l == LanguageTamil {
			m.language = l
		}
	}
	m.mu.Unlock()

	m.RefreshProducts(ctx)
}

// Login authenticates against the backend and installs the user profile in the
// session. An otherwise-valid identity with no profile row gets a default
// consumer profile auto-provisioned; that is a deliberate fallback, not an
// error. On failure the session is left untouched and the reason is returned.
func (m *Manager) Login(ctx context.Context, email, secret string) (backend.Identity, error) {
	id, err := m.backend.SignIn(ctx, email, secret)
	if err != nil {
		return backend.Identity{}, err
	}

	u, err := m.backend.UserByID(ctx, id.UserID)
	if errors.Is(err, backend.ErrNotFound) {
		u = models.User{
			UserID: id.UserID,
			Email:  email,
			Name:   "New User",
			Role:   models.RoleConsumer,
		}
		if cerr := m.backend.CreateProfile(ctx, u); cerr != nil {
			return backend.Identity{}, fmt.Errorf("provision profile: %w", cerr)
		}
	} else if err != nil {
		return backend.Identity{}, fmt.Errorf("fetch profile: %w", err)
	}

	m.mu.Lock()
	m.user = &u
	m.loggedIn = true
	m.mu.Unlock()

	m.store.Set(m.sessionKey(), id.Token)
	m.publish()
	return id, nil
}

// Register delegates identity creation to the backend. It does not
// authenticate the session; callers chain Login when they want that.
func (m *Manager) Register(ctx context.Context, profile models.User, secret string) (string, error) {
	return m.backend.SignUp(ctx, secret, profile)
}

// Logout invalidates the remote identity and clears the in-memory user and the
// persisted identity marker. Cart and language survive: the guest keeps
// browsing with what they picked.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	var uid string
	if m.user != nil {
		uid = m.user.UserID
	}
	m.user = nil
	m.loggedIn = false
	m.mu.Unlock()

	if uid != "" {
		if err := m.backend.SignOut(ctx, uid); err != nil {
			log.Printf("session %s: sign-out failed: %v", m.scope, err)
		}
	}
	m.store.Delete(m.sessionKey())
	m.publish()
}

// AddToCart increments the existing item's quantity or inserts a new item,
// then persists the cart.
func (m *Manager) AddToCart(product models.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	m.mu.Lock()
	found := false
	for i := range m.cart {
		if m.cart[i].Product.ProductID == product.ProductID {
			m.cart[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		m.cart = append(m.cart, models.CartItem{Product: product, Quantity: quantity})
	}
	m.persistCartLocked()
	m.mu.Unlock()

	m.publish()
	return nil
}

// RemoveFromCart deletes the item for productID; absent is a no-op.
func (m *Manager) RemoveFromCart(productID string) {
	m.mu.Lock()
	m.removeLocked(productID)
	m.persistCartLocked()
	m.mu.Unlock()
	m.publish()
}

// UpdateCartItemQuantity sets the quantity absolutely; zero or below removes
// the item.
func (m *Manager) UpdateCartItemQuantity(productID string, quantity int) {
	m.mu.Lock()
	if quantity <= 0 {
		m.removeLocked(productID)
	} else {
		for i := range m.cart {
			if m.cart[i].Product.ProductID == productID {
				m.cart[i].Quantity = quantity
				break
			}
		}
	}
	m.persistCartLocked()
	m.mu.Unlock()
	m.publish()
}

// ClearCart empties the cart and deletes the persisted entry entirely, as
// opposed to persisting an empty cart.
func (m *Manager) ClearCart() {
	m.mu.Lock()
	m.cart = nil
	m.store.Delete(m.cartKey())
	m.mu.Unlock()
	m.publish()
}

// CartTotal sums price × quantity over the cart. Pure; no rounding is applied
// here — display boundaries round to two decimals.
func (m *Manager) CartTotal() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, item := range m.cart {
		total += item.Subtotal()
	}
	return total
}

// ToggleLanguage flips between English and Tamil and persists the choice.
func (m *Manager) ToggleLanguage() Language {
	m.mu.Lock()
	if m.language == LanguageEnglish {
		m.language = LanguageTamil
	} else {
		m.language = LanguageEnglish
	}
	lang := m.language
	m.store.Set(m.languageKey(), string(lang))
	m.mu.Unlock()
	m.publish()
	return lang
}

// RefreshProducts replaces the product cache from the backend, joining farmer
// details. A fetch failure falls back per OnFetchError so the storefront never
// renders empty; the error is logged, not propagated.
func (m *Manager) RefreshProducts(ctx context.Context) {
	products, err := m.backend.ListProducts(ctx)
	if err != nil {
		log.Printf("session %s: product refresh failed: %v", m.scope, err)
		if m.OnFetchError != FallbackBuiltinSample {
			return
		}
		products = SampleProducts()
	}

	m.mu.Lock()
	m.products = products
	m.mu.Unlock()
	m.publish()
}

// Snapshot returns a consistent copy of the full session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) Cart() []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := make([]models.CartItem, len(m.cart))
	copy(cart, m.cart)
	return cart
}

func (m *Manager) Products() []models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]models.Product, len(m.products))
	copy(products, m.products)
	return products
}

func (m *Manager) Language() Language {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.language
}

func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) LoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// Token returns the persisted identity marker, if any.
func (m *Manager) Token() string {
	token, _ := m.store.Get(m.sessionKey())
	return token
}

func (m *Manager) removeLocked(productID string) {
	for i := range m.cart {
		if m.cart[i].Product.ProductID == productID {
			m.cart = append(m.cart[:i], m.cart[i+1:]...)
			return
		}
	}
}

func (m *Manager) persistCartLocked() {
	raw, err := json.Marshal(m.cart)
	if err != nil {
		log.Printf("session %s: cart marshal failed: %v", m.scope, err)
		return
	}
	m.store.Set(m.cartKey(), string(raw))
}
