package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/queue"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/utils"
)

// memStore is an in-memory stand-in for the repository layer. It implements
// every store interface the handlers declare, with the same contracts the
// MySQL repositories honor (sentinel errors, consolidation on cart upsert,
// transactional all-or-nothing placement).
type memStore struct {
	nextID     uint64
	users      map[uint64]model.User
	profiles   map[uint64]model.Profile
	products   map[uint64]model.Product
	categories map[uint64]model.Category
	cart       map[uint64]model.CartItem
	orders     map[uint64]model.Order
	orderItems map[uint64][]model.OrderItem
	reviews    []model.Review
	published  []queue.OrderPlacedEvent
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uint64]model.User),
		products:   make(map[uint64]model.Product),
		categories: make(map[uint64]model.Category),
		profiles:   make(map[uint64]model.Profile),
		cart:       make(map[uint64]model.CartItem),
		orders:     make(map[uint64]model.Order),
		orderItems: make(map[uint64][]model.OrderItem),
	}
}

func (s *memStore) id() uint64 { s.nextID++; return s.nextID }

// ----- UserStore / CustomerStore / middleware.UserResolver -----

func (s *memStore) CreateWithProfile(_ context.Context, email, hash, role string, p model.Profile) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	u := model.User{
		ID: s.id(), Email: email, PasswordHash: hash, Role: role,
		IsActive: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	p.UserID = u.ID
	s.profiles[u.ID] = p
	return u, nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memStore) UpdatePassword(_ context.Context, id uint64, hash string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (s *memStore) GetProfile(_ context.Context, userID uint64) (model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *memStore) UpdateProfile(_ context.Context, p model.Profile) error {
	if _, ok := s.profiles[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	s.profiles[p.UserID] = p
	return nil
}

func (s *memStore) ListCustomers(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0)
	for _, u := range s.users {
		if u.Role != model.RoleUser {
			continue
		}
		p := s.profiles[u.ID]
		out = append(out, model.Customer{
			ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive,
			FirstName: p.FirstName, LastName: p.LastName, Phone: p.Phone,
			CreatedAt: u.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) SetActive(_ context.Context, id uint64, active bool) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.IsActive = active
	s.users[id] = u
	return u, nil
}

// ----- ProductStore / CategoryStore -----

func (s *memStore) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) ListFeatured(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range s.products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) ListByCategory(_ context.Context, categoryID uint64) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, id uint64) (model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *memStore) Create(_ context.Context, p model.Product) (model.Product, error) {
	p.ID = s.id()
	p.CreatedAt = time.Now().UTC()
	s.products[p.ID] = p
	return p, nil
}

func (s *memStore) Update(_ context.Context, p model.Product) (model.Product, error) {
	if _, ok := s.products[p.ID]; !ok {
		return model.Product{}, repository.ErrNotFound
	}
	s.products[p.ID] = p
	return p, nil
}

func (s *memStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// categoryStore wraps memStore so the identically-named category methods can
// coexist with the product ones.
type categoryStore struct{ s *memStore }

func (cs categoryStore) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0)
	for _, c := range cs.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (cs categoryStore) Get(_ context.Context, id uint64) (model.Category, error) {
	c, ok := cs.s.categories[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (cs categoryStore) Create(_ context.Context, c model.Category) (model.Category, error) {
	c.ID = cs.s.id()
	cs.s.categories[c.ID] = c
	return c, nil
}

func (cs categoryStore) Update(_ context.Context, c model.Category) (model.Category, error) {
	if _, ok := cs.s.categories[c.ID]; !ok {
		return model.Category{}, repository.ErrNotFound
	}
	cs.s.categories[c.ID] = c
	return c, nil
}

func (cs categoryStore) Delete(_ context.Context, id uint64) error {
	if _, ok := cs.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(cs.s.categories, id)
	return nil
}

// ----- CartStore -----

func (s *memStore) ListByUser(_ context.Context, userID uint64) ([]model.CartItem, error) {
	out := make([]model.CartItem, 0)
	for _, it := range s.cart {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) Upsert(_ context.Context, userID, productID uint64, quantity uint32) (model.CartItem, error) {
	for id, it := range s.cart {
		if it.UserID == userID && it.ProductID == productID {
			it.Quantity += quantity
			s.cart[id] = it
			return it, nil
		}
	}
	it := model.CartItem{ID: s.id(), UserID: userID, ProductID: productID, Quantity: quantity}
	s.cart[it.ID] = it
	return it, nil
}

func (s *memStore) SetQuantity(_ context.Context, userID, itemID uint64, quantity uint32) (model.CartItem, error) {
	it, ok := s.cart[itemID]
	if !ok || it.UserID != userID {
		return model.CartItem{}, repository.ErrNotFound
	}
	it.Quantity = quantity
	s.cart[itemID] = it
	return it, nil
}

func (s *memStore) Remove(_ context.Context, userID, itemID uint64) error {
	it, ok := s.cart[itemID]
	if !ok || it.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.cart, itemID)
	return nil
}

func (s *memStore) Clear(_ context.Context, userID uint64) (bool, error) {
	removed := false
	for id, it := range s.cart {
		if it.UserID == userID {
			delete(s.cart, id)
			removed = true
		}
	}
	return removed, nil
}

// ----- OrderStore -----

type orderStore struct{ s *memStore }

func (os orderStore) ListAll(_ context.Context) ([]model.Order, error) {
	out := make([]model.Order, 0)
	for _, o := range os.s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (os orderStore) ListByUser(_ context.Context, userID uint64) ([]model.Order, error) {
	out := make([]model.Order, 0)
	for _, o := range os.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (os orderStore) Get(_ context.Context, id uint64) (model.Order, error) {
	o, ok := os.s.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (os orderStore) ListItems(_ context.Context, orderID uint64) ([]model.OrderItem, error) {
	return os.s.orderItems[orderID], nil
}

func (os orderStore) PlaceOrder(ctx context.Context, userID uint64, number string, items []model.OrderItem) (model.Order, error) {
	for _, o := range os.s.orders {
		if o.Number == number {
			return model.Order{}, repository.ErrOrderNumberTaken
		}
	}
	o := model.Order{
		ID: os.s.id(), UserID: userID, Number: number, Status: model.StatusPending,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	os.s.orders[o.ID] = o
	stored := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		it.ID = os.s.id()
		it.OrderID = o.ID
		stored = append(stored, it)
	}
	os.s.orderItems[o.ID] = stored
	_, _ = os.s.Clear(ctx, userID)
	return o, nil
}

func (os orderStore) UpdateStatus(_ context.Context, id uint64, next model.OrderStatus) (model.Order, error) {
	o, ok := os.s.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	if !o.Status.CanTransitionTo(next) {
		return model.Order{}, repository.ErrIllegalTransition
	}
	o.Status = next
	os.s.orders[id] = o
	return o, nil
}

// ----- ReviewStore -----

type reviewStore struct{ s *memStore }

func (rs reviewStore) ListByProduct(_ context.Context, productID uint64) ([]model.Review, error) {
	out := make([]model.Review, 0)
	for _, rv := range rs.s.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (rs reviewStore) Create(_ context.Context, rv model.Review) (model.Review, error) {
	rv.ID = rs.s.id()
	rv.CreatedAt = time.Now().UTC()
	rs.s.reviews = append(rs.s.reviews, rv)
	return rv, nil
}

// ----- test environment -----

const testSecret = "endpoint-test-secret"

func testConfig() config.Config {
	return config.Config{JWTSecret: testSecret, BcryptCost: 4, TokenTTLHours: 24}
}

// newTestEnv wires the full route table over a memStore, with the real auth
// gate and pass-through cache/rate-limit middleware.
func newTestEnv(t *testing.T) (*echo.Echo, *memStore) {
	t.Helper()
	s := newMemStore()

	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	oh := handler.NewOrderHandler(orderStore{s})
	oh.Publish = func(_ context.Context, ev queue.OrderPlacedEvent) error {
		s.published = append(s.published, ev)
		return nil
	}

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(testConfig(), s),
		Catalog:   handler.NewCatalogHandler(s, categoryStore{s}),
		Cart:      handler.NewCartHandler(s, s),
		Orders:    oh,
		Customers: handler.NewCustomerHandler(s),
		Reviews:   handler.NewReviewHandler(reviewStore{s}, s),
	}, router.Middleware{
		Gate:      middleware.Authenticate(testSecret, s),
		Admin:     middleware.RequireAdmin(),
		Cache:     passthrough,
		RateLimit: passthrough,
	})
	return e, s
}

// seedUser inserts a user directly and returns a valid token for them.
func seedUser(t *testing.T, s *memStore, email, password, role string) (model.User, string) {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	u, err := s.CreateWithProfile(context.Background(), email, hash, role, model.Profile{})
	require.NoError(t, err)
	if role != model.RoleUser {
		u.Role = role
		s.users[u.ID] = u
	}
	at, err := utils.NewAccessToken(testSecret, u.ID, 24)
	require.NoError(t, err)
	return s.users[u.ID], at.Token
}

func seedProduct(s *memStore, name string, price uint32) model.Product {
	p, _ := s.Create(context.Background(), model.Product{Name: name, PriceCents: price})
	return p
}

// doJSON issues a request against the test server. body may be nil.
func doJSON(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
