package service

import (
	"context"
	"sync"

	"jungle-backend/internal/gateway"
	"jungle-backend/internal/models"
	"jungle-backend/internal/store"
)

// memStore is an in-memory stand-in for store.Store covering every slice the
// services consume.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	products map[string]*models.Product
	carts    map[string]*models.Cart
	orders   map[string]*models.Order
	txs      map[string]*models.PaymentTransaction

	cartWrites     int
	orderPaidCalls int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		products: map[string]*models.Product{},
		carts:    map[string]*models.Cart{},
		orders:   map[string]*models.Order{},
		txs:      map[string]*models.PaymentTransaction{},
	}
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memStore) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[userID]; ok {
		return cart, nil
	}
	return nil, store.ErrCartNotFound
}

func (m *memStore) CreateCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.UserID] = cart
	return nil
}

func (m *memStore) ReplaceCartItems(_ context.Context, userID string, items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return store.ErrCartNotFound
	}
	cart.Items = items
	m.cartWrites++
	return nil
}

func (m *memStore) CreateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
	return nil
}

func (m *memStore) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[id]; ok {
		return product, nil
	}
	return nil, store.ErrProductNotFound
}

func (m *memStore) ListProducts(_ context.Context, filter store.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := []models.Product{}
	for _, p := range m.products {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		products = append(products, *p)
	}
	return products, nil
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *memStore) GetUserOrder(_ context.Context, orderID, userID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.orders[orderID]; ok && order.UserID == userID {
		return order, nil
	}
	return nil, store.ErrOrderNotFound
}

func (m *memStore) ListUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *memStore) ListAllOrders(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := []models.Order{}
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *memStore) SetOrderSession(_ context.Context, orderID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return store.ErrOrderNotFound
	}
	order.StripeSessionID = sessionID
	return nil
}

func (m *memStore) MarkOrderPaid(_ context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return store.ErrOrderNotFound
	}
	order.PaymentStatus = models.PaymentStatusPaid
	order.OrderStatus = models.OrderStatusConfirmed
	m.orderPaidCalls++
	return nil
}

func (m *memStore) CreateTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs[tx.SessionID] = tx
	return nil
}

func (m *memStore) GetTransactionBySession(_ context.Context, sessionID string) (*models.PaymentTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx, ok := m.txs[sessionID]; ok {
		copied := *tx
		return &copied, nil
	}
	return nil, store.ErrTransactionNotFound
}

func (m *memStore) SettleTransaction(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[sessionID]
	if !ok {
		return false, store.ErrTransactionNotFound
	}
	if tx.PaymentStatus == models.TransactionStatusPaid {
		return false, nil
	}
	tx.PaymentStatus = models.TransactionStatusPaid
	return true, nil
}

// mockGateway counts calls so tests can prove the fast path never leaves the
// process.
type mockGateway struct {
	mu           sync.Mutex
	createCalls  int
	getCalls     int
	session      *gateway.Session
	status       *gateway.SessionStatus
	webhookEvent *gateway.WebhookEvent
	createErr    error
	getErr       error
	webhookErr   error

	lastRequest *gateway.SessionRequest
}

func (g *mockGateway) CreateSession(_ context.Context, req *gateway.SessionRequest) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	g.lastRequest = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.session, nil
}

func (g *mockGateway) GetSession(_ context.Context, _ string) (*gateway.SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getCalls++
	if g.getErr != nil {
		return nil, g.getErr
	}
	return g.status, nil
}

func (g *mockGateway) VerifyWebhook(_ []byte, _ string) (*gateway.WebhookEvent, error) {
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	return g.webhookEvent, nil
}

// mockPublisher records published events.
type mockPublisher struct {
	mu      sync.Mutex
	created []*models.OrderCreatedEvent
	settled []*models.PaymentSettledEvent
}

func (p *mockPublisher) PublishOrderCreated(_ context.Context, event *models.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, event)
	return nil
}

func (p *mockPublisher) PublishPaymentSettled(_ context.Context, event *models.PaymentSettledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settled = append(p.settled, event)
	return nil
}
