package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/internal/payment"
	"github.com/renaldyr/gigtix/pkg/apperrors"
	"gorm.io/gorm"
)

var errTxAborted = errors.New("current transaction is aborted, commands ignored until end of transaction block")

// In-memory store shared by the issuance fakes. The tx manager holds the
// mutex for the whole transaction and restores a snapshot on error, mirroring
// the row-locking and rollback behavior the real repositories get from
// Postgres. A failed statement marks the transaction aborted; every later
// statement fails until a savepoint rollback clears it, like Postgres'
// 25P02 behavior.
type fakeStore struct {
	mu            sync.Mutex
	available     map[uuid.UUID]int
	ticketsByItem map[uuid.UUID][]models.Ticket
	ticketCodes   map[string]bool
	shortfalls    []models.InventoryShortfall
	txAborted     bool
	decrements    []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		available:     make(map[uuid.UUID]int),
		ticketsByItem: make(map[uuid.UUID][]models.Ticket),
		ticketCodes:   make(map[string]bool),
	}
}

func (s *fakeStore) snapshot() (map[uuid.UUID]int, map[uuid.UUID][]models.Ticket, map[string]bool) {
	available := make(map[uuid.UUID]int, len(s.available))
	for k, v := range s.available {
		available[k] = v
	}
	tickets := make(map[uuid.UUID][]models.Ticket, len(s.ticketsByItem))
	for k, v := range s.ticketsByItem {
		tickets[k] = append([]models.Ticket(nil), v...)
	}
	codes := make(map[string]bool, len(s.ticketCodes))
	for k, v := range s.ticketCodes {
		codes[k] = v
	}
	return available, tickets, codes
}

func (s *fakeStore) ticketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, tickets := range s.ticketsByItem {
		total += len(tickets)
	}
	return total
}

type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	m.store.txAborted = false
	available, tickets, codes := m.store.snapshot()
	if err := fn(nil); err != nil {
		m.store.available = available
		m.store.ticketsByItem = tickets
		m.store.ticketCodes = codes
		m.store.txAborted = false
		return err
	}
	return nil
}

// Called with the store mutex already held by WithinTransaction.
func (m *fakeTxManager) WithinSavepoint(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	available, tickets, codes := m.store.snapshot()
	if err := fn(nil); err != nil {
		m.store.available = available
		m.store.ticketsByItem = tickets
		m.store.ticketCodes = codes
		m.store.txAborted = false
		return err
	}
	return nil
}

type fakeTicketTypeRepo struct {
	store *fakeStore
}

func (r *fakeTicketTypeRepo) DecrementAvailable(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	if r.store.txAborted {
		return false, errTxAborted
	}
	r.store.decrements = append(r.store.decrements, id)
	if r.store.available[id] < quantity {
		return false, nil
	}
	r.store.available[id] -= quantity
	return true, nil
}

type fakeTicketRepo struct {
	store *fakeStore
}

func (r *fakeTicketRepo) Create(ctx context.Context, tx *gorm.DB, ticket *models.Ticket) error {
	if r.store.txAborted {
		return errTxAborted
	}
	if r.store.ticketCodes[ticket.Code] {
		r.store.txAborted = true
		return gorm.ErrDuplicatedKey
	}
	r.store.ticketCodes[ticket.Code] = true
	ticket.ID = uuid.New()
	r.store.ticketsByItem[ticket.OrderItemID] = append(r.store.ticketsByItem[ticket.OrderItemID], *ticket)
	return nil
}

func (r *fakeTicketRepo) CountForOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error) {
	if r.store.txAborted {
		return 0, errTxAborted
	}
	return int64(len(r.store.ticketsByItem[orderItemID])), nil
}

func (r *fakeTicketRepo) FindByCode(ctx context.Context, code string) (*models.Ticket, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeTicketRepo) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

type fakeShortfallRepo struct {
	store *fakeStore
}

func (r *fakeShortfallRepo) Record(ctx context.Context, shortfall *models.InventoryShortfall) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.shortfalls = append(r.store.shortfalls, *shortfall)
	return nil
}

type fakeEventRepo struct {
	event *models.Event
	err   error
}

func (r *fakeEventRepo) FindPublishedWithTicketTypes(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.event, nil
}

type fakeUserRepo struct {
	user *models.User
	err  error
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.user, nil
}

type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]*models.Order
	createErr  error
	sessionErr error
	sessions   map[uuid.UUID]string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[uuid.UUID]*models.Order),
		sessions: make(map[uuid.UUID]string),
	}
}

func (r *fakeOrderRepo) CreateWithItems(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) SetPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessionErr != nil {
		return r.sessionErr
	}
	r.sessions[orderID] = sessionID
	if order, ok := r.orders[orderID]; ok {
		order.PaymentSessionID = sessionID
	}
	return nil
}

func (r *fakeOrderRepo) FindWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) MarkCompleted(ctx context.Context, id uuid.UUID, paymentIntentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.Status != models.OrderStatusPending {
		return false, nil
	}
	order.Status = models.OrderStatusCompleted
	order.PaymentIntentID = paymentIntentID
	return true, nil
}

func (r *fakeOrderRepo) MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.Status != models.OrderStatusPending {
		return false, nil
	}
	order.Status = models.OrderStatusAbandoned
	return true, nil
}

type fakeGateway struct {
	mu        sync.Mutex
	session   *payment.Session
	err       error
	lastInput payment.CreateSessionInput
	calls     int
}

func (g *fakeGateway) CreateSession(ctx context.Context, input payment.CreateSessionInput) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastInput = input
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

type fakeIssuer struct {
	mu     sync.Mutex
	err    error
	orders []*models.Order
}

func (i *fakeIssuer) Issue(ctx context.Context, order *models.Order) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.orders = append(i.orders, order)
	return i.err
}

func (i *fakeIssuer) issued() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.orders)
}
