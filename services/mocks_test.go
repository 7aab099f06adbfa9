package services_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
)

// In-memory repositories with the same conditional-write semantics as the
// mongo implementations: transitions check-and-set under a single lock, so
// the concurrency tests exercise the real race behavior.

// --- Listings ---

type mockListingRepo struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*models.Listing
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{listings: make(map[uuid.UUID]*models.Listing)}
}

func (m *mockListingRepo) Create(_ context.Context, listing *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *listing
	m.listings[listing.ID] = &cp
	return nil
}

func (m *mockListingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *l
	return &cp, nil
}

func (m *mockListingRepo) FindApproved(_ context.Context, _, _ int) ([]models.Listing, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.Status == models.ListingStatusApproved {
			out = append(out, *l)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockListingRepo) FindBySeller(_ context.Context, sellerID uuid.UUID) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, l := range m.listings {
		if l.SellerID == sellerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) MarkSold(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || l.Status != models.ListingStatusApproved {
		return false, nil
	}
	l.Status = models.ListingStatusSold
	return true, nil
}

func (m *mockListingRepo) Release(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || l.Status != models.ListingStatusSold {
		return false, nil
	}
	l.Status = models.ListingStatusApproved
	return true, nil
}

func (m *mockListingRepo) Review(_ context.Context, id uuid.UUID, status models.ListingStatus, reviewerID uuid.UUID, note string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || l.Status != models.ListingStatusPending {
		return false, nil
	}
	l.Status = status
	l.ReviewedBy = &reviewerID
	l.ReviewNote = note
	return true, nil
}

func (m *mockListingRepo) status(id uuid.UUID) models.ListingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listings[id].Status
}

// --- Sellers ---

type mockSellerRepo struct {
	mu        sync.Mutex
	sellers   map[uuid.UUID]*models.Seller
	createErr error
}

func newMockSellerRepo() *mockSellerRepo {
	return &mockSellerRepo{sellers: make(map[uuid.UUID]*models.Seller)}
}

func (m *mockSellerRepo) Create(_ context.Context, seller *models.Seller) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *seller
	m.sellers[seller.ID] = &cp
	return nil
}

func (m *mockSellerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sellers[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	return &cp, nil
}

func (m *mockSellerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sellers {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockSellerRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sellers, id)
	return nil
}

func (m *mockSellerRepo) SetStatus(_ context.Context, id uuid.UUID, status models.SellerStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sellers[id]
	if !ok {
		return false, nil
	}
	s.Status = status
	return true, nil
}

func (m *mockSellerRepo) RecordSale(_ context.Context, id uuid.UUID, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sellers[id]; ok {
		s.TotalSales++
		s.TotalEarned += amount
	}
	return nil
}

func (m *mockSellerRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sellers)
}

// --- Seller requests ---

type mockRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.SellerRequest
	findErr  error
	findFail int // remaining FindByID calls that return findErr
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[uuid.UUID]*models.SellerRequest)}
}

func (m *mockRequestRepo) Create(_ context.Context, req *models.SellerRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *mockRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*models.SellerRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findFail > 0 {
		m.findFail--
		return nil, m.findErr
	}
	r, ok := m.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *r
	return &cp, nil
}

func (m *mockRequestRepo) HasPending(_ context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.UserID == userID && r.Status == models.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRequestRepo) FindPending(_ context.Context) ([]models.SellerRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SellerRequest
	for _, r := range m.requests {
		if r.Status == models.RequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRequestRepo) ClaimApproval(_ context.Context, id, approverID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Status != models.RequestStatusPending {
		return false, nil
	}
	r.Status = models.RequestStatusApproved
	r.ApprovedBy = &approverID
	return true, nil
}

func (m *mockRequestRepo) MarkRejected(_ context.Context, id uuid.UUID, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Status != models.RequestStatusPending {
		return false, nil
	}
	r.Status = models.RequestStatusRejected
	r.RejectionReason = reason
	return true, nil
}

func (m *mockRequestRepo) Reopen(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok && r.Status == models.RequestStatusApproved {
		r.Status = models.RequestStatusPending
		r.ApprovedBy = nil
		r.ApprovedAt = nil
	}
	return nil
}

func (m *mockRequestRepo) status(id uuid.UUID) models.RequestStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id].Status
}

// --- Orders ---

type mockOrderRepo struct {
	mu           sync.Mutex
	orders       map[uuid.UUID]*models.Order
	createErr    error
	markPaidErr  error
	markPaidFail int // remaining MarkPaymentPaid calls that return markPaidErr
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) FindByPaymentID(_ context.Context, paymentID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Payment.PaymentID == paymentID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockOrderRepo) FindByBuyer(_ context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.Buyer.ID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) FindBySeller(_ context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.Seller.ID == sellerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) SetProcessing(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != models.OrderStatusPending {
		return false, nil
	}
	o.Status = models.OrderStatusProcessing
	return true, nil
}

func (m *mockOrderRepo) Complete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != models.OrderStatusProcessing || o.Payment.Status != models.OrderPaymentPaid {
		return false, nil
	}
	o.Status = models.OrderStatusCompleted
	return true, nil
}

func (m *mockOrderRepo) Cancel(_ context.Context, id uuid.UUID, from []models.OrderStatus, actorID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if o.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	o.CancelledBy = &actorID
	return true, nil
}

func (m *mockOrderRepo) MarkPaymentPaid(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markPaidFail > 0 {
		m.markPaidFail--
		return false, m.markPaidErr
	}
	o, ok := m.orders[id]
	if !ok || o.Payment.Status != models.OrderPaymentPending {
		return false, nil
	}
	o.Payment.Status = models.OrderPaymentPaid
	return true, nil
}

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// --- Payments ---

type mockPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
	refunds  []models.RefundIntent
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*models.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

func (m *mockPaymentRepo) FindByID(_ context.Context, id string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepo) MarkFailed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.payments[id]; ok && p.Status == models.PaymentStatusPending {
		p.Status = models.PaymentStatusFailed
	}
	return nil
}

func (m *mockPaymentRepo) MarkConfirmed(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusConfirmed
	return true, nil
}

func (m *mockPaymentRepo) CreateRefundIntent(_ context.Context, intent *models.RefundIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refunds = append(m.refunds, *intent)
	return nil
}

func (m *mockPaymentRepo) FindRefundIntents(_ context.Context) ([]models.RefundIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.RefundIntent, len(m.refunds))
	copy(out, m.refunds)
	return out, nil
}

func (m *mockPaymentRepo) status(id string) models.PaymentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[id].Status
}

// --- Users ---

type mockUserRepo struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*models.User
	setRoleErr  error
	setRoleFail int // remaining SetRole calls that return setRoleErr
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) SetRole(_ context.Context, id uuid.UUID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setRoleFail > 0 {
		m.setRoleFail--
		return false, m.setRoleErr
	}
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.Role = role
	return true, nil
}

func (m *mockUserRepo) role(id uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].Role
}

// --- Notifier & producer ---

type mockNotifier struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (m *mockNotifier) NotifyPurchase(order *models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type mockProducer struct {
	mu     sync.Mutex
	events []models.OrderEvent
	err    error
}

func (m *mockProducer) PublishOrderEvent(_ context.Context, evt models.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, evt)
	return nil
}

func (m *mockProducer) Close() error { return nil }

func (m *mockProducer) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}
