package sender_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
	"github.com/freefirelenden-cell/freefirelenden-sub000/sender"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string // recipients in delivery order
	err  error
}

func (s *recordingSender) SendEmail(_ context.Context, to, _, _ string) (sender.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return sender.SendResult{}, s.err
	}
	s.sent = append(s.sent, to)
	return sender.SendResult{MessageID: "msg-" + to}, nil
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	copy(out, s.sent)
	return out
}

func testOrder() *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		ListingTitle: "Heroic account",
		Buyer:        models.BuyerSnapshot{ID: uuid.New(), Name: "buyer", Contact: "buyer@example.com"},
		Seller:       models.SellerSnapshot{ID: uuid.New(), ShopName: "topup corner", Contact: "seller@example.com"},
		Price:        3500,
		Payment:      models.OrderPayment{PaymentID: "PAY-1"},
	}
}

func TestDispatcher_NotifyPurchase(t *testing.T) {
	rec := &recordingSender{}
	d := sender.NewDispatcher(rec, 16, zap.NewNop())

	d.NotifyPurchase(testOrder())
	d.Close() // drains the queue

	assert.Equal(t, []string{"buyer@example.com", "seller@example.com"}, rec.recipients())
}

// Delivery failures are logged and swallowed; the dispatcher keeps going.
func TestDispatcher_SendFailureDoesNotStopWorker(t *testing.T) {
	rec := &recordingSender{err: errors.New("smtp down")}
	d := sender.NewDispatcher(rec, 16, zap.NewNop())

	d.NotifyPurchase(testOrder())
	d.NotifyPurchase(testOrder())
	d.Close()

	assert.Empty(t, rec.recipients())
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := sender.NewDispatcher(&recordingSender{}, 4, zap.NewNop())
	d.Close()
	d.Close()
}
