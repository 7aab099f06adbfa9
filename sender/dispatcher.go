package sender

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
)

type email struct {
	to      string
	subject string
	body    string
}

// Dispatcher delivers marketplace emails on a background worker so a slow
// mail transport can never fail or delay the purchase transaction. Enqueue
// never blocks; when the queue is full the email is dropped with a warning.
type Dispatcher struct {
	sender  EmailSender
	queue   chan email
	logger  *zap.Logger
	wg      sync.WaitGroup
	once    sync.Once
	timeout time.Duration
}

func NewDispatcher(s EmailSender, queueSize int, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sender:  s,
		queue:   make(chan email, queueSize),
		logger:  logger,
		timeout: 10 * time.Second,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if _, err := d.sender.SendEmail(ctx, e.to, e.subject, e.body); err != nil {
			d.logger.Warn("Email dispatch failed",
				zap.String("to", e.to),
				zap.String("subject", e.subject),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

func (d *Dispatcher) enqueue(e email) {
	select {
	case d.queue <- e:
	default:
		d.logger.Warn("Email queue full, dropping message",
			zap.String("to", e.to),
			zap.String("subject", e.subject),
		)
	}
}

// NotifyPurchase queues the buyer and seller emails for a fresh order.
func (d *Dispatcher) NotifyPurchase(order *models.Order) {
	d.enqueue(email{
		to:      order.Buyer.Contact,
		subject: fmt.Sprintf("Order %s received", order.ID),
		body: fmt.Sprintf(
			"Hi %s,<br><br>Your order for <b>%s</b> (PKR %d) has been placed.<br>"+
				"Payment reference: %s. Complete the transfer using the instructions shown at checkout.<br>",
			order.Buyer.Name, order.ListingTitle, order.Price, order.Payment.PaymentID,
		),
	})
	d.enqueue(email{
		to:      order.Seller.Contact,
		subject: fmt.Sprintf("New sale on %s", order.Seller.ShopName),
		body: fmt.Sprintf(
			"You have a new order for <b>%s</b> (PKR %d).<br>"+
				"Order id: %s. Start fulfillment once the payment is confirmed.<br>",
			order.ListingTitle, order.Price, order.ID,
		),
	})
}
