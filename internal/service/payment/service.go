package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	payrepo "storefront/internal/repository/payment"
)

type paymentRepo interface {
	List(ctx context.Context) ([]domain.Payment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	Settle(ctx context.Context, p domain.Payment) (*domain.Payment, error)
}

type orderGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// Deps groups the collaborators of Service. Events and Metrics are optional.
type Deps struct {
	Payments paymentRepo
	Orders   orderGetter
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Logger   *logrus.Entry
}

// Input pays an order.
type Input struct {
	OrderID string          `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
}

// Service records order payments.
type Service struct {
	repo    paymentRepo
	orders  orderGetter
	events  events.Publisher
	metrics *metrics.Metrics
	logger  *logrus.Entry
	now     func() time.Time
}

func New(d Deps) *Service {
	pub := d.Events
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		repo:    d.Payments,
		orders:  d.Orders,
		events:  pub,
		metrics: d.Metrics,
		logger:  logging.OrDiscard(d.Logger).WithField("service", "payment"),
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context, actor auth.Principal) ([]domain.Payment, error) {
	if actor.Role.Can(domain.PermReadAllPayments) {
		return s.repo.List(ctx)
	}
	return s.repo.ListByCustomer(ctx, actor.CustomerID)
}

func (s *Service) Get(ctx context.Context, actor auth.Principal, id string) (*domain.Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundf("Payment not found")
	}
	if err != nil {
		return nil, err
	}
	if actor.Role.Can(domain.PermReadAllPayments) {
		return p, nil
	}
	o, err := s.orders.GetByID(ctx, p.OrderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if o == nil || !o.BelongsTo(actor.CustomerID) {
		return nil, domain.Unauthorizedf("You can only view your own payments")
	}
	return p, nil
}

// Create settles the payment of an order owned by the actor. The amount
// must match the order total exactly.
func (s *Service) Create(ctx context.Context, actor auth.Principal, in Input) (*domain.Payment, error) {
	if strings.TrimSpace(in.OrderID) == "" {
		return nil, domain.Validationf("Order id is required")
	}
	o, err := s.orders.GetByID(ctx, in.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundf("Order not found")
	}
	if err != nil {
		return nil, err
	}
	if !o.BelongsTo(actor.CustomerID) {
		return nil, domain.Unauthorizedf("You can only pay for your own orders")
	}
	if o.Payment.IsPaid() {
		return nil, domain.Validationf("Order is already paid")
	}
	if !in.Amount.Round(2).Equal(o.Total()) {
		return nil, domain.Validationf("Payment amount does not match order total")
	}

	paid, err := o.Payment.MarkPaid(in.Amount, s.now().UTC())
	if err != nil {
		return nil, err
	}
	settled, err := s.repo.Settle(ctx, paid)
	if errors.Is(err, payrepo.ErrAlreadyPaid) {
		return nil, domain.Validationf("Order is already paid")
	}
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentRecorded()
	log := s.logger.WithFields(logrus.Fields{"payment_id": settled.ID, "order_id": settled.OrderID})
	ev := events.New(events.TypePaymentRecorded, settled.OrderID, map[string]any{
		"paymentId": settled.ID,
		"amount":    settled.Amount.StringFixed(2),
	})
	if err := s.events.Publish(ctx, events.TopicPayments, ev); err != nil {
		log.WithError(err).Warn("publish payment event failed")
	}
	log.Info("payment recorded")
	return settled, nil
}
