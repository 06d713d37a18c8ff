package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	cartrepo "storefront/internal/repository/cart"
	orderrepo "storefront/internal/repository/order"
)

type cartRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	List(ctx context.Context) ([]domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
}

type discountRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}

type orderRepo interface {
	CreateFromCart(ctx context.Context, o domain.Order, cartID string) (*domain.Order, error)
}

// Deps groups the collaborators of Service. Events and Metrics are optional.
type Deps struct {
	Carts     cartRepo
	Discounts discountRepo
	Orders    orderRepo
	Events    events.Publisher
	Metrics   *metrics.Metrics
	Logger    *logrus.Entry
}

// CheckoutInput is the payload of a cart to order conversion.
type CheckoutInput struct {
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	DiscountCode  string               `json:"discountCode"`
}

// Service manages carts and turns them into orders.
type Service struct {
	repo      cartRepo
	discounts discountRepo
	orders    orderRepo
	events    events.Publisher
	metrics   *metrics.Metrics
	logger    *logrus.Entry
	now       func() time.Time
}

func New(d Deps) *Service {
	pub := d.Events
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		repo:      d.Carts,
		discounts: d.Discounts,
		orders:    d.Orders,
		events:    pub,
		metrics:   d.Metrics,
		logger:    logging.OrDiscard(d.Logger).WithField("service", "cart"),
		now:       time.Now,
	}
}

// List returns every cart to staff and only the caller's own cart otherwise.
func (s *Service) List(ctx context.Context, actor auth.Principal) ([]domain.Cart, error) {
	if actor.Role.Can(domain.PermReadAllCarts) {
		return s.repo.List(ctx)
	}
	c, err := s.repo.GetByCustomer(ctx, actor.CustomerID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []domain.Cart{*c}, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Principal, id string) (*domain.Cart, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if c.CustomerID != actor.CustomerID && !actor.Role.Can(domain.PermReadAllCarts) {
		return nil, domain.Unauthorizedf("You can only access your own cart")
	}
	return c, nil
}

// GetForCustomer returns the cart owned by customerID.
func (s *Service) GetForCustomer(ctx context.Context, actor auth.Principal, customerID string) (*domain.Cart, error) {
	if customerID != actor.CustomerID && !actor.Role.Can(domain.PermReadAllCarts) {
		return nil, domain.Unauthorizedf("You can only access your own cart")
	}
	c, err := s.repo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// AddItem puts quantity units of productID in the cart and reserves them
// from the product's stock.
func (s *Service) AddItem(ctx context.Context, actor auth.Principal, cartID, productID string, quantity int) (*domain.Cart, error) {
	if _, err := s.owned(ctx, actor, cartID); err != nil {
		return nil, err
	}
	saved, err := s.repo.AddItem(ctx, cartID, productID, quantity)
	if errors.Is(err, cartrepo.ErrProductMissing) {
		return nil, domain.NotFoundf("Product not found")
	}
	if err != nil {
		return nil, notFound(err)
	}
	return saved, nil
}

// RemoveItem takes quantity units of productID out of the cart and returns
// them to stock.
func (s *Service) RemoveItem(ctx context.Context, actor auth.Principal, cartID, productID string, quantity int) (*domain.Cart, error) {
	if _, err := s.owned(ctx, actor, cartID); err != nil {
		return nil, err
	}
	saved, err := s.repo.RemoveItem(ctx, cartID, productID, quantity)
	if err != nil {
		return nil, notFound(err)
	}
	return saved, nil
}

// ConvertToOrder places an order for the cart contents. The order, its
// items and payment are stored and the cart replaced by an empty one in a
// single transaction.
func (s *Service) ConvertToOrder(ctx context.Context, actor auth.Principal, cartID string, in CheckoutInput) (*domain.Order, error) {
	if strings.TrimSpace(string(in.PaymentStatus)) == "" {
		return nil, domain.Validationf("Payment status is required")
	}
	c, err := s.owned(ctx, actor, cartID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, domain.Validationf("Cart is empty")
	}

	now := s.now().UTC()
	items := domain.OrderItemsFromCart(*c)
	subtotal := c.TotalAmount
	discount := domain.DiscountCode{}
	if code := strings.TrimSpace(in.DiscountCode); code != "" {
		d, err := s.discounts.GetByCode(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("Discount code not found")
		}
		if err != nil {
			return nil, err
		}
		if !d.IsActiveCode(now) {
			return nil, domain.Validationf("Discount code is not active")
		}
		discount = *d
	}
	off := discount.DiscountFor(subtotal)

	payment, err := domain.NewPayment(subtotal.Sub(off), now, in.PaymentStatus)
	if err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(domain.OrderInput{
		CustomerID:     c.CustomerID,
		CustomerEmail:  actor.Email,
		Items:          items,
		Date:           now,
		Payment:        payment,
		DiscountCode:   discount.Code,
		DiscountAmount: off,
	})
	if err != nil {
		return nil, err
	}

	placed, err := s.orders.CreateFromCart(ctx, order, c.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.NotFoundf("Cart not found")
	case errors.Is(err, orderrepo.ErrCartChanged):
		return nil, domain.Validationf("Cart changed during checkout, please try again")
	case err != nil:
		return nil, err
	}

	total := placed.Total()
	s.metrics.OrderPlaced(total.InexactFloat64())
	log := s.logger.WithFields(logrus.Fields{"order_id": placed.ID, "customer_id": placed.CustomerID})
	ev := events.New(events.TypeOrderPlaced, placed.ID, map[string]any{
		"customerId":     placed.CustomerID,
		"total":          total.StringFixed(2),
		"items":          len(placed.Items),
		"discountCode":   placed.DiscountCode,
		"paymentStatus":  placed.Payment.Status,
		"discountAmount": placed.DiscountAmount.StringFixed(2),
	})
	if err := s.events.Publish(ctx, events.TopicOrders, ev); err != nil {
		log.WithError(err).Warn("publish order event failed")
	}
	log.WithField("total", total.StringFixed(2)).Info("order placed")
	return placed, nil
}

// owned loads a cart the actor may modify. Only the owner may change a cart.
func (s *Service) owned(ctx context.Context, actor auth.Principal, cartID string) (*domain.Cart, error) {
	c, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, notFound(err)
	}
	if c.CustomerID != actor.CustomerID {
		return nil, domain.Unauthorizedf("You can only modify your own cart")
	}
	return c, nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("Cart not found")
	}
	return err
}
