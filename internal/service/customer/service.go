package customer

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/logging"
	custrepo "storefront/internal/repository/customer"
)

const recentOrdersLimit = 5

var errInvalidCredentials = domain.Unauthorizedf("Invalid email or password")

type customerRepo interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	Wishlist(ctx context.Context, customerID string) ([]domain.Product, error)
	AddWishlistItem(ctx context.Context, customerID, productID string) error
	RemoveWishlistItem(ctx context.Context, customerID, productID string) error
}

type orderLister interface {
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
}

type productGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type accessTokens interface {
	Issue(c domain.Customer) (string, error)
	TTL() time.Duration
}

// Deps groups the collaborators of Service.
type Deps struct {
	Customers  customerRepo
	Orders     orderLister
	Products   productGetter
	Tokens     tokenStore
	Access     accessTokens
	RefreshTTL time.Duration
	Logger     *logrus.Entry
}

// Session is the result of a successful login or refresh.
type Session struct {
	Customer     *domain.Customer `json:"customer"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	ExpiresIn    int64            `json:"expiresIn"`
}

// Service handles customer accounts, wishlists and login flows.
type Service struct {
	repo     customerRepo
	orders   orderLister
	products productGetter
	access   accessTokens
	refresh  *refreshTokens
	logger   *logrus.Entry
	hashCost int
	now      func() time.Time
}

func New(d Deps) *Service {
	s := &Service{
		repo:     d.Customers,
		orders:   d.Orders,
		products: d.Products,
		access:   d.Access,
		logger:   logging.OrDiscard(d.Logger).WithField("service", "customer"),
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	ttl := d.RefreshTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	s.refresh = &refreshTokens{store: d.Tokens, ttl: ttl, now: func() time.Time { return s.now() }}
	return s
}

func (s *Service) List(ctx context.Context, actor auth.Principal) ([]domain.Customer, error) {
	if err := domain.Authorize(actor.Role, domain.PermManageCustomers); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Get returns the customer with its wishlist and most recent orders.
func (s *Service) Get(ctx context.Context, actor auth.Principal, id string) (*domain.Customer, error) {
	if !actor.IsSelfOrAdmin(id) {
		return nil, domain.Unauthorizedf("You can only view your own account")
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if c.Wishlist, err = s.repo.Wishlist(ctx, id); err != nil {
		return nil, err
	}
	if c.RecentOrders, err = s.orders.ListByCustomer(ctx, id, recentOrdersLimit); err != nil {
		return nil, err
	}
	return c, nil
}

// Create registers a customer with any role. Admin only.
func (s *Service) Create(ctx context.Context, actor auth.Principal, in domain.CustomerInput) (*domain.Customer, error) {
	if err := domain.Authorize(actor.Role, domain.PermManageCustomers); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

// Signup registers a customer on their own behalf. The role is always customer.
func (s *Service) Signup(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	in.Role = domain.RoleCustomer
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	c, err := domain.NewCustomer(in)
	if err != nil {
		return nil, err
	}
	if c.Password, err = s.hash(c.Password); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, duplicateEmail(err)
	}
	if created.Wishlist == nil {
		created.Wishlist = []domain.Product{}
	}
	s.logger.WithFields(logrus.Fields{"customer_id": created.ID, "role": created.Role}).Info("customer created")
	return created, nil
}

// Update merges patch over the stored customer. Only admins may change roles.
func (s *Service) Update(ctx context.Context, actor auth.Principal, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	if !actor.IsSelfOrAdmin(id) {
		return nil, domain.Unauthorizedf("You can only update your own account")
	}
	if patch.Role != nil {
		if err := domain.Authorize(actor.Role, domain.PermManageCustomers); err != nil {
			return nil, err
		}
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	password := patch.Password
	patch.Password = nil
	next, err := current.Apply(patch)
	if err != nil {
		return nil, err
	}
	if password != nil {
		if next, err = next.WithPassword(*password); err != nil {
			return nil, err
		}
		if next.Password, err = s.hash(next.Password); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, notFound(duplicateEmail(err))
	}
	return updated, nil
}

// Delete removes the customer and its cart.
func (s *Service) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if !actor.IsSelfOrAdmin(id) {
		return domain.Unauthorizedf("You can only delete your own account")
	}
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, custrepo.ErrCartMissing):
		return domain.NotFoundf("Cart not found")
	case err != nil:
		return notFound(err)
	}
	s.logger.WithFields(logrus.Fields{"customer_id": id, "actor": actor.CustomerID}).Info("customer deleted")
	return nil
}

func (s *Service) AddToWishlist(ctx context.Context, actor auth.Principal, customerID, productID string) (*domain.Customer, error) {
	c, err := s.withWishlist(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundf("Product not found")
	}
	if err != nil {
		return nil, err
	}
	next, err := c.WithWishlistItem(*p)
	if err != nil {
		return nil, err
	}
	err = s.repo.AddWishlistItem(ctx, customerID, productID)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, domain.Validationf("Product already in wishlist")
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *Service) RemoveFromWishlist(ctx context.Context, actor auth.Principal, customerID, productID string) (*domain.Customer, error) {
	c, err := s.withWishlist(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}
	next, err := c.WithoutWishlistItem(productID)
	if err != nil {
		return nil, err
	}
	err = s.repo.RemoveWishlistItem(ctx, customerID, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Validationf("Product not in wishlist")
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *Service) withWishlist(ctx context.Context, actor auth.Principal, id string) (*domain.Customer, error) {
	if !actor.IsSelfOrAdmin(id) {
		return nil, domain.Unauthorizedf("You can only change your own wishlist")
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if c.Wishlist, err = s.repo.Wishlist(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

// Login checks credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	if n, err := s.refresh.store.DeleteExpired(ctx, s.now()); err != nil {
		s.logger.WithError(err).Warn("expired token cleanup failed")
	} else if n > 0 {
		s.logger.WithField("count", n).Debug("expired tokens removed")
	}
	return s.session(ctx, c)
}

// Refresh exchanges a refresh token for a new session. The old token is
// consumed even when the exchange fails.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	id, ok := s.refresh.Consume(ctx, refreshToken)
	if !ok {
		return nil, domain.Unauthorizedf("Invalid refresh token")
	}
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorizedf("Invalid refresh token")
	}
	if err != nil {
		return nil, err
	}
	return s.session(ctx, c)
}

// Logout revokes refreshToken. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	err := s.refresh.store.Delete(ctx, refreshToken)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) session(ctx context.Context, c *domain.Customer) (*Session, error) {
	access, err := s.access.Issue(*c)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refresh.Issue(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		Customer:     c,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.access.TTL().Seconds()),
	}, nil
}

func (s *Service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("Customer not found")
	}
	return err
}

func duplicateEmail(err error) error {
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.Conflictf("A customer with this email already exists.")
	}
	return err
}
