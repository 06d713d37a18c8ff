package order

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// Service exposes placed orders. Staff see every order, customers only
// their own.
type Service struct {
	repo   orderRepo
	logger *logrus.Entry
}

func New(repo orderRepo, logger *logrus.Entry) *Service {
	return &Service{repo: repo, logger: logging.OrDiscard(logger).WithField("service", "order")}
}

func (s *Service) List(ctx context.Context, actor auth.Principal) ([]domain.Order, error) {
	if actor.Role.Can(domain.PermReadAllOrders) {
		return s.repo.List(ctx)
	}
	return s.repo.ListByCustomer(ctx, actor.CustomerID, 0)
}

// ListForCustomer returns all orders of customerID, newest first.
func (s *Service) ListForCustomer(ctx context.Context, actor auth.Principal, customerID string) ([]domain.Order, error) {
	if customerID != actor.CustomerID && !actor.Role.Can(domain.PermReadAllOrders) {
		return nil, domain.Unauthorizedf("You can only view your own orders")
	}
	return s.repo.ListByCustomer(ctx, customerID, 0)
}

func (s *Service) Get(ctx context.Context, actor auth.Principal, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !actor.Role.Can(domain.PermReadAllOrders) && !o.BelongsTo(actor.CustomerID) {
		return nil, domain.Unauthorizedf("You can only view your own orders")
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := domain.Authorize(actor.Role, domain.PermDeleteOrders); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.logger.WithFields(logrus.Fields{"order_id": id, "actor": actor.CustomerID}).Info("order deleted")
	return nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("Order not found")
	}
	return err
}
