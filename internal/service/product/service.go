package product

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AddRating(ctx context.Context, id string, rating int) (*domain.Product, error)
}

// Service manages the catalog. Writes are limited to admins.
type Service struct {
	repo   productRepo
	logger *logrus.Entry
}

func New(repo productRepo, logger *logrus.Entry) *Service {
	return &Service{repo: repo, logger: logging.OrDiscard(logger).WithField("service", "product")}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.Validationf("Search query is required")
	}
	return s.repo.Search(ctx, query)
}

func (s *Service) Create(ctx context.Context, actor auth.Principal, in domain.ProductInput) (*domain.Product, error) {
	if err := domain.Authorize(actor.Role, domain.PermManageProducts); err != nil {
		return nil, err
	}
	p, err := domain.NewProduct(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"product_id": created.ID, "actor": actor.CustomerID}).Info("product created")
	return created, nil
}

// Update merges patch over the stored product and re-validates the result.
func (s *Service) Update(ctx context.Context, actor auth.Principal, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if err := domain.Authorize(actor.Role, domain.PermManageProducts); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound(err)
	}
	s.logger.WithFields(logrus.Fields{"product_id": id, "actor": actor.CustomerID}).Info("product updated")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := domain.Authorize(actor.Role, domain.PermManageProducts); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.logger.WithFields(logrus.Fields{"product_id": id, "actor": actor.CustomerID}).Info("product deleted")
	return nil
}

// AddRating appends a 1..5 rating to an existing product.
func (s *Service) AddRating(ctx context.Context, id string, rating int) (*domain.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if _, err := current.WithRating(rating); err != nil {
		return nil, err
	}
	rated, err := s.repo.AddRating(ctx, id, rating)
	if err != nil {
		return nil, notFound(err)
	}
	return rated, nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("Product not found")
	}
	return err
}
