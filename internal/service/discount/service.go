package discount

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

type discountRepo interface {
	List(ctx context.Context) ([]domain.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	Create(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error)
	Update(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error)
	Delete(ctx context.Context, code string) error
}

// Service manages discount codes. Every operation is limited to salesmen and
// is authorized before the repository is touched.
type Service struct {
	repo   discountRepo
	logger *logrus.Entry
	now    func() time.Time
}

func New(repo discountRepo, logger *logrus.Entry) *Service {
	return &Service{
		repo:   repo,
		logger: logging.OrDiscard(logger).WithField("service", "discount"),
		now:    time.Now,
	}
}

func (s *Service) List(ctx context.Context, role domain.Role) ([]domain.DiscountCode, error) {
	if err := authorize(role); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, role domain.Role, code string) (*domain.DiscountCode, error) {
	if err := authorize(role); err != nil {
		return nil, err
	}
	d, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, role domain.Role, in domain.DiscountInput) (*domain.DiscountCode, error) {
	if err := authorize(role); err != nil {
		return nil, err
	}
	d, err := domain.NewDiscountCode(in, s.now())
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, d)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, domain.Conflictf("Discount code already exists")
	}
	if err != nil {
		return nil, err
	}
	s.logger.WithField("code", created.Code).Info("discount code created")
	return created, nil
}

func (s *Service) Update(ctx context.Context, role domain.Role, code string, patch domain.DiscountPatch) (*domain.DiscountCode, error) {
	return s.transition(ctx, role, code, func(d domain.DiscountCode) (domain.DiscountCode, error) {
		return d.Apply(patch, s.now())
	})
}

func (s *Service) Activate(ctx context.Context, role domain.Role, code string) (*domain.DiscountCode, error) {
	return s.transition(ctx, role, code, func(d domain.DiscountCode) (domain.DiscountCode, error) {
		return d.Activate(), nil
	})
}

func (s *Service) Deactivate(ctx context.Context, role domain.Role, code string) (*domain.DiscountCode, error) {
	return s.transition(ctx, role, code, func(d domain.DiscountCode) (domain.DiscountCode, error) {
		return d.Deactivate(), nil
	})
}

func (s *Service) Delete(ctx context.Context, role domain.Role, code string) error {
	if err := authorize(role); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return notFound(err)
	}
	s.logger.WithField("code", code).Info("discount code deleted")
	return nil
}

func (s *Service) transition(ctx context.Context, role domain.Role, code string, fn func(domain.DiscountCode) (domain.DiscountCode, error)) (*domain.DiscountCode, error) {
	if err := authorize(role); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	next, err := fn(*current)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

func authorize(role domain.Role) error {
	return domain.Authorize(role, domain.PermManageDiscounts)
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundf("Discount code not found")
	}
	return err
}
