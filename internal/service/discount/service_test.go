package discount

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context) ([]domain.DiscountCode, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.DiscountCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*domain.DiscountCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error) {
	args := m.Called(ctx, d)
	if v := args.Get(0); v != nil {
		return v.(*domain.DiscountCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error) {
	args := m.Called(ctx, d)
	if fn, ok := args.Get(0).(func(context.Context, domain.DiscountCode) (*domain.DiscountCode, error)); ok {
		return fn(ctx, d)
	}
	if v := args.Get(0); v != nil {
		return v.(*domain.DiscountCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(repo *mockRepo) *Service {
	s := New(repo, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func stored() *domain.DiscountCode {
	return &domain.DiscountCode{
		Code:           "SPRING",
		Type:           domain.DiscountPercentage,
		Value:          decimal.NewFromInt(10),
		ExpirationDate: fixedNow.Add(72 * time.Hour),
		IsActive:       true,
	}
}

func TestNonSalesmanNeverReachesRepository(t *testing.T) {
	ctx := context.Background()
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleCustomer, ""} {
		repo := &mockRepo{}
		svc := newService(repo)

		_, err := svc.List(ctx, role)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = svc.Get(ctx, role, "SPRING")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = svc.Create(ctx, role, domain.DiscountInput{Code: "X"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = svc.Update(ctx, role, "SPRING", domain.DiscountPatch{})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = svc.Activate(ctx, role, "SPRING")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = svc.Deactivate(ctx, role, "SPRING")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.ErrorIs(t, svc.Delete(ctx, role, "SPRING"), domain.ErrUnauthorized)

		repo.AssertNotCalled(t, "List", mock.Anything)
		repo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	svc := newService(repo)

	in := domain.DiscountInput{
		Code:           "SPRING",
		Type:           domain.DiscountPercentage,
		Value:          decimal.NewFromInt(10),
		ExpirationDate: fixedNow.Add(72 * time.Hour),
	}
	repo.On("Create", ctx, mock.MatchedBy(func(d domain.DiscountCode) bool {
		return d.Code == "SPRING" && d.IsActive
	})).Return(stored(), nil).Once()

	created, err := svc.Create(ctx, domain.RoleSalesman, in)
	require.NoError(t, err)
	assert.Equal(t, "SPRING", created.Code)
	repo.AssertExpectations(t)
}

func TestCreate_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	svc := newService(repo)
	repo.On("Create", ctx, mock.Anything).Return(nil, domain.ErrAlreadyExists).Once()

	_, err := svc.Create(ctx, domain.RoleSalesman, domain.DiscountInput{
		Code:           "SPRING",
		Type:           domain.DiscountFixed,
		Value:          decimal.NewFromInt(5),
		ExpirationDate: fixedNow.Add(time.Hour),
	})
	assert.EqualError(t, err, "Discount code already exists")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreate_InvalidNeverPersists(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo)

	_, err := svc.Create(context.Background(), domain.RoleSalesman, domain.DiscountInput{
		Code:           "OLD",
		Type:           domain.DiscountFixed,
		Value:          decimal.NewFromInt(5),
		ExpirationDate: fixedNow.Add(-time.Hour),
	})
	assert.EqualError(t, err, "Expiration date must be in the future")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeactivateThenActivate(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	svc := newService(repo)

	repo.On("GetByCode", ctx, "SPRING").Return(stored(), nil)
	repo.On("Update", ctx, mock.Anything).Return(func(_ context.Context, d domain.DiscountCode) (*domain.DiscountCode, error) {
		return &d, nil
	})

	off, err := svc.Deactivate(ctx, domain.RoleSalesman, "SPRING")
	require.NoError(t, err)
	assert.False(t, off.IsActive)
	assert.False(t, off.IsActiveCode(fixedNow))

	on, err := svc.Activate(ctx, domain.RoleSalesman, "SPRING")
	require.NoError(t, err)
	assert.True(t, on.IsActiveCode(fixedNow))
}

func TestMissingCode(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	svc := newService(repo)
	repo.On("GetByCode", ctx, "NOPE").Return(nil, domain.ErrNotFound)
	repo.On("Delete", ctx, "NOPE").Return(domain.ErrNotFound)

	_, err := svc.Get(ctx, domain.RoleSalesman, "NOPE")
	assert.EqualError(t, err, "Discount code not found")
	_, err = svc.Activate(ctx, domain.RoleSalesman, "NOPE")
	assert.EqualError(t, err, "Discount code not found")
	assert.EqualError(t, svc.Delete(ctx, domain.RoleSalesman, "NOPE"), "Discount code not found")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_RevalidatesPercentage(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	svc := newService(repo)
	repo.On("GetByCode", ctx, "SPRING").Return(stored(), nil)

	v := decimal.NewFromInt(150)
	_, err := svc.Update(ctx, domain.RoleSalesman, "SPRING", domain.DiscountPatch{Value: &v})
	assert.EqualError(t, err, "Percentage discount cannot exceed 100")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
