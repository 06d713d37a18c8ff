package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

type memoryCustomers map[string]domain.Customer

func (m memoryCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := m[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m memoryCustomers) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	m[c.Email] = c
	return &c, nil
}

type memoryProducts map[string]domain.Product

func (m memoryProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	m[p.ID] = p
	return &p, nil
}

type memoryDiscounts map[string]domain.DiscountCode

func (m memoryDiscounts) GetByCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	d, ok := m[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (m memoryDiscounts) Create(_ context.Context, d domain.DiscountCode) (*domain.DiscountCode, error) {
	m[d.Code] = d
	return &d, nil
}

func TestApply_Idempotent(t *testing.T) {
	customers := memoryCustomers{}
	productsByID := memoryProducts{}
	discounts := memoryDiscounts{}
	stores := Stores{Customers: customers, Products: productsByID, Discounts: discounts}

	require.NoError(t, Apply(context.Background(), stores, "staff-password", nil))
	admin := customers["admin@storefront.test"]
	require.NoError(t, Apply(context.Background(), stores, "other-password", nil))

	assert.Len(t, customers, 2)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, domain.RoleSalesman, customers["sales@storefront.test"].Role)
	assert.Equal(t, admin.Password, customers["admin@storefront.test"].Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("staff-password")))

	assert.Len(t, productsByID, len(products))
	require.Contains(t, discounts, "WELCOME10")
	assert.True(t, discounts["WELCOME10"].IsActive)
}

func TestApply_RejectsShortPassword(t *testing.T) {
	stores := Stores{Customers: memoryCustomers{}, Products: memoryProducts{}, Discounts: memoryDiscounts{}}
	err := Apply(context.Background(), stores, "short", nil)
	assert.ErrorContains(t, err, "Password must be at least 8 characters long")
}
