package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

type customerStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
}

type productStore interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type discountStore interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	Create(ctx context.Context, d domain.DiscountCode) (*domain.DiscountCode, error)
}

// Stores are the repositories seed data is written through.
type Stores struct {
	Customers customerStore
	Products  productStore
	Discounts discountStore
}

type productSeed struct {
	ID    string
	Input domain.ProductInput
}

var products = []productSeed{
	{
		ID: "7b0c7a4e-3f7d-4d59-9a55-2f6f1c1a0001",
		Input: domain.ProductInput{
			Name:        "Demo T-Shirt",
			Price:       decimal.RequireFromString("19.99"),
			Stock:       50,
			Categories:  []string{"tops"},
			Description: "Soft cotton tee for demo purposes",
			Image:       domain.ImageTShirt,
			Sizes:       []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL},
			Colors:      []string{"black", "white"},
		},
	},
	{
		ID: "7b0c7a4e-3f7d-4d59-9a55-2f6f1c1a0002",
		Input: domain.ProductInput{
			Name:        "Demo Hoodie",
			Price:       decimal.RequireFromString("49.00"),
			Stock:       20,
			Categories:  []string{"tops", "outerwear"},
			Description: "Fleece hoodie with demo logo",
			Image:       domain.ImageHoodie,
			Sizes:       []domain.Size{domain.SizeM, domain.SizeL, domain.SizeXL},
			Colors:      []string{"grey"},
		},
	},
	{
		ID: "7b0c7a4e-3f7d-4d59-9a55-2f6f1c1a0003",
		Input: domain.ProductInput{
			Name:        "Demo Cap",
			Price:       decimal.RequireFromString("15.50"),
			Stock:       35,
			Categories:  []string{"accessories"},
			Description: "Adjustable cotton cap",
			Image:       domain.ImageCap,
			Sizes:       []domain.Size{domain.SizeM},
			Colors:      []string{"navy", "red"},
		},
	},
}

// Apply writes demo staff accounts, catalog and a discount code. Existing
// accounts and codes are left untouched and products are overwritten by id,
// so running it twice is safe.
func Apply(ctx context.Context, stores Stores, staffPassword string, logger *logrus.Entry) error {
	logger = logging.OrDiscard(logger).WithField("component", "seed")

	for _, staff := range []domain.CustomerInput{
		{FirstName: "Ada", LastName: "Admin", Email: "admin@storefront.test", Password: staffPassword, Role: domain.RoleAdmin},
		{FirstName: "Sam", LastName: "Sales", Email: "sales@storefront.test", Password: staffPassword, Role: domain.RoleSalesman},
	} {
		created, err := ensureCustomer(ctx, stores.Customers, staff)
		if err != nil {
			return fmt.Errorf("ensure %s: %w", staff.Email, err)
		}
		if created {
			logger.WithField("email", staff.Email).Info("staff account created")
		}
	}

	for _, seed := range products {
		p, err := domain.NewProduct(seed.Input)
		if err != nil {
			return fmt.Errorf("product %s: %w", seed.Input.Name, err)
		}
		p.ID = seed.ID
		if _, err := stores.Products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	logger.WithField("count", len(products)).Info("products upserted")

	if err := ensureDiscount(ctx, stores.Discounts); err != nil {
		return fmt.Errorf("ensure discount: %w", err)
	}
	return nil
}

func ensureCustomer(ctx context.Context, repo customerStore, in domain.CustomerInput) (bool, error) {
	_, err := repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	c, err := domain.NewCustomer(in)
	if err != nil {
		return false, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	c.Password = string(hashed)
	if _, err := repo.Create(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

func ensureDiscount(ctx context.Context, repo discountStore) error {
	const code = "WELCOME10"
	_, err := repo.GetByCode(ctx, code)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	now := time.Now().UTC()
	d, err := domain.NewDiscountCode(domain.DiscountInput{
		Code:           code,
		Type:           domain.DiscountPercentage,
		Value:          decimal.NewFromInt(10),
		ExpirationDate: now.AddDate(1, 0, 0),
	}, now)
	if err != nil {
		return err
	}
	_, err = repo.Create(ctx, d)
	return err
}
