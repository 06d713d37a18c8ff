package httpserver

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
	paymentsvc "storefront/internal/service/payment"
)

type stubCustomers struct {
	err      error
	signedUp *domain.CustomerInput
	session  *customersvc.Session
}

func (s *stubCustomers) List(context.Context, auth.Principal) ([]domain.Customer, error) {
	return []domain.Customer{}, s.err
}

func (s *stubCustomers) Get(_ context.Context, _ auth.Principal, id string) (*domain.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Customer{ID: id}, nil
}

func (s *stubCustomers) Create(_ context.Context, _ auth.Principal, in domain.CustomerInput) (*domain.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Customer{ID: "c1", Email: in.Email, Role: in.Role}, nil
}

func (s *stubCustomers) Signup(_ context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	s.signedUp = &in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Customer{ID: "c1", Email: in.Email, Role: domain.RoleCustomer, Wishlist: []domain.Product{}}, nil
}

func (s *stubCustomers) Update(_ context.Context, _ auth.Principal, id string, _ domain.CustomerPatch) (*domain.Customer, error) {
	return &domain.Customer{ID: id}, s.err
}

func (s *stubCustomers) Delete(context.Context, auth.Principal, string) error {
	return s.err
}

func (s *stubCustomers) AddToWishlist(_ context.Context, _ auth.Principal, id, _ string) (*domain.Customer, error) {
	return &domain.Customer{ID: id}, s.err
}

func (s *stubCustomers) RemoveFromWishlist(_ context.Context, _ auth.Principal, id, _ string) (*domain.Customer, error) {
	return &domain.Customer{ID: id}, s.err
}

func (s *stubCustomers) Login(context.Context, string, string) (*customersvc.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubCustomers) Refresh(context.Context, string) (*customersvc.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubCustomers) Logout(context.Context, string) error {
	return s.err
}

type stubCarts struct {
	err      error
	actor    auth.Principal
	checkout cartsvc.CheckoutInput
	removed  int
}

func (s *stubCarts) List(context.Context, auth.Principal) ([]domain.Cart, error) {
	return []domain.Cart{}, s.err
}

func (s *stubCarts) Get(_ context.Context, _ auth.Principal, id string) (*domain.Cart, error) {
	return &domain.Cart{ID: id}, s.err
}

func (s *stubCarts) GetForCustomer(_ context.Context, actor auth.Principal, customerID string) (*domain.Cart, error) {
	s.actor = actor
	return &domain.Cart{ID: "cart-1", CustomerID: customerID}, s.err
}

func (s *stubCarts) AddItem(_ context.Context, _ auth.Principal, cartID, _ string, _ int) (*domain.Cart, error) {
	return &domain.Cart{ID: cartID}, s.err
}

func (s *stubCarts) RemoveItem(_ context.Context, _ auth.Principal, cartID, _ string, quantity int) (*domain.Cart, error) {
	s.removed = quantity
	return &domain.Cart{ID: cartID}, s.err
}

func (s *stubCarts) ConvertToOrder(_ context.Context, actor auth.Principal, _ string, in cartsvc.CheckoutInput) (*domain.Order, error) {
	s.actor = actor
	s.checkout = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: "o1", Payment: domain.Payment{Amount: decimal.NewFromInt(40), Status: in.PaymentStatus}}, nil
}

type stubDiscounts struct {
	err error
}

func (s *stubDiscounts) List(context.Context, domain.Role) ([]domain.DiscountCode, error) {
	return []domain.DiscountCode{}, s.err
}

func (s *stubDiscounts) Get(_ context.Context, _ domain.Role, code string) (*domain.DiscountCode, error) {
	return &domain.DiscountCode{Code: code}, s.err
}

func (s *stubDiscounts) Create(_ context.Context, _ domain.Role, in domain.DiscountInput) (*domain.DiscountCode, error) {
	return &domain.DiscountCode{Code: in.Code}, s.err
}

func (s *stubDiscounts) Update(_ context.Context, _ domain.Role, code string, _ domain.DiscountPatch) (*domain.DiscountCode, error) {
	return &domain.DiscountCode{Code: code}, s.err
}

func (s *stubDiscounts) Delete(context.Context, domain.Role, string) error {
	return s.err
}

func (s *stubDiscounts) Activate(_ context.Context, _ domain.Role, code string) (*domain.DiscountCode, error) {
	return &domain.DiscountCode{Code: code, IsActive: true}, s.err
}

func (s *stubDiscounts) Deactivate(_ context.Context, _ domain.Role, code string) (*domain.DiscountCode, error) {
	return &domain.DiscountCode{Code: code}, s.err
}

type stubOrders struct {
	err error
}

func (s *stubOrders) List(context.Context, auth.Principal) ([]domain.Order, error) {
	return []domain.Order{}, s.err
}

func (s *stubOrders) ListForCustomer(context.Context, auth.Principal, string) ([]domain.Order, error) {
	return []domain.Order{}, s.err
}

func (s *stubOrders) Get(_ context.Context, _ auth.Principal, id string) (*domain.Order, error) {
	return &domain.Order{ID: id}, s.err
}

func (s *stubOrders) Delete(context.Context, auth.Principal, string) error {
	return s.err
}

type stubPayments struct {
	err   error
	input paymentsvc.Input
}

func (s *stubPayments) List(context.Context, auth.Principal) ([]domain.Payment, error) {
	return []domain.Payment{}, s.err
}

func (s *stubPayments) Get(_ context.Context, _ auth.Principal, id string) (*domain.Payment, error) {
	return &domain.Payment{ID: id}, s.err
}

func (s *stubPayments) Create(_ context.Context, _ auth.Principal, in paymentsvc.Input) (*domain.Payment, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Payment{ID: "pay-1", OrderID: in.OrderID, Amount: in.Amount, Status: domain.PaymentPaid}, nil
}

type stubProducts struct {
	err   error
	query string
}

func (s *stubProducts) List(context.Context) ([]domain.Product, error) {
	return []domain.Product{}, s.err
}

func (s *stubProducts) Get(_ context.Context, id string) (*domain.Product, error) {
	return &domain.Product{ID: id}, s.err
}

func (s *stubProducts) Search(_ context.Context, query string) ([]domain.Product, error) {
	s.query = query
	return []domain.Product{}, s.err
}

func (s *stubProducts) Create(_ context.Context, _ auth.Principal, in domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: "p1", Name: in.Name}, s.err
}

func (s *stubProducts) Update(_ context.Context, _ auth.Principal, id string, _ domain.ProductPatch) (*domain.Product, error) {
	return &domain.Product{ID: id}, s.err
}

func (s *stubProducts) Delete(context.Context, auth.Principal, string) error {
	return s.err
}

func (s *stubProducts) AddRating(_ context.Context, id string, rating int) (*domain.Product, error) {
	return &domain.Product{ID: id, Rating: []int{rating}}, s.err
}
