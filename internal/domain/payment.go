package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus describes whether an order has been paid.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentUnpaid
}

// Payment records the settlement of an order.
type Payment struct {
	ID      string          `json:"id"`
	OrderID string          `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
	Date    time.Time       `json:"date"`
	Status  PaymentStatus   `json:"paymentStatus"`
}

// NewPayment validates and builds a payment that is not yet bound to an order.
func NewPayment(amount decimal.Decimal, date time.Time, status PaymentStatus) (Payment, error) {
	if amount.IsNegative() {
		return Payment{}, Validationf("Payment amount cannot be negative")
	}
	if date.IsZero() {
		return Payment{}, Validationf("Payment date is required")
	}
	if status == "" {
		return Payment{}, Validationf("Payment status is required")
	}
	if !status.Valid() {
		return Payment{}, Validationf("Invalid payment status: %q", status)
	}
	return Payment{Amount: amount.Round(2), Date: date, Status: status}, nil
}

// IsPaid reports whether the payment has been settled.
func (p Payment) IsPaid() bool {
	return p.Status == PaymentPaid
}

// MarkPaid settles an unpaid payment with amount at date.
func (p Payment) MarkPaid(amount decimal.Decimal, date time.Time) (Payment, error) {
	if p.IsPaid() {
		return p, Validationf("Order is already paid")
	}
	paid, err := NewPayment(amount, date, PaymentPaid)
	if err != nil {
		return p, err
	}
	paid.ID = p.ID
	paid.OrderID = p.OrderID
	return paid, nil
}
