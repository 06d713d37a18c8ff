package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount value is applied.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

var hundred = decimal.NewFromInt(100)

// DiscountCode is a promotional code managed by salesmen.
// Expiry is a function of time, not a stored state.
type DiscountCode struct {
	Code           string          `json:"code"`
	Type           DiscountType    `json:"type"`
	Value          decimal.Decimal `json:"value"`
	ExpirationDate time.Time       `json:"expirationDate"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// DiscountInput carries the fields needed to build a DiscountCode.
type DiscountInput struct {
	Code           string          `json:"code"`
	Type           DiscountType    `json:"type"`
	Value          decimal.Decimal `json:"value"`
	ExpirationDate time.Time       `json:"expirationDate"`
	IsActive       *bool           `json:"isActive"`
}

// DiscountPatch is a partial update; nil fields keep their current value.
type DiscountPatch struct {
	Type           *DiscountType    `json:"type"`
	Value          *decimal.Decimal `json:"value"`
	ExpirationDate *time.Time       `json:"expirationDate"`
	IsActive       *bool            `json:"isActive"`
}

// NewDiscountCode validates in against now. A missing IsActive defaults to true.
func NewDiscountCode(in DiscountInput, now time.Time) (DiscountCode, error) {
	d := DiscountCode{
		Code:           strings.TrimSpace(in.Code),
		Type:           in.Type,
		Value:          in.Value,
		ExpirationDate: in.ExpirationDate,
		IsActive:       true,
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if d.Code == "" {
		return DiscountCode{}, Validationf("Discount code is required")
	}
	if err := d.validateTerms(); err != nil {
		return DiscountCode{}, err
	}
	if !d.ExpirationDate.After(now) {
		return DiscountCode{}, Validationf("Expiration date must be in the future")
	}
	return d, nil
}

func (d DiscountCode) validateTerms() error {
	switch d.Type {
	case DiscountFixed, DiscountPercentage:
	default:
		return Validationf("Discount type must be 'fixed' or 'percentage'")
	}
	if !d.Value.IsPositive() {
		return Validationf("Discount value must be greater than 0")
	}
	if d.Type == DiscountPercentage && d.Value.GreaterThan(hundred) {
		return Validationf("Percentage discount cannot exceed 100")
	}
	return nil
}

// Apply merges patch over the current values. A new expiration date must
// be in the future relative to now.
func (d DiscountCode) Apply(patch DiscountPatch, now time.Time) (DiscountCode, error) {
	out := d
	if patch.Type != nil {
		out.Type = *patch.Type
	}
	if patch.Value != nil {
		out.Value = *patch.Value
	}
	if patch.IsActive != nil {
		out.IsActive = *patch.IsActive
	}
	if patch.ExpirationDate != nil {
		if !patch.ExpirationDate.After(now) {
			return d, Validationf("Expiration date must be in the future")
		}
		out.ExpirationDate = *patch.ExpirationDate
	}
	if err := out.validateTerms(); err != nil {
		return d, err
	}
	return out, nil
}

// Activate returns the code switched on.
func (d DiscountCode) Activate() DiscountCode {
	d.IsActive = true
	return d
}

// Deactivate returns the code switched off.
func (d DiscountCode) Deactivate() DiscountCode {
	d.IsActive = false
	return d
}

// IsActiveCode reports whether the code is switched on and not expired at now.
func (d DiscountCode) IsActiveCode(now time.Time) bool {
	return d.IsActive && now.Before(d.ExpirationDate)
}

// DiscountFor returns the reduction the code grants on amount, rounded to
// cents and capped at amount.
func (d DiscountCode) DiscountFor(amount decimal.Decimal) decimal.Decimal {
	var off decimal.Decimal
	switch d.Type {
	case DiscountFixed:
		off = d.Value
	case DiscountPercentage:
		off = amount.Mul(d.Value).Div(hundred)
	}
	off = off.Round(2)
	if off.GreaterThan(amount) {
		return amount
	}
	return off
}
