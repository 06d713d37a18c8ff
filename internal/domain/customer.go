package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Customer represents a registered account. Staff accounts are customers
// with an elevated Role.
type Customer struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	Role         Role      `json:"role"`
	RecentOrders []Order   `json:"recentOrders,omitempty"`
	Wishlist     []Product `json:"wishlist"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CustomerInput carries the fields needed to build a Customer.
type CustomerInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
}

// CustomerPatch is a partial update; nil fields keep their current value.
type CustomerPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *Role   `json:"role"`
}

// NewCustomer validates in and returns the customer it describes.
// Names are trimmed and the email is trimmed and lowercased; the password is
// kept as given. An empty role defaults to RoleCustomer.
func NewCustomer(in CustomerInput) (Customer, error) {
	c := Customer{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  in.Password,
		Role:      in.Role,
		Wishlist:  []Product{},
	}
	if c.Role == "" {
		c.Role = RoleCustomer
	}
	if err := c.validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (c Customer) validate() error {
	if c.FirstName == "" {
		return Validationf("First name is required")
	}
	if c.LastName == "" {
		return Validationf("Last name is required")
	}
	if !emailPattern.MatchString(c.Email) {
		return Validationf("Invalid email address")
	}
	if len(c.Password) < minPasswordLength {
		return Validationf("Password must be at least %d characters long", minPasswordLength)
	}
	if !c.Role.Valid() {
		return Validationf("Invalid role: %q", c.Role)
	}
	return nil
}

// Apply merges patch over the current values and re-validates the result.
func (c Customer) Apply(patch CustomerPatch) (Customer, error) {
	in := CustomerInput{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Password:  c.Password,
		Role:      c.Role,
	}
	if patch.FirstName != nil {
		in.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		in.LastName = *patch.LastName
	}
	if patch.Email != nil {
		in.Email = *patch.Email
	}
	if patch.Password != nil {
		in.Password = *patch.Password
	}
	if patch.Role != nil {
		in.Role = *patch.Role
	}

	out, err := NewCustomer(in)
	if err != nil {
		return c, err
	}
	out.ID = c.ID
	out.CreatedAt = c.CreatedAt
	out.Wishlist = slices.Clone(c.Wishlist)
	out.RecentOrders = slices.Clone(c.RecentOrders)
	return out, nil
}

// WithPassword replaces the stored password, typically with a hash.
func (c Customer) WithPassword(password string) (Customer, error) {
	if len(password) < minPasswordLength {
		return c, Validationf("Password must be at least %d characters long", minPasswordLength)
	}
	out := c
	out.Password = password
	return out, nil
}

// HasInWishlist reports whether productID is on the wishlist.
func (c Customer) HasInWishlist(productID string) bool {
	return slices.ContainsFunc(c.Wishlist, func(p Product) bool { return p.ID == productID })
}

// WithWishlistItem returns the customer with p appended to the wishlist.
func (c Customer) WithWishlistItem(p Product) (Customer, error) {
	if c.HasInWishlist(p.ID) {
		return c, Validationf("Product already in wishlist")
	}
	out := c
	out.Wishlist = append(slices.Clone(c.Wishlist), p)
	return out, nil
}

// WithoutWishlistItem returns the customer with productID removed from the wishlist.
func (c Customer) WithoutWishlistItem(productID string) (Customer, error) {
	if !c.HasInWishlist(productID) {
		return c, Validationf("Product not in wishlist")
	}
	out := c
	out.Wishlist = slices.DeleteFunc(slices.Clone(c.Wishlist), func(p Product) bool { return p.ID == productID })
	return out, nil
}
