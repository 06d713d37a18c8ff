package domain

import "slices"

// Role discriminates what a customer account may do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSalesman Role = "salesman"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesman, RoleCustomer:
		return true
	}
	return false
}

// Permission names an operation gated by role.
type Permission string

const (
	PermManageProducts  Permission = "products:manage"
	PermManageDiscounts Permission = "discounts:manage"
	PermManageCustomers Permission = "customers:manage"
	PermReadAllOrders   Permission = "orders:read-all"
	PermDeleteOrders    Permission = "orders:delete"
	PermReadAllPayments Permission = "payments:read-all"
	PermReadAllCarts    Permission = "carts:read-all"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermManageProducts,
		PermManageCustomers,
		PermReadAllOrders,
		PermDeleteOrders,
		PermReadAllPayments,
		PermReadAllCarts,
	},
	// Discount codes are managed by salesmen only; admins do not inherit it.
	RoleSalesman: {
		PermManageDiscounts,
		PermReadAllOrders,
		PermReadAllPayments,
		PermReadAllCarts,
	},
	RoleCustomer: {},
}

// Can reports whether r grants perm.
func (r Role) Can(perm Permission) bool {
	return slices.Contains(rolePermissions[r], perm)
}

// Authorize fails with an authorization error unless role grants perm.
func Authorize(role Role, perm Permission) error {
	if !role.Can(perm) {
		return Unauthorizedf("Role %q is not allowed to perform this action", role)
	}
	return nil
}
