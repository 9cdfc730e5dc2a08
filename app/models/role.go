package models

import "fmt"

// Role is the authorization level stored on a user and embedded in tokens.
type Role int

const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

type Permission string

const (
	PermManageCatalog Permission = "catalog:manage"
	PermManageOrders  Permission = "orders:manage"
	PermPlaceOrder    Permission = "orders:place"
	PermViewOwnOrders Permission = "orders:view-own"
)

var rolePermissions = map[Role][]Permission{
	RoleUser:  {PermPlaceOrder, PermViewOwnOrders},
	RoleAdmin: {PermManageCatalog, PermManageOrders, PermPlaceOrder, PermViewOwnOrders},
}

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}
