package model

// Role distinguishes the two parties of a restock order.
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleMerchant Role = "merchant"
	RoleSystem   Role = "system"
)

// Actor identifies who performs an operation.
type Actor struct {
	ID      string
	Role    Role
	ShopRef string
}

// SystemActor is used for seeding and internal callers.
var SystemActor = Actor{ID: "system", Role: RoleSystem}

// CanSee reports whether the actor may read orders of the given shop.
func (a Actor) CanSee(shopRef string) bool {
	if a.Role == RoleMerchant {
		return a.ShopRef != "" && a.ShopRef == shopRef
	}
	return true
}
