package domain

import "fmt"

// Capability names a privileged action gated per request.
type Capability string

const (
	CapabilityApplyDiscount   Capability = "discount-apply"
	CapabilityVoidTransaction Capability = "void-transaction"
	CapabilityProcessReturn   Capability = "process-return"
	CapabilityInventoryEdit   Capability = "inventory-edit"
	CapabilityStocktakeEdit   Capability = "stocktake-edit"
)

// Permission keys grantable to a profile independently of its role.
const (
	PermApplyDiscount   = "discount.apply"
	PermVoidTransaction = "transaction.void"
	PermProcessReturn   = "return.process"
	PermInventoryEdit   = "inventory.edit"
	PermStocktakeEdit   = "stocktake.edit"
)

type capabilityGrant struct {
	roles          []string
	permissionKeys []string
}

// Manager-tier roles are always included. Pharmacist and accountant tiers
// cover discount, void, return and stocktake, with a narrower allow-list
// for generic inventory edits.
var capabilityTable = map[Capability]capabilityGrant{
	CapabilityApplyDiscount: {
		roles:          []string{RoleOwner, RoleManager, RolePharmacist, RoleAccountant},
		permissionKeys: []string{PermApplyDiscount},
	},
	CapabilityVoidTransaction: {
		roles:          []string{RoleOwner, RoleManager, RolePharmacist, RoleAccountant},
		permissionKeys: []string{PermVoidTransaction},
	},
	CapabilityProcessReturn: {
		roles:          []string{RoleOwner, RoleManager, RolePharmacist, RoleAccountant},
		permissionKeys: []string{PermProcessReturn},
	},
	CapabilityInventoryEdit: {
		roles:          []string{RoleOwner, RoleManager, RolePharmacist},
		permissionKeys: []string{PermInventoryEdit},
	},
	CapabilityStocktakeEdit: {
		roles:          []string{RoleOwner, RoleManager, RolePharmacist, RoleAccountant},
		permissionKeys: []string{PermStocktakeEdit},
	},
}

// Allowed is the single generic predicate over (role, permission set): a
// capability passes on a role allow-list hit or an explicit permission key
// grant.
func Allowed(auth AuthorizationContext, capability Capability) bool {
	grant, ok := capabilityTable[capability]
	if !ok {
		return false
	}
	for _, role := range grant.roles {
		if auth.Role == role {
			return true
		}
	}
	for _, key := range grant.permissionKeys {
		if auth.HasPermission(key) {
			return true
		}
	}
	return false
}

// Require returns a 403 AuthError with an action-specific message when the
// capability is not granted.
func Require(auth AuthorizationContext, capability Capability) error {
	if Allowed(auth, capability) {
		return nil
	}
	return Forbidden(fmt.Sprintf("role %q is not permitted to perform %s", auth.Role, capability))
}
