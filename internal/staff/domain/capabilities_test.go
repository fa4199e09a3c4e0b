package domain

import (
	"errors"
	"testing"
)

func TestAllowedRoleMatrix(t *testing.T) {
	capabilities := []Capability{
		CapabilityApplyDiscount,
		CapabilityVoidTransaction,
		CapabilityProcessReturn,
		CapabilityInventoryEdit,
		CapabilityStocktakeEdit,
	}

	wantByRole := map[string]map[Capability]bool{
		RoleOwner: {
			CapabilityApplyDiscount: true, CapabilityVoidTransaction: true,
			CapabilityProcessReturn: true, CapabilityInventoryEdit: true,
			CapabilityStocktakeEdit: true,
		},
		RoleManager: {
			CapabilityApplyDiscount: true, CapabilityVoidTransaction: true,
			CapabilityProcessReturn: true, CapabilityInventoryEdit: true,
			CapabilityStocktakeEdit: true,
		},
		RolePharmacist: {
			CapabilityApplyDiscount: true, CapabilityVoidTransaction: true,
			CapabilityProcessReturn: true, CapabilityInventoryEdit: true,
			CapabilityStocktakeEdit: true,
		},
		RoleAccountant: {
			CapabilityApplyDiscount: true, CapabilityVoidTransaction: true,
			CapabilityProcessReturn: true, CapabilityInventoryEdit: false,
			CapabilityStocktakeEdit: true,
		},
		RoleCashier: {
			CapabilityApplyDiscount: false, CapabilityVoidTransaction: false,
			CapabilityProcessReturn: false, CapabilityInventoryEdit: false,
			CapabilityStocktakeEdit: false,
		},
	}

	for role, expectations := range wantByRole {
		for _, capability := range capabilities {
			auth := AuthorizationContext{Role: role, Source: SourceStaffSession}
			if got := Allowed(auth, capability); got != expectations[capability] {
				t.Errorf("Allowed(%s, %s) = %v, want %v", role, capability, got, expectations[capability])
			}
		}
	}
}

func TestAllowedPermissionKeyGrant(t *testing.T) {
	// A cashier with an explicit permission key passes that capability and
	// only that capability.
	auth := AuthorizationContext{
		Role:        RoleCashier,
		Permissions: []string{PermVoidTransaction},
		Source:      SourceStaffSession,
	}
	if !Allowed(auth, CapabilityVoidTransaction) {
		t.Error("explicit permission key not honored")
	}
	if Allowed(auth, CapabilityApplyDiscount) {
		t.Error("permission key leaked into another capability")
	}
}

func TestAllowedUnknownCapability(t *testing.T) {
	auth := AuthorizationContext{Role: RoleOwner}
	if Allowed(auth, Capability("rm-rf")) {
		t.Error("unknown capability allowed")
	}
}

func TestRequireForbidden(t *testing.T) {
	auth := AuthorizationContext{Role: RoleCashier}
	err := Require(auth, CapabilityInventoryEdit)
	if err == nil {
		t.Fatal("Require() = nil for cashier inventory edit")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Require() error type %T", err)
	}
	if authErr.Status != 403 {
		t.Errorf("status = %d, want 403", authErr.Status)
	}
}

func TestRequireAllowed(t *testing.T) {
	auth := AuthorizationContext{Role: RoleManager}
	if err := Require(auth, CapabilityStocktakeEdit); err != nil {
		t.Errorf("Require() = %v for manager", err)
	}
}
