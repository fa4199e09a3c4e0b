package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/veloretail/backoffice/internal/staff/domain"
)

// CreateStaffCommand registers a staff profile under a primary account.
type CreateStaffCommand struct {
	OutletID        string
	ParentAccountID string
	Name            string
	Role            string
	Permissions     []string
	PIN             string
}

var validRoles = map[string]bool{
	domain.RoleOwner:      true,
	domain.RoleManager:    true,
	domain.RolePharmacist: true,
	domain.RoleAccountant: true,
	domain.RoleCashier:    true,
}

// CreateStaffHandler handles staff profile creation.
type CreateStaffHandler struct {
	staff domain.StaffRepository
}

func NewCreateStaffHandler(staff domain.StaffRepository) *CreateStaffHandler {
	return &CreateStaffHandler{staff: staff}
}

// Handle executes the creation.
func (h *CreateStaffHandler) Handle(ctx context.Context, cmd CreateStaffCommand) (*domain.StaffProfile, error) {
	if cmd.OutletID == "" || cmd.ParentAccountID == "" {
		return nil, fmt.Errorf("outlet_id and parent_account_id are required")
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !validRoles[cmd.Role] {
		return nil, fmt.Errorf("unknown role %q", cmd.Role)
	}
	if len(cmd.PIN) < 4 {
		return nil, fmt.Errorf("pin must be at least 4 digits")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	profile := &domain.StaffProfile{
		ID:              uuid.NewString(),
		OutletID:        cmd.OutletID,
		ParentAccountID: cmd.ParentAccountID,
		Name:            cmd.Name,
		Role:            cmd.Role,
		Permissions:     cmd.Permissions,
		PINHash:         string(hash),
		IsActive:        true,
	}
	if err := h.staff.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
