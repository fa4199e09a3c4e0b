package command

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/pkg/auth"
)

// LoginStaffCommand is a shared-terminal staff login: the terminal selects
// a profile and the staff member enters their PIN.
type LoginStaffCommand struct {
	OutletID       string
	StaffProfileID string
	PIN            string
}

// LoginStaffResult carries the issued session token.
type LoginStaffResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
}

// LoginStaffHandler verifies a staff PIN and issues a session token.
type LoginStaffHandler struct {
	staff domain.StaffRepository
	codec *auth.TokenCodec
	ttl   time.Duration
}

func NewLoginStaffHandler(staff domain.StaffRepository, codec *auth.TokenCodec, ttl time.Duration) *LoginStaffHandler {
	if ttl <= 0 {
		ttl = auth.DefaultTTL
	}
	return &LoginStaffHandler{staff: staff, codec: codec, ttl: ttl}
}

// Handle executes the login.
func (h *LoginStaffHandler) Handle(ctx context.Context, cmd LoginStaffCommand) (*LoginStaffResult, error) {
	if cmd.OutletID == "" || cmd.StaffProfileID == "" {
		return nil, fmt.Errorf("outlet_id and staff_profile_id are required")
	}
	if cmd.PIN == "" {
		return nil, domain.Unauthorized("invalid credentials")
	}

	profile, err := h.staff.FindByID(ctx, cmd.StaffProfileID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, domain.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, domain.Unauthorized("staff profile is inactive")
	}
	if profile.OutletID != cmd.OutletID {
		return nil, domain.Forbidden("staff profile does not belong to this outlet")
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PINHash), []byte(cmd.PIN)) != nil {
		return nil, domain.Unauthorized("invalid credentials")
	}

	token, err := h.codec.Issue(auth.StaffClaims{
		StaffProfileID:  profile.ID,
		OutletID:        profile.OutletID,
		Role:            profile.Role,
		ParentAccountID: profile.ParentAccountID,
	}, h.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue staff session token: %w", err)
	}

	return &LoginStaffResult{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.ttl),
		Name:      profile.Name,
		Role:      profile.Role,
	}, nil
}
