package domain

import (
	"context"
	"net/http"
	"time"
)

// Role types
const (
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RolePharmacist = "pharmacist"
	RoleAccountant = "accountant"
	RoleCashier    = "cashier"
)

// Authorization context sources
const (
	SourceAPIUser      = "api_user"
	SourceStaffSession = "staff_session"
)

// StaffProfile is a shared-terminal staff identity belonging to a primary
// account, authenticated by PIN.
type StaffProfile struct {
	ID              string    `json:"id"`
	OutletID        string    `json:"outlet_id"`
	ParentAccountID string    `json:"parent_account_id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Permissions     []string  `json:"permissions"`
	PINHash         string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Account is the primary API identity established by the login layer.
type Account struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AuthorizationContext is the effective identity for one request, derived
// either from the primary account or from a verified staff session.
type AuthorizationContext struct {
	Role           string   `json:"role"`
	Permissions    []string `json:"permissions"`
	Source         string   `json:"source"`
	StaffProfileID string   `json:"staff_profile_id,omitempty"`
}

// HasPermission reports whether the context carries an explicit permission
// key grant.
func (c AuthorizationContext) HasPermission(key string) bool {
	for _, p := range c.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

// AuthError is a terminal authorization failure carrying the HTTP status of
// the stable contract: 401 for unauthenticated or invalid identity, 403 for
// authenticated but insufficient.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *AuthError {
	return &AuthError{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden builds a 403 error.
func Forbidden(message string) *AuthError {
	return &AuthError{Status: http.StatusForbidden, Message: message}
}

// StaffRepository defines the contract for staff profile access.
type StaffRepository interface {
	FindByID(ctx context.Context, profileID string) (*StaffProfile, error)
	FindByOutlet(ctx context.Context, outletID string, limit, offset int) ([]StaffProfile, error)
	Create(ctx context.Context, profile *StaffProfile) error
}

type authContextKey struct{}

// WithAuthorization stores the resolved context on the request context.
func WithAuthorization(ctx context.Context, auth AuthorizationContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthorizationFromContext reads back the resolved context.
func AuthorizationFromContext(ctx context.Context) (AuthorizationContext, bool) {
	auth, ok := ctx.Value(authContextKey{}).(AuthorizationContext)
	return auth, ok
}
