package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/veloretail/backoffice/internal/cache"
	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/pkg/auth"
	"github.com/veloretail/backoffice/pkg/logger"
)

const profileCacheTTL = 2 * time.Minute

// ResolveContextQuery asks for the effective identity of a request.
type ResolveContextQuery struct {
	Account  domain.Account
	OutletID string
	// Token is the optional staff session token; empty means the primary
	// account acts for itself.
	Token string
}

// ResolveContextHandler picks the effective identity/role for a request. A
// present-but-invalid token fails the request with 401 rather than silently
// falling back to account-level trust.
type ResolveContextHandler struct {
	codec *auth.TokenCodec
	staff domain.StaffRepository
	cache cache.Cache
}

func NewResolveContextHandler(codec *auth.TokenCodec, staff domain.StaffRepository, c cache.Cache) *ResolveContextHandler {
	if c == nil {
		c = cache.Noop{}
	}
	return &ResolveContextHandler{codec: codec, staff: staff, cache: c}
}

// Handle executes the resolution. Authorization failures come back as
// *domain.AuthError carrying the 401/403 contract.
func (h *ResolveContextHandler) Handle(ctx context.Context, q ResolveContextQuery) (*domain.AuthorizationContext, error) {
	if q.Token == "" {
		return &domain.AuthorizationContext{
			Role:        q.Account.Role,
			Permissions: q.Account.Permissions,
			Source:      domain.SourceAPIUser,
		}, nil
	}

	result := h.codec.Verify(q.Token)
	if !result.Valid {
		logger.Warn(ctx).Str("reason", result.Reason).Msg("Rejected staff session token")
		return nil, domain.Unauthorized("invalid or expired staff session")
	}

	profile, err := h.loadProfile(ctx, result.Claims.StaffProfileID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, domain.Unauthorized("staff profile not found")
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, domain.Unauthorized("staff profile is inactive")
	}
	if profile.OutletID != q.OutletID {
		return nil, domain.Forbidden("staff profile does not belong to this outlet")
	}

	return &domain.AuthorizationContext{
		Role:           profile.Role,
		Permissions:    profile.Permissions,
		Source:         domain.SourceStaffSession,
		StaffProfileID: profile.ID,
	}, nil
}

func (h *ResolveContextHandler) loadProfile(ctx context.Context, profileID string) (*domain.StaffProfile, error) {
	key := "staff_profile:" + profileID
	if raw, ok := h.cache.Get(ctx, key); ok {
		var profile domain.StaffProfile
		if err := json.Unmarshal([]byte(raw), &profile); err == nil {
			return &profile, nil
		}
		h.cache.Delete(ctx, key)
	}

	profile, err := h.staff.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(profile); err == nil {
		h.cache.Set(ctx, key, string(raw), profileCacheTTL)
	}
	return profile, nil
}
