package query

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/staff/repository"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/internal/store/memory"
	"github.com/veloretail/backoffice/pkg/auth"
)

const testSecret = "test-secret"

func newResolver(t *testing.T, codec *auth.TokenCodec, profiles ...domain.StaffProfile) *ResolveContextHandler {
	t.Helper()
	st := memory.New()
	repo := repository.NewStoreStaffRepository(st, store.NewAdaptiveWriter(st))
	for i := range profiles {
		if err := repo.Create(context.Background(), &profiles[i]); err != nil {
			t.Fatal(err)
		}
	}
	return NewResolveContextHandler(codec, repo, nil)
}

func issueToken(t *testing.T, codec *auth.TokenCodec, profile domain.StaffProfile) string {
	t.Helper()
	token, err := codec.Issue(auth.StaffClaims{
		StaffProfileID:  profile.ID,
		OutletID:        profile.OutletID,
		Role:            profile.Role,
		ParentAccountID: profile.ParentAccountID,
	}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestResolveContextNoTokenUsesAccount(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret)
	handler := newResolver(t, codec)

	resolved, err := handler.Handle(context.Background(), ResolveContextQuery{
		Account:  domain.Account{ID: "acct-1", Role: domain.RoleOwner, Permissions: []string{"x"}},
		OutletID: "outlet-1",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resolved.Source != domain.SourceAPIUser {
		t.Errorf("source = %q, want api_user", resolved.Source)
	}
	if resolved.Role != domain.RoleOwner {
		t.Errorf("role = %q", resolved.Role)
	}
	if resolved.StaffProfileID != "" {
		t.Errorf("StaffProfileID = %q, want empty", resolved.StaffProfileID)
	}
}

func TestResolveContextValidToken(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret)
	profile := domain.StaffProfile{
		ID: "staff-1", OutletID: "outlet-1", ParentAccountID: "acct-1",
		Name: "Ana", Role: domain.RolePharmacist,
		Permissions: []string{domain.PermVoidTransaction},
		IsActive:    true,
	}
	handler := newResolver(t, codec, profile)

	resolved, err := handler.Handle(context.Background(), ResolveContextQuery{
		Account:  domain.Account{ID: "acct-1", Role: domain.RoleOwner},
		OutletID: "outlet-1",
		Token:    issueToken(t, codec, profile),
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resolved.Source != domain.SourceStaffSession {
		t.Errorf("source = %q, want staff_session", resolved.Source)
	}
	// The staff identity narrows the account: role and permissions come
	// from the profile, not the account.
	if resolved.Role != domain.RolePharmacist {
		t.Errorf("role = %q, want pharmacist", resolved.Role)
	}
	if resolved.StaffProfileID != "staff-1" {
		t.Errorf("StaffProfileID = %q", resolved.StaffProfileID)
	}
	if len(resolved.Permissions) != 1 || resolved.Permissions[0] != domain.PermVoidTransaction {
		t.Errorf("permissions = %v", resolved.Permissions)
	}
}

func TestResolveContextFailures(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret)
	active := domain.StaffProfile{
		ID: "staff-1", OutletID: "outlet-1", Role: domain.RoleCashier, IsActive: true,
	}
	inactive := domain.StaffProfile{
		ID: "staff-2", OutletID: "outlet-1", Role: domain.RoleCashier, IsActive: false,
	}
	handler := newResolver(t, codec, active, inactive)

	wrongSecret := auth.NewTokenCodec("other-secret")
	expiredCodec := auth.NewTokenCodecAt(testSecret, func() time.Time {
		return time.Now().Add(-48 * time.Hour)
	})
	ghost := domain.StaffProfile{ID: "ghost", OutletID: "outlet-1"}

	tests := []struct {
		name       string
		outletID   string
		token      string
		wantStatus int
	}{
		{
			name:       "garbage token",
			outletID:   "outlet-1",
			token:      "v1.garbage.garbage",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong signing secret",
			outletID:   "outlet-1",
			token:      issueToken(t, wrongSecret, active),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			outletID:   "outlet-1",
			token:      issueToken(t, expiredCodec, active),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "profile not found",
			outletID:   "outlet-1",
			token:      issueToken(t, codec, ghost),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "inactive profile",
			outletID:   "outlet-1",
			token:      issueToken(t, codec, inactive),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "outlet mismatch",
			outletID:   "outlet-2",
			token:      issueToken(t, codec, active),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), ResolveContextQuery{
				Account:  domain.Account{ID: "acct-1", Role: domain.RoleOwner},
				OutletID: tt.outletID,
				Token:    tt.token,
			})
			if err == nil {
				t.Fatal("Handle() expected error")
			}
			var authErr *domain.AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("error type %T: %v", err, err)
			}
			if authErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", authErr.Status, tt.wantStatus)
			}
		})
	}
}
