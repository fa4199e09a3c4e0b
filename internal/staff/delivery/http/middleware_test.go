package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/staff/repository"
	"github.com/veloretail/backoffice/internal/staff/usecase/query"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/internal/store/memory"
	"github.com/veloretail/backoffice/pkg/auth"
)

const (
	testJWTSecret   = "jwt-secret"
	testStaffSecret = "staff-secret"
)

func signAccountJWT(t *testing.T, role string) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, accountClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "acct-1",
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: role,
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func newTestMiddleware(t *testing.T, profiles ...domain.StaffProfile) (*AuthMiddleware, *auth.TokenCodec) {
	t.Helper()
	st := memory.New()
	repo := repository.NewStoreStaffRepository(st, store.NewAdaptiveWriter(st))
	for i := range profiles {
		if err := repo.Create(context.Background(), &profiles[i]); err != nil {
			t.Fatal(err)
		}
	}
	codec := auth.NewTokenCodec(testStaffSecret)
	resolver := query.NewResolveContextHandler(codec, repo, nil)
	return NewAuthMiddleware(testJWTSecret, resolver, "main-outlet"), codec
}

func TestAuthenticateRejectsMissingBearer(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without credentials")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateAccountOnly(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	var seen domain.AuthorizationContext
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = domain.AuthorizationFromContext(r.Context())
		if got := OutletFromContext(r.Context()); got != "main-outlet" {
			t.Errorf("outlet = %q, want default", got)
		}
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signAccountJWT(t, domain.RoleOwner))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if seen.Source != domain.SourceAPIUser || seen.Role != domain.RoleOwner {
		t.Errorf("resolved context = %+v", seen)
	}
}

func TestAuthenticateStaffSessionNarrowsIdentity(t *testing.T) {
	profile := domain.StaffProfile{
		ID: "staff-1", OutletID: "shop-2", Role: domain.RoleCashier, IsActive: true,
	}
	mw, codec := newTestMiddleware(t, profile)
	staffToken, err := codec.Issue(auth.StaffClaims{
		StaffProfileID: "staff-1", OutletID: "shop-2",
	}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var seen domain.AuthorizationContext
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = domain.AuthorizationFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signAccountJWT(t, domain.RoleOwner))
	req.Header.Set(OutletHeader, "shop-2")
	req.Header.Set(StaffSessionHeader, staffToken)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if seen.Role != domain.RoleCashier || seen.Source != domain.SourceStaffSession {
		t.Errorf("resolved context = %+v, want cashier staff session", seen)
	}
}

func TestAuthenticateInvalidStaffSessionFailsClosed(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with an invalid staff session")
	})

	// The account credential is good; the bad session token must still
	// fail the request rather than fall back to account trust.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signAccountJWT(t, domain.RoleOwner))
	req.Header.Set(StaffSessionHeader, "v1.tampered.token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireCapabilityForbidsCashier(t *testing.T) {
	profile := domain.StaffProfile{
		ID: "staff-1", OutletID: "main-outlet", Role: domain.RoleCashier, IsActive: true,
	}
	mw, codec := newTestMiddleware(t, profile)
	staffToken, err := codec.Issue(auth.StaffClaims{
		StaffProfileID: "staff-1", OutletID: "main-outlet",
	}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	handler := mw.RequireCapability(domain.CapabilityInventoryEdit, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without the capability")
	})

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signAccountJWT(t, domain.RoleOwner))
	req.Header.Set(StaffSessionHeader, staffToken)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireCapabilityAllowsManager(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	called := false
	handler := mw.RequireCapability(domain.CapabilityInventoryEdit, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signAccountJWT(t, domain.RoleManager))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK || !called {
		t.Errorf("status = %d, called = %v", rec.Code, called)
	}
}
