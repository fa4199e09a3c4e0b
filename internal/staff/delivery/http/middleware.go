package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/staff/usecase/query"
)

// Request headers of the identity contract.
const (
	StaffSessionHeader = "X-Staff-Session"
	OutletHeader       = "X-Outlet-ID"
)

type contextKey string

const (
	AccountKey contextKey = "account"
	OutletKey  contextKey = "outlet_id"
)

type accountClaims struct {
	jwtlib.RegisteredClaims
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AuthMiddleware establishes the effective identity for each request: it
// validates the primary-account bearer token (issued elsewhere), then hands
// the optional staff session token to the context resolver.
type AuthMiddleware struct {
	jwtSecret       []byte
	resolver        *query.ResolveContextHandler
	defaultOutletID string
}

func NewAuthMiddleware(jwtSecret string, resolver *query.ResolveContextHandler, defaultOutletID string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:       []byte(jwtSecret),
		resolver:        resolver,
		defaultOutletID: defaultOutletID,
	}
}

// Authenticate validates identity and stores the resolved authorization
// context, account and outlet on the request context.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := m.parseAccount(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		outletID := r.Header.Get(OutletHeader)
		if outletID == "" {
			outletID = m.defaultOutletID
		}

		resolved, err := m.resolver.Handle(r.Context(), query.ResolveContextQuery{
			Account:  account,
			OutletID: outletID,
			Token:    r.Header.Get(StaffSessionHeader),
		})
		if err != nil {
			RespondAuthError(w, err)
			return
		}

		ctx := domain.WithAuthorization(r.Context(), *resolved)
		ctx = context.WithValue(ctx, AccountKey, account)
		ctx = context.WithValue(ctx, OutletKey, outletID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireCapability gates a handler behind the capability table.
func (m *AuthMiddleware) RequireCapability(capability domain.Capability, next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		auth, ok := domain.AuthorizationFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "missing authorization context")
			return
		}
		if err := domain.Require(auth, capability); err != nil {
			RespondAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) parseAccount(r *http.Request) (domain.Account, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Account{}, errors.New("authorization header required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.Account{}, errors.New("invalid authorization header format")
	}

	claims := &accountClaims{}
	token, err := jwtlib.ParseWithClaims(parts[1], claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.jwtSecret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Account{}, errors.New("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Account{}, errors.New("invalid token subject")
	}
	return domain.Account{ID: sub, Role: claims.Role, Permissions: claims.Permissions}, nil
}

// OutletFromContext reads the request outlet set by Authenticate.
func OutletFromContext(ctx context.Context) string {
	outletID, _ := ctx.Value(OutletKey).(string)
	return outletID
}

// AccountFromContext reads the primary account set by Authenticate.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	account, ok := ctx.Value(AccountKey).(domain.Account)
	return account, ok
}

// RespondAuthError maps a resolver or capability error to the stable
// 401/403 contract, treating anything unexpected as a 500.
func RespondAuthError(w http.ResponseWriter, err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		respondError(w, authErr.Status, authErr.Message)
		return
	}
	respondError(w, http.StatusInternalServerError, "internal error")
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
