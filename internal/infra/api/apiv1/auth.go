package apiv1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/usecase"
)

// ===== Session/JWT primitives =====

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthManager struct {
	secret      []byte
	internalKey string
	ttl         time.Duration
}

func NewAuthManager(secret, internalKey string, ttl time.Duration) *AuthManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthManager{secret: []byte(secret), internalKey: internalKey, ttl: ttl}
}

// Mint issues a signed session token for a user. Used by the seed tool and
// tests; the real login flow lives in the identity service upstream.
func (a *AuthManager) Mint(userID string, role model.Role) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// IdentityFromRequest builds the session identity for a request. Order
// matters: the internal service credential wins over a bearer token so the
// reconciler and webhook paths never depend on a user session.
func (a *AuthManager) IdentityFromRequest(r *http.Request) (usecase.Identity, error) {
	if key := r.Header.Get("X-Internal-Key"); key != "" {
		if a.internalKey != "" && key == a.internalKey {
			return usecase.InternalCaller, nil
		}
		return usecase.Identity{}, errors.New("invalid internal key")
	}
	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return usecase.Identity{}, errors.New("missing token")
	}
	claims, err := a.parse(strings.TrimSpace(hdr[7:]))
	if err != nil {
		return usecase.Identity{}, err
	}
	return usecase.Identity{UserID: claims.Subject, Role: model.Role(claims.Role)}, nil
}

// ===== request-scoped identity =====

type identityKey struct{}

// RequireAuth rejects requests without a valid session and stores the
// identity in the request context for handlers.
func (a *AuthManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.IdentityFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFrom(ctx context.Context) usecase.Identity {
	if id, ok := ctx.Value(identityKey{}).(usecase.Identity); ok {
		return id
	}
	return usecase.Identity{}
}
