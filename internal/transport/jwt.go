package transport

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tenantClaims struct {
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver resolves tenants from HS256-signed tokens. The tenant is read
// from the tenant_id claim, falling back to the subject.
type JWTResolver struct {
	secret []byte
	issuer string
}

// NewJWTResolver creates a resolver for tokens signed with secret.
// When issuer is non-empty the iss claim must match it.
func NewJWTResolver(secret []byte, issuer string) *JWTResolver {
	return &JWTResolver{secret: secret, issuer: issuer}
}

// ResolveTenant implements TenantResolver.
func (r *JWTResolver) ResolveTenant(_ context.Context, token string) (string, error) {
	if len(r.secret) == 0 {
		return "", ErrUnauthorized
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	claims := &tenantClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", ErrUnauthorized
	}

	tenantID := claims.TenantID
	if tenantID == "" {
		tenantID = claims.Subject
	}
	if tenantID == "" {
		return "", ErrUnauthorized
	}
	return tenantID, nil
}

// Issue signs a token for tenantID that expires after ttl.
func (r *JWTResolver) Issue(tenantID string, ttl time.Duration) (string, error) {
	if len(r.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := tenantClaims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID,
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}
