package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopedClaims are the claims of tokens issued by this service. Tenant scopes the token;
// Subject is the actor for access tokens and the storage key for file tokens.
type ScopedClaims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for subject within tenant, valid for ttl from now.
func GenerateJWT(subject, tenantID, secret, issuer string, ttl time.Duration, now time.Time) (string, error) {
	claims := ScopedClaims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT checks signature, issuer (when set) and time claims against now.
func ParseAndValidateJWT(tokenString, secret, issuer string, now time.Time) (*ScopedClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &ScopedClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return nil, errors.New("token lacks subject or tenant")
	}
	return claims, nil
}
