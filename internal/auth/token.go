package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for every rejection cause: malformed
// string, bad signature, or expiry. Callers must not distinguish them in
// client-facing output; the wrapped cause is for logs only.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the signed claim set. Role is a snapshot of the account's role at
// issuance time and stays valid for the token's whole lifetime even if the
// account's role changes afterwards.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Principal is the verified identity recovered from a token.
type Principal struct {
	AccountID int64
	Role      string
}

// TokenManager issues and verifies signed bearer tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue signs a token for the account with the given role claim, expiring
// after the configured lifetime. There is no revocation: the token stays
// usable until expiry or until the client discards it.
func (t *TokenManager) Issue(accountID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify validates signature and expiry and recovers the principal. Any
// failure surfaces as ErrInvalidToken.
func (t *TokenManager) Verify(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: non-numeric subject", ErrInvalidToken)
	}
	return Principal{AccountID: accountID, Role: claims.Role}, nil
}
