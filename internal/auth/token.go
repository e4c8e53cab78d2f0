// Package auth holds the security primitives: password hashing and the
// signed-token codec used for bearer authentication.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-api-starter/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	// ErrTokenExpired means the token was well formed and correctly
	// signed but its expiry has elapsed. Callers may prompt re-login.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: bad signature, malformed
	// payload, wrong signing method, or wrong token type.
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenIssuer signs and verifies HS256 tokens with a single process-wide
// secret. There is no key rotation.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// CreateToken encodes the subject, role and token type into a signed
// string expiring after ttl.
func (i *TokenIssuer) CreateToken(subject string, role string, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"typ":  tokenType,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString(i.secret)
}

// DecodeToken verifies signature, expiry and token type, and returns the
// embedded claims. Expired and otherwise-invalid tokens are signalled
// with distinct errors.
func (i *TokenIssuer) DecodeToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.Type, _ = claimsMap["typ"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	if expectedType != "" && claims.Type != expectedType {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
