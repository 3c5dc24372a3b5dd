// Package auth issues and verifies the HS256 JWTs used as access and
// refresh credentials.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/chyrp/internal/common"
)

// Claims carries the registered claims plus the token type
// (common.TokenTypeAccess or common.TokenTypeRefresh). Subject is the user id
// and ID is a random jti used for revocation.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", common.ErrInvalidToken)
	}
	return id, nil
}

// ExpiresAtTime returns the exp claim or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// GenerateToken signs a token of tokenType for userID valid for validity.
func GenerateToken(userID int64, tokenType string, secretKey []byte, validity time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Type: tokenType,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// ParseToken verifies tokenString and checks that it is of wantType.
// Expired tokens yield common.ErrTokenExpired, anything else wrong
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte, wantType string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("%w: want %s token", common.ErrInvalidToken, wantType)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", common.ErrInvalidToken)
	}
	return claims, nil
}
