package token

import (
	"errors"
	"fmt"
	"time"

	autherrors "dayflow/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims carries the principal fields the middleware needs, so requests are
// authorized without a user lookup.
type Claims struct {
	UserID     string `json:"user_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Role       string `json:"role"`
	Kind       string `json:"kind"`
	jwt.RegisteredClaims
}

func Issue(secret string, c Claims, ttl time.Duration, now time.Time) (string, error) {
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	c.Subject = c.UserID

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", c.Kind, err)
	}
	return signed, nil
}

// Parse validates signature, expiry and kind.
func Parse(secret, raw, kind string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken
	}
	if !tok.Valid || claims.UserID == "" || claims.Kind != kind {
		return nil, autherrors.ErrInvalidToken
	}
	return &claims, nil
}
