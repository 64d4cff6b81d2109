package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "taskmind.com/taskmind/internal/errors"
)

// Claims carries only the account identifier. Tokens are issued without an
// expiry claim; verification is a pure function of the token and the secret.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
}

type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) Issue(accountID string) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		AccountID: accountID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify returns the account id embedded in the token, or ErrInvalidToken
// when the token is missing, malformed, or fails signature verification.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperrors.ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return "", apperrors.ErrInvalidToken
	}

	return claims.AccountID, nil
}
