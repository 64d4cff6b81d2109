package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const AccountIDKey = "account_id"

// TokenVerifier resolves a bearer token to the account id it embeds.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthRequired accepts the token either as "Bearer <token>" or raw in the
// Authorization header.
func AuthRequired(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			accountID, err := tokens.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(AccountIDKey, accountID)
			return next(c)
		}
	}
}

func AccountID(c echo.Context) string {
	id, _ := c.Get(AccountIDKey).(string)
	return id
}
