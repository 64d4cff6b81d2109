package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "taskmind.com/taskmind/internal/data_models"
)

func ValidateSignupRequest(r *dto.SignupRequest) error {
	if r.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "email is invalid")
	}
	if r.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	return nil
}

func ValidateLoginRequest(r *dto.LoginRequest) error {
	if r.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	if r.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	return nil
}
