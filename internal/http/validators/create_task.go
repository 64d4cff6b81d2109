package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmind.com/taskmind/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}
