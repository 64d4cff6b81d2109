package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmind.com/taskmind/internal/data_models"
	apperrors "taskmind.com/taskmind/internal/errors"
	middleware "taskmind.com/taskmind/internal/http/middlewares"
	"taskmind.com/taskmind/internal/http/validators"
	"taskmind.com/taskmind/internal/services"
)

type Handler struct {
	authService *services.AuthService
	taskService *services.TaskService
}

func NewHandler(authService *services.AuthService, taskService *services.TaskService) *Handler {
	return &Handler{
		authService: authService,
		taskService: taskService,
	}
}

func (h *Handler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateSignupRequest(&req); err != nil {
		return err
	}

	account, token, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.UserPayload{ID: account.ID, Email: account.Email},
	})
}

func (h *Handler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateLoginRequest(&req); err != nil {
		return err
	}

	account, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.UserPayload{ID: account.ID, Email: account.Email},
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.Create(
		c.Request().Context(),
		middleware.AccountID(c),
		req.Title,
		req.Description,
		req.DueDate,
	)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.List(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id := c.Param("id")

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.taskService.Update(c.Request().Context(), middleware.AccountID(c), id, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	err := h.taskService.Delete(c.Request().Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

func (h *Handler) PredictTime(c echo.Context) error {
	estimate, err := h.taskService.PredictTime(c.Request().Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.PredictTimeResponse{Estimate: estimate})
}

func (h *Handler) GenerateProcedure(c echo.Context) error {
	procedure, err := h.taskService.GenerateProcedure(c.Request().Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ProcedureResponse{Procedure: procedure})
}

func httpError(err error) error {
	var ex *apperrors.Exception
	if errors.As(err, &ex) {
		return echo.NewHTTPError(ex.StatusCode, ex.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
