package http

import (
	"github.com/labstack/echo/v4"
)

func Register(e *echo.Echo, h *Handler, authRequired echo.MiddlewareFunc) {
	e.POST("/auth/signup", h.Signup)
	e.POST("/auth/login", h.Login)

	tasks := e.Group("/tasks", authRequired)
	tasks.POST("", h.CreateTask)
	tasks.GET("", h.ListTasks)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)
	tasks.POST("/:id/predict-time", h.PredictTime)
	tasks.POST("/:id/generate-procedure", h.GenerateProcedure)
}
