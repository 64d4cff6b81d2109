package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskmind.com/taskmind/internal/ai"
	"taskmind.com/taskmind/internal/auth"
	config "taskmind.com/taskmind/internal/configs"
	httpapi "taskmind.com/taskmind/internal/http"
	middleware "taskmind.com/taskmind/internal/http/middlewares"
	repository "taskmind.com/taskmind/internal/repositories"
	"taskmind.com/taskmind/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task tracker HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		logger := config.NewLogger(cfg.LogLevel)
		defer logger.Sync()

		database := config.NewDatabaseClient(cfg.DatabaseDSN)
		accountRepo := repository.NewAccountRepository(database)
		taskRepo := repository.NewTaskRepository(database)

		tokens := auth.NewTokenService(cfg.JWTSecret)
		generator := ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: time.Duration(cfg.AITimeoutSeconds) * time.Second,
		}, logger)

		authService := services.NewAuthService(accountRepo, tokens, logger)
		taskService := services.NewTaskService(taskRepo, generator, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()
		e.HideBanner = true

		if cfg.RedisAddr != "" {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			e.Use(middleware.RedisRateLimiter(redisClient, cfg.RedisRateLimitPrefix, cfg.RateLimit, time.Minute))
		} else {
			e.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))
		}

		handler := httpapi.NewHandler(authService, taskService)
		httpapi.Register(e, handler, middleware.AuthRequired(tokens))

		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.AppURL))
			if err := e.Start(cfg.AppURL); err != nil {
				logger.Info("server stopped", zap.Error(err))
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
