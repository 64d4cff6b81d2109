package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskmind.com/taskmind/internal/auth"
	apperrors "taskmind.com/taskmind/internal/errors"
	model "taskmind.com/taskmind/internal/models"
	repository "taskmind.com/taskmind/internal/repositories"
)

type AuthService struct {
	accounts *repository.AccountRepository
	tokens   *auth.TokenService
	logger   *zap.Logger
}

func NewAuthService(
	accounts *repository.AccountRepository,
	tokens *auth.TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (*model.Account, string, error) {
	_, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", apperrors.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	account, err := s.accounts.Create(ctx, email, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("account created", zap.String("account_id", account.ID))

	return account, token, nil
}

// Login reports the same error for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}
