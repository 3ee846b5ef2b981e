package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/payments"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/security"
)

type authService struct {
	userRepo  repository.UserRepository
	tokens    security.TokenManager
	processor payments.Processor
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, processor payments.Processor) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, processor: processor}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, "", fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
	}

	// A payout account is provisioned up front so the user can lend
	// without a second onboarding step. Failure is not fatal.
	if accountID, err := s.processor.CreateAccount(ctx, email); err == nil {
		user.PayoutAccountID = accountID
	} else {
		logger.Warn("payout account creation failed", "email", email, "error", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, "", fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
