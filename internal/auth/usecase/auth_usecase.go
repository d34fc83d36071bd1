package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	authdomain "inbox-backend/internal/auth/domain"
	authdto "inbox-backend/internal/auth/dto"
	"inbox-backend/internal/auth/repository"
	"inbox-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo    repository.UserRepository
	accountRepo repository.LinkedAccountRepository
	google      GoogleProvider
	config      *config.Config
	now         func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, accountRepo repository.LinkedAccountRepository, google GoogleProvider, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		google:      google,
		config:      cfg,
		now:         time.Now,
	}
}

func (u *authUsecase) GoogleAuthURL(state string) string {
	return u.google.AuthCodeURL(state)
}

func (u *authUsecase) CompleteGoogleLink(ctx context.Context, code string) (*authdomain.User, string, error) {
	token, err := u.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange authorization code: %w: %w", ErrProviderFailure, err)
	}

	identity, err := u.google.FetchIdentity(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("fetch google identity: %w: %w", ErrProviderFailure, err)
	}
	if identity.Subject == "" || identity.Email == "" {
		return nil, "", ErrIncompleteIdentity
	}

	// Find or create user
	user, err := u.userRepo.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, "", err
	}

	if user == nil {
		user = &authdomain.User{
			Email:     identity.Email,
			Name:      identity.Name,
			AvatarURL: identity.AvatarURL,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}
	} else {
		user.Name = identity.Name
		user.AvatarURL = identity.AvatarURL
		if err := u.userRepo.Update(ctx, user); err != nil {
			return nil, "", fmt.Errorf("update user: %w", err)
		}
	}

	existing, err := u.accountRepo.FindByProviderAccount(ctx, authdomain.ProviderGoogle, identity.Subject)
	if err != nil {
		return nil, "", err
	}

	account := linkedAccountFromToken(user.ID, identity.Subject, token)
	if existing != nil {
		account.ID = existing.ID
		account.CreatedAt = existing.CreatedAt
		// Google only returns a refresh token on first consent.
		if account.RefreshToken == nil {
			account.RefreshToken = existing.RefreshToken
		}
	}

	if err := u.accountRepo.Upsert(ctx, account); err != nil {
		return nil, "", fmt.Errorf("save linked account: %w", err)
	}

	log.Printf("[DEBUG] Linked Google account %s to user %s (refresh token: %v)", identity.Subject, user.ID, account.HasRefreshToken())

	session, err := u.IssueSession(user)
	if err != nil {
		return nil, "", err
	}
	return user, session, nil
}

func linkedAccountFromToken(userID, subject string, token *oauth2.Token) *authdomain.LinkedAccount {
	account := &authdomain.LinkedAccount{
		UserID:            userID,
		Provider:          authdomain.ProviderGoogle,
		ProviderAccountID: subject,
	}
	if token.AccessToken != "" {
		accessToken := token.AccessToken
		account.AccessToken = &accessToken
	}
	if token.RefreshToken != "" {
		refreshToken := token.RefreshToken
		account.RefreshToken = &refreshToken
	}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.Unix()
		account.ExpiresAt = &expiresAt
	}
	if scope, ok := token.Extra("scope").(string); ok {
		account.Scope = scope
	}
	return account
}

func (u *authUsecase) IssueSession(user *authdomain.User) (string, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(u.config.SessionExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateSession(tokenString string) (*authdomain.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(u.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidSession
	}
	email, _ := claims["email"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidSession
	}

	return &authdomain.SessionClaims{
		UserID:    userID,
		Email:     email,
		ExpiresAt: exp.Time,
	}, nil
}

func (u *authUsecase) Me(ctx context.Context, userID string) (*authdto.MeResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	account, err := u.accountRepo.FindByUserAndProvider(ctx, userID, authdomain.ProviderGoogle)
	if err != nil {
		return nil, err
	}

	return &authdto.MeResponse{
		User:         user,
		GoogleLinked: account.IsLinked(),
	}, nil
}
