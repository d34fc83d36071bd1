package repository

import (
	"context"

	authdomain "inbox-backend/internal/auth/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	Update(ctx context.Context, user *authdomain.User) error
}

// LinkedAccountRepository defines the interface for OAuth credential persistence
type LinkedAccountRepository interface {
	FindByUserAndProvider(ctx context.Context, userID, provider string) (*authdomain.LinkedAccount, error)
	FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*authdomain.LinkedAccount, error)
	// Upsert creates the account or replaces its credentials, keyed by
	// (provider, providerAccountID).
	Upsert(ctx context.Context, account *authdomain.LinkedAccount) error
	// SaveCredentials writes the token fields of the account, including
	// NULLs, and nothing else.
	SaveCredentials(ctx context.Context, account *authdomain.LinkedAccount) error
}
