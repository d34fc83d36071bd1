package repository

import (
	"context"
	"errors"
	"time"

	authdomain "inbox-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type linkedAccountRepository struct {
	db *gorm.DB
}

func NewLinkedAccountRepository(db *gorm.DB) LinkedAccountRepository {
	return &linkedAccountRepository{
		db: db,
	}
}

func (r *linkedAccountRepository) FindByUserAndProvider(ctx context.Context, userID, provider string) (*authdomain.LinkedAccount, error) {
	var account authdomain.LinkedAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Order("updated_at DESC").
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *linkedAccountRepository) FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*authdomain.LinkedAccount, error) {
	var account authdomain.LinkedAccount
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// Upsert inserts the account or, on a (provider, provider_account_id)
// conflict, overwrites owner, tokens and scope (atomic upsert)
func (r *linkedAccountRepository) Upsert(ctx context.Context, account *authdomain.LinkedAccount) error {
	now := time.Now()
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "access_token", "refresh_token", "expires_at", "scope", "updated_at"}),
	}).Create(account).Error
}

func (r *linkedAccountRepository) SaveCredentials(ctx context.Context, account *authdomain.LinkedAccount) error {
	// A map is used so that nil pointers are written as NULL; struct
	// Updates would skip them.
	return r.db.WithContext(ctx).
		Model(&authdomain.LinkedAccount{}).
		Where("provider = ? AND provider_account_id = ?", account.Provider, account.ProviderAccountID).
		Updates(map[string]interface{}{
			"access_token":  account.AccessToken,
			"refresh_token": account.RefreshToken,
			"expires_at":    account.ExpiresAt,
			"updated_at":    time.Now(),
		}).Error
}
