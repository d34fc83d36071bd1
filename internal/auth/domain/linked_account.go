package domain

import "time"

const ProviderGoogle = "google"

// LinkedAccount stores the OAuth credential set of a user for one provider.
// Token fields are nullable: all three are cleared when the provider revokes
// the grant and the user has to re-link.
type LinkedAccount struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"user_id" gorm:"index;not null"`
	Provider          string    `json:"provider" gorm:"uniqueIndex:idx_provider_account;not null"`
	ProviderAccountID string    `json:"provider_account_id" gorm:"uniqueIndex:idx_provider_account;not null"`
	AccessToken       *string   `json:"-"`
	RefreshToken      *string   `json:"-"`
	ExpiresAt         *int64    `json:"expires_at"` // epoch seconds
	Scope             string    `json:"scope"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (LinkedAccount) TableName() string {
	return "linked_accounts"
}

// IsLinked reports whether the account carries a usable access token.
func (a *LinkedAccount) IsLinked() bool {
	return a != nil && a.AccessToken != nil && *a.AccessToken != ""
}

func (a *LinkedAccount) HasRefreshToken() bool {
	return a != nil && a.RefreshToken != nil && *a.RefreshToken != ""
}

// ClearCredentials tombstones the token fields.
func (a *LinkedAccount) ClearCredentials() {
	a.AccessToken = nil
	a.RefreshToken = nil
	a.ExpiresAt = nil
}
