package gmail

import (
	"context"
	"fmt"
	"log"
	"time"

	authdomain "inbox-backend/internal/auth/domain"
	"inbox-backend/pkg/logging"
)

// RefreshSkew is how long a token must stay valid for it to be used as is.
const RefreshSkew = 30 * time.Second

// Refresher hands out usable credentials for a LinkedAccount, refreshing and
// persisting them when they are about to expire.
type Refresher struct {
	store  CredentialStore
	source TokenSource
	now    func() time.Time
}

func NewRefresher(store CredentialStore, source TokenSource) *Refresher {
	return &Refresher{
		store:  store,
		source: source,
		now:    time.Now,
	}
}

// Credentials returns credentials valid for at least RefreshSkew, refreshing
// when needed and possible. Without a refresh token the stored credentials
// are returned as they are.
func (r *Refresher) Credentials(ctx context.Context, account *authdomain.LinkedAccount) (*Credentials, error) {
	if !account.IsLinked() {
		return nil, ErrAccountNotLinked
	}
	if !r.needsRefresh(account) || !account.HasRefreshToken() {
		return credentialsFromAccount(account), nil
	}
	return r.refresh(ctx, account)
}

// ForceRefresh refreshes regardless of the stored expiry.
func (r *Refresher) ForceRefresh(ctx context.Context, account *authdomain.LinkedAccount) (*Credentials, error) {
	if !account.IsLinked() {
		return nil, ErrAccountNotLinked
	}
	if !account.HasRefreshToken() {
		return nil, fmt.Errorf("force refresh: %w", ErrAccountNotLinked)
	}
	return r.refresh(ctx, account)
}

func (r *Refresher) needsRefresh(account *authdomain.LinkedAccount) bool {
	if account.AccessToken == nil || *account.AccessToken == "" || account.ExpiresAt == nil {
		return true
	}
	expiry := time.Unix(*account.ExpiresAt, 0)
	return r.now().After(expiry.Add(-RefreshSkew))
}

// refresh performs exactly one provider call and at most one store write.
// The account is updated in place.
func (r *Refresher) refresh(ctx context.Context, account *authdomain.LinkedAccount) (*Credentials, error) {
	prefix := logging.Prefix(ctx)

	token, err := r.source.Refresh(ctx, *account.RefreshToken)
	if err != nil {
		if isRevokedGrant(err) {
			log.Printf("%s[WARN] Refresh token revoked for account %s, clearing credentials", prefix, account.ID)
			account.ClearCredentials()
			if saveErr := r.store.SaveCredentials(ctx, account); saveErr != nil {
				return nil, fmt.Errorf("clear revoked credentials: %w", saveErr)
			}
			return nil, ErrReLinkRequired
		}
		return nil, fmt.Errorf("refresh access token: %w", err)
	}

	if token.AccessToken != "" {
		accessToken := token.AccessToken
		account.AccessToken = &accessToken
	}
	if token.RefreshToken != "" && token.RefreshToken != *account.RefreshToken {
		log.Printf("%s[DEBUG] Rotating refresh token for account %s", prefix, account.ID)
		refreshToken := token.RefreshToken
		account.RefreshToken = &refreshToken
	}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.UnixMilli() / 1000
		account.ExpiresAt = &expiresAt
	}

	if err := r.store.SaveCredentials(ctx, account); err != nil {
		return nil, fmt.Errorf("persist refreshed credentials: %w", err)
	}

	log.Printf("%s[DEBUG] Refreshed Google token for account %s", prefix, account.ID)
	return credentialsFromAccount(account), nil
}
