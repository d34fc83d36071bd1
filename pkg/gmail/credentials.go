package gmail

import (
	"context"
	"time"

	authdomain "inbox-backend/internal/auth/domain"
	emaildomain "inbox-backend/internal/email/domain"

	"golang.org/x/oauth2"
)

// Credentials is the in-memory view of a LinkedAccount's tokens. It is
// never persisted directly.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiryMillis int64
}

func credentialsFromAccount(account *authdomain.LinkedAccount) *Credentials {
	creds := &Credentials{}
	if account.AccessToken != nil {
		creds.AccessToken = *account.AccessToken
	}
	if account.RefreshToken != nil {
		creds.RefreshToken = *account.RefreshToken
	}
	if account.ExpiresAt != nil {
		creds.ExpiryMillis = *account.ExpiresAt * 1000
	}
	return creds
}

// OAuthToken converts the credentials for use with an HTTP transport.
func (c *Credentials) OAuthToken() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
	}
	if c.ExpiryMillis > 0 {
		token.Expiry = time.UnixMilli(c.ExpiryMillis)
	}
	return token
}

// MailClient is the narrow Gmail surface the inbox needs.
type MailClient interface {
	ListMessageIDs(ctx context.Context, labelIDs []string, maxResults int64) ([]string, error)
	GetMessageMetadata(ctx context.Context, id string) (*emaildomain.MessageSummary, error)
	ModifyLabels(ctx context.Context, id string, addLabelIDs, removeLabelIDs []string) error
	TrashMessage(ctx context.Context, id string) error
}

// ClientFactory builds a MailClient bound to one set of credentials.
type ClientFactory interface {
	NewClient(ctx context.Context, creds *Credentials) (MailClient, error)
}

// TokenSource performs the provider's refresh-token grant.
type TokenSource interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// CredentialStore persists the token fields of a LinkedAccount.
type CredentialStore interface {
	SaveCredentials(ctx context.Context, account *authdomain.LinkedAccount) error
}
