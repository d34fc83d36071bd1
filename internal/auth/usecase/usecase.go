package usecase

import (
	"context"
	"errors"

	authdomain "inbox-backend/internal/auth/domain"
	authdto "inbox-backend/internal/auth/dto"
	"inbox-backend/pkg/gmail"

	"golang.org/x/oauth2"
)

var (
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncompleteIdentity = errors.New("google identity is missing subject or email")
	ErrProviderFailure    = errors.New("google provider request failed")
)

// GoogleProvider is the part of the Google client used by the link flow.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*gmail.Identity, error)
}

// AuthUsecase defines the interface for session and account linking use cases
type AuthUsecase interface {
	GoogleAuthURL(state string) string
	// CompleteGoogleLink exchanges the code, upserts the user and the linked
	// account and returns a signed session token.
	CompleteGoogleLink(ctx context.Context, code string) (*authdomain.User, string, error)
	IssueSession(user *authdomain.User) (string, error)
	ValidateSession(tokenString string) (*authdomain.SessionClaims, error)
	Me(ctx context.Context, userID string) (*authdto.MeResponse, error)
}
