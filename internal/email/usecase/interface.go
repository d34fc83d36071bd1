package usecase

import (
	"context"

	authdomain "inbox-backend/internal/auth/domain"
	emaildomain "inbox-backend/internal/email/domain"
	"inbox-backend/pkg/gmail"
)

// EmailUsecase defines the interface for email use cases
type EmailUsecase interface {
	// GetRecentEmails lists the most recent messages, optionally filtered by
	// label, in upstream order.
	GetRecentEmails(ctx context.Context, userID, label string) ([]*emaildomain.MessageSummary, error)
	StarEmail(ctx context.Context, userID, emailID string) error
	UnstarEmail(ctx context.Context, userID, emailID string) error
	TrashEmail(ctx context.Context, userID, emailID string) error
}

// MailGateway runs an operation against the user's mailbox with credential
// refresh and a single retry.
type MailGateway interface {
	Do(ctx context.Context, account *authdomain.LinkedAccount, op func(ctx context.Context, client gmail.MailClient) error) error
}
