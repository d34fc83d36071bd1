package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	authdomain "inbox-backend/internal/auth/domain"
	authrepo "inbox-backend/internal/auth/repository"
	emaildomain "inbox-backend/internal/email/domain"
	"inbox-backend/pkg/gmail"
	"inbox-backend/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentMetadata bounds the per-request fan-out of metadata fetches.
const maxConcurrentMetadata = 10

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	accountRepo authrepo.LinkedAccountRepository
	gateway     MailGateway
	recentLimit int64
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(accountRepo authrepo.LinkedAccountRepository, gateway MailGateway, recentLimit int64) EmailUsecase {
	if recentLimit <= 0 {
		recentLimit = 15
	}
	return &emailUsecase{
		accountRepo: accountRepo,
		gateway:     gateway,
		recentLimit: recentLimit,
	}
}

func (u *emailUsecase) resolveAccount(ctx context.Context, userID string) (*authdomain.LinkedAccount, error) {
	account, err := u.accountRepo.FindByUserAndProvider(ctx, userID, authdomain.ProviderGoogle)
	if err != nil {
		return nil, fmt.Errorf("load linked account: %w", err)
	}
	if !account.IsLinked() {
		return nil, gmail.ErrAccountNotLinked
	}
	return account, nil
}

func (u *emailUsecase) GetRecentEmails(ctx context.Context, userID, label string) ([]*emaildomain.MessageSummary, error) {
	var labelIDs []string
	if strings.TrimSpace(label) != "" {
		parsed, err := emaildomain.ParseLabel(label)
		if err != nil {
			return nil, err
		}
		labelIDs = []string{parsed.GmailLabelID()}
	}

	account, err := u.resolveAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	var messages []*emaildomain.MessageSummary
	// List and metadata run inside one gateway call so that a stale token
	// discovered during the fan-out retries the whole listing.
	err = u.gateway.Do(ctx, account, func(ctx context.Context, client gmail.MailClient) error {
		ids, err := client.ListMessageIDs(ctx, labelIDs, u.recentLimit)
		if err != nil {
			return err
		}

		results := make([]*emaildomain.MessageSummary, len(ids))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentMetadata)
		for i, id := range ids {
			g.Go(func() error {
				summary, err := client.GetMessageMetadata(gctx, id)
				if err != nil {
					return err
				}
				results[i] = summary
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		messages = results
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("%s[DEBUG] Fetched %d recent messages for user %s (labels=%v)", logging.Prefix(ctx), len(messages), userID, labelIDs)
	return messages, nil
}

func (u *emailUsecase) StarEmail(ctx context.Context, userID, emailID string) error {
	return u.modify(ctx, userID, emailID, []string{emaildomain.LabelIDStarred}, nil)
}

func (u *emailUsecase) UnstarEmail(ctx context.Context, userID, emailID string) error {
	return u.modify(ctx, userID, emailID, nil, []string{emaildomain.LabelIDStarred})
}

func (u *emailUsecase) TrashEmail(ctx context.Context, userID, emailID string) error {
	return u.withMessage(ctx, userID, emailID, func(ctx context.Context, client gmail.MailClient, id string) error {
		return client.TrashMessage(ctx, id)
	})
}

func (u *emailUsecase) modify(ctx context.Context, userID, emailID string, add, remove []string) error {
	return u.withMessage(ctx, userID, emailID, func(ctx context.Context, client gmail.MailClient, id string) error {
		return client.ModifyLabels(ctx, id, add, remove)
	})
}

func (u *emailUsecase) withMessage(ctx context.Context, userID, emailID string, op func(ctx context.Context, client gmail.MailClient, id string) error) error {
	emailID = strings.TrimSpace(emailID)
	if emailID == "" {
		return emaildomain.ErrEmailIDRequired
	}

	account, err := u.resolveAccount(ctx, userID)
	if err != nil {
		return err
	}

	return u.gateway.Do(ctx, account, func(ctx context.Context, client gmail.MailClient) error {
		return op(ctx, client, emailID)
	})
}
