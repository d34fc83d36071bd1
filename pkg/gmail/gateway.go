package gmail

import (
	"context"
	"log"

	authdomain "inbox-backend/internal/auth/domain"
	"inbox-backend/pkg/logging"
)

// Gateway runs mail operations on behalf of a LinkedAccount, recovering once
// from a stale access token.
type Gateway struct {
	refresher *Refresher
	factory   ClientFactory
}

func NewGateway(refresher *Refresher, factory ClientFactory) *Gateway {
	return &Gateway{
		refresher: refresher,
		factory:   factory,
	}
}

// Do runs op with the account's current credentials. If op fails with an
// auth failure and a refresh token is present, the token is force-refreshed
// and op runs exactly once more. Any other failure, or a failure of the
// retry, is returned unchanged.
func (g *Gateway) Do(ctx context.Context, account *authdomain.LinkedAccount, op func(ctx context.Context, client MailClient) error) error {
	creds, err := g.refresher.Credentials(ctx, account)
	if err != nil {
		return err
	}

	client, err := g.factory.NewClient(ctx, creds)
	if err != nil {
		return err
	}

	err = op(ctx, client)
	if err == nil {
		return nil
	}
	if !IsAuthFailure(err) || creds.RefreshToken == "" {
		return err
	}

	log.Printf("%s[WARN] Gmail rejected credentials for account %s (%v), refreshing and retrying once", logging.Prefix(ctx), account.ID, err)

	creds, err = g.refresher.ForceRefresh(ctx, account)
	if err != nil {
		return err
	}

	client, err = g.factory.NewClient(ctx, creds)
	if err != nil {
		return err
	}
	return op(ctx, client)
}
