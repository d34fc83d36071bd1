package gmail

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	emaildomain "inbox-backend/internal/email/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const user = "me"

// Scopes requested when a user links their Google account.
var Scopes = []string{
	gmail.GmailModifyScope,
	oauth2api.OpenIDScope,
	oauth2api.UserinfoEmailScope,
	oauth2api.UserinfoProfileScope,
}

// Service talks to Google: the OAuth token endpoint and the Gmail API.
type Service struct {
	clientID     string
	clientSecret string
	redirectURI  string
	endpoint     oauth2.Endpoint
	limiter      *rate.Limiter
	apiOptions   []option.ClientOption
}

type Option func(*Service)

// WithRateLimit throttles outbound Gmail calls across all users.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Service) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithOAuthEndpoint overrides the Google OAuth endpoint.
func WithOAuthEndpoint(endpoint oauth2.Endpoint) Option {
	return func(s *Service) {
		s.endpoint = endpoint
	}
}

// WithAPIOptions appends client options used for every Google API service,
// e.g. option.WithEndpoint.
func WithAPIOptions(opts ...option.ClientOption) Option {
	return func(s *Service) {
		s.apiOptions = append(s.apiOptions, opts...)
	}
}

func NewService(clientID, clientSecret, redirectURI string, opts ...Option) *Service {
	s := &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		endpoint:     google.Endpoint,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OAuthConfig returns the OAuth2 config of the Google client.
func (s *Service) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  s.redirectURI,
		Scopes:       Scopes,
		Endpoint:     s.endpoint,
	}
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	// A token without an access token is never Valid, so the source always
	// hits the token endpoint.
	src := s.OAuthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return src.Token()
}

// NewClient builds a Gmail client bound to creds. The transport uses a
// static token source: refreshing is left to the Refresher so that new
// tokens are always persisted.
func (s *Service) NewClient(ctx context.Context, creds *Credentials) (MailClient, error) {
	srv, err := s.GetGmailService(ctx, creds)
	if err != nil {
		return nil, err
	}
	return &gmailClient{srv: srv, limiter: s.limiter}, nil
}

// GetGmailService creates a Gmail service with the user's access token
func (s *Service) GetGmailService(ctx context.Context, creds *Credentials) (*gmail.Service, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(creds.OAuthToken()))

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, s.apiOptions...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

type gmailClient struct {
	srv     *gmail.Service
	limiter *rate.Limiter
}

func (g *gmailClient) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	return nil
}

func (g *gmailClient) ListMessageIDs(ctx context.Context, labelIDs []string, maxResults int64) ([]string, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	call := g.srv.Users.Messages.List(user).MaxResults(maxResults)
	if len(labelIDs) > 0 {
		call = call.LabelIds(labelIDs...)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		if msg.Id != "" {
			ids = append(ids, msg.Id)
		}
	}
	return ids, nil
}

func (g *gmailClient) GetMessageMetadata(ctx context.Context, id string) (*emaildomain.MessageSummary, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	msg, err := g.srv.Users.Messages.Get(user, id).
		Format("metadata").
		MetadataHeaders(emaildomain.MetadataHeaders...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", id, err)
	}
	return convertMessageToSummary(id, msg), nil
}

func (g *gmailClient) ModifyLabels(ctx context.Context, id string, addLabelIDs, removeLabelIDs []string) error {
	if err := g.wait(ctx); err != nil {
		return err
	}

	req := &gmail.ModifyMessageRequest{}
	if len(addLabelIDs) > 0 {
		req.AddLabelIds = addLabelIDs
	}
	if len(removeLabelIDs) > 0 {
		req.RemoveLabelIds = removeLabelIDs
	}

	if _, err := g.srv.Users.Messages.Modify(user, id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to modify message labels: %w", err)
	}
	return nil
}

func (g *gmailClient) TrashMessage(ctx context.Context, id string) error {
	if err := g.wait(ctx); err != nil {
		return err
	}

	if _, err := g.srv.Users.Messages.Trash(user, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to trash message: %w", err)
	}
	return nil
}

// Helper functions

func convertMessageToSummary(id string, msg *gmail.Message) *emaildomain.MessageSummary {
	var headers []*gmail.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	summary := &emaildomain.MessageSummary{
		ID:       id,
		ThreadID: optional(msg.ThreadId),
		Snippet:  html.UnescapeString(msg.Snippet),
		From:     getHeader(headers, "From"),
		To:       getHeader(headers, "To"),
		Subject:  getHeader(headers, "Subject"),
		Date:     getHeader(headers, "Date"),
		LabelIDs: msg.LabelIds,
	}
	if msg.InternalDate != 0 {
		internalDate := strconv.FormatInt(msg.InternalDate, 10)
		summary.InternalDate = &internalDate
		summary.TimeSent = &internalDate
	}
	if summary.LabelIDs == nil {
		summary.LabelIDs = []string{}
	}
	return summary
}

func getHeader(headers []*gmail.MessagePartHeader, name string) *string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			value := header.Value
			return &value
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
