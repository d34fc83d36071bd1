package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "inbox-backend/internal/auth/domain"
	authdto "inbox-backend/internal/auth/dto"
	authUsecase "inbox-backend/internal/auth/usecase"
	emaildomain "inbox-backend/internal/email/domain"
	"inbox-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type stubAuth struct{}

func (stubAuth) GoogleAuthURL(state string) string { return "https://accounts.example.com/" }

func (stubAuth) CompleteGoogleLink(ctx context.Context, code string) (*authdomain.User, string, error) {
	return nil, "", nil
}

func (stubAuth) IssueSession(user *authdomain.User) (string, error) { return "", nil }

func (stubAuth) ValidateSession(token string) (*authdomain.SessionClaims, error) {
	if token == "good" {
		return &authdomain.SessionClaims{UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	return nil, authUsecase.ErrInvalidSession
}

func (stubAuth) Me(ctx context.Context, userID string) (*authdto.MeResponse, error) {
	return &authdto.MeResponse{User: &authdomain.User{ID: userID}}, nil
}

type stubEmail struct{}

func (stubEmail) GetRecentEmails(ctx context.Context, userID, label string) ([]*emaildomain.MessageSummary, error) {
	return []*emaildomain.MessageSummary{}, nil
}

func (stubEmail) StarEmail(ctx context.Context, userID, emailID string) error   { return nil }
func (stubEmail) UnstarEmail(ctx context.Context, userID, emailID string) error { return nil }
func (stubEmail) TrashEmail(ctx context.Context, userID, emailID string) error  { return nil }

func newTestRouter() http.Handler {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		SessionCookieName: "inbox_session",
		SessionExpiry:     time.Hour,
		FrontendURL:       "http://localhost:3000",
	}
	return NewHandler(stubAuth{}, stubEmail{}, cfg).Router()
}

func TestRouter(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name     string
		method   string
		path     string
		session  string
		wantCode int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantCode: http.StatusOK},
		{name: "recent requires session", method: http.MethodGet, path: "/api/gmail/recent", wantCode: http.StatusUnauthorized},
		{name: "recent", method: http.MethodGet, path: "/api/gmail/recent", session: "good", wantCode: http.StatusOK},
		{name: "star requires session", method: http.MethodPost, path: "/api/gmail/star", wantCode: http.StatusUnauthorized},
		{name: "me requires session", method: http.MethodGet, path: "/api/auth/me", wantCode: http.StatusUnauthorized},
		{name: "me", method: http.MethodGet, path: "/api/auth/me", session: "good", wantCode: http.StatusOK},
		{name: "login redirect", method: http.MethodGet, path: "/api/auth/google", wantCode: http.StatusFound},
		{name: "logout", method: http.MethodPost, path: "/api/auth/logout", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.session != "" {
				req.AddCookie(&http.Cookie{Name: "inbox_session", Value: tt.session})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatal("expected request id header")
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name       string
		method     string
		origin     string
		reqHeaders string
		wantOrigin string
	}{
		{name: "preflight with content-type", method: http.MethodOptions, origin: "http://localhost:3000", reqHeaders: "content-type", wantOrigin: "http://localhost:3000"},
		{name: "preflight without request headers", method: http.MethodOptions, origin: "http://localhost:3000", wantOrigin: "http://localhost:3000"},
		{name: "preflight from foreign origin", method: http.MethodOptions, origin: "http://evil.example.com", reqHeaders: "content-type"},
		{name: "simple request from foreign origin", method: http.MethodGet, origin: "http://evil.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/api/gmail/star"
			if tt.method == http.MethodGet {
				path = "/api/health"
			}
			req := httptest.NewRequest(tt.method, path, nil)
			req.Header.Set("Origin", tt.origin)
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			if tt.reqHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tt.reqHeaders)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("expected allow-origin %q, got %q", tt.wantOrigin, got)
			}
			if tt.wantOrigin != "" && w.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Fatal("expected credentials allowed")
			}
		})
	}
}
