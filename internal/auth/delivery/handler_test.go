package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "inbox-backend/internal/auth/domain"
	authdto "inbox-backend/internal/auth/dto"
	"inbox-backend/internal/auth/usecase"
	"inbox-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type fakeAuthUsecase struct {
	linkErr  error
	codes    []string
	sessions map[string]string
}

func (f *fakeAuthUsecase) GoogleAuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeAuthUsecase) CompleteGoogleLink(ctx context.Context, code string) (*authdomain.User, string, error) {
	f.codes = append(f.codes, code)
	if f.linkErr != nil {
		return nil, "", f.linkErr
	}
	return &authdomain.User{ID: "user-1"}, "session-token", nil
}

func (f *fakeAuthUsecase) IssueSession(user *authdomain.User) (string, error) {
	return "session-token", nil
}

func (f *fakeAuthUsecase) ValidateSession(token string) (*authdomain.SessionClaims, error) {
	if userID, ok := f.sessions[token]; ok {
		return &authdomain.SessionClaims{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	return nil, usecase.ErrInvalidSession
}

func (f *fakeAuthUsecase) Me(ctx context.Context, userID string) (*authdto.MeResponse, error) {
	if userID != "user-1" {
		return nil, usecase.ErrUserNotFound
	}
	return &authdto.MeResponse{User: &authdomain.User{ID: userID}, GoogleLinked: true}, nil
}

func setupRouter(uc *fakeAuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		SessionCookieName: "inbox_session",
		SessionExpiry:     time.Hour,
		FrontendURL:       "http://localhost:3000",
	}
	h := NewAuthHandler(uc, cfg)

	r := gin.New()
	r.GET("/api/auth/google", h.GoogleLogin)
	r.GET("/api/auth/google/callback", h.GoogleCallback)
	r.POST("/api/auth/logout", h.Logout)

	protected := r.Group("/api")
	protected.Use(AuthMiddleware(uc, cfg.SessionCookieName))
	protected.GET("/auth/me", h.Me)
	protected.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	uc := &fakeAuthUsecase{sessions: map[string]string{"good": "user-1"}}
	r := setupRouter(uc)

	tests := []struct {
		name     string
		prepare  func(req *http.Request)
		wantCode int
		wantBody string
	}{
		{name: "no credentials", prepare: func(req *http.Request) {}, wantCode: http.StatusUnauthorized, wantBody: "Unauthorized"},
		{name: "cookie", prepare: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "inbox_session", Value: "good"})
		}, wantCode: http.StatusOK, wantBody: "user-1"},
		{name: "bearer", prepare: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer good")
		}, wantCode: http.StatusOK, wantBody: "user-1"},
		{name: "invalid token", prepare: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer forged")
		}, wantCode: http.StatusUnauthorized, wantBody: "Unauthorized"},
		{name: "wrong scheme", prepare: func(req *http.Request) {
			req.Header.Set("Authorization", "Basic good")
		}, wantCode: http.StatusUnauthorized, wantBody: "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode || w.Body.String() != tt.wantBody {
				t.Fatalf("got %d %q, want %d %q", w.Code, w.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestGoogleLogin_SetsStateAndRedirects(t *testing.T) {
	r := setupRouter(&fakeAuthUsecase{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	var state string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == stateCookieName {
			state = cookie.Value
		}
	}
	if state == "" || !strings.HasSuffix(w.Header().Get("Location"), "state="+state) {
		t.Fatalf("expected redirect bound to state cookie, got %q / %q", w.Header().Get("Location"), state)
	}
}

func callback(r *gin.Engine, query, stateCookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?"+query, nil)
	if stateCookie != "" {
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: stateCookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGoogleCallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &fakeAuthUsecase{}
		w := callback(setupRouter(uc), "state=s1&code=abc", "s1")

		if w.Code != http.StatusFound || w.Header().Get("Location") != "http://localhost:3000" {
			t.Fatalf("expected redirect to frontend, got %d %q", w.Code, w.Header().Get("Location"))
		}
		found := false
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == "inbox_session" && cookie.Value == "session-token" && cookie.HttpOnly {
				found = true
			}
		}
		if !found || len(uc.codes) != 1 || uc.codes[0] != "abc" {
			t.Fatalf("expected session cookie and one exchange, got cookies=%v codes=%v", w.Result().Cookies(), uc.codes)
		}
	})

	t.Run("state mismatch", func(t *testing.T) {
		uc := &fakeAuthUsecase{}
		w := callback(setupRouter(uc), "state=other&code=abc", "s1")
		if w.Code != http.StatusBadRequest || len(uc.codes) != 0 {
			t.Fatalf("expected 400 without exchange, got %d", w.Code)
		}
	})

	t.Run("missing code", func(t *testing.T) {
		w := callback(setupRouter(&fakeAuthUsecase{}), "state=s1", "s1")
		if w.Code != http.StatusBadRequest || w.Body.String() != "Authorization code is required" {
			t.Fatalf("expected 400, got %d %q", w.Code, w.Body.String())
		}
	})

	linkFailures := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "exchange failure", err: fmt.Errorf("exchange authorization code: %w: %w", usecase.ErrProviderFailure, errors.New("oauth2: invalid_client")), wantCode: http.StatusBadGateway},
		{name: "incomplete identity", err: usecase.ErrIncompleteIdentity, wantCode: http.StatusBadRequest},
		{name: "database failure", err: fmt.Errorf("save linked account: %w", errors.New("database is locked")), wantCode: http.StatusInternalServerError},
	}
	for _, tt := range linkFailures {
		t.Run(tt.name, func(t *testing.T) {
			w := callback(setupRouter(&fakeAuthUsecase{linkErr: tt.err}), "state=s1&code=abc", "s1")
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d %q", tt.wantCode, w.Code, w.Body.String())
			}
			if strings.Contains(w.Body.String(), "invalid_client") || strings.Contains(w.Body.String(), "locked") {
				t.Fatalf("expected opaque body, got %q", w.Body.String())
			}
			for _, cookie := range w.Result().Cookies() {
				if cookie.Name == "inbox_session" {
					t.Fatal("expected no session cookie on failure")
				}
			}
		})
	}
}

func TestMeAndLogout(t *testing.T) {
	uc := &fakeAuthUsecase{sessions: map[string]string{"good": "user-1", "ghost": "user-2"}}
	r := setupRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var me authdto.MeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil || w.Code != http.StatusOK || !me.GoogleLinked {
		t.Fatalf("unexpected me response %d %s", w.Code, w.Body.String())
	}
	if !me.SessionExpiresAt.After(time.Now()) {
		t.Fatalf("expected session expiry from the token claims, got %v", me.SessionExpiresAt)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer ghost")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("unexpected logout response %d %s", w.Code, w.Body.String())
	}
	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "inbox_session" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie cleared")
	}
}

func TestMe_RequiresSessionClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthUsecase{}, &config.Config{SessionCookieName: "inbox_session"})
	r := gin.New()
	r.GET("/api/auth/me", func(c *gin.Context) {
		c.Set(ContextUserID, "user-1")
		h.Me(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session claims, got %d", w.Code)
	}
}
