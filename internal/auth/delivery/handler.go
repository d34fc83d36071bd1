package delivery

import (
	"errors"
	"log"
	"net/http"

	authdto "inbox-backend/internal/auth/dto"
	"inbox-backend/internal/auth/usecase"
	"inbox-backend/pkg/config"
	"inbox-backend/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	stateCookieName = "oauth_state"
	stateMaxAge     = 10 * 60
	authCookiePath  = "/api/auth"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	config      *config.Config
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		config:      cfg,
	}
}

// GoogleLogin redirects to the Google consent screen.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.New().String()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, stateMaxAge, authCookiePath, "", h.config.CookieSecure, true)
	c.Redirect(http.StatusFound, h.authUsecase.GoogleAuthURL(state))
}

// GoogleCallback finishes the link flow and starts a session.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != c.Query("state") {
		c.String(http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, "", -1, authCookiePath, "", h.config.CookieSecure, true)

	if reason := c.Query("error"); reason != "" {
		c.String(http.StatusBadRequest, "Google sign-in was cancelled: "+reason)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Authorization code is required")
		return
	}

	_, session, err := h.authUsecase.CompleteGoogleLink(c.Request.Context(), code)
	if err != nil {
		log.Printf("%s[ERROR] Google link failed: %v", logging.Prefix(c.Request.Context()), err)
		switch {
		case errors.Is(err, usecase.ErrIncompleteIdentity):
			c.String(http.StatusBadRequest, "Google account did not share an email address")
		case errors.Is(err, usecase.ErrProviderFailure):
			c.String(http.StatusBadGateway, "Failed to link Google account")
		default:
			c.String(http.StatusInternalServerError, "Failed to link Google account")
		}
		return
	}

	c.SetCookie(h.config.SessionCookieName, session, int(h.config.SessionExpiry.Seconds()), "/", "", h.config.CookieSecure, true)
	c.Redirect(http.StatusFound, h.config.FrontendURL)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := Session(c)
	if claims == nil {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	me, err := h.authUsecase.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.String(http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Printf("%s[ERROR] Failed to load user: %v", logging.Prefix(c.Request.Context()), err)
		c.String(http.StatusInternalServerError, "Failed to load user")
		return
	}

	me.SessionExpiresAt = claims.ExpiresAt
	c.JSON(http.StatusOK, me)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.SessionCookieName, "", -1, "/", "", h.config.CookieSecure, true)
	c.JSON(http.StatusOK, authdto.SuccessResponse{Success: true})
}
