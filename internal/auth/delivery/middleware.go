package delivery

import (
	"net/http"
	"strings"

	authdomain "inbox-backend/internal/auth/domain"
	"inbox-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID  = "userID"
	ContextSession = "session"
)

// AuthMiddleware resolves the session from the session cookie or, failing
// that, an Authorization: Bearer header.
func AuthMiddleware(authUsecase usecase.AuthUsecase, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := authUsecase.ValidateSession(token)
		if err != nil {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSession, claims)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Session returns the claims of the session that authenticated the request.
func Session(c *gin.Context) *authdomain.SessionClaims {
	if v, ok := c.Get(ContextSession); ok {
		if claims, ok := v.(*authdomain.SessionClaims); ok {
			return claims
		}
	}
	return nil
}
