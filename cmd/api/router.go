package api

import (
	"net/http"

	"inbox-backend/internal/auth/delivery"
	authUsecase "inbox-backend/internal/auth/usecase"
	emailDelivery "inbox-backend/internal/email/delivery"
	emailUsecase "inbox-backend/internal/email/usecase"
	"inbox-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, emailUsecase emailUsecase.EmailUsecase, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUsecase, cfg)
	emailHandler := emailDelivery.NewEmailHandler(emailUsecase)
	requireSession := delivery.AuthMiddleware(authUsecase, cfg.SessionCookieName)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.GET("/google", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
			auth.GET("/me", requireSession, authHandler.Me)
			auth.POST("/logout", authHandler.Logout)
		}

		// Gmail routes (protected)
		mail := api.Group("/gmail")
		mail.Use(requireSession)
		{
			mail.GET("/recent", emailHandler.GetRecentEmails)
			mail.POST("/star", emailHandler.StarEmail)
			mail.POST("/unstar", emailHandler.UnstarEmail)
			mail.POST("/trash", emailHandler.TrashEmail)
		}
	}
}
