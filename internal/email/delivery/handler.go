package delivery

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	authdelivery "inbox-backend/internal/auth/delivery"
	emaildomain "inbox-backend/internal/email/domain"
	emaildto "inbox-backend/internal/email/dto"
	"inbox-backend/internal/email/usecase"
	"inbox-backend/pkg/gmail"
	"inbox-backend/pkg/logging"

	"github.com/gin-gonic/gin"
)

const (
	msgNotLinked       = "Google account not linked"
	msgReLinkRequired  = "Google access expired. Please re-connect Google."
	msgEmailIDRequired = "Email ID is required"
	msgUnknownLabel    = "Unknown label"
)

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

func (h *EmailHandler) GetRecentEmails(c *gin.Context) {
	messages, err := h.emailUsecase.GetRecentEmails(c.Request.Context(), authdelivery.UserID(c), c.Query("label"))
	if err != nil {
		respondError(c, err, "Failed to fetch emails")
		return
	}

	c.JSON(http.StatusOK, emaildto.RecentEmailsResponse{Messages: messages})
}

func (h *EmailHandler) StarEmail(c *gin.Context) {
	h.messageAction(c, h.emailUsecase.StarEmail, "Failed to star email")
}

func (h *EmailHandler) UnstarEmail(c *gin.Context) {
	h.messageAction(c, h.emailUsecase.UnstarEmail, "Failed to unstar email")
}

func (h *EmailHandler) TrashEmail(c *gin.Context) {
	h.messageAction(c, h.emailUsecase.TrashEmail, "Failed to trash email")
}

func (h *EmailHandler) messageAction(c *gin.Context, action func(ctx context.Context, userID, emailID string) error, fallback string) {
	var req emaildto.EmailIDRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.EmailID) == "" {
		c.String(http.StatusBadRequest, msgEmailIDRequired)
		return
	}

	if err := action(c.Request.Context(), authdelivery.UserID(c), req.EmailID); err != nil {
		respondError(c, err, fallback)
		return
	}

	c.JSON(http.StatusOK, emaildto.SuccessResponse{Success: true})
}

// respondError maps a use case error to a plain-text response. Upstream
// failures keep Google's status and message; anything else is logged and
// answered with the fallback message.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, gmail.ErrAccountNotLinked):
		c.String(http.StatusBadRequest, msgNotLinked)
	case errors.Is(err, gmail.ErrReLinkRequired):
		c.String(http.StatusConflict, msgReLinkRequired)
	case errors.Is(err, emaildomain.ErrUnknownLabel):
		c.String(http.StatusBadRequest, msgUnknownLabel)
	case errors.Is(err, emaildomain.ErrEmailIDRequired):
		c.String(http.StatusBadRequest, msgEmailIDRequired)
	default:
		log.Printf("%s[ERROR] %s: %v", logging.Prefix(c.Request.Context()), fallback, err)

		status, message, ok := gmail.UpstreamStatus(err)
		if !ok || message == "" {
			message = fallback
		}
		c.String(status, message)
	}
}
