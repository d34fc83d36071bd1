package dto

import emaildomain "inbox-backend/internal/email/domain"

type EmailIDRequest struct {
	EmailID string `json:"emailId" binding:"required"`
}

type RecentEmailsResponse struct {
	Messages []*emaildomain.MessageSummary `json:"messages"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
