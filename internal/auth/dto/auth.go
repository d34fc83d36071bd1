package dto

import (
	"time"

	authdomain "inbox-backend/internal/auth/domain"
)

type MeResponse struct {
	User             *authdomain.User `json:"user"`
	GoogleLinked     bool             `json:"googleLinked"`
	SessionExpiresAt time.Time        `json:"sessionExpiresAt"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
