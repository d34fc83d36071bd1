package gmail

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	// ErrAccountNotLinked means no usable stored credentials exist.
	ErrAccountNotLinked = errors.New("google account not linked")
	// ErrReLinkRequired means the refresh token was revoked; the stored
	// credentials have been cleared.
	ErrReLinkRequired = errors.New("google access expired, re-link required")
)

var authFailurePattern = regexp.MustCompile(`(?i)invalid_token|insufficient`)

// IsAuthFailure reports whether err looks like a rejected access token:
// HTTP 401/403 from the API, or an invalid_token/insufficient message.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if status := statusOf(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
		return true
	}
	return authFailurePattern.MatchString(err.Error())
}

func isRevokedGrant(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "invalid_grant")
}

// UpstreamStatus extracts the HTTP status and a client-facing message from
// an upstream failure. ok is false when err carries no upstream shape; the
// caller should then fall back to a generic message.
func UpstreamStatus(err error) (status int, message string, ok bool) {
	status = statusOf(err)
	message = messageOf(err)
	ok = status != 0
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	return status, message, ok
}

func statusOf(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return retrieveErr.Response.StatusCode
	}
	return 0
}

func messageOf(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		for _, item := range apiErr.Errors {
			if item.Message != "" {
				return item.Message
			}
		}
		return ""
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorDescription != "" {
			return retrieveErr.ErrorDescription
		}
		return retrieveErr.ErrorCode
	}
	return err.Error()
}
