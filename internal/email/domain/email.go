package domain

import "errors"

// MessageSummary is the read-only projection of a Gmail message shown in the
// inbox list. Nullable fields are nil when the upstream message lacks them.
type MessageSummary struct {
	ID           string   `json:"id"`
	ThreadID     *string  `json:"threadId"`
	Snippet      string   `json:"snippet"`
	InternalDate *string  `json:"internalDate"` // epoch millis, as Gmail returns it
	TimeSent     *string  `json:"timeSent"`
	From         *string  `json:"from"`
	To           *string  `json:"to"`
	Subject      *string  `json:"subject"`
	Date         *string  `json:"date"`
	LabelIDs     []string `json:"labelIds"`
}

// Gmail system label ids used by the inbox actions.
const (
	LabelIDStarred = "STARRED"
	LabelIDTrash   = "TRASH"
)

// MetadataHeaders are the headers requested for a MessageSummary.
var MetadataHeaders = []string{"From", "To", "Subject", "Date"}

var ErrEmailIDRequired = errors.New("email id is required")
