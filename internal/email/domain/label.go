package domain

import (
	"errors"
	"strings"
)

var ErrUnknownLabel = errors.New("unknown label")

// Label is the inbox category the client has selected.
type Label string

const (
	LabelPrimary    Label = "Primary"
	LabelPromotions Label = "Promotions"
	LabelSocial     Label = "Social"
	LabelTrash      Label = "Trash"
	LabelDrafts     Label = "Drafts"
	LabelSent       Label = "Sent"
	LabelStarred    Label = "Starred"
)

var gmailLabels = map[Label]string{
	LabelPrimary:    "CATEGORY_PERSONAL",
	LabelPromotions: "CATEGORY_PROMOTIONS",
	LabelSocial:     "CATEGORY_SOCIAL",
	LabelTrash:      LabelIDTrash,
	LabelDrafts:     "DRAFT",
	LabelSent:       "SENT",
	LabelStarred:    LabelIDStarred,
}

// ParseLabel matches a label name case-insensitively.
func ParseLabel(s string) (Label, error) {
	for label := range gmailLabels {
		if strings.EqualFold(string(label), strings.TrimSpace(s)) {
			return label, nil
		}
	}
	return "", ErrUnknownLabel
}

// GmailLabelID returns the Gmail label id the category filters on.
func (l Label) GmailLabelID() string {
	if id, ok := gmailLabels[l]; ok {
		return id
	}
	return gmailLabels[LabelPrimary]
}
