package middleware

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

// Limits on an inference request.
const (
	MaxMessages      = 100
	MaxContentLength = 100000
	MaxSiteIDLength  = 64
)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > MaxContentLength {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateSiteID validates a widget site id.
func ValidateSiteID(id string) error {
	if len(id) == 0 {
		return errors.New("site_id cannot be empty")
	}
	if len(id) > MaxSiteIDLength {
		return errors.New("site_id exceeds maximum length")
	}
	return nil
}

// ValidateAskRequest checks the payload a widget posts to the inference
// endpoint.
func ValidateAskRequest(req *model.AskRequest) error {
	if err := ValidateSiteID(req.SiteID); err != nil {
		return err
	}
	if len(req.Messages) == 0 {
		return errors.New("messages cannot be empty")
	}
	if len(req.Messages) > MaxMessages {
		return errors.New("too many messages")
	}

	hasUser := false
	for i, m := range req.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
		if m.Role == model.RoleSystem && m.Content == "" {
			continue
		}
		if err := ValidateMessageContent(m.Content); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
		if m.Role == model.RoleUser {
			hasUser = true
		}
	}
	if !hasUser {
		return errors.New("messages must include a user message")
	}
	return nil
}
