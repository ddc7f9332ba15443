// Package model defines data structures shared by the widget, the server
// handlers and the stores.
package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles the inference endpoint accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ChatMessage is one role-tagged entry of a conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AskRequest is the payload the widget posts to the inference endpoint.
// Messages always carry the full history.
type AskRequest struct {
	SiteID    string        `json:"site_id"`
	SessionID string        `json:"session_id"`
	UserID    string        `json:"user_id"`
	PageURL   string        `json:"page_url"`
	Messages  []ChatMessage `json:"messages"`
}

// LastUser returns the most recent user message, if any.
func (r *AskRequest) LastUser() (ChatMessage, bool) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i], true
		}
	}
	return ChatMessage{}, false
}

// AskResponse is the inference endpoint reply. Content may be empty when the
// endpoint had nothing usable to say.
type AskResponse struct {
	Content string `json:"content"`
}

// TranscriptMessage is one chat turn as recorded on the transcript stream.
type TranscriptMessage struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	PageURL   string    `json:"page_url,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Sequence is populated on read.
	Sequence uint64 `json:"sequence,omitempty"`
}
