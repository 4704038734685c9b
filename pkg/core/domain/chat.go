package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ValidateMessages rejects an empty history, unknown roles and a history
// that does not end with a user turn.
func ValidateMessages(msgs []ChatMessage) error {
	if len(msgs) == 0 {
		return fmt.Errorf("%w: messages must not be empty", ErrInvalidInput)
	}
	for i, m := range msgs {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidInput, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d is empty", ErrInvalidInput, i)
		}
	}
	if msgs[len(msgs)-1].Role != RoleUser {
		return fmt.Errorf("%w: last message must come from the user", ErrInvalidInput)
	}
	return nil
}

// FormSubmission is the multipart payload of the publish form.
type FormSubmission struct {
	Title      string
	Content    string
	Slug       string
	Collection string
	Categories []string
}

// PublishedDocument is the JSON object pinned to IPFS.
type PublishedDocument struct {
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	Collection string    `json:"collection"`
	Categories []string  `json:"categories"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PinResult struct {
	IPFSHash string `json:"ipfsHash"`
	URL      string `json:"url"`
}
