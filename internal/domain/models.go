// Package domain defines the core domain models for the chat service.
package domain

import "time"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// User is a registered account. Created on registration, never mutated.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is one persisted chat turn. Messages are append-only: once
// written they are never updated.
type Message struct {
	MessageID string    `json:"message_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	// Retrieved carries the raw retrieved-context list for system/debug
	// turns. Empty for user and assistant turns.
	Retrieved []string  `json:"retrieved,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayTurn is the render unit handed to the presentation boundary.
type DisplayTurn struct {
	Role      Role     `json:"role"`
	Text      string   `json:"text"`
	Retrieved []string `json:"retrieved,omitempty"`
}

// TurnOf projects a message into its display form.
func TurnOf(m Message) DisplayTurn {
	return DisplayTurn{Role: m.Role, Text: m.Text, Retrieved: m.Retrieved}
}
