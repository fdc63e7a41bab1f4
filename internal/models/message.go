package models

import "time"

// Message is the shape returned when a message is created.
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
}

// MessageDetail is a single message with both party profiles joined in.
type MessageDetail struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser Profile    `json:"from_user"`
	ToUser   Profile    `json:"to_user"`
}

// ConversationMessage is a directional listing entry. Exactly one of FromUser
// and ToUser is set: messagesFrom carries the recipient, messagesTo the sender.
type ConversationMessage struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser *Profile   `json:"from_user,omitempty"`
	ToUser   *Profile   `json:"to_user,omitempty"`
}

// MessageReceipt is returned by the read-marking operation.
type MessageReceipt struct {
	ID     int64     `json:"id"`
	ReadAt time.Time `json:"read_at"`
}
