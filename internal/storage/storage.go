package storage

import (
	"context"
	"errors"

	"github.com/mpetters/messagely/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations needed by the services.
type UserStore interface {
	// CreateUser inserts a row, letting the store assign join_at.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// GetUser returns the full row including the password hash. Callers
	// outside the authenticate path must strip the hash before exposure.
	GetUser(ctx context.Context, username string) (models.User, error)
	// TouchLastLogin stamps last_login_at with the store's current time.
	TouchLastLogin(ctx context.Context, username string) error
	// ListUsers returns every user ordered by username ascending.
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

// MessageStore captures message persistence operations.
type MessageStore interface {
	// CreateMessage inserts a message, letting the store assign id and
	// sent_at. An unknown party surfaces ErrNotFound.
	CreateMessage(ctx context.Context, from, to, body string) (models.Message, error)
	// GetMessage returns a message with both party profiles joined in.
	GetMessage(ctx context.Context, id int64) (models.MessageDetail, error)
	// MarkMessageRead stamps read_at unconditionally and returns the receipt.
	MarkMessageRead(ctx context.Context, id int64) (models.MessageReceipt, error)
	// MessagesFrom lists messages sent by username, each with the recipient
	// profile attached, ordered by id.
	MessagesFrom(ctx context.Context, username string) ([]models.ConversationMessage, error)
	// MessagesTo lists messages received by username, each with the sender
	// profile attached, ordered by id.
	MessagesTo(ctx context.Context, username string) ([]models.ConversationMessage, error)
}

// Store is the combined persistence surface the application is wired with.
type Store interface {
	UserStore
	MessageStore
}
