package service

import (
	"context"
	"errors"

	"github.com/mpetters/messagely/internal/models"
	"github.com/mpetters/messagely/internal/storage"
)

// Messages owns the message lifecycle and its access-control policy: only
// the two parties may view a message, and only the recipient may mark it
// read. The policy lives here rather than in the store.
type Messages struct {
	store storage.Store
}

// NewMessages constructs the message service.
func NewMessages(store storage.Store) *Messages {
	return &Messages{store: store}
}

// Send creates a message from an authenticated sender. The recipient must be
// a registered user; ErrRecipientNotFound otherwise.
func (m *Messages) Send(ctx context.Context, from, to, body string) (models.Message, error) {
	if _, err := m.store.GetUser(ctx, to); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Message{}, ErrRecipientNotFound
		}
		return models.Message{}, err
	}

	msg, err := m.store.CreateMessage(ctx, from, to, body)
	if err != nil {
		// The FK check can still fire if the recipient vanished between the
		// lookup and the insert.
		if errors.Is(err, storage.ErrNotFound) {
			return models.Message{}, ErrRecipientNotFound
		}
		return models.Message{}, err
	}
	return msg, nil
}

// Get returns the message if caller is its sender or recipient. The fetch
// runs before the permission check, so an unknown id is not found for every
// caller while a real id is forbidden to third parties.
func (m *Messages) Get(ctx context.Context, caller string, id int64) (models.MessageDetail, error) {
	msg, err := m.store.GetMessage(ctx, id)
	if err != nil {
		return models.MessageDetail{}, err
	}
	if caller != msg.FromUser.Username && caller != msg.ToUser.Username {
		return models.MessageDetail{}, ErrForbidden
	}
	return msg, nil
}

// MarkRead stamps read_at if caller is the recipient. The sender may never
// mark their own sent message read. Re-marking overwrites the timestamp.
func (m *Messages) MarkRead(ctx context.Context, caller string, id int64) (models.MessageReceipt, error) {
	msg, err := m.store.GetMessage(ctx, id)
	if err != nil {
		return models.MessageReceipt{}, err
	}
	if caller != msg.ToUser.Username {
		return models.MessageReceipt{}, ErrForbidden
	}
	return m.store.MarkMessageRead(ctx, id)
}
