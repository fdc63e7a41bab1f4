// Package memory implements the storage interfaces in process memory. It
// backs the service and handler tests so they run without Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mpetters/messagely/internal/models"
	"github.com/mpetters/messagely/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and messages in maps guarded by one mutex.
type Store struct {
	mu       sync.Mutex
	users    map[string]models.User
	messages map[int64]*record
	nextID   int64
}

type record struct {
	from, to, body string
	sentAt         time.Time
	readAt         *time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		messages: make(map[int64]*record),
		nextID:   1,
	}
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	user.JoinAt = time.Now()
	user.LastLoginAt = nil
	s.users[user.Username] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) TouchLastLogin(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	s.users[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.UserSummary, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, models.UserSummary{
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) CreateMessage(_ context.Context, from, to, body string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[from]; !ok {
		return models.Message{}, storage.ErrNotFound
	}
	if _, ok := s.users[to]; !ok {
		return models.Message{}, storage.ErrNotFound
	}

	id := s.nextID
	s.nextID++
	rec := &record{from: from, to: to, body: body, sentAt: time.Now()}
	s.messages[id] = rec

	return models.Message{
		ID:           id,
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       rec.sentAt,
	}, nil
}

func (s *Store) GetMessage(_ context.Context, id int64) (models.MessageDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.messages[id]
	if !ok {
		return models.MessageDetail{}, storage.ErrNotFound
	}
	return models.MessageDetail{
		ID:       id,
		Body:     rec.body,
		SentAt:   rec.sentAt,
		ReadAt:   rec.readAt,
		FromUser: s.profile(rec.from),
		ToUser:   s.profile(rec.to),
	}, nil
}

func (s *Store) MarkMessageRead(_ context.Context, id int64) (models.MessageReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.messages[id]
	if !ok {
		return models.MessageReceipt{}, storage.ErrNotFound
	}
	now := time.Now()
	rec.readAt = &now
	return models.MessageReceipt{ID: id, ReadAt: now}, nil
}

func (s *Store) MessagesFrom(_ context.Context, username string) ([]models.ConversationMessage, error) {
	return s.list(username, false), nil
}

func (s *Store) MessagesTo(_ context.Context, username string) ([]models.ConversationMessage, error) {
	return s.list(username, true), nil
}

func (s *Store) list(username string, incoming bool) []models.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.messages))
	for id := range s.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.ConversationMessage
	for _, id := range ids {
		rec := s.messages[id]
		msg := models.ConversationMessage{
			ID:     id,
			Body:   rec.body,
			SentAt: rec.sentAt,
			ReadAt: rec.readAt,
		}
		switch {
		case incoming && rec.to == username:
			p := s.profile(rec.from)
			msg.FromUser = &p
		case !incoming && rec.from == username:
			p := s.profile(rec.to)
			msg.ToUser = &p
		default:
			continue
		}
		out = append(out, msg)
	}
	return out
}

// profile assumes the caller holds s.mu.
func (s *Store) profile(username string) models.Profile {
	u := s.users[username]
	return models.Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
