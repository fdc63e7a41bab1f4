package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mpetters/messagely/internal/models"
	"github.com/mpetters/messagely/internal/storage"
)

// RegisterParams are the fields required to create an account.
type RegisterParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Users is the user directory: registration, authentication, lookups, and
// the per-user message listings.
type Users struct {
	store      storage.Store
	bcryptCost int
}

// NewUsers constructs the directory with the configured bcrypt work factor.
func NewUsers(store storage.Store, bcryptCost int) *Users {
	return &Users{store: store, bcryptCost: bcryptCost}
}

// Register hashes the password and persists the account. A duplicate
// username surfaces storage.ErrAlreadyExists.
func (u *Users) Register(ctx context.Context, params RegisterParams) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), u.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	return u.store.CreateUser(ctx, models.User{
		Username:     params.Username,
		PasswordHash: string(hash),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
	})
}

// Authenticate reports whether the username/password pair is valid, stamping
// last_login_at on success. An unknown username and a wrong password are
// indistinguishable to the caller.
func (u *Users) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := u.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return false, nil
	}

	if err := u.store.TouchLastLogin(ctx, username); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the profile for username with the password hash stripped.
func (u *Users) Get(ctx context.Context, username string) (models.User, error) {
	user, err := u.store.GetUser(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// All returns basic info on every user, ordered by username.
func (u *Users) All(ctx context.Context) ([]models.UserSummary, error) {
	return u.store.ListUsers(ctx)
}

// MessagesFrom lists messages sent by username, each carrying the recipient
// profile. An unknown username surfaces storage.ErrNotFound.
func (u *Users) MessagesFrom(ctx context.Context, username string) ([]models.ConversationMessage, error) {
	if _, err := u.store.GetUser(ctx, username); err != nil {
		return nil, err
	}
	return u.store.MessagesFrom(ctx, username)
}

// MessagesTo lists messages received by username, each carrying the sender
// profile. An unknown username surfaces storage.ErrNotFound.
func (u *Users) MessagesTo(ctx context.Context, username string) ([]models.ConversationMessage, error) {
	if _, err := u.store.GetUser(ctx, username); err != nil {
		return nil, err
	}
	return u.store.MessagesTo(ctx, username)
}
