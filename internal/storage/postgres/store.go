package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetters/messagely/internal/models"
	"github.com/mpetters/messagely/internal/storage"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Ensure Store satisfies the combined storage interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and messages.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and applies pending migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := runMigrations(ctx, databaseURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateUser inserts a new user row, stamping join_at server-side.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, password_hash, first_name, last_name, phone, join_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING username, password_hash, first_name, last_name, phone, join_at, last_login_at;`

	row := s.pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// GetUser fetches a full user row by username.
func (s *Store) GetUser(ctx context.Context, username string) (models.User, error) {
	const query = `
		SELECT username, password_hash, first_name, last_name, phone, join_at, last_login_at
		FROM users
		WHERE username = $1;`

	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// TouchLastLogin stamps last_login_at for the user.
func (s *Store) TouchLastLogin(ctx context.Context, username string) error {
	const query = `
		UPDATE users
		SET last_login_at = now()
		WHERE username = $1;`

	tag, err := s.pool.Exec(ctx, query, username)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListUsers returns basic info on every user, ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const query = `
		SELECT username, first_name, last_name
		FROM users
		ORDER BY username;`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateMessage inserts a message row, stamping sent_at server-side. A party
// that fails the foreign key check surfaces as ErrNotFound.
func (s *Store) CreateMessage(ctx context.Context, from, to, body string) (models.Message, error) {
	const query = `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, from_username, to_username, body, sent_at;`

	var msg models.Message
	err := s.pool.QueryRow(ctx, query, from, to, body).
		Scan(&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return models.Message{}, storage.ErrNotFound
		}
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// GetMessage fetches a message with both party profiles joined in.
func (s *Store) GetMessage(ctx context.Context, id int64) (models.MessageDetail, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username, f.first_name, f.last_name, f.phone,
		       t.username, t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users f ON f.username = m.from_username
		JOIN users t ON t.username = m.to_username
		WHERE m.id = $1;`

	var d models.MessageDetail
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Body, &d.SentAt, &d.ReadAt,
		&d.FromUser.Username, &d.FromUser.FirstName, &d.FromUser.LastName, &d.FromUser.Phone,
		&d.ToUser.Username, &d.ToUser.FirstName, &d.ToUser.LastName, &d.ToUser.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MessageDetail{}, storage.ErrNotFound
		}
		return models.MessageDetail{}, fmt.Errorf("get message: %w", err)
	}
	return d, nil
}

// MarkMessageRead stamps read_at with the store's current time.
func (s *Store) MarkMessageRead(ctx context.Context, id int64) (models.MessageReceipt, error) {
	const query = `
		UPDATE messages
		SET read_at = now()
		WHERE id = $1
		RETURNING id, read_at;`

	var r models.MessageReceipt
	if err := s.pool.QueryRow(ctx, query, id).Scan(&r.ID, &r.ReadAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MessageReceipt{}, storage.ErrNotFound
		}
		return models.MessageReceipt{}, fmt.Errorf("mark message read: %w", err)
	}
	return r, nil
}

// MessagesFrom lists messages sent by username with the recipient profile.
func (s *Store) MessagesFrom(ctx context.Context, username string) ([]models.ConversationMessage, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages m
		JOIN users u ON u.username = m.to_username
		WHERE m.from_username = $1
		ORDER BY m.id;`

	return s.listConversation(ctx, query, username, false)
}

// MessagesTo lists messages received by username with the sender profile.
func (s *Store) MessagesTo(ctx context.Context, username string) ([]models.ConversationMessage, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages m
		JOIN users u ON u.username = m.from_username
		WHERE m.to_username = $1
		ORDER BY m.id;`

	return s.listConversation(ctx, query, username, true)
}

func (s *Store) listConversation(ctx context.Context, query, username string, counterpartIsSender bool) ([]models.ConversationMessage, error) {
	rows, err := s.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []models.ConversationMessage
	for rows.Next() {
		var (
			msg models.ConversationMessage
			p   models.Profile
		)
		if err := rows.Scan(&msg.ID, &msg.Body, &msg.SentAt, &msg.ReadAt,
			&p.Username, &p.FirstName, &p.LastName, &p.Phone); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if counterpartIsSender {
			msg.FromUser = &p
		} else {
			msg.ToUser = &p
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.Username, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.Phone, &user.JoinAt, &user.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
