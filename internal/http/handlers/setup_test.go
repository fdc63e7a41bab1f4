package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpetters/messagely/internal/auth"
	"github.com/mpetters/messagely/internal/middleware"
	"github.com/mpetters/messagely/internal/service"
	"github.com/mpetters/messagely/internal/storage/memory"
)

type env struct {
	router   http.Handler
	users    *service.Users
	messages *service.Messages
	tokens   *auth.TokenManager
}

// newEnv wires the handlers onto a router the same way the server package
// does, over the in-memory store.
func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.New()
	log := zap.NewNop().Sugar()
	tokens := auth.NewTokenManager("test-secret")
	users := service.NewUsers(store, bcrypt.MinCost)
	messages := service.NewMessages(store)

	r := chi.NewRouter()
	NewAuthHandler(users, tokens, log).Register(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(tokens, log))
		NewUsersHandler(users, log).Register(r)
		NewMessagesHandler(messages, log).Register(r)
	})

	return &env{router: r, users: users, messages: messages, tokens: tokens}
}

// register creates an account through the service and returns a valid token.
func (e *env) register(t *testing.T, username string) string {
	t.Helper()
	_, err := e.users.Register(context.Background(), service.RegisterParams{
		Username:  username,
		Password:  "secret123",
		FirstName: "Test",
		LastName:  "User",
		Phone:     "+15550000000",
	})
	require.NoError(t, err)

	token, err := e.tokens.Issue(username)
	require.NoError(t, err)
	return token
}

func (e *env) do(t *testing.T, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
