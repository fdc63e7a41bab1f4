package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetters/messagely/internal/models"
)

func TestListUsers(t *testing.T) {
	e := newEnv(t)
	token := e.register(t, "bob")
	e.register(t, "alice")

	rec := e.do(t, http.MethodGet, "/users?_token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users []models.UserSummary `json:"users"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "alice", resp.Users[0].Username)
	assert.Equal(t, "bob", resp.Users[1].Username)
}

func TestListUsersRequiresToken(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	rec := e.do(t, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUser(t *testing.T) {
	e := newEnv(t)
	token := e.register(t, "alice")

	rec := e.do(t, http.MethodGet, "/users/alice?_token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "Test", resp.User.FirstName)
	assert.False(t, resp.User.JoinAt.IsZero())

	// The hash must never appear anywhere in the payload.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGetUserNotFound(t *testing.T) {
	e := newEnv(t)
	token := e.register(t, "alice")

	rec := e.do(t, http.MethodGet, "/users/ghost?_token="+token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserMessageListings(t *testing.T) {
	e := newEnv(t)
	aliceToken := e.register(t, "alice")
	e.register(t, "bob")
	_, err := e.messages.Send(context.Background(), "alice", "bob", "hi bob")
	require.NoError(t, err)

	var resp struct {
		Messages []models.ConversationMessage `json:"messages"`
	}

	rec := e.do(t, http.MethodGet, "/users/alice/from?_token="+aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Messages, 1)
	require.NotNil(t, resp.Messages[0].ToUser)
	assert.Equal(t, "bob", resp.Messages[0].ToUser.Username)

	rec = e.do(t, http.MethodGet, "/users/bob/to?_token="+aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Messages, 1)
	require.NotNil(t, resp.Messages[0].FromUser)
	assert.Equal(t, "alice", resp.Messages[0].FromUser.Username)

	rec = e.do(t, http.MethodGet, "/users/ghost/from?_token="+aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
