package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetters/messagely/internal/models/dto"
)

func registerPayload(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  username,
		Password:  "secret123",
		FirstName: "Alice",
		LastName:  "Liddell",
		Phone:     "+15550000001",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/register", registerPayload("alice"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.TokenResponse
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)

	username, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestRegisterMissingFields(t *testing.T) {
	e := newEnv(t)

	payload := registerPayload("alice")
	payload.Phone = ""
	rec := e.do(t, http.MethodPost, "/register", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	rec := e.do(t, http.MethodPost, "/register", registerPayload("alice"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	rec := e.do(t, http.MethodPost, "/login", dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.TokenResponse
	decodeBody(t, rec, &resp)
	username, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	rec := e.do(t, http.MethodPost, "/login", dto.LoginRequest{Username: "alice", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	e := newEnv(t)

	// 401, never 404: the response must not reveal whether the account exists.
	rec := e.do(t, http.MethodPost, "/login", dto.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingFields(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/login", dto.LoginRequest{Username: "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
