package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mpetters/messagely/internal/auth"
	"github.com/mpetters/messagely/internal/http/respond"
	"github.com/mpetters/messagely/internal/models/dto"
	"github.com/mpetters/messagely/internal/service"
	"github.com/mpetters/messagely/internal/storage"
)

// AuthHandler owns the public login and register endpoints.
type AuthHandler struct {
	users  *service.Users
	tokens *auth.TokenManager
	log    *zap.SugaredLogger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users *service.Users, tokens *auth.TokenManager, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

// Register attaches the auth routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	ok, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Errorw("authenticate failed", "username", req.Username, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.issueToken(w, req.Username, http.StatusOK)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.users.Register(r.Context(), service.RegisterParams{
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "username already taken")
			return
		}
		h.log.Errorw("register failed", "username", req.Username, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.issueToken(w, strings.TrimSpace(req.Username), http.StatusCreated)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, username string, status int) {
	token, err := h.tokens.Issue(username)
	if err != nil {
		h.log.Errorw("issue token failed", "username", username, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	respond.JSON(w, status, dto.TokenResponse{Token: token})
}

func validateRegistration(req dto.RegisterRequest) error {
	switch {
	case strings.TrimSpace(req.Username) == "":
		return errors.New("username is required")
	case req.Password == "":
		return errors.New("password is required")
	case strings.TrimSpace(req.FirstName) == "":
		return errors.New("first_name is required")
	case strings.TrimSpace(req.LastName) == "":
		return errors.New("last_name is required")
	case strings.TrimSpace(req.Phone) == "":
		return errors.New("phone is required")
	}
	return nil
}
