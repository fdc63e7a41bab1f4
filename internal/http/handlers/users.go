package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mpetters/messagely/internal/http/respond"
	"github.com/mpetters/messagely/internal/models"
	"github.com/mpetters/messagely/internal/service"
	"github.com/mpetters/messagely/internal/storage"
)

// UsersHandler serves the user directory routes. All of them sit behind the
// token middleware.
type UsersHandler struct {
	users *service.Users
	log   *zap.SugaredLogger
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users *service.Users, log *zap.SugaredLogger) *UsersHandler {
	return &UsersHandler{users: users, log: log}
}

// Register attaches the user routes.
func (h *UsersHandler) Register(r chi.Router) {
	r.Get("/users", h.handleList)
	r.Get("/users/{username}", h.handleGet)
	r.Get("/users/{username}/from", h.handleMessagesFrom)
	r.Get("/users/{username}/to", h.handleMessagesTo)
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.All(r.Context())
	if err != nil {
		h.log.Errorw("list users failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UsersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.users.Get(r.Context(), username)
	if err != nil {
		h.respondUserError(w, username, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UsersHandler) handleMessagesFrom(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	messages, err := h.users.MessagesFrom(r.Context(), username)
	if err != nil {
		h.respondUserError(w, username, err)
		return
	}
	respondMessages(w, messages)
}

func (h *UsersHandler) handleMessagesTo(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	messages, err := h.users.MessagesTo(r.Context(), username)
	if err != nil {
		h.respondUserError(w, username, err)
		return
	}
	respondMessages(w, messages)
}

func (h *UsersHandler) respondUserError(w http.ResponseWriter, username string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "no such user")
		return
	}
	h.log.Errorw("user lookup failed", "username", username, "error", err)
	respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
}

func respondMessages(w http.ResponseWriter, messages []models.ConversationMessage) {
	if messages == nil {
		messages = []models.ConversationMessage{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"messages": messages})
}
