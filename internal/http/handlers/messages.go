package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mpetters/messagely/internal/http/respond"
	"github.com/mpetters/messagely/internal/middleware"
	"github.com/mpetters/messagely/internal/models/dto"
	"github.com/mpetters/messagely/internal/service"
	"github.com/mpetters/messagely/internal/storage"
)

// MessagesHandler serves the message routes. All of them sit behind the
// token middleware; the caller identity comes from the request context.
type MessagesHandler struct {
	messages *service.Messages
	log      *zap.SugaredLogger
}

// NewMessagesHandler constructs the handler.
func NewMessagesHandler(messages *service.Messages, log *zap.SugaredLogger) *MessagesHandler {
	return &MessagesHandler{messages: messages, log: log}
}

// Register attaches the message routes.
func (h *MessagesHandler) Register(r chi.Router) {
	r.Post("/messages", h.handleSend)
	r.Get("/messages/{id}", h.handleGet)
	r.Post("/messages/{id}/read", h.handleMarkRead)
}

func (h *MessagesHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing caller identity")
		return
	}

	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.ToUsername) == "" || strings.TrimSpace(req.Body) == "" {
		respond.Error(w, http.StatusBadRequest, "to_username and body are required")
		return
	}

	msg, err := h.messages.Send(r.Context(), caller, req.ToUsername, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrRecipientNotFound) {
			respond.Error(w, http.StatusNotFound, "recipient does not exist")
			return
		}
		h.log.Errorw("send message failed", "from", caller, "to", req.ToUsername, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (h *MessagesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	msg, err := h.messages.Get(r.Context(), caller, id)
	if err != nil {
		h.respondMessageError(w, id, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"message": msg})
}

func (h *MessagesHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	receipt, err := h.messages.MarkRead(r.Context(), caller, id)
	if err != nil {
		h.respondMessageError(w, id, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"message": receipt})
}

func (h *MessagesHandler) callerAndID(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing caller identity")
		return "", 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid message id")
		return "", 0, false
	}
	return caller, id, true
}

func (h *MessagesHandler) respondMessageError(w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "no such message")
	case errors.Is(err, service.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "not permitted")
	default:
		h.log.Errorw("message operation failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch message")
	}
}
