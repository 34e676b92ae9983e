package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"vkinder-bot/internal/models"
	"vkinder-bot/internal/services"
	"vkinder-bot/internal/vk"

	"github.com/rs/zerolog/log"
)

// MessageHandler processes an inbound chat message
type MessageHandler interface {
	Handle(ctx context.Context, msg models.IncomingMessage) error
}

// CallbackEvent is a VK Callback API request body
type CallbackEvent struct {
	Type    string          `json:"type"`
	GroupID int64           `json:"group_id"`
	Secret  string          `json:"secret"`
	Object  json.RawMessage `json:"object"`
}

// CallbackHandler receives community events pushed by VK
type CallbackHandler struct {
	messages     MessageHandler
	groupID      int64
	secret       string
	confirmation string
	onStop       func()
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(messages MessageHandler, groupID int64, secret, confirmation string, onStop func()) *CallbackHandler {
	return &CallbackHandler{
		messages:     messages,
		groupID:      groupID,
		secret:       secret,
		confirmation: confirmation,
		onStop:       onStop,
	}
}

// HandleEvent handles POST /vk/callback
func (h *CallbackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event CallbackEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if event.GroupID != h.groupID {
		log.Warn().Int64("group_id", event.GroupID).Msg("Callback for unknown group")
		respondError(w, "unknown group", http.StatusForbidden)
		return
	}

	if event.Type == "confirmation" {
		writeText(w, h.confirmation)
		return
	}

	if h.secret != "" && event.Secret != h.secret {
		log.Warn().Str("type", event.Type).Msg("Callback with invalid secret")
		respondError(w, "invalid secret", http.StatusForbidden)
		return
	}

	// VK expects "ok" for every accepted event, otherwise it redelivers
	if event.Type != "message_new" {
		writeText(w, "ok")
		return
	}

	var obj vk.MessageNew
	if err := json.Unmarshal(event.Object, &obj); err != nil {
		log.Error().Err(err).Msg("Failed to parse message_new event")
		writeText(w, "ok")
		return
	}

	if err := h.messages.Handle(r.Context(), obj.Incoming()); err != nil {
		if errors.Is(err, services.ErrStopRequested) && h.onStop != nil {
			h.onStop()
		}
	}

	writeText(w, "ok")
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
