package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"aibot-api/internal/telegram"
)

type WebhookHandler struct {
	handler telegram.Handler
}

func NewWebhookHandler(handler telegram.Handler) *WebhookHandler {
	return &WebhookHandler{handler: handler}
}

// HandleUpdate accepts a pushed update from the platform. The update is
// dispatched on its own goroutine and the webhook is acknowledged
// immediately; reply delivery happens out of band through the bot client.
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid update payload", http.StatusBadRequest)
		return
	}

	// Detached from the request context: the update outlives this response.
	go h.handler.HandleUpdate(context.Background(), update)

	w.WriteHeader(http.StatusOK)
}
