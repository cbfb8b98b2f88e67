package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"aibot-api/internal/services"

	"github.com/gorilla/mux"
)

type UsageHandler struct {
	entitlements services.EntitlementService
}

func NewUsageHandler(entitlements services.EntitlementService) *UsageHandler {
	return &UsageHandler{entitlements: entitlements}
}

// GetUsage returns the remaining counters and premium flag for one user.
// Reading usage for an unknown user lazily creates the row with defaults,
// same as any other first touch.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	stats, err := h.entitlements.Usage(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
