package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/chainpilot-ai/chainpilot/internal/core"
	"github.com/chainpilot-ai/chainpilot/internal/market"
)

type APIHandler struct {
	intentService *core.IntentService
	market        *market.Poller
}

func NewAPIHandler(is *core.IntentService, mp *market.Poller) *APIHandler {
	return &APIHandler{intentService: is, market: mp}
}

type ParseIntentRequest struct {
	UserMessage   string `json:"user_message"`
	WalletAddress string `json:"wallet_address"`
}

func (h *APIHandler) ParseIntentHandler(w http.ResponseWriter, r *http.Request) {
	var req ParseIntentRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	rec, err := h.intentService.Parse(r.Context(), req.UserMessage, req.WalletAddress)
	if err != nil {
		if errors.Is(err, core.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "Missing user message")
			return
		}
		log.Printf("Intent handler error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "intent-parser-backend",
	})
}

func (h *APIHandler) TopMoversHandler(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	writeJSON(w, http.StatusOK, h.market.TopMovers(r.Context(), category))
}

func (h *APIHandler) PopularTokensHandler(w http.ResponseWriter, r *http.Request) {
	ecosystem := r.URL.Query().Get("type")
	writeJSON(w, http.StatusOK, h.market.PopularTokens(r.Context(), ecosystem))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
