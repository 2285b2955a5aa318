package tutor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/examprep/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the tutor chat endpoint on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/tutor/chat", h.Chat).Methods("POST")
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	reply, err := h.service.Ask(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Message is required"})
			return
		}
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Tutor is unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
