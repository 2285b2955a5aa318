package leaderboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/examprep/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the leaderboard read endpoint. It lives on
// the public subrouter: the board carries display names only.
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/leaderboard", h.GetLeaderboard).Methods("GET")
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.Top(r.Context(), n)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, models.LeaderboardResponse{Entries: entries})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
