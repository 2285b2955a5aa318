package progress

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/examprep/backend/internal/models"
	"github.com/examprep/backend/internal/notify"
)

// BadgeAssigner decides whether an account event earns an early-adopter
// badge. Satisfied by badges.Assigner.
type BadgeAssigner interface {
	Assign(ctx context.Context, userID int64, isPremium bool) (*string, error)
}

type Handler struct {
	store    *Store
	gate     *QuotaGate
	badges   BadgeAssigner
	notifier notify.Notifier
}

func NewHandler(store *Store, gate *QuotaGate, assigner BadgeAssigner, notifier notify.Notifier) *Handler {
	return &Handler{store: store, gate: gate, badges: assigner, notifier: notifier}
}

// RegisterRoutes registers the progress endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/users/me/progress", h.GetProgress).Methods("GET")
	protected.HandleFunc("/users/me/upgrade", h.Upgrade).Methods("POST")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}

	analytics, err := h.store.GetAnalytics(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load analytics"})
		return
	}

	resp := models.ProgressResponse{User: *user, Analytics: analytics}
	if !user.IsPremium() {
		left := h.gate.QuestionsLeftToday(user)
		resp.QuestionsLeftToday = &left
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	user, err := h.store.UpgradeToPremium(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to upgrade account"})
		return
	}

	badge, err := h.badges.Assign(r.Context(), userID, true)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to upgrade account"})
		return
	}
	if badge != nil {
		user.Badge = badge
		h.notifier.Send(r.Context(), userID, "You earned the "+*badge+" badge!")
	}

	writeJSON(w, http.StatusOK, models.UpgradeResponse{User: *user, Badge: badge})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
