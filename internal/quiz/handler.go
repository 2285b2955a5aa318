package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/examprep/backend/internal/models"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers quiz session endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/quiz/sessions", h.StartSession).Methods("POST")
	protected.HandleFunc("/quiz/sessions/{sessionID}", h.GetSession).Methods("GET")
	protected.HandleFunc("/quiz/sessions/{sessionID}/answers", h.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/quiz/sessions/{sessionID}/score", h.SubmitScore).Methods("POST")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	session, err := h.manager.Create(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create session"})
		return
	}

	if err := session.Start(r.Context(), req); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			h.manager.Remove(session.id)
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		// Quota and fetch failures are terminal session states, not
		// transport errors; the snapshot carries the error code.
		writeJSON(w, http.StatusOK, session.Snapshot())
		return
	}

	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	session, err := h.manager.Get(mux.Vars(r)["sessionID"], userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	session, err := h.manager.Get(mux.Vars(r)["sessionID"], userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := session.SubmitAnswer(r.Context(), req.Answer, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrSessionNotActive):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusOK, session.Snapshot())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	session, err := h.manager.Get(mux.Vars(r)["sessionID"], userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}

	var req models.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := session.SubmitPendingScore(r.Context(), req.Username); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit score"})
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
