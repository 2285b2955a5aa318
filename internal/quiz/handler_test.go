package quiz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/examprep/backend/internal/models"
)

func newTestRouter(t *testing.T, deps SessionDeps) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(NewManager(deps)).RegisterRoutes(r)
	return r
}

func authed(req *http.Request, userID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), "user_id", userID))
}

func TestStartSessionEndpoint(t *testing.T) {
	router := newTestRouter(t, testDeps(makePool(5), &fakeProgress{user: freeUser()}, newFakeBoard()))

	body := `{"mode":"fixed-size","topic":"algebra","exam_size":"2","username":"ada"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/quiz/sessions", strings.NewReader(body)), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("missing session id")
	}
	if resp.State != models.StateActive {
		t.Errorf("state = %s, want active", resp.State)
	}
	if resp.Question == nil {
		t.Fatal("no question in response")
	}

	// The session is retrievable by its owner and hidden from others.
	get := authed(httptest.NewRequest(http.MethodGet, "/quiz/sessions/"+resp.SessionID, nil), 1)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, get)
	if rec.Code != http.StatusOK {
		t.Errorf("owner GET status = %d", rec.Code)
	}

	other := authed(httptest.NewRequest(http.MethodGet, "/quiz/sessions/"+resp.SessionID, nil), 99)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, other)
	if rec.Code != http.StatusNotFound {
		t.Errorf("other user GET status = %d, want 404", rec.Code)
	}
}

func TestStartSessionRequiresAuth(t *testing.T) {
	router := newTestRouter(t, testDeps(makePool(5), &fakeProgress{user: freeUser()}, newFakeBoard()))

	req := httptest.NewRequest(http.MethodPost, "/quiz/sessions", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestStartSessionInvalidMode(t *testing.T) {
	router := newTestRouter(t, testDeps(makePool(5), &fakeProgress{user: freeUser()}, newFakeBoard()))

	body := `{"mode":"speedrun","topic":"algebra"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/quiz/sessions", strings.NewReader(body)), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStartSessionQuotaExceededReturnsSessionState(t *testing.T) {
	deps := testDeps(makePool(5), &fakeProgress{user: freeUser()}, newFakeBoard())
	deps.Gate = &fakeGate{allow: false}
	router := newTestRouter(t, deps)

	body := `{"mode":"one-by-one","topic":"algebra"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/quiz/sessions", strings.NewReader(body)), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with errored session", rec.Code)
	}
	var resp models.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.State != models.StateErrored || resp.ErrorCode != "quota_exceeded" {
		t.Errorf("state/code = %s/%s, want error/quota_exceeded", resp.State, resp.ErrorCode)
	}
}

func TestSubmitAnswerEndpoint(t *testing.T) {
	board := newFakeBoard()
	router := newTestRouter(t, testDeps(makePool(5), &fakeProgress{user: freeUser()}, board))

	start := `{"mode":"fixed-size","topic":"algebra","exam_size":"1","username":"ada"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/quiz/sessions", strings.NewReader(start)), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var session models.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decoding session: %v", err)
	}

	answer := `{"answer":"right","time_spent_seconds":9}`
	req = authed(httptest.NewRequest(http.MethodPost, "/quiz/sessions/"+session.SessionID+"/answers", strings.NewReader(answer)), 1)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result models.AnswerResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if !result.Correct {
		t.Error("answer should be correct")
	}
	if result.Session.State != models.StateFinished {
		t.Errorf("state = %s, want finished", result.Session.State)
	}
	if board.submissions["ada"] != 1 {
		t.Errorf("score = %d, want 1", board.submissions["ada"])
	}
}
