package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"deception/internal/app"
	"deception/internal/config"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mode:           "release",
		Port:           0,
		ReadLimit:      4096,
		PingPeriod:     time.Second,
		Secret:         "test-secret",
		MinPlayers:     4,
		JoinRateLimit:  5,
		JoinRateWindow: time.Second,
	}
	orch := &app.Orchestrator{
		Store:   app.NewRoomStore(cfg.MinPlayers),
		Gateway: app.NewRegistry(),
		Policy:  app.SimplePolicy{},
	}
	return SetupRouter(context.Background(), cfg, orch)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createRoom(t *testing.T, r *gin.Engine, host string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/rooms", fmt.Sprintf(`{"host":%q}`, host))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("create: bad response %s: %v", w.Body.String(), err)
	}
	if len(resp.Code) != 6 {
		t.Fatalf("create: expected 6-char code, got %q", resp.Code)
	}
	return resp.Code
}

func TestCreateAndGetRoom(t *testing.T) {
	r := testRouter()
	code := createRoom(t, r, "Alice")

	w := doJSON(t, r, http.MethodGet, "/api/rooms/"+code, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var snap struct {
		Code    string   `json:"code"`
		Players []string `json:"players"`
		Started bool     `json:"started"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("get: bad response: %v", err)
	}
	if snap.Code != code || len(snap.Players) != 1 || snap.Players[0] != "Alice" || snap.Started {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestGetRoomCodeCaseInsensitive(t *testing.T) {
	r := testRouter()
	code := createRoom(t, r, "Alice")

	w := doJSON(t, r, http.MethodGet, "/api/rooms/"+strings.ToLower(code), "")
	if w.Code != http.StatusOK {
		t.Fatalf("lowercased code: expected 200, got %d", w.Code)
	}
}

func TestGetUnknownRoom(t *testing.T) {
	r := testRouter()
	w := doJSON(t, r, http.MethodGet, "/api/rooms/NOPE00", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	r := testRouter()
	for _, body := range []string{`{}`, `{"host":""}`, `{"host":"   "}`} {
		w := doJSON(t, r, http.MethodPost, "/api/rooms", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestJoinPointsAtSignalChannel(t *testing.T) {
	r := testRouter()
	code := createRoom(t, r, "Alice")

	w := doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/join", `{"name":"Bob"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/ws") {
		t.Fatalf("guidance failure must point at the ws endpoint: %s", w.Body.String())
	}
}

func TestStartFailures(t *testing.T) {
	r := testRouter()
	code := createRoom(t, r, "Alice")

	if w := doJSON(t, r, http.MethodPost, "/api/rooms/"+code+"/start", ""); w.Code != http.StatusConflict {
		t.Fatalf("1 player: expected 409, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/rooms/NOPE00/start", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown room: expected 404, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	r := testRouter()
	if w := doJSON(t, r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
