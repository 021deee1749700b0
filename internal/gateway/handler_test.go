package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/platform/httpx"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	UserID string
	Body   string
}

// newTestGateway wires the gateway router against a stub backend that
// records what it receives and answers with a canned response.
func newTestGateway(t *testing.T, backendStatus int, backendBody string) (*gin.Engine, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = r.URL.RawQuery
		captured.UserID = r.Header.Get(httpx.HeaderUserID)
		b, _ := io.ReadAll(r.Body)
		captured.Body = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(backendStatus)
		fmt.Fprint(w, backendBody)
	}))
	t.Cleanup(backend.Close)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewClient(backend.URL, 2*time.Second))
	return r, captured
}

func perform(r *gin.Engine, method, target, body string, userID string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(httpx.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestRelayVerbatim(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusCreated, `{"id":1,"name":"Ira","email":"ira@example.com"}`)

	w := perform(r, http.MethodPost, "/users", `{"name":"Ira","email":"ira@example.com"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ira","email":"ira@example.com"}`, w.Body.String())
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/users", captured.Path)
	assert.JSONEq(t, `{"name":"Ira","email":"ira@example.com"}`, captured.Body)
}

func TestRelayBackendError(t *testing.T) {
	r, _ := newTestGateway(t, http.StatusConflict, `{"error":"CONFLICT","description":"email already in use"}`)

	w := perform(r, http.MethodPost, "/users", `{"name":"Ira","email":"ira@example.com"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errCode(t, w))
}

func TestCreateUser_InvalidBody(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusCreated, `{}`)

	tests := []string{
		`{"email":"ira@example.com"}`,
		`{"name":"Ira"}`,
		`{"name":"Ira","email":"not-an-email"}`,
		`not json`,
	}
	for _, body := range tests {
		w := perform(r, http.MethodPost, "/users", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
	assert.Empty(t, captured.Method, "backend must not be called for invalid input")
}

// At this tier a missing identity header is an input error, not a
// conflict; only the backend answers 409 for it.
func TestItems_RequireUserHeader(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusOK, `[]`)

	w := perform(r, http.MethodGet, "/items", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errCode(t, w))
	assert.Empty(t, captured.Method)
}

func TestItems_BadUserHeader(t *testing.T) {
	r, _ := newTestGateway(t, http.StatusOK, `[]`)

	w := perform(r, http.MethodGet, "/items", "", "zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItems_ForwardsUserHeader(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusOK, `[]`)

	w := perform(r, http.MethodGet, "/items", "", "7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", captured.UserID)
}

// Search needs no identity header and relays anonymously.
func TestSearch_NoHeaderNeeded(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusOK, `[]`)

	w := perform(r, http.MethodGet, "/items/search?text=drill", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/items/search", captured.Path)
	assert.Contains(t, captured.Query, "text=")
	assert.Empty(t, captured.UserID)
}

func TestCreateBooking_DateChecks(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusCreated, `{}`)

	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	farFuture := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	tests := []struct {
		name string
		body string
	}{
		{"end before start", fmt.Sprintf(`{"start":%q,"end":%q,"itemId":1}`, farFuture, future)},
		{"start in past", fmt.Sprintf(`{"start":%q,"end":%q,"itemId":1}`, past, future)},
		{"missing end", fmt.Sprintf(`{"start":%q,"itemId":1}`, future)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, http.MethodPost, "/bookings", tt.body, "7")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, captured.Method)

	valid := fmt.Sprintf(`{"start":%q,"end":%q,"itemId":1}`, future, farFuture)
	w := perform(r, http.MethodPost, "/bookings", valid, "7")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/bookings", captured.Path)
}

func TestApproveBooking_QueryValidation(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusOK, `{}`)

	w := perform(r, http.MethodPatch, "/bookings/5?approved=maybe", "", "7")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, captured.Method)

	w = perform(r, http.MethodPatch, "/bookings/5?approved=true", "", "7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/bookings/5", captured.Path)
	assert.Equal(t, "approved=true", captured.Query)
}

func TestListAllRequests_PagingValidation(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusOK, `[]`)

	for _, target := range []string{
		"/requests/all?from=-1",
		"/requests/all?size=0",
		"/requests/all?from=x",
	} {
		w := perform(r, http.MethodGet, target, "", "7")
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
	}
	assert.Empty(t, captured.Method)

	w := perform(r, http.MethodGet, "/requests/all", "", "7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from=0&size=10", captured.Query)
}

func TestBackendDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Nothing listens on this port.
	RegisterRoutes(r, NewClient("http://127.0.0.1:1", 500*time.Millisecond))

	w := perform(r, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "INTERNAL", errCode(t, w))
}

func TestInvalidPathID(t *testing.T) {
	r, captured := newTestGateway(t, http.StatusOK, `{}`)

	w := perform(r, http.MethodGet, "/users/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, captured.Method)
}
