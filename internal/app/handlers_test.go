package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, auth *Credentials) http.Handler {
	t.Helper()
	return NewServer(newTestService(t), auth, false).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, fn := range setup {
		fn(req)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["detail"]
}

func TestHandleRoot(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"start":"1970-01-01"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodGet, "/healthz", "", func(r *http.Request) {
		r.Header.Set(requestIDHeader, "abc-123")
	})
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleMethod(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		method string
		status int
	}{
		{http.MethodPost, http.StatusCreated},
		{http.MethodGet, http.StatusOK},
		{http.MethodPut, http.StatusOK},
		{http.MethodOptions, http.StatusOK},
		{http.MethodDelete, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := do(t, h, tt.method, "/method", "")
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"method":"`+tt.method+`"}`, w.Body.String())
		})
	}

	w := do(t, h, http.MethodPatch, "/method", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleDay(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		status int
		body   string
		detail string
	}{
		{name: "Valid", target: "/day/?name=monday&number=1", status: http.StatusOK, body: `"monday"`},
		{name: "Valid without slash", target: "/day?name=sunday&number=7", status: http.StatusOK, body: `"sunday"`},
		{name: "Mismatch", target: "/day/?name=monday&number=2", status: http.StatusBadRequest, detail: ErrInvalidDay},
		{name: "Out of range", target: "/day/?name=monday&number=8", status: http.StatusBadRequest, detail: ErrNumberOutOfRange},
		{name: "Not a number", target: "/day/?name=monday&number=one", status: http.StatusBadRequest, detail: ErrInvalidNumber},
		{name: "Missing name", target: "/day/?number=1", status: http.StatusBadRequest, detail: ErrMissingParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
			if tt.detail != "" {
				assert.Equal(t, tt.detail, decodeDetail(t, w))
			}
		})
	}
}

func TestEventsFlow(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPut, "/events", `{"event":"A","date":"2024-01-01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"A","date":"2024-01-01","id":0,"date_added":"2025-06-15"}`, w.Body.String())

	w = do(t, h, http.MethodPut, "/events", `{"event":"B","date":"2024-01-01"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Date is not validated on write
	w = do(t, h, http.MethodPut, "/events", `{"event":"C","date":"whenever"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":2`)

	w = do(t, h, http.MethodGet, "/events/2024-01-01", "")
	require.Equal(t, http.StatusOK, w.Code)

	var events []Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].Name)
	assert.Equal(t, 0, events[0].ID)
	assert.Equal(t, "B", events[1].Name)
	assert.Equal(t, 1, events[1].ID)

	w = do(t, h, http.MethodGet, "/events/not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrInvalidDateFormat, decodeDetail(t, w))

	w = do(t, h, http.MethodGet, "/events/2099-01-01", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrNoEventsFound, decodeDetail(t, w))
}

func TestHandleAddEvent_InvalidBody(t *testing.T) {
	h := newTestServer(t, nil)

	for _, body := range []string{`not json`, `{"event":"A"}`, `{"date":"2024-01-01"}`} {
		w := do(t, h, http.MethodPut, "/events", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestHandleAddEvent_RequiresAuthWhenConfigured(t *testing.T) {
	password := "TestPassword123456"
	hash, err := HashPassword(password)
	require.NoError(t, err)
	h := newTestServer(t, &Credentials{User: "admin", hash: []byte(hash)})

	w := do(t, h, http.MethodPut, "/events", `{"event":"A","date":"2024-01-01"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPut, "/events", `{"event":"A","date":"2024-01-01"}`, func(r *http.Request) {
		r.SetBasicAuth("admin", password)
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Reads stay open
	w = do(t, h, http.MethodGet, "/events/2024-01-01", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleStart(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodGet, "/start", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h1>The unix epoch started at 1970-01-01</h1>")
}

func TestHandleInfo(t *testing.T) {
	h := newTestServer(t, nil)
	withUA := func(r *http.Request) { r.Header.Set("User-Agent", "test-agent/1.0") }

	w := do(t, h, http.MethodGet, "/info?format=json", "", withUA)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_agent":"test-agent/1.0"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info?format=html", "", withUA)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "test-agent/1.0")

	w = do(t, h, http.MethodGet, "/info?format=xml", "", withUA)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrInvalidFormat, decodeDetail(t, w))

	w = do(t, h, http.MethodGet, "/info", "", withUA)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLegacyInfo(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodGet, "/v1/info?format=html", "", func(r *http.Request) {
		r.Header.Set("User-Agent", "legacy/2.0")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_agent":"legacy/2.0"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/info?format=", "", func(r *http.Request) {
		r.Header.Del("User-Agent")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_agent":null}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/info", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCheck(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name     string
		user     string
		password string
		noAuth   bool
		status   int
		contains string
		detail   string
	}{
		{name: "Adult", user: "alice", password: "2000-01-01", status: http.StatusOK, contains: "Welcome alice! You are 25"},
		{name: "Too young", user: "alice", password: "2020-01-01", status: http.StatusUnauthorized, detail: ErrTooYoung},
		{name: "Not a date", user: "alice", password: "not-a-date", status: http.StatusUnauthorized, detail: ErrWrongData},
		{name: "No credentials", noAuth: true, status: http.StatusUnauthorized, detail: ErrWrongData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/check", "", func(r *http.Request) {
				if !tt.noAuth {
					r.SetBasicAuth(tt.user, tt.password)
				}
			})
			assert.Equal(t, tt.status, w.Code)
			if tt.contains != "" {
				assert.Contains(t, w.Body.String(), tt.contains)
			}
			if tt.detail != "" {
				assert.Equal(t, tt.detail, decodeDetail(t, w))
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestHandleExport(t *testing.T) {
	h := newTestServer(t, nil)
	do(t, h, http.MethodPut, "/events", `{"event":"Launch","date":"2024-03-01"}`)

	w := do(t, h, http.MethodGet, "/events/2024-03-01/export?format=csv", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0,Launch,2024-03-01,2025-06-15")

	w = do(t, h, http.MethodGet, "/events/2024-03-01/export?format=ics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SUMMARY:Launch")

	w = do(t, h, http.MethodGet, "/events/2024-03-01/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/events/2024-03-02/export?format=csv", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
