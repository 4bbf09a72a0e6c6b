package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalfonso89/rolimons-bridge/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ping", func(c *gin.Context) {
		requestID, _ := c.Get(RequestIDKey)
		c.String(http.StatusOK, "%v", requestID)
	})
	return router
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	router := newTestRouter(RequestID())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	requestID := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, requestID, w.Body.String())
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	router := newTestRouter(RequestID())

	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set("X-Request-ID", "front-end-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, request)

	assert.Equal(t, "front-end-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "front-end-42", w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(SecurityHeaders())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
}

func TestCORS(t *testing.T) {
	router := newTestRouter(CORS("tauri://localhost"))

	t.Run("preflight short circuits", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "tauri://localhost", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("simple request passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tauri://localhost", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogger_WritesStructuredEntry(t *testing.T) {
	var buffer bytes.Buffer
	router := newTestRouter(RequestID(), RequestLogger(logger.NewWithOutput("info", &buffer)))

	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, request)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buffer.Bytes()), &entry))
	assert.Equal(t, "HTTP Request", entry["msg"])
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
}
