package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// loggedRequest builds a request whose context carries a zerolog logger
// writing into buf, the same way withTraceID installs one.
func loggedRequest(method, path string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	l := zerolog.New(buf).With().Timestamp().Logger()
	return req.WithContext(l.WithContext(req.Context()))
}

// ─────────────────────────────────────────────
// withLogging
// ─────────────────────────────────────────────

func TestWithLogging_RequestFields(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		body      string
		wantInLog []string
	}{
		{
			name:   "login accepted",
			method: http.MethodPost,
			path:   "/api/auth/login",
			status: http.StatusOK,
			body:   "ok",
			wantInLog: []string{
				`"method":"POST"`,
				`"uri":"/api/auth/login"`,
				`"status":200`,
				`"duration":`,
				`"size":2`,
			},
		},
		{
			name:   "register created",
			method: http.MethodPost,
			path:   "/api/auth/register",
			status: http.StatusCreated,
			body:   "created",
			wantInLog: []string{
				`"method":"POST"`,
				`"status":201`,
			},
		},
		{
			name:   "refresh rejected",
			method: http.MethodPost,
			path:   "/api/auth/refresh",
			status: http.StatusUnauthorized,
			body:   "invalid token",
			wantInLog: []string{
				`"uri":"/api/auth/refresh"`,
				`"status":401`,
			},
		},
		{
			name:   "unknown route",
			method: http.MethodGet,
			path:   "/api/nope",
			status: http.StatusNotFound,
			wantInLog: []string{
				`"status":404`,
				`"size":0`,
			},
		},
		{
			name:   "query string preserved in uri",
			method: http.MethodGet,
			path:   "/api/version?verbose=1",
			status: http.StatusOK,
			body:   "v",
			wantInLog: []string{
				`"uri":"/api/version?verbose=1"`,
			},
		},
	}

	h := newTestHandler(&mockAuthService{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			req := loggedRequest(tt.method, tt.path, &logBuf)
			rr := httptest.NewRecorder()
			h.withLogging(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)

			logOutput := logBuf.String()
			assert.NotEmpty(t, logOutput, "request must be logged")
			for _, expected := range tt.wantInLog {
				assert.Contains(t, logOutput, expected)
			}
		})
	}
}

func TestWithLogging_ResponseSize(t *testing.T) {
	h := newTestHandler(&mockAuthService{})

	var logBuf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat("a", 1024)))
	})

	req := loggedRequest(http.MethodGet, "/api/auth/me", &logBuf)
	rr := httptest.NewRecorder()
	h.withLogging(next).ServeHTTP(rr, req)

	assert.Contains(t, logBuf.String(), `"size":1024`)
}

func TestWithLogging_ImplicitStatusIs200(t *testing.T) {
	h := newTestHandler(&mockAuthService{})

	var logBuf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("implicit"))
	})

	req := loggedRequest(http.MethodGet, "/api/version", &logBuf)
	rr := httptest.NewRecorder()
	h.withLogging(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, logBuf.String(), `"status":200`)
}

func TestWithLogging_DurationObserved(t *testing.T) {
	h := newTestHandler(&mockAuthService{})
	delay := 80 * time.Millisecond

	var logBuf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		w.WriteHeader(http.StatusOK)
	})

	req := loggedRequest(http.MethodGet, "/api/auth/me", &logBuf)
	rr := httptest.NewRecorder()

	start := time.Now()
	h.withLogging(next).ServeHTTP(rr, req)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, delay)
	assert.Contains(t, logBuf.String(), `"duration":`)
}

func TestWithLogging_ConcurrentRequests(t *testing.T) {
	h := newTestHandler(&mockAuthService{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := h.withLogging(next)

	const n = 50
	done := make(chan struct{}, n)

	for i := 0; i < n; i++ {
		go func() {
			var buf bytes.Buffer
			req := loggedRequest(http.MethodGet, "/api/version", &buf)
			rr := httptest.NewRecorder()
			middleware.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, buf.String(), `"status":200`)
			done <- struct{}{}
		}()
	}

	for i := 0; i < n; i++ {
		<-done
	}
}

func TestWithLogging_PanicNotSuppressed(t *testing.T) {
	// Recovery belongs to chi's Recoverer, installed above this middleware.
	h := newTestHandler(&mockAuthService{})

	var logBuf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := loggedRequest(http.MethodGet, "/api/auth/me", &logBuf)
	rr := httptest.NewRecorder()

	assert.Panics(t, func() {
		h.withLogging(next).ServeHTTP(rr, req)
	})
}

func TestWithLogging_NopLogger(t *testing.T) {
	h := newTestHandler(&mockAuthService{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	nop := logger.Nop()
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req = req.WithContext(nop.Logger.WithContext(req.Context()))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.withLogging(next).ServeHTTP(rr, req)
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}
