package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	var seen string
	r := mux.NewRouter()
	r.Use(Logging(log))
	r.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x?date=2024-01-01", nil))

	id := rr.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, seen)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, id, entry["request_id"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "date=2024-01-01", entry["query"])
}

func TestLogging_KeepsClientRequestID(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestCacheFor(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"implicit ok", 0, "public, max-age=86400, s-maxage=86400"},
		{"explicit ok", http.StatusOK, "public, max-age=86400, s-maxage=86400"},
		{"not found", http.StatusNotFound, "no-store"},
		{"server error", http.StatusInternalServerError, "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CacheFor(24 * time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte(`{}`))
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, rr.Header().Get("Cache-Control"))
		})
	}
}
