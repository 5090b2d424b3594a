// AngelaMos | 2026
// requestid_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureRequestID(t *testing.T, inbound string) (seen, echoed string) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return seen, rec.Header().Get(RequestIDHeader)
}

func TestRequestIDReusesInbound(t *testing.T) {
	seen, echoed := captureRequestID(t, "trace-abc")
	assert.Equal(t, "trace-abc", seen)
	assert.Equal(t, "trace-abc", echoed)
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	seen, echoed := captureRequestID(t, "")
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, echoed)
}

func TestRequestIDReplacesOversized(t *testing.T) {
	seen, _ := captureRequestID(t, strings.Repeat("x", maxRequestIDLength+1))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
