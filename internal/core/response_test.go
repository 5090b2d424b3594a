// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestJSONErrorUsesAppErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, ConflictError("chat already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeError(t, rec)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Equal(t, "chat already exists", body.Message)
}

func TestJSONErrorFallsBackTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "disk on fire", body.Message)
}

func TestSuccessHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, MessageResponse{Message: "made"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"made"}`, rec.Body.String())
}

func TestShortcutHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "chat")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "chat not found", decodeError(t, rec).Message)

	rec = httptest.NewRecorder()
	BadRequest(rec, "content is required")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	Forbidden(rec, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
