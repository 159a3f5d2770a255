package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{apperrors.NewUnauthorizedError("not authorized"), http.StatusForbidden},
		{apperrors.NewNotFoundError("missing"), http.StatusNotFound},
		{apperrors.NewConflictError("busy"), http.StatusConflict},
		{apperrors.NewStoreError("down", errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestWriteErrorHidesStoreDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(zerolog.Nop(), rec, apperrors.NewStoreError("data store request failed", errors.New("connection refused")))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "internal error", body.Error)
}

func TestWriteErrorKeepsValidationMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(zerolog.Nop(), rec, apperrors.NewValidationError("invalid coordinates"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid coordinates", body.Error)
}

func TestParseHelpers(t *testing.T) {
	v, ok := ParsePositiveInt("5", 10)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	v, ok = ParsePositiveInt("-1", 10)
	assert.False(t, ok)
	assert.Equal(t, 10, v)

	assert.True(t, ParseBool("", true))
	assert.False(t, ParseBool("", false))
	assert.True(t, ParseBool("YES", false))
	assert.False(t, ParseBool("nope", true))
}
