package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CREATESHARE_BACK-END/internal/dto"
)

func TestWriteErrorResponse_Status(t *testing.T) {
	tests := []struct {
		code  int
		state string
	}{
		{http.StatusBadRequest, "fail"},
		{http.StatusNotFound, "fail"},
		{http.StatusInternalServerError, "error"},
		{http.StatusGatewayTimeout, "error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteErrorResponse(rec, tt.code, "Title", "msg")

		var body dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, tt.code, rec.Code)
		assert.Equal(t, tt.state, body.Status)
		assert.Equal(t, "msg", body.Message)
	}
}

func TestWriteList_IncludesResults(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, 2, []string{"a", "b"})

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, 2, body["results"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
