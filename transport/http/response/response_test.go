package response_test

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"travelnest/shared/constant"
	"travelnest/shared/failure"
	"travelnest/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]int{"available": 4})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, map[string]any{"data": map[string]any{"available": float64(4)}}, decode(t, rec))
}

func TestWithJSONUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, math.Inf(1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode(t, rec)["error"])
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{name: "conflict keeps message", err: failure.Conflict("room sold out"), wantCode: http.StatusConflict, wantText: "room sold out"},
		{name: "not found keeps message", err: failure.NotFound("Invalid Room Selected"), wantCode: http.StatusNotFound, wantText: "Invalid Room Selected"},
		{name: "plain error is hidden", err: errors.New("pq: connection refused"), wantCode: http.StatusInternalServerError, wantText: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantText, decode(t, rec)["error"])
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		name     string
		write    func(http.ResponseWriter)
		wantCode int
		wantText string
	}{
		{name: "rate limited", write: response.WithRequestLimitExceeded, wantCode: http.StatusTooManyRequests, wantText: constant.ResponseErrorRequestLimitExceeded},
		{name: "shutting down", write: response.WithPreparingShutdown, wantCode: http.StatusServiceUnavailable, wantText: constant.ResponseErrorPrepareShutdown},
		{name: "unhealthy", write: response.WithUnhealthy, wantCode: http.StatusServiceUnavailable, wantText: constant.ResponseErrorUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			tt.write(rec)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantText, decode(t, rec)["message"])
		})
	}
}
