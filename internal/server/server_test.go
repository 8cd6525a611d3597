package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		stats      map[string]string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"database up", map[string]string{"status": "up", "total_conns": "2"}, nil, http.StatusOK, "ok"},
		{"database down", map[string]string{"status": "down"}, errors.New("connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := healthHandler(func(ctx context.Context) (map[string]string, error) {
				return tt.stats, tt.err
			}, zap.NewNop())

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Status   string            `json:"status"`
				Database map[string]string `json:"database"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Equal(t, tt.stats, body.Database)
		})
	}
}
