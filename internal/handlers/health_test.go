package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getHealth(t *testing.T) HealthResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	NewHealthHandler(false, testMaxBody).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestHealthHandler(t *testing.T) {
	t.Run("reports healthy service", func(t *testing.T) {
		response := getHealth(t)

		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, serviceName, response.Service)
		assert.NotEmpty(t, response.Uptime)
	})

	t.Run("timestamp is recent RFC3339", func(t *testing.T) {
		before := time.Now().UTC().Add(-1 * time.Second)
		response := getHealth(t)
		after := time.Now().UTC().Add(1 * time.Second)

		timestamp, err := time.Parse(time.RFC3339, response.Timestamp)
		require.NoError(t, err)
		assert.False(t, timestamp.Before(before))
		assert.False(t, timestamp.After(after))
	})

	t.Run("details carry runtime info", func(t *testing.T) {
		response := getHealth(t)

		assert.Equal(t, runtime.Version(), response.Details["go_version"])
		assert.Equal(t, strconv.Itoa(runtime.NumCPU()), response.Details["num_cpu"])
	})

	t.Run("details carry graph defaults", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		NewHealthHandler(true, 2048).ServeHTTP(w, req)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "true", response.Details["collapse_joins"])
		assert.Equal(t, "2048", response.Details["max_body_bytes"])
	})

	t.Run("uptime increases over time", func(t *testing.T) {
		first := getHealth(t)
		time.Sleep(10 * time.Millisecond)
		second := getHealth(t)

		assert.NotEqual(t, first.Uptime, second.Uptime)
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead} {
		t.Run("returns 405 for "+method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			NewHealthHandler(false, testMaxBody).ServeHTTP(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}

	t.Run("handles multiple concurrent requests", func(t *testing.T) {
		numRequests := 10
		results := make(chan int, numRequests)

		for range numRequests {
			go func() {
				req := httptest.NewRequest(http.MethodGet, "/health", nil)
				w := httptest.NewRecorder()
				NewHealthHandler(false, testMaxBody).ServeHTTP(w, req)
				results <- w.Code
			}()
		}

		for range numRequests {
			assert.Equal(t, http.StatusOK, <-results)
		}
	})
}

func TestHealthResponse_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(HealthResponse{Status: "healthy", Service: serviceName})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "uptime")
	assert.NotContains(t, string(data), "details")
}
