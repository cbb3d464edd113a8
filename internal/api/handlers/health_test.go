package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltaware/phantomwatt/internal/config"
	"github.com/voltaware/phantomwatt/internal/mlclient"
)

func TestHealth_NothingConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(nil, nil, nil, "test").Health)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Services["database"], "not configured")
	assert.Contains(t, resp.Services["redis"], "not configured")
	assert.Contains(t, resp.Services["classifier"], "not configured")
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
}

func TestClassifierStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
	}))
	defer server.Close()

	client := mlclient.NewClient(&config.ClassifierConfig{ServiceURL: server.URL, Timeout: 2, Threshold: 0.5})
	h := NewHealthHandler(nil, nil, client, "test")

	assert.Equal(t, "healthy", h.classifierStatus(context.Background()))
}

func TestClassifierStatus_ModelNotLoaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","model_loaded":false}`))
	}))
	defer server.Close()

	client := mlclient.NewClient(&config.ClassifierConfig{ServiceURL: server.URL, Timeout: 2, Threshold: 0.5})
	h := NewHealthHandler(nil, nil, client, "test")

	assert.Contains(t, h.classifierStatus(context.Background()), "model not loaded")
}

func TestClassifierStatus_Unreachable(t *testing.T) {
	client := mlclient.NewClient(&config.ClassifierConfig{ServiceURL: "http://127.0.0.1:1", Timeout: 1, Threshold: 0.5})
	h := NewHealthHandler(nil, nil, client, "test")

	assert.Contains(t, h.classifierStatus(context.Background()), "unhealthy")
}
