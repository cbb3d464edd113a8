package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltaware/phantomwatt/internal/config"
	"github.com/voltaware/phantomwatt/internal/models"
	"github.com/voltaware/phantomwatt/internal/services"
)

func newTestService(datasetPath string) *services.DetectionService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		Dataset:    config.DatasetConfig{Path: datasetPath},
		Simulation: config.SimulationConfig{DefaultTargetPercent: 20.0},
	}
	return services.NewDetectionService(nil, nil, nil, cfg, logger)
}

// setUser simulates the optional-auth middleware having validated a token.
func setUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func setupDetectionRouter(svc *services.DetectionService, middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares...)
	router.GET("/detect", NewDetectionHandler(svc).Detect)
	return router
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.DetectionEnvelope {
	t.Helper()
	var env models.DetectionEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestDetect_UnauthenticatedReturnsDemo(t *testing.T) {
	router := setupDetectionRouter(newTestService("testdata/sample_data.csv"))

	req, _ := http.NewRequest("GET", "/detect", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Demo)
	assert.Equal(t, 10, env.TotalReadings)
	assert.Len(t, env.Predictions, 10)
	assert.Len(t, env.Probabilities, 10)
}

func TestDetect_SimulateWithTarget(t *testing.T) {
	svc := newTestService("testdata/sample_data.csv")
	router := setupDetectionRouter(svc, setUser("user-1"))

	req, _ := http.NewRequest("GET", "/detect?simulate=true&phantom=35", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Simulated)
	require.NotNil(t, env.TargetPhantomPercentage)
	assert.Equal(t, 35.0, *env.TargetPhantomPercentage)
	assert.Equal(t, 1440, env.TotalReadings)
}

func TestDetect_ExplicitZeroTargetHonored(t *testing.T) {
	svc := newTestService("testdata/sample_data.csv")
	router := setupDetectionRouter(svc, setUser("user-1"))

	req, _ := http.NewRequest("GET", "/detect?simulate=true&phantom=0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Simulated)
	require.NotNil(t, env.TargetPhantomPercentage)
	assert.Equal(t, 0.0, *env.TargetPhantomPercentage)
}

func TestDetect_NegativeTargetUsesDefault(t *testing.T) {
	svc := newTestService("testdata/sample_data.csv")
	router := setupDetectionRouter(svc, setUser("user-1"))

	req, _ := http.NewRequest("GET", "/detect?simulate=true&phantom=-5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.TargetPhantomPercentage)
	assert.Equal(t, 20.0, *env.TargetPhantomPercentage)
}

func TestDetect_BadQueryParamsStillServe(t *testing.T) {
	svc := newTestService("testdata/sample_data.csv")
	router := setupDetectionRouter(svc, setUser("user-1"))

	req, _ := http.NewRequest("GET", "/detect?simulate=banana&phantom=lots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Unparsable parameters are ignored, never a 4xx. simulate=banana is
	// treated as absent, so the request routes as a plain detection.
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Nil(t, env.TargetPhantomPercentage)
}

func TestDetect_AuthenticatedWithoutStoreFallsBack(t *testing.T) {
	svc := newTestService("testdata/sample_data.csv")
	router := setupDetectionRouter(svc, setUser("user-1"))

	req, _ := http.NewRequest("GET", "/detect", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// No appliance store wired: the request still answers 200 with the
	// default simulation and an error note.
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Fallback)
	assert.NotEmpty(t, env.Error)
	assert.Equal(t, 1440, env.TotalReadings)
}
