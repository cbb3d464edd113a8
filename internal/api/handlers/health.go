package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/voltaware/phantomwatt/internal/database"
	"github.com/voltaware/phantomwatt/internal/mlclient"
)

var startTime = time.Now()

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	db       *database.PostgresDB
	redis    *database.RedisClient
	mlClient *mlclient.Client
	version  string
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	System    SystemStats       `json:"system"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
}

// SystemStats carries host resource usage for operators.
type SystemStats struct {
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	CPUPercent        float64 `json:"cpu_percent"`
}

func NewHealthHandler(db *database.PostgresDB, redis *database.RedisClient, mlClient *mlclient.Client, version string) *HealthHandler {
	return &HealthHandler{
		db:       db,
		redis:    redis,
		mlClient: mlClient,
		version:  version,
	}
}

// Health checks every dependency. The classifier being down does not make
// the service unhealthy, only degraded: detection falls back to the
// rule-based classifier and keeps serving.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	services := make(map[string]string)

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			services["database"] = "unhealthy: " + err.Error()
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "unhealthy: not configured"
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "unhealthy: not configured"
	}

	services["classifier"] = h.classifierStatus(ctx)

	status := "healthy"
	statusCode := http.StatusOK
	for name, state := range services {
		if state == "healthy" || name == "classifier" {
			continue
		}
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		break
	}
	if status == "healthy" && services["classifier"] != "healthy" {
		status = "degraded"
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
		System:    systemStats(ctx),
		Version:   h.version,
		Uptime:    time.Since(startTime).String(),
	})
}

func (h *HealthHandler) classifierStatus(ctx context.Context) string {
	if h.mlClient == nil {
		return "unhealthy: not configured"
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := h.mlClient.HealthCheck(ctx)
	if err != nil {
		return "unhealthy: " + err.Error()
	}
	if !resp.ModelLoaded {
		return "degraded: model not loaded"
	}
	return "healthy"
}

// systemStats samples host usage without blocking: a zero-interval CPU
// reading compares against the previous call instead of sleeping.
func systemStats(ctx context.Context) SystemStats {
	stats := SystemStats{}

	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryUsedPercent = memInfo.UsedPercent
	}
	if cpuPercent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercent) > 0 {
		stats.CPUPercent = cpuPercent[0]
	}

	return stats
}
