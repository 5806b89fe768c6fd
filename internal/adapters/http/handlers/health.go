// Package handlers provides the gin handlers of the quote API.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// BuildInfo is stamped into the binary with ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo fills GoVersion from the running toolchain.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// Inventory reports what the store currently holds.
type Inventory interface {
	Len() int
	SelectedCategory() string
}

// HealthHandler serves the /-/ probe endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	inventory Inventory
	buildInfo BuildInfo
}

// NewHealthHandler creates a health handler. registry and inventory may be
// nil; readiness then reports healthy with no checks.
func NewHealthHandler(registry ports.HealthRegistry, inventory Inventory, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		inventory: inventory,
		buildInfo: buildInfo,
	}
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness handles GET /-/live. It never checks dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Quotes *int                          `json:"quotes,omitempty"`
	Filter *string                       `json:"filter,omitempty"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness handles GET /-/ready.
//
// Only an unhealthy result answers 503. A degraded service, typically one
// whose remote quote source is down, still serves its local store and stays
// ready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	resp := readinessResponse{Status: string(ports.HealthStatusHealthy)}

	if h.registry != nil {
		result := h.registry.CheckAll(c.Request.Context())
		resp.Status = string(result.Status)
		resp.Checks = result.Checks
	}

	if h.inventory != nil {
		count, filter := h.inventory.Len(), h.inventory.SelectedCategory()
		resp.Quotes = &count
		resp.Filter = &filter
	}

	status := http.StatusOK
	if resp.Status == string(ports.HealthStatusUnhealthy) {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

// BuildInfoHandler handles GET /-/build.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RegisterHealthRoutes mounts live, ready, build and metrics on rg.
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(MetricsHandler()))
}

// RegisterHealthRoutesOnEngine mounts the probe routes under /-.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	h.RegisterHealthRoutes(engine.Group("/-"))
}
