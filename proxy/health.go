package proxy

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/asr-proxy/logger"
	"github.com/kbukum/asr-proxy/observability"
	"github.com/kbukum/asr-proxy/transcription"
)

// Health body values. The "whisper" key is part of the public contract and
// stays the same whichever backend is configured.
const (
	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"
	backendOK             = "ok"
	backendUnreachable    = "unreachable"
)

type healthResponse struct {
	Status  string `json:"status"`
	Whisper string `json:"whisper"`
}

// CheckHealth checks the backend and reports the composite status.
func (h *Handler) CheckHealth(ctx context.Context) transcription.HealthStatus {
	ctx, span := observability.StartSpan(ctx, observability.SpanHealthCheck)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrBackend, h.backend.Name())

	ok := h.backend.CheckHealth(ctx)
	h.metrics.ObserveHealth(ok)
	observability.SetSpanAttribute(ctx, "asr.backend_reachable", ok)
	return transcription.HealthStatus{Healthy: ok, BackendReachable: ok}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	status := h.CheckHealth(c.Request.Context())
	if status.Healthy {
		c.JSON(http.StatusOK, healthResponse{Status: healthStatusHealthy, Whisper: backendOK})
		return
	}

	if h.debug {
		h.log.WithContext(c.Request.Context()).Warn("Backend health check failed", logger.Fields(
			logger.FieldBackend, h.backend.Name(),
		))
	}
	c.JSON(http.StatusServiceUnavailable, healthResponse{Status: healthStatusUnhealthy, Whisper: backendUnreachable})
}
