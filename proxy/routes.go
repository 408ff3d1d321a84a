package proxy

import "github.com/gin-gonic/gin"

// Route paths.
const (
	PathTranscriptions = "/v1/audio/transcriptions"
	PathHealth         = "/health"
)

// RegisterRoutes mounts the transcription API and the health endpoint.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST(PathTranscriptions, h.Transcriptions)
	r.GET(PathHealth, h.Health)
}
