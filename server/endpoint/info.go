package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/asr-proxy/version"
)

var startTime = time.Now()

// Info reports build information, uptime and any extra details the service
// wants to expose (for example the backend it forwards to).
func Info(serviceName string, extra map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		body := gin.H{
			"service":    serviceName,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"go_version": v.GoVersion,
			"uptime":     time.Since(startTime).Round(time.Second).String(),
		}
		for k, val := range extra {
			body[k] = val
		}
		c.JSON(http.StatusOK, body)
	}
}
