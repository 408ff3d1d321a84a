package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/asr-proxy/errors"
)

// RespondWithError inspects err: if it is an *apperrors.AppError the status and
// body are derived from it; otherwise a generic 500 is sent.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// RespondRaw writes body unchanged with the given status and content type.
func RespondRaw(c *gin.Context, status int, contentType string, body []byte) {
	c.Data(status, contentType, body)
}
