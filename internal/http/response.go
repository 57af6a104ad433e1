package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"tablebid/internal/service"
)

// ok escribe {success:true} mas los campos extra.
func ok(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

var errBodyNotObject = errors.New("request body must be a JSON object")

// bindJSONObject exige que el body sea un objeto JSON; cualquier otro valor se rechaza.
func bindJSONObject(c *gin.Context, obj any) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errBodyNotObject
	}
	return binding.JSON.BindBody(trimmed, obj)
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	fail(c, http.StatusBadRequest, "invalid request body")
}

// statusFor traduce errores de servicio a codigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrChallengeMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError responde con el codigo que corresponde; los 500 se loguean y no exponen el detalle.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
		fail(c, status, "internal error")
		return
	}
	fail(c, status, err.Error())
}
