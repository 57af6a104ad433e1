package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tablebid/internal/metrics"
	"tablebid/internal/service"
)

// AuthHandler expone el login por OTP.
type AuthHandler struct {
	logger  *zap.Logger
	auth    *service.AuthService
	metrics *metrics.Metrics
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth, metrics: m}
}

// RequestOTP maneja POST /auth/request-otp.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}
	if err := bindJSONObject(c, &req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if err := h.auth.RequestChallenge(c.Request.Context(), req.PhoneNumber); err != nil {
		writeError(c, h.logger, "request otp", err)
		return
	}
	h.metrics.IncOTPRequested()
	ok(c, gin.H{"message": "OTP sent"})
}

// VerifyOTP maneja POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
	}
	if err := bindJSONObject(c, &req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	res, err := h.auth.VerifyChallenge(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		writeError(c, h.logger, "verify otp", err)
		return
	}
	h.metrics.IncSessionIssued()
	ok(c, gin.H{
		"sessionToken": res.SessionToken,
		"phoneNumber":  res.PhoneNumber,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout maneja POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(authTokenKey)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		writeError(c, h.logger, "logout", err)
		return
	}
	ok(c, nil)
}
