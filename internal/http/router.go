package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"tablebid/internal/metrics"
	"tablebid/internal/service"
)

// HealthCheck reporta si los stores responden. nil significa que no hay nada que chequear.
type HealthCheck func(ctx context.Context) error

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	m *metrics.Metrics,
	authSvc *service.AuthService,
	authH *AuthHandler,
	tableH *TableHandler,
	bidH *BidHandler,
	health HealthCheck,
) *gin.Engine {
	// Los bodies con campos desconocidos se rechazan.
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), metricsMiddleware(m), gin.Recovery())

	requireAuth := SessionAuthMiddleware(logger, authSvc)

	r.GET("/healthz", healthHandler(logger, health))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	auth := r.Group("/auth")
	auth.POST("/request-otp", authH.RequestOTP)
	auth.POST("/verify-otp", authH.VerifyOTP)
	auth.POST("/logout", requireAuth, authH.Logout)

	tables := r.Group("/tables")
	tables.GET("", tableH.ListTables)
	tables.POST("", requireAuth, tableH.CreateTable)
	tables.GET("/hosted", requireAuth, tableH.ListHostedTables)
	tables.GET("/:id", tableH.GetTable)
	tables.DELETE("/:id", requireAuth, tableH.DeleteTable)
	tables.POST("/:id/bids", requireAuth, bidH.CreateBid)
	tables.GET("/:id/bids", requireAuth, bidH.ListTableBids)
	tables.PATCH("/:id/bids/:bidId", requireAuth, bidH.SetBidStatus)
	tables.DELETE("/:id/members/:userId", requireAuth, bidH.RemoveMember)

	bids := r.Group("/bids", requireAuth)
	bids.GET("", bidH.ListOwnBids)
	bids.DELETE("/:bidId", bidH.CancelBid)

	return r
}

// zapLoggerMiddleware registra cada request; los 5xx salen como error.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if _, authed := GetAuthUser(c); authed {
			fields = append(fields, zap.Bool("authenticated", true))
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// metricsMiddleware cuenta requests por ruta registrada, no por path concreto.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func healthHandler(logger *zap.Logger, check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "store unavailable"})
				return
			}
		}
		ok(c, nil)
	}
}
