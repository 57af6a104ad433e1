package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tablebid/internal/domain"
	"tablebid/internal/metrics"
	"tablebid/internal/service"
)

// TableHandler expone el registro de mesas.
type TableHandler struct {
	logger  *zap.Logger
	tables  *service.TableService
	metrics *metrics.Metrics
}

func NewTableHandler(logger *zap.Logger, tables *service.TableService, m *metrics.Metrics) *TableHandler {
	return &TableHandler{logger: logger, tables: tables, metrics: m}
}

// CreateTable maneja POST /tables.
func (h *TableHandler) CreateTable(c *gin.Context) {
	hostID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	var req domain.TableFields
	if err := bindJSONObject(c, &req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	id, err := h.tables.CreateTable(c.Request.Context(), hostID, req)
	if err != nil {
		writeError(c, h.logger, "create table", err)
		return
	}
	h.metrics.IncTableCreated()
	ok(c, gin.H{"tableId": id})
}

// ListHostedTables maneja GET /tables/hosted.
func (h *TableHandler) ListHostedTables(c *gin.Context) {
	hostID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	tables, err := h.tables.ListHostedTables(c.Request.Context(), hostID)
	if err != nil {
		writeError(c, h.logger, "list hosted tables", err)
		return
	}
	ok(c, gin.H{"data": tables})
}

// ListTables maneja GET /tables.
func (h *TableHandler) ListTables(c *gin.Context) {
	tables, err := h.tables.ListAllTables(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list tables", err)
		return
	}
	ok(c, gin.H{"data": tables})
}

// GetTable maneja GET /tables/:id.
func (h *TableHandler) GetTable(c *gin.Context) {
	table, err := h.tables.GetTable(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get table", err)
		return
	}
	ok(c, gin.H{"data": table})
}

// DeleteTable maneja DELETE /tables/:id.
func (h *TableHandler) DeleteTable(c *gin.Context) {
	hostID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	if err := h.tables.DeleteTable(c.Request.Context(), hostID, c.Param("id")); err != nil {
		writeError(c, h.logger, "delete table", err)
		return
	}
	ok(c, gin.H{"message": "Table removed"})
}
