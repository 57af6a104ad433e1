package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tablebid/internal/domain"
	"tablebid/internal/metrics"
	"tablebid/internal/service"
)

// BidHandler expone las pujas sobre mesas.
type BidHandler struct {
	logger  *zap.Logger
	bids    *service.BidService
	metrics *metrics.Metrics
}

func NewBidHandler(logger *zap.Logger, bids *service.BidService, m *metrics.Metrics) *BidHandler {
	return &BidHandler{logger: logger, bids: bids, metrics: m}
}

// CreateBid maneja POST /tables/:id/bids.
func (h *BidHandler) CreateBid(c *gin.Context) {
	bidderID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	var req domain.BidFields
	if err := bindJSONObject(c, &req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	id, err := h.bids.CreateBid(c.Request.Context(), bidderID, c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, "create bid", err)
		return
	}
	h.metrics.IncBidCreated()
	ok(c, gin.H{"bidId": id})
}

// ListTableBids maneja GET /tables/:id/bids.
func (h *BidHandler) ListTableBids(c *gin.Context) {
	hostID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	bids, err := h.bids.ListBidsForTable(c.Request.Context(), hostID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "list table bids", err)
		return
	}
	ok(c, gin.H{"data": bids})
}

// SetBidStatus maneja PATCH /tables/:id/bids/:bidId.
func (h *BidHandler) SetBidStatus(c *gin.Context) {
	hostID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	var req struct {
		Status domain.BidStatus `json:"status" binding:"required"`
	}
	if err := bindJSONObject(c, &req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if err := h.bids.SetBidStatus(c.Request.Context(), hostID, c.Param("id"), c.Param("bidId"), req.Status); err != nil {
		writeError(c, h.logger, "set bid status", err)
		return
	}
	h.metrics.IncBidDecision(string(req.Status))
	ok(c, gin.H{"message": fmt.Sprintf("Bid %s", req.Status)})
}

// ListOwnBids maneja GET /bids?mine=true.
func (h *BidHandler) ListOwnBids(c *gin.Context) {
	bidderID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	if c.Query("mine") != "true" {
		fail(c, http.StatusBadRequest, "missing or invalid query param")
		return
	}
	bids, err := h.bids.ListOwnBids(c.Request.Context(), bidderID)
	if err != nil {
		writeError(c, h.logger, "list own bids", err)
		return
	}
	ok(c, gin.H{"data": bids})
}

// CancelBid maneja DELETE /bids/:bidId.
func (h *BidHandler) CancelBid(c *gin.Context) {
	bidderID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	if err := h.bids.CancelOwnBid(c.Request.Context(), bidderID, c.Param("bidId")); err != nil {
		writeError(c, h.logger, "cancel bid", err)
		return
	}
	h.metrics.IncBidCancelled()
	ok(c, gin.H{"message": "Bid removed"})
}

// RemoveMember maneja DELETE /tables/:id/members/:userId.
func (h *BidHandler) RemoveMember(c *gin.Context) {
	hostID, authed := mustAuthUser(c)
	if !authed {
		return
	}
	if err := h.bids.RemoveApprovedMember(c.Request.Context(), hostID, c.Param("id"), c.Param("userId")); err != nil {
		writeError(c, h.logger, "remove member", err)
		return
	}
	h.metrics.IncMemberRemoved()
	ok(c, gin.H{"message": "Member removed"})
}
