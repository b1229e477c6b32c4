package handler

import (
	apptrade "github.com/fieldsale/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SettlementHandler handles delivery and settlement HTTP requests
type SettlementHandler struct {
	BaseHandler
	settlementService *apptrade.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *apptrade.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// CreateDelivery handles POST /deliveries
func (h *SettlementHandler) CreateDelivery(c *gin.Context) {
	var req apptrade.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.settlementService.CreateDelivery(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, delivery)
}

// GetSettlementData handles GET /deliveries/:id/settlement
func (h *SettlementHandler) GetSettlementData(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	data, err := h.settlementService.GetSettlementData(c.Request.Context(), deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, data)
}

// Settle handles POST /deliveries/:id/settle
func (h *SettlementHandler) Settle(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req apptrade.SettleDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.settlementService.SettleDelivery(c.Request.Context(), deliveryID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
