package handler

import (
	apptrade "github.com/fieldsale/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// ReturnHandler handles product return HTTP requests
type ReturnHandler struct {
	BaseHandler
	returnService *apptrade.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *apptrade.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Calculate handles POST /returns/calculate. It quotes and records a
// pending return without moving any stock.
func (h *ReturnHandler) Calculate(c *gin.Context) {
	var req apptrade.CalculateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.returnService.CalculateReturn(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Approve handles POST /returns/:id/approve
func (h *ReturnHandler) Approve(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	result, err := h.returnService.ApproveReturn(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
