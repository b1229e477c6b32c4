package handler

import (
	appledger "github.com/fieldsale/backend/internal/application/ledger"
	"github.com/fieldsale/backend/internal/domain/ledger"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BatchHandler handles batch lifecycle HTTP requests
type BatchHandler struct {
	BaseHandler
	batchService *appledger.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *appledger.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// batchSearchRequest carries the batch listing query parameters
type batchSearchRequest struct {
	dto.ListRequest
	BatchNumber string `form:"batch_number"`
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
	SalesmanID  string `form:"salesman_id" binding:"omitempty,uuid"`
	ActiveOnly  bool   `form:"active_only"`
}

// Receive handles POST /batches
func (h *BatchHandler) Receive(c *gin.Context) {
	var req appledger.ReceiveBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.ReceiveBatch(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// Get handles GET /batches/:id
func (h *BatchHandler) Get(c *gin.Context) {
	batchID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	batch, err := h.batchService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Search handles GET /batches
func (h *BatchHandler) Search(c *gin.Context) {
	var req batchSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := ledger.BatchFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			Search:   req.Search,
		},
		BatchNumber: req.BatchNumber,
		ActiveOnly:  req.ActiveOnly,
	}
	if req.ProductID != "" {
		productID := uuid.MustParse(req.ProductID)
		filter.ProductID = &productID
	}
	if req.SalesmanID != "" {
		salesmanID := uuid.MustParse(req.SalesmanID)
		filter.SalesmanID = &salesmanID
	}

	result, err := h.batchService.SearchBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// QualityCheck handles POST /batches/:id/quality-check
func (h *BatchHandler) QualityCheck(c *gin.Context) {
	batchID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	var req appledger.QualityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.ApplyQualityCheck(c.Request.Context(), batchID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Recall handles POST /batches/:id/recall
func (h *BatchHandler) Recall(c *gin.Context) {
	batchID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	var req appledger.RecallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.ProcessRecall(c.Request.Context(), batchID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}
