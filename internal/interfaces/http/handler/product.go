package handler

import (
	"github.com/fieldsale/backend/internal/domain/catalog"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	BaseHandler
	productRepo catalog.ProductRepository
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productRepo catalog.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

// createProductRequest is the input for registering a catalog product
type createProductRequest struct {
	Name      string          `json:"name" binding:"required"`
	SKU       string          `json:"sku" binding:"required"`
	Unit      string          `json:"unit"`
	BasePrice decimal.Decimal `json:"base_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	existing, err := h.productRepo.FindBySKU(c.Request.Context(), req.SKU)
	if err != nil && err != shared.ErrNotFound {
		h.HandleError(c, err)
		return
	}
	if existing != nil {
		h.HandleError(c, shared.ErrAlreadyExists)
		return
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, req.Unit, req.BasePrice, req.CostPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.productRepo.Save(c.Request.Context(), product); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productRepo.FindByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}

	products, err := h.productRepo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.productRepo.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}
