package trade

import (
	"time"

	"github.com/fieldsale/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDeliveryRequest is the input for handing stock to a salesman
type CreateDeliveryRequest struct {
	DeliveryNumber string                      `json:"delivery_number" binding:"required"`
	SalesmanID     uuid.UUID                   `json:"salesman_id" binding:"required"`
	DeliveryDate   time.Time                   `json:"delivery_date"`
	Items          []CreateDeliveryItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateDeliveryItemRequest is one batch line of a new delivery
type CreateDeliveryItemRequest struct {
	BatchID  uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required,dgt0"`
}

// SettlementDataResponse is the reconciliation sheet for one delivery
type SettlementDataResponse struct {
	DeliveryID   uuid.UUID                    `json:"delivery_id"`
	SalesmanID   uuid.UUID                    `json:"salesman_id"`
	DeliveryDate time.Time                    `json:"delivery_date"`
	Status       string                       `json:"status"`
	Items        []SettlementDataItemResponse `json:"items"`
}

// SettlementDataItemResponse is one line of the reconciliation sheet
type SettlementDataItemResponse struct {
	DeliveryItemID    uuid.UUID       `json:"delivery_item_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	BatchID           uuid.UUID       `json:"batch_id"`
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity"`
	SoldQuantity      decimal.Decimal `json:"sold_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	MarginEarned      decimal.Decimal `json:"margin_earned"`
}

// SettleDeliveryRequest carries the owner's reconciliation decisions
type SettleDeliveryRequest struct {
	SettlementNotes string                       `json:"settlement_notes"`
	Items           []SettleDeliveryItemRequest  `json:"items" binding:"required,min=1,dive"`
}

// SettleDeliveryItemRequest is one caller-supplied settlement line
type SettleDeliveryItemRequest struct {
	DeliveryItemID    uuid.UUID       `json:"delivery_item_id" binding:"required"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity" binding:"dgte0"`
	MarginEarned      decimal.Decimal `json:"margin_earned" binding:"dgte0"`
}

// SettlementResponse reports a completed settlement
type SettlementResponse struct {
	DeliveryID     uuid.UUID       `json:"delivery_id"`
	TotalReturning decimal.Decimal `json:"total_returning"`
	TotalMargin    decimal.Decimal `json:"total_margin"`
	SettledAt      time.Time       `json:"settled_at"`
}

// CreateInvoiceRequest is the input for invoicing a shop sale
type CreateInvoiceRequest struct {
	InvoiceNumber  string                     `json:"invoice_number" binding:"required"`
	ShopID         uuid.UUID                  `json:"shop_id" binding:"required"`
	SalesmanID     uuid.UUID                  `json:"salesman_id" binding:"required"`
	DueDate        *time.Time                 `json:"due_date"`
	TaxAmount      decimal.Decimal            `json:"tax_amount" binding:"dgte0"`
	DiscountAmount decimal.Decimal            `json:"discount_amount" binding:"dgte0"`
	Notes          string                     `json:"notes"`
	Items          []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateInvoiceItemRequest is one requested invoice line. The batch is
// never client-chosen; it is FIFO-selected from the salesman's holdings.
type CreateInvoiceItemRequest struct {
	ProductID         uuid.UUID       `json:"product_id" binding:"required"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	UnitPrice         decimal.Decimal `json:"unit_price" binding:"dgte0"`
	SalesmanMarginPct decimal.Decimal `json:"salesman_margin_pct" binding:"dgte0"`
	ShopMarginPct     decimal.Decimal `json:"shop_margin_pct" binding:"dgte0"`
}

// InvoiceResponse is the server-priced invoice
type InvoiceResponse struct {
	ID                 uuid.UUID             `json:"id"`
	InvoiceNumber      string                `json:"invoice_number"`
	ShopID             uuid.UUID             `json:"shop_id"`
	SalesmanID         uuid.UUID             `json:"salesman_id"`
	InvoiceDate        time.Time             `json:"invoice_date"`
	DueDate            *time.Time            `json:"due_date,omitempty"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	TaxAmount          decimal.Decimal       `json:"tax_amount"`
	DiscountAmount     decimal.Decimal       `json:"discount_amount"`
	GrandTotal         decimal.Decimal       `json:"grand_total"`
	OutstandingBalance decimal.Decimal       `json:"outstanding_balance"`
	Status             string                `json:"status"`
	Items              []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse is one priced invoice line
type InvoiceItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	BatchID           uuid.UUID       `json:"batch_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	SalesmanMarginPct decimal.Decimal `json:"salesman_margin_pct"`
	ShopMarginPct     decimal.Decimal `json:"shop_margin_pct"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// CalculateReturnRequest is the input for a quick return quote
type CalculateReturnRequest struct {
	BatchID           uuid.UUID       `json:"batch_id" binding:"required"`
	OriginalInvoiceID uuid.UUID       `json:"original_invoice_id" binding:"required"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	Reason            string          `json:"reason" binding:"required"`
}

// ReturnCalculationResponse is the monetary breakdown of a pending return
type ReturnCalculationResponse struct {
	ReturnID         uuid.UUID       `json:"return_id"`
	BatchID          uuid.UUID       `json:"batch_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	QualityStatus    string          `json:"quality_status"`
	DeductionRate    decimal.Decimal `json:"deduction_rate"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	QualityDeduction decimal.Decimal `json:"quality_deduction"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ShopMarginAmount decimal.Decimal `json:"shop_margin_amount"`
	MarginSource     string          `json:"margin_source"`
}

// ApproveReturnResponse reports an approved return
type ApproveReturnResponse struct {
	ReturnID    uuid.UUID       `json:"return_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ApprovedAt  time.Time       `json:"approved_at"`
}

func toInvoiceResponse(inv *trade.Invoice) *InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			BatchID:           item.BatchID,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			SalesmanMarginPct: item.SalesmanMarginPct,
			ShopMarginPct:     item.ShopMarginPct,
			LineTotal:         item.LineTotal,
		})
	}

	return &InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		ShopID:             inv.ShopID,
		SalesmanID:         inv.SalesmanID,
		InvoiceDate:        inv.InvoiceDate,
		DueDate:            inv.DueDate,
		Subtotal:           inv.Subtotal,
		TaxAmount:          inv.TaxAmount,
		DiscountAmount:     inv.DiscountAmount,
		GrandTotal:         inv.GrandTotal,
		OutstandingBalance: inv.OutstandingBalance,
		Status:             inv.Status.String(),
		Items:              items,
	}
}

func toReturnCalculationResponse(ret *trade.Return) *ReturnCalculationResponse {
	return &ReturnCalculationResponse{
		ReturnID:         ret.ID,
		BatchID:          ret.BatchID,
		Quantity:         ret.Quantity,
		UnitPrice:        ret.UnitPrice,
		QualityStatus:    ret.QualityStatus.String(),
		DeductionRate:    deductionRateOf(ret),
		BaseAmount:       ret.BaseAmount.Amount(),
		QualityDeduction: ret.QualityDeduction.Amount(),
		TotalAmount:      ret.TotalAmount.Amount(),
		ShopMarginAmount: ret.ShopMarginAmount.Amount(),
		MarginSource:     string(ret.MarginSource),
	}
}

func deductionRateOf(ret *trade.Return) decimal.Decimal {
	if ret.BaseAmount.IsZero() {
		return decimal.Zero
	}
	return ret.QualityDeduction.Amount().Div(ret.BaseAmount.Amount()).Round(4)
}
