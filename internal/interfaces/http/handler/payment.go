package handler

import (
	financeapp "github.com/finerp/backend/internal/application/finance"
	"github.com/finerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// maxIdempotencyKeyLength bounds the Idempotency-Key header
const maxIdempotencyKeyLength = 255

// PaymentHandler handles payment endpoints. Every mutation goes through the
// ledger, which keeps the payable's paid amount in step with its payments.
type PaymentHandler struct {
	BaseHandler
	ledger *financeapp.LedgerService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(ledger *financeapp.LedgerService) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// Record godoc
// @Summary      Record payment
// @Description  Records a payment against a payable and resettles its paid amount. A repeated Idempotency-Key answers 409 DUPLICATE_REQUEST.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied key for safe retries"
// @Param        request body financeapp.RecordPaymentRequest true "Payment data"
// @Success      201 {object} dto.Response{data=financeapp.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	key := c.GetHeader(middleware.IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}
	var req financeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = key
	req.CreatedBy = h.userID(c)

	payment, err := h.ledger.RecordPayment(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetByID godoc
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payment, err := h.ledger.GetPayment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// List godoc
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        payable_id query string false "Payable ID" format(uuid)
// @Param        bank_account_id query string false "Bank account ID" format(uuid)
// @Param        method query string false "Payment method" Enums(CASH, CREDIT_CARD, DEBIT_CARD, TRANSFER, BOLETO, PIX, CHECK)
// @Param        from_date query string false "Paid on or after" format(date)
// @Param        to_date query string false "Paid on or before" format(date)
// @Param        search query string false "Search in document number and remark"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(payment_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]financeapp.PaymentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.PayableID, ok = h.queryUUID(c, "payable_id"); !ok {
		return
	}
	if filter.BankAccountID, ok = h.queryUUID(c, "bank_account_id"); !ok {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	payments, total, err := h.ledger.ListPayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body financeapp.UpdatePaymentRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=financeapp.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.ledger.UpdatePayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete godoc
// @Summary      Delete payment
// @Description  Removes the payment and returns the resettled payable
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.PayableResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payable, err := h.ledger.DeletePayment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}
