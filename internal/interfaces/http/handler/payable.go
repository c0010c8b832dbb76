package handler

import (
	financeapp "github.com/finerp/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PayableHandler handles account payable endpoints
type PayableHandler struct {
	BaseHandler
	payables *financeapp.PayableService
	ledger   *financeapp.LedgerService
}

// NewPayableHandler creates a new PayableHandler. Deletion goes through the
// ledger so it is serialized with payment changes.
func NewPayableHandler(payables *financeapp.PayableService, ledger *financeapp.LedgerService) *PayableHandler {
	return &PayableHandler{payables: payables, ledger: ledger}
}

// Create godoc
// @Summary      Create payable
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreatePayableRequest true "Payable data"
// @Success      201 {object} dto.Response{data=financeapp.PayableResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payables [post]
func (h *PayableHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req financeapp.CreatePayableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.userID(c)

	payable, err := h.payables.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payable)
}

// GetByID godoc
// @Summary      Get payable by ID
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.PayableResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payables/{id} [get]
func (h *PayableHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payable, err := h.payables.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// List godoc
// @Summary      List payables
// @Tags         payables
// @Produce      json
// @Param        search query string false "Search in description"
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        status query string false "Payable status" Enums(PENDING, PAID, CANCELLED, OVERDUE)
// @Param        due_from query string false "Due on or after" format(date)
// @Param        due_to query string false "Due on or before" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(due_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]financeapp.PayableResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payables [get]
func (h *PayableHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter financeapp.PayableListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.SupplierID, ok = h.queryUUID(c, "supplier_id"); !ok {
		return
	}
	if filter.CategoryID, ok = h.queryUUID(c, "category_id"); !ok {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	payables, total, err := h.payables.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payables, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update payable
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Param        request body financeapp.UpdatePayableRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=financeapp.PayableResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payables/{id} [put]
func (h *PayableHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdatePayableRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payable, err := h.payables.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// Delete godoc
// @Summary      Delete payable
// @Description  Payables with recorded payments are refused with 409
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payables/{id} [delete]
func (h *PayableHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeletePayable(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Cancel godoc
// @Summary      Cancel payable
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.PayableResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payables/{id}/cancel [post]
func (h *PayableHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payable, err := h.payables.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// MarkOverdue godoc
// @Summary      Mark overdue payables
// @Description  Flags every pending payable of the tenant whose due date has passed
// @Tags         payables
// @Produce      json
// @Success      200 {object} dto.Response{data=financeapp.MarkOverdueResult}
// @Security     BearerAuth
// @Router       /payables/mark-overdue [post]
func (h *PayableHandler) MarkOverdue(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	result, err := h.payables.MarkOverdue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListPayments godoc
// @Summary      List payments of a payable
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]financeapp.PaymentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payables/{id}/payments [get]
func (h *PayableHandler) ListPayments(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.payables.ListPayments(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}
