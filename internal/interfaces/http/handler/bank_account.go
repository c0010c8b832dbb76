package handler

import (
	financeapp "github.com/finerp/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// BankAccountHandler handles bank account endpoints
type BankAccountHandler struct {
	BaseHandler
	accounts *financeapp.BankAccountService
}

// NewBankAccountHandler creates a new BankAccountHandler
func NewBankAccountHandler(accounts *financeapp.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{accounts: accounts}
}

// Create godoc
// @Summary      Create bank account
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateBankAccountRequest true "Bank account data"
// @Success      201 {object} dto.Response{data=financeapp.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts [post]
func (h *BankAccountHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req financeapp.CreateBankAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// GetByID godoc
// @Summary      Get bank account by ID
// @Tags         bank-accounts
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id} [get]
func (h *BankAccountHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	account, err := h.accounts.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// List godoc
// @Summary      List bank accounts
// @Tags         bank-accounts
// @Produce      json
// @Param        search query string false "Search in bank and account number"
// @Param        active query boolean false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(bank)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]financeapp.BankAccountResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts [get]
func (h *BankAccountHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter financeapp.BankAccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	accounts, total, err := h.accounts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// ListActive godoc
// @Summary      List active bank accounts
// @Tags         bank-accounts
// @Produce      json
// @Success      200 {object} dto.Response{data=[]financeapp.BankAccountResponse}
// @Security     BearerAuth
// @Router       /bank-accounts/active [get]
func (h *BankAccountHandler) ListActive(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// Update godoc
// @Summary      Update bank account
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Param        request body financeapp.UpdateBankAccountRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=financeapp.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id} [put]
func (h *BankAccountHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateBankAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete godoc
// @Summary      Delete bank account
// @Description  Accounts still referenced by payables or payments are refused with 409
// @Tags         bank-accounts
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id} [delete]
func (h *BankAccountHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
