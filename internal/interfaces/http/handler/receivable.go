package handler

import (
	financeapp "github.com/finerp/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// ReceivableHandler handles account receivable endpoints
type ReceivableHandler struct {
	BaseHandler
	receivables *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivables *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivables: receivables}
}

// Create godoc
//
//	@Summary	Create account receivable
//	@Tags		receivables
//	@Accept		json
//	@Produce	json
//	@Param		request	body		financeapp.CreateReceivableRequest	true	"Receivable data"
//	@Success	201		{object}	dto.Response{data=financeapp.ReceivableResponse}
//	@Failure	400		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure	404		{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/receivables [post]
func (h *ReceivableHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req financeapp.CreateReceivableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.userID(c)

	receivable, err := h.receivables.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receivable)
}

// GetByID godoc
//
//	@Summary	Get account receivable by ID
//	@Tags		receivables
//	@Produce	json
//	@Param		id	path		string	true	"Receivable ID"	format(uuid)
//	@Success	200	{object}	dto.Response{data=financeapp.ReceivableResponse}
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/receivables/{id} [get]
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	receivable, err := h.receivables.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// List godoc
//
//	@Summary	List account receivables
//	@Tags		receivables
//	@Produce	json
//	@Param		search		query		string	false	"Search in description and remark"
//	@Param		client_id	query		string	false	"Client party ID"	format(uuid)
//	@Param		status		query		string	false	"Status"			Enums(PENDING, RECEIVED, CANCELLED, OVERDUE)
//	@Param		due_from	query		string	false	"Due date from"		format(date)
//	@Param		due_to		query		string	false	"Due date to"		format(date)
//	@Param		page		query		int		false	"Page number"		default(1)
//	@Param		page_size	query		int		false	"Page size"			default(20)	maximum(100)
//	@Param		order_by	query		string	false	"Sort field"		default(due_date)
//	@Param		order_dir	query		string	false	"Sort direction"	Enums(asc, desc)
//	@Success	200			{object}	dto.Response{data=[]financeapp.ReceivableResponse,meta=dto.Meta}
//	@Failure	400			{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/receivables [get]
func (h *ReceivableHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter financeapp.ReceivableListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ClientID, ok = h.queryUUID(c, "client_id"); !ok {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	receivables, total, err := h.receivables.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, receivables, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update account receivable
//	@Description	Direct edit. Status RECEIVED without received_date settles on the current day.
//	@Tags			receivables
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Receivable ID"	format(uuid)
//	@Param			request	body		financeapp.UpdateReceivableRequest	true	"Fields to change"
//	@Success		200		{object}	dto.Response{data=financeapp.ReceivableResponse}
//	@Failure		400		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure		404		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure		422		{object}	dto.Response{error=dto.ErrorInfo}
//	@Security		BearerAuth
//	@Router			/receivables/{id} [put]
func (h *ReceivableHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateReceivableRequest
	if !h.bindJSON(c, &req) {
		return
	}

	receivable, err := h.receivables.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// Receive godoc
//
//	@Summary		Receive account receivable
//	@Description	Settle a receivable. An empty body settles on the current day.
//	@Tags			receivables
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Receivable ID"	format(uuid)
//	@Param			request	body		financeapp.ReceiveRequest	false	"Received date"
//	@Success		200		{object}	dto.Response{data=financeapp.ReceivableResponse}
//	@Failure		404		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure		422		{object}	dto.Response{error=dto.ErrorInfo}
//	@Security		BearerAuth
//	@Router			/receivables/{id}/receive [post]
func (h *ReceivableHandler) Receive(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.ReceiveRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	receivable, err := h.receivables.Receive(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// Cancel godoc
//
//	@Summary	Cancel account receivable
//	@Tags		receivables
//	@Produce	json
//	@Param		id	path		string	true	"Receivable ID"	format(uuid)
//	@Success	200	{object}	dto.Response{data=financeapp.ReceivableResponse}
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure	422	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/receivables/{id}/cancel [post]
func (h *ReceivableHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	receivable, err := h.receivables.Cancel(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// MarkOverdue godoc
//
//	@Summary	Flag overdue receivables
//	@Tags		receivables
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=financeapp.MarkOverdueResult}
//	@Security	BearerAuth
//	@Router		/receivables/mark-overdue [post]
func (h *ReceivableHandler) MarkOverdue(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	result, err := h.receivables.MarkOverdue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
//
//	@Summary	Delete account receivable
//	@Tags		receivables
//	@Param		id	path	string	true	"Receivable ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/receivables/{id} [delete]
func (h *ReceivableHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.receivables.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
