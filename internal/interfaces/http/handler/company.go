package handler

import (
	partnerapp "github.com/finerp/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company endpoints
type CompanyHandler struct {
	BaseHandler
	companies *partnerapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companies *partnerapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Create godoc
//
//	@Summary		Create company
//	@Description	Register a company. CNPJ and integration code must be unused within the tenant.
//	@Tags			companies
//	@Accept			json
//	@Produce		json
//	@Param			request	body		partnerapp.CreateCompanyRequest	true	"Company data"
//	@Success		201		{object}	dto.Response{data=partnerapp.CompanyResponse}
//	@Failure		400		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure		409		{object}	dto.Response{error=dto.ErrorInfo}
//	@Security		BearerAuth
//	@Router			/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companies.Create(c.Request.Context(), tenantID, req, h.userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// GetByID godoc
//
//	@Summary	Get company by ID
//	@Tags		companies
//	@Produce	json
//	@Param		id	path		string	true	"Company ID"	format(uuid)
//	@Success	200	{object}	dto.Response{data=partnerapp.CompanyResponse}
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	company, err := h.companies.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// List godoc
//
//	@Summary		List companies
//	@Description	Search by legal name, trade name, CNPJ or integration code
//	@Tags			companies
//	@Produce		json
//	@Param			search		query		string	false	"Search term"
//	@Param			active_only	query		boolean	false	"Only active, unblocked companies"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Param			order_by	query		string	false	"Sort field"	default(legal_name)
//	@Param			order_dir	query		string	false	"Sort direction"	Enums(asc, desc)
//	@Success		200			{object}	dto.Response{data=[]partnerapp.CompanyResponse,meta=dto.Meta}
//	@Failure		400			{object}	dto.Response{error=dto.ErrorInfo}
//	@Security		BearerAuth
//	@Router			/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.CompanyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	companies, total, err := h.companies.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, companies, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary	Update company
//	@Tags		companies
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Company ID"	format(uuid)
//	@Param		request	body		partnerapp.UpdateCompanyRequest	true	"Fields to change"
//	@Success	200		{object}	dto.Response{data=partnerapp.CompanyResponse}
//	@Failure	400		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure	404		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure	409		{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companies.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Delete godoc
//
//	@Summary	Delete company
//	@Tags		companies
//	@Param		id	path	string	true	"Company ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.companies.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
