package handler

import (
	"context"
	"errors"
	"net/http"

	partnerapp "github.com/finerp/backend/internal/application/partner"
	"github.com/finerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// attachmentFormField is the multipart field carrying the uploaded file
const attachmentFormField = "file"

// PartyHandler handles client and supplier endpoints
type PartyHandler struct {
	BaseHandler
	parties     *partnerapp.PartyService
	attachments *partnerapp.AttachmentService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(parties *partnerapp.PartyService, attachments *partnerapp.AttachmentService) *PartyHandler {
	return &PartyHandler{parties: parties, attachments: attachments}
}

// Create godoc
// @Summary      Create party
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreatePartyRequest true "Party data"
// @Success      201 {object} dto.Response{data=partnerapp.PartyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties [post]
func (h *PartyHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req partnerapp.CreatePartyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	party, err := h.parties.Create(c.Request.Context(), tenantID, req, h.userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, party)
}

// GetByID godoc
// @Summary      Get party by ID
// @Tags         parties
// @Produce      json
// @Param        id path string true "Party ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.PartyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id} [get]
func (h *PartyHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	party, err := h.parties.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// List godoc
// @Summary      List parties
// @Tags         parties
// @Produce      json
// @Param        search query string false "Search in name, trade name and document"
// @Param        active query boolean false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]partnerapp.PartyResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties [get]
func (h *PartyHandler) List(c *gin.Context) {
	h.list(c, h.parties.List)
}

// ListClients godoc
// @Summary      List clients
// @Tags         parties
// @Produce      json
// @Param        search query string false "Search in name, trade name and document"
// @Param        active query boolean false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]partnerapp.PartyResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/clients [get]
func (h *PartyHandler) ListClients(c *gin.Context) {
	h.list(c, h.parties.ListClients)
}

// ListSuppliers godoc
// @Summary      List suppliers
// @Tags         parties
// @Produce      json
// @Param        search query string false "Search in name, trade name and document"
// @Param        active query boolean false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]partnerapp.PartyResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/suppliers [get]
func (h *PartyHandler) ListSuppliers(c *gin.Context) {
	h.list(c, h.parties.ListSuppliers)
}

type partyLister func(ctx context.Context, tenantID uuid.UUID, filter partnerapp.PartyListFilter) ([]partnerapp.PartyResponse, int64, error)

func (h *PartyHandler) list(c *gin.Context, lister partyLister) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.PartyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	parties, total, err := lister(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, parties, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update party
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id path string true "Party ID" format(uuid)
// @Param        request body partnerapp.UpdatePartyRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=partnerapp.PartyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id} [put]
func (h *PartyHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdatePartyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	party, err := h.parties.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// Delete godoc
// @Summary      Delete party
// @Description  Parties referenced by payables are refused with 409. Attachments and contacts go with the party.
// @Tags         parties
// @Produce      json
// @Param        id path string true "Party ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id} [delete]
func (h *PartyHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.parties.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadAttachment godoc
// @Summary      Upload party attachment
// @Description  Multipart upload with the file in the "file" field
// @Tags         parties
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Party ID" format(uuid)
// @Param        file formData file true "Attachment"
// @Success      201 {object} dto.Response{data=partnerapp.AttachmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id}/attachments [post]
func (h *PartyHandler) UploadAttachment(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile(attachmentFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooBig, "Upload exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "Missing file in multipart field \""+attachmentFormField+"\"")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.attachments.Upload(c.Request.Context(), tenantID, id, partnerapp.UploadAttachmentInput{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     file,
		UploadedBy:  h.userID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, attachment)
}

// ListAttachments godoc
// @Summary      List party attachments
// @Tags         parties
// @Produce      json
// @Param        id path string true "Party ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]partnerapp.AttachmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id}/attachments [get]
func (h *PartyHandler) ListAttachments(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.attachments.List(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, attachments)
}

// AddContact godoc
//
//	@Summary	Add party contact
//	@Tags		parties
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Party ID"	format(uuid)
//	@Param		request	body		partnerapp.CreateContactRequest	true	"Contact data"
//	@Success	201		{object}	dto.Response{data=partnerapp.ContactResponse}
//	@Failure	400		{object}	dto.Response{error=dto.ErrorInfo}
//	@Failure	404		{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/parties/{id}/contacts [post]
func (h *PartyHandler) AddContact(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CreateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.parties.AddContact(c.Request.Context(), tenantID, id, req, h.userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// ListContacts godoc
//
//	@Summary	List party contacts
//	@Tags		parties
//	@Produce	json
//	@Param		id	path		string	true	"Party ID"	format(uuid)
//	@Success	200	{object}	dto.Response{data=[]partnerapp.ContactResponse}
//	@Failure	404	{object}	dto.Response{error=dto.ErrorInfo}
//	@Security	BearerAuth
//	@Router		/parties/{id}/contacts [get]
func (h *PartyHandler) ListContacts(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	contacts, err := h.parties.ListContacts(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}
