package handler

import (
	integrationapp "github.com/finerp/backend/internal/application/integration"
	"github.com/gin-gonic/gin"
)

// IntegrationHandler handles external system integration endpoints
type IntegrationHandler struct {
	BaseHandler
	integrations *integrationapp.Service
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrations *integrationapp.Service) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations}
}

// Create godoc
// @Summary      Create integration
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        request body integrationapp.CreateIntegrationRequest true "Integration data"
// @Success      201 {object} dto.Response{data=integrationapp.IntegrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integrations [post]
func (h *IntegrationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req integrationapp.CreateIntegrationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	integration, err := h.integrations.Create(c.Request.Context(), tenantID, req, h.userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, integration)
}

// GetByID godoc
// @Summary      Get integration by ID
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=integrationapp.IntegrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integrations/{id} [get]
func (h *IntegrationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	integration, err := h.integrations.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, integration)
}

// List godoc
// @Summary      List integrations
// @Tags         integrations
// @Produce      json
// @Param        search query string false "Search in name"
// @Param        kind query string false "Integration kind" Enums(GENERIC_HTTP, OMIE, CONTA_AZUL)
// @Param        active query boolean false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]integrationapp.IntegrationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integrations [get]
func (h *IntegrationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter integrationapp.IntegrationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	integrations, total, err := h.integrations.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, integrations, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update integration
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Param        request body integrationapp.UpdateIntegrationRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=integrationapp.IntegrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integrations/{id} [put]
func (h *IntegrationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req integrationapp.UpdateIntegrationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	integration, err := h.integrations.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, integration)
}

// Delete godoc
// @Summary      Delete integration
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integrations/{id} [delete]
func (h *IntegrationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.integrations.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Kinds godoc
// @Summary      List integration kinds
// @Tags         integrations
// @Produce      json
// @Success      200 {object} dto.Response{data=[]integrationapp.KindResponse}
// @Security     BearerAuth
// @Router       /integrations/kinds [get]
func (h *IntegrationHandler) Kinds(c *gin.Context) {
	h.Success(c, h.integrations.Kinds())
}

// Test godoc
// @Summary      Test integration connection
// @Description  A failed connection test answers 200 with success=false
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=integration.TestResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integrations/{id}/test [post]
func (h *IntegrationHandler) Test(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.integrations.TestConnection(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Sync godoc
// @Summary      Sync data with an integration
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        request body integrationapp.SyncIntegrationRequest true "Sync request"
// @Success      200 {object} dto.Response{data=integration.SyncResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integrations/sync [post]
func (h *IntegrationHandler) Sync(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req integrationapp.SyncIntegrationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.integrations.Sync(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
