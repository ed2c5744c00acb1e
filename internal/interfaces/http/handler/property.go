package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/property"
)

// PropertyHandler handles the property portfolio
type PropertyHandler struct {
	BaseHandler
	properties *property.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(properties *property.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// CreateProperty godoc
// @ID           createProperty
// @Summary      Create a property
// @Description  Landlords create their own properties; agents must name the landlord
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body property.CreatePropertyRequest true "Property"
// @Success      201 {object} APIResponse[property.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties [post]
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req property.CreatePropertyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.properties.CreateProperty(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// UpdateProperty godoc
// @ID           updateProperty
// @Summary      Update a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Property ID" format(uuid)
// @Param        request body property.UpdatePropertyRequest true "Property"
// @Success      200 {object} APIResponse[property.PropertyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req property.UpdatePropertyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.properties.UpdateProperty(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// GetProperty godoc
// @ID           getProperty
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[property.PropertyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	p, err := h.properties.GetProperty(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// ListProperties godoc
// @ID           listProperties
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        landlord_id query string false "Landlord ID" format(uuid)
// @Param        status      query string false "active or archived"
// @Param        kind        query string false "Property kind"
// @Param        search      query string false "Matches name or city"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]property.PropertyResponse]
// @Security     BearerAuth
// @Router       /properties [get]
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter property.PropertyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.properties.ListProperties(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// ArchiveProperty godoc
// @ID           archiveProperty
// @Summary      Archive a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[property.PropertyResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id}/archive [post]
func (h *PropertyHandler) ArchiveProperty(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.properties.ArchiveProperty)
}

// RestoreProperty godoc
// @ID           restoreProperty
// @Summary      Restore an archived property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[property.PropertyResponse]
// @Security     BearerAuth
// @Router       /properties/{id}/restore [post]
func (h *PropertyHandler) RestoreProperty(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.properties.RestoreProperty)
}
