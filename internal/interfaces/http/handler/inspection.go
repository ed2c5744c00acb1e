package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/property"
	"github.com/rentwise/backend/internal/application/upload"
)

// InspectionHandler handles property inspections
type InspectionHandler struct {
	BaseHandler
	inspections *property.InspectionService
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(inspections *property.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspections: inspections}
}

// ScheduleInspection godoc
// @ID           scheduleInspection
// @Summary      Schedule an inspection
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        request body property.ScheduleInspectionRequest true "Inspection"
// @Success      201 {object} APIResponse[property.InspectionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections [post]
func (h *InspectionHandler) ScheduleInspection(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req property.ScheduleInspectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ins, err := h.inspections.ScheduleInspection(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ins)
}

// CompleteInspection godoc
// @ID           completeInspection
// @Summary      Record the outcome of an inspection
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        id      path string                             true "Inspection ID" format(uuid)
// @Param        request body property.CompleteInspectionRequest true "Outcome"
// @Success      200 {object} APIResponse[property.InspectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/complete [post]
func (h *InspectionHandler) CompleteInspection(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req property.CompleteInspectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ins, err := h.inspections.CompleteInspection(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ins)
}

// CancelInspection godoc
// @ID           cancelInspection
// @Summary      Cancel an inspection
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        id      path string                           true  "Inspection ID" format(uuid)
// @Param        request body property.CancelInspectionRequest false "Reason"
// @Success      200 {object} APIResponse[property.InspectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/cancel [post]
func (h *InspectionHandler) CancelInspection(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req property.CancelInspectionRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	ins, err := h.inspections.CancelInspection(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ins)
}

// RescheduleInspection godoc
// @ID           rescheduleInspection
// @Summary      Move a scheduled inspection
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        id      path string                               true "Inspection ID" format(uuid)
// @Param        request body property.RescheduleInspectionRequest true "New time"
// @Success      200 {object} APIResponse[property.InspectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/reschedule [post]
func (h *InspectionHandler) RescheduleInspection(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req property.RescheduleInspectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ins, err := h.inspections.RescheduleInspection(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ins)
}

// GetInspection godoc
// @ID           getInspection
// @Summary      Get an inspection
// @Tags         inspections
// @Produce      json
// @Param        id path string true "Inspection ID" format(uuid)
// @Success      200 {object} APIResponse[property.InspectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id} [get]
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.inspections.GetInspection)
}

// ListInspections godoc
// @ID           listInspections
// @Summary      List inspections
// @Tags         inspections
// @Produce      json
// @Param        property_id  query string false "Property ID" format(uuid)
// @Param        inspector_id query string false "Inspector ID" format(uuid)
// @Param        status       query string false "scheduled, completed or cancelled"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]property.InspectionResponse]
// @Security     BearerAuth
// @Router       /inspections [get]
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter property.InspectionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.inspections.ListInspections(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// AttachPhotos godoc
// @ID           attachInspectionPhotos
// @Summary      Upload photos taken during an inspection
// @Tags         inspections
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path     string true "Inspection ID" format(uuid)
// @Param        files formData file   true "Photos (repeat the field)"
// @Success      200 {object} APIResponse[property.PhotoUploadResponse[property.InspectionResponse]]
// @Security     BearerAuth
// @Router       /inspections/{id}/photos [post]
func (h *InspectionHandler) AttachPhotos(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	files, ok := h.MultipartFiles(c, FilesField, upload.MaxBatchFiles)
	if !ok {
		return
	}
	resp, err := h.inspections.AttachInspectionPhotos(c.Request.Context(), actor, id, files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
