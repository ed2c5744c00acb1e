package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/leasing"
)

// ApplicationHandler handles tenant applications and their review workflow
type ApplicationHandler struct {
	BaseHandler
	applications *leasing.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applications *leasing.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Submit godoc
// @ID           submitApplication
// @Summary      Apply for a published listing
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        request body leasing.SubmitApplicationRequest true "Application"
// @Success      201 {object} APIResponse[leasing.ApplicationResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req leasing.SubmitApplicationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	app, err := h.applications.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, app)
}

// Get godoc
// @ID           getApplication
// @Summary      Get an application
// @Tags         applications
// @Produce      json
// @Param        id path string true "Application ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ApplicationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.applications.Get)
}

// List godoc
// @ID           listApplications
// @Summary      List applications
// @Description  Tenants see their own applications, landlords those for their properties
// @Tags         applications
// @Produce      json
// @Param        listing_id   query string false "Listing ID" format(uuid)
// @Param        applicant_id query string false "Applicant ID" format(uuid)
// @Param        status       query string false "Application status"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.ApplicationResponse]
// @Security     BearerAuth
// @Router       /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter leasing.ApplicationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.applications.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Act godoc
// @ID           actOnApplication
// @Summary      Perform a review action on an application
// @Description  Agents review and approve; landlords give the final decision. Approval creates a draft lease.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Application ID" format(uuid)
// @Param        request body leasing.ActRequest true "Action"
// @Success      200 {object} APIResponse[leasing.ActResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications/{id}/actions [post]
func (h *ApplicationHandler) Act(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req leasing.ActRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.applications.Act(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Withdraw godoc
// @ID           withdrawApplication
// @Summary      Withdraw the caller's application
// @Tags         applications
// @Produce      json
// @Param        id path string true "Application ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ApplicationResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /applications/{id}/withdraw [post]
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.applications.Withdraw)
}

// NotifyRejected godoc
// @ID           notifyRejectedApplicants
// @Summary      Message every rejected applicant of a listing
// @Description  Each applicant gets an in-app message and an email; failures are reported per applicant
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Listing ID" format(uuid)
// @Param        request body leasing.NotifyRejectedRequest true "Message"
// @Success      200 {object} APIResponse[leasing.NotifyResult]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /listings/{id}/notify-rejected [post]
func (h *ApplicationHandler) NotifyRejected(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	listingID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req leasing.NotifyRejectedRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.applications.NotifyRejectedApplicants(c.Request.Context(), actor, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
