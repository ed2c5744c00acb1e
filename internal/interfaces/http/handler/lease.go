package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/leasing"
)

// LeaseHandler handles lease agreements
type LeaseHandler struct {
	BaseHandler
	leases *leasing.LeaseService
}

// NewLeaseHandler creates a new lease handler
func NewLeaseHandler(leases *leasing.LeaseService) *LeaseHandler {
	return &LeaseHandler{leases: leases}
}

// GetLease godoc
// @ID           getLease
// @Summary      Get a lease
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.LeaseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id} [get]
func (h *LeaseHandler) GetLease(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.leases.GetLease)
}

// ListLeases godoc
// @ID           listLeases
// @Summary      List leases
// @Tags         leases
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        tenant_id   query string false "Tenant ID" format(uuid)
// @Param        status      query string false "draft, active, terminated or expired"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.LeaseResponse]
// @Security     BearerAuth
// @Router       /leases [get]
func (h *LeaseHandler) ListLeases(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter leasing.LeaseListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.leases.ListLeases(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// SignLease godoc
// @ID           signLease
// @Summary      Sign a lease as tenant or landlord
// @Description  The lease becomes active once both parties have signed
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.LeaseResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/sign [post]
func (h *LeaseHandler) SignLease(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.leases.SignLease)
}

// TerminateLease godoc
// @ID           terminateLease
// @Summary      Terminate an active lease
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Lease ID" format(uuid)
// @Param        request body leasing.TerminateLeaseRequest true "Reason"
// @Success      200 {object} APIResponse[leasing.LeaseResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/terminate [post]
func (h *LeaseHandler) TerminateLease(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req leasing.TerminateLeaseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	lease, err := h.leases.TerminateLease(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lease)
}

// AttachDocument godoc
// @ID           attachLeaseDocument
// @Summary      Upload the signed lease document
// @Tags         leases
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path     string true "Lease ID" format(uuid)
// @Param        file formData file   true "Document"
// @Success      200 {object} APIResponse[leasing.LeaseResponse]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/document [post]
func (h *LeaseHandler) AttachDocument(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	files, ok := h.MultipartFiles(c, FileField, 1)
	if !ok {
		return
	}
	lease, err := h.leases.AttachLeaseDocument(c.Request.Context(), actor, id, files[0])
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lease)
}

// DocumentURL godoc
// @ID           leaseDocumentURL
// @Summary      Presign a download URL for the lease document
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.DocumentURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/document [get]
func (h *LeaseHandler) DocumentURL(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.leases.LeaseDocumentURL)
}
