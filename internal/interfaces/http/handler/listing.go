package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/property"
	"github.com/rentwise/backend/internal/application/upload"
)

// ListingHandler handles rental listings
type ListingHandler struct {
	BaseHandler
	listings *property.ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *property.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// CreateListing godoc
// @ID           createListing
// @Summary      Create a draft listing for a property
// @Tags         listings
// @Accept       json
// @Produce      json
// @Param        request body property.CreateListingRequest true "Listing"
// @Success      201 {object} APIResponse[property.ListingResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /listings [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req property.CreateListingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	l, err := h.listings.CreateListing(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, l)
}

// UpdateListing godoc
// @ID           updateListing
// @Summary      Edit the terms of a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Listing ID" format(uuid)
// @Param        request body property.ListingTermsRequest true "Terms"
// @Success      200 {object} APIResponse[property.ListingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /listings/{id} [put]
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req property.ListingTermsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	l, err := h.listings.UpdateListing(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// GetListing godoc
// @ID           getListing
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Success      200 {object} APIResponse[property.ListingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.listings.GetListing)
}

// ListListings godoc
// @ID           listListings
// @Summary      List listings
// @Description  Tenants only see published listings
// @Tags         listings
// @Produce      json
// @Param        status      query string false "draft, published, leased or withdrawn"
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        agent_id    query string false "Agent ID" format(uuid)
// @Param        search      query string false "Matches the title"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]property.ListingResponse]
// @Security     BearerAuth
// @Router       /listings [get]
func (h *ListingHandler) ListListings(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter property.ListingListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.listings.ListListings(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// PublishListing godoc
// @ID           publishListing
// @Summary      Publish a draft listing
// @Tags         listings
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Success      200 {object} APIResponse[property.ListingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /listings/{id}/publish [post]
func (h *ListingHandler) PublishListing(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.listings.PublishListing)
}

// WithdrawListing godoc
// @ID           withdrawListing
// @Summary      Withdraw a listing
// @Tags         listings
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Success      200 {object} APIResponse[property.ListingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /listings/{id}/withdraw [post]
func (h *ListingHandler) WithdrawListing(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.listings.WithdrawListing)
}

// AttachPhotos godoc
// @ID           attachListingPhotos
// @Summary      Upload photos for a listing
// @Description  Photos that fail to store are reported individually and not attached
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path     string true "Listing ID" format(uuid)
// @Param        files formData file   true "Photos (repeat the field)"
// @Success      200 {object} APIResponse[property.PhotoUploadResponse[property.ListingResponse]]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /listings/{id}/photos [post]
func (h *ListingHandler) AttachPhotos(c *gin.Context) {
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
	resp, err := h.listings.AttachListingPhotos(c.Request.Context(), actor, id, files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
