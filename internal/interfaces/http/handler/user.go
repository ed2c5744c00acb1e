package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/identity"
)

// UserHandler handles user administration and profiles
type UserHandler struct {
	BaseHandler
	users *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *identity.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers godoc
// @ID           listUsers
// @Summary      List users of the agency
// @Tags         users
// @Produce      json
// @Param        role      query string false "tenant, landlord or agent"
// @Param        search    query string false "Matches name or email"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]identity.UserResponse]
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter identity.UserListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.users.ListUsers(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetUser godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateProfile godoc
// @ID           updateProfile
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateProfileRequest true "Profile"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req identity.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ListLoginHistory godoc
// @ID           listLoginHistory
// @Summary      Login history of a user
// @Description  Users see their own history; agents see anyone's in the agency
// @Tags         users
// @Produce      json
// @Param        id        path  string true  "User ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]identity.LoginRecordResponse]
// @Security     BearerAuth
// @Router       /users/{id}/logins [get]
func (h *UserHandler) ListLoginHistory(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	page, err := h.users.ListLoginHistory(c.Request.Context(), actor, id, pageNum, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// ActivateUser godoc
// @ID           activateUser
// @Summary      Reactivate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *UserHandler) ActivateUser(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateUser godoc
// @ID           deactivateUser
// @Summary      Deactivate a user and revoke their sessions
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var (
		user *identity.UserResponse
		err  error
	)
	if active {
		user, err = h.users.ActivateUser(c.Request.Context(), actor, id)
	} else {
		user, err = h.users.DeactivateUser(c.Request.Context(), actor, id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
