package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/task"
)

// TaskHandler handles agency to-do items
type TaskHandler struct {
	BaseHandler
	tasks *task.Service
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *task.Service) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// TransitionRequest names the status change to apply
type TransitionRequest struct {
	Transition task.Transition `json:"transition" binding:"required,oneof=start complete cancel reopen"`
}

// CreateTask godoc
// @ID           createTask
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body task.TaskRequest true "Task"
// @Success      201 {object} APIResponse[task.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req task.TaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.tasks.CreateTask(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// UpdateTask godoc
// @ID           updateTask
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id      path string           true "Task ID" format(uuid)
// @Param        request body task.TaskRequest true "Task"
// @Success      200 {object} APIResponse[task.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req task.TaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.tasks.UpdateTask(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// TransitionTask godoc
// @ID           transitionTask
// @Summary      Start, complete, cancel or reopen a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Task ID" format(uuid)
// @Param        request body TransitionRequest true "Transition"
// @Success      200 {object} APIResponse[task.TaskResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/transition [post]
func (h *TaskHandler) TransitionTask(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.tasks.TransitionTask(c.Request.Context(), actor, id, req.Transition)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// DeleteTask godoc
// @ID           deleteTask
// @Summary      Delete a task
// @Tags         tasks
// @Param        id path string true "Task ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetTask godoc
// @ID           getTask
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[task.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.tasks.GetTask)
}

// ListTasks godoc
// @ID           listTasks
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        assignee_id query string false "Assignee ID" format(uuid)
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        status      query string false "open, in_progress, done or cancelled"
// @Param        priority    query string false "low, medium or high"
// @Param        overdue     query bool   false "Only tasks past their due date"
// @Param        search      query string false "Matches the title"
// @Param        order_by    query string false "due_at, priority or created_at"
// @Param        order_dir   query string false "asc or desc"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]task.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter task.TaskListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.tasks.ListTasks(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}
