package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/application/messaging"
)

// ConversationHandler handles in-app messaging
type ConversationHandler struct {
	BaseHandler
	messaging *messaging.Service
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(svc *messaging.Service) *ConversationHandler {
	return &ConversationHandler{messaging: svc}
}

// PostMessageRequest is the body of a message posted to a known conversation
type PostMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

// BroadcastRequest sends one message to each recipient separately
type BroadcastRequest struct {
	RecipientIDs []uuid.UUID `json:"recipient_ids" binding:"required,min=1,max=500"`
	ListingID    *uuid.UUID  `json:"listing_id"`
	Subject      string      `json:"subject" binding:"max=200"`
	Body         string      `json:"body" binding:"required,max=4000"`
}

// StartConversation godoc
// @ID           startConversation
// @Summary      Open a conversation, or reuse the existing one with the same participants
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        request body messaging.StartConversationRequest true "Participants"
// @Success      200 {object} APIResponse[messaging.StartConversationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /conversations [post]
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req messaging.StartConversationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.messaging.StartConversation(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListConversations godoc
// @ID           listConversations
// @Summary      List the caller's conversations, most recent first
// @Tags         conversations
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]messaging.ConversationResponse]
// @Security     BearerAuth
// @Router       /conversations [get]
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var filter messaging.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.messaging.ListConversations(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// ListMessages godoc
// @ID           listMessages
// @Summary      List the messages of a conversation
// @Tags         conversations
// @Produce      json
// @Param        id        path  string true  "Conversation ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(50)
// @Success      200 {object} APIResponse[[]messaging.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var filter messaging.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.messaging.ListMessages(c.Request.Context(), actor, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// SendMessage godoc
// @ID           sendMessage
// @Summary      Post a message to a conversation
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Conversation ID" format(uuid)
// @Param        request body PostMessageRequest true "Message"
// @Success      201 {object} APIResponse[messaging.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /conversations/{id}/messages [post]
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req PostMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	msg, err := h.messaging.SendMessage(c.Request.Context(), actor, messaging.SendMessageRequest{
		ConversationID: id,
		Body:           req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

// MarkRead godoc
// @ID           markConversationRead
// @Summary      Mark every message of a conversation as read by the caller
// @Tags         conversations
// @Produce      json
// @Param        id path string true "Conversation ID" format(uuid)
// @Success      200 {object} APIResponse[messaging.MarkReadResponse]
// @Security     BearerAuth
// @Router       /conversations/{id}/read [post]
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	runIDAction(&h.BaseHandler, c, h.messaging.MarkRead)
}

// Broadcast godoc
// @ID           broadcastMessage
// @Summary      Send the same message to many users, each in their own conversation
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        request body BroadcastRequest true "Broadcast"
// @Success      200 {object} APIResponse[messaging.BroadcastResult]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /conversations/broadcast [post]
func (h *ConversationHandler) Broadcast(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req BroadcastRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.messaging.Broadcast(c.Request.Context(), actor, messaging.Broadcast{
		RecipientIDs: req.RecipientIDs,
		ListingID:    req.ListingID,
		Subject:      req.Subject,
		Body:         req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
