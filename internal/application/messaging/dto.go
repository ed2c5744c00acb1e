package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/messaging"
)

// StartConversationRequest opens a thread with other users. The caller is
// always added as a participant. Body, when set, is posted as the first message.
type StartConversationRequest struct {
	ParticipantIDs []uuid.UUID `json:"participant_ids" binding:"required,min=1,max=50"`
	ListingID      *uuid.UUID  `json:"listing_id"`
	Subject        string      `json:"subject" binding:"max=200"`
	Body           string      `json:"body" binding:"max=4000"`
}

// SendMessageRequest posts a message to a conversation
type SendMessageRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
	Body           string    `json:"body" binding:"required,max=4000"`
}

// ListFilter pages through conversations or messages
type ListFilter struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// ConversationResponse is the public view of a conversation
type ConversationResponse struct {
	ID             uuid.UUID   `json:"id"`
	Subject        string      `json:"subject"`
	ListingID      *uuid.UUID  `json:"listing_id,omitempty"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	LastMessageAt  *time.Time  `json:"last_message_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ToConversationResponse converts a domain conversation
func ToConversationResponse(c *messaging.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:             c.ID,
		Subject:        c.Subject,
		ListingID:      c.ListingID,
		ParticipantIDs: c.ParticipantIDs,
		LastMessageAt:  c.LastMessageAt,
		CreatedAt:      c.CreatedAt,
	}
}

// MessageResponse is a message as seen by one reader
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sent_at"`
	Read           bool      `json:"read"`
}

// ToMessageResponse converts a domain message from the point of view of reader
func ToMessageResponse(m *messaging.Message, reader uuid.UUID) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		SentAt:         m.SentAt,
		Read:           m.IsReadBy(reader),
	}
}

// StartConversationResponse returns the conversation and the first message, if any.
// Created is false when an existing conversation was reused.
type StartConversationResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Message      *MessageResponse     `json:"message,omitempty"`
	Created      bool                 `json:"created"`
}

// MarkReadResponse reports how many messages were newly marked read
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// Broadcast is one message sent separately to each recipient, each in the
// recipient's own conversation with the sender
type Broadcast struct {
	RecipientIDs []uuid.UUID
	ListingID    *uuid.UUID
	Subject      string
	Body         string
}

// Delivery is a broadcast message that reached its recipient
type Delivery struct {
	RecipientID    uuid.UUID `json:"recipient_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	MessageID      uuid.UUID `json:"message_id"`
}

// DeliveryFailure is a broadcast message that could not be delivered
type DeliveryFailure struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Error       string    `json:"error"`
}

// BroadcastResult holds one outcome per recipient, in recipient order
type BroadcastResult struct {
	Delivered []Delivery        `json:"delivered"`
	Failed    []DeliveryFailure `json:"failed"`
}
