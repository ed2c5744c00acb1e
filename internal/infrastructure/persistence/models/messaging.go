package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/messaging"
)

// ConversationModel is the persistence model for the Conversation aggregate.
// ParticipantKey is the sorted, comma-joined participant set and lets the
// repository find an existing thread between the same people.
type ConversationModel struct {
	AgencyAggregateModel
	Subject        string     `gorm:"type:varchar(200)"`
	ListingID      *uuid.UUID `gorm:"type:uuid;index"`
	ParticipantKey string     `gorm:"type:text;not null;index"`
	LastMessageAt  *time.Time `gorm:"index"`

	Participants []ConversationParticipantModel `gorm:"foreignKey:ConversationID"`
}

// TableName returns the table name for GORM
func (ConversationModel) TableName() string {
	return "conversations"
}

// ConversationParticipantModel links a user to a conversation
type ConversationParticipantModel struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	AgencyID       uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ConversationParticipantModel) TableName() string {
	return "conversation_participants"
}

// ParticipantKey renders a normalized participant set as a lookup key
func ParticipantKey(ids []uuid.UUID) string {
	normalized := messaging.NormalizeParticipants(ids)
	parts := make([]string, len(normalized))
	for i, id := range normalized {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// ConversationModelFromDomain creates a persistence model from a domain Conversation
func ConversationModelFromDomain(c *messaging.Conversation) *ConversationModel {
	m := &ConversationModel{
		Subject:        c.Subject,
		ListingID:      c.ListingID,
		ParticipantKey: ParticipantKey(c.ParticipantIDs),
		LastMessageAt:  c.LastMessageAt,
	}
	m.FromDomainAggregate(c.AgencyAggregateRoot)
	for _, id := range c.ParticipantIDs {
		m.Participants = append(m.Participants, ConversationParticipantModel{
			ConversationID: c.ID,
			UserID:         id,
			AgencyID:       c.AgencyID,
		})
	}
	return m
}

// ToDomain converts the model to a domain Conversation. Participants must be preloaded.
func (m *ConversationModel) ToDomain() *messaging.Conversation {
	ids := make([]uuid.UUID, len(m.Participants))
	for i, p := range m.Participants {
		ids[i] = p.UserID
	}
	return &messaging.Conversation{
		AgencyAggregateRoot: m.ToDomainAggregate(),
		Subject:             m.Subject,
		ListingID:           m.ListingID,
		ParticipantIDs:      messaging.NormalizeParticipants(ids),
		LastMessageAt:       m.LastMessageAt,
	}
}

// MessageModel is the persistence model for a Message
type MessageModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgencyID       uuid.UUID `gorm:"type:uuid;not null"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_sent"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	Body           string    `gorm:"type:text;not null"`
	SentAt         time.Time `gorm:"not null;index:idx_messages_conversation_sent"`

	Reads []MessageReadModel `gorm:"foreignKey:MessageID"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// MessageReadModel records that a user has read a message
type MessageReadModel struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReadAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MessageReadModel) TableName() string {
	return "message_reads"
}

// MessageModelFromDomain creates a persistence model from a domain Message
func MessageModelFromDomain(msg *messaging.Message) *MessageModel {
	m := &MessageModel{
		ID:             msg.ID,
		AgencyID:       msg.AgencyID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		SentAt:         msg.SentAt,
	}
	for _, uid := range msg.ReadBy {
		m.Reads = append(m.Reads, MessageReadModel{MessageID: msg.ID, UserID: uid, ReadAt: msg.SentAt})
	}
	return m
}

// ToDomain converts the model to a domain Message. Reads must be preloaded.
func (m *MessageModel) ToDomain() *messaging.Message {
	readBy := make([]uuid.UUID, len(m.Reads))
	for i, r := range m.Reads {
		readBy[i] = r.UserID
	}
	return &messaging.Message{
		ID:             m.ID,
		AgencyID:       m.AgencyID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		SentAt:         m.SentAt,
		ReadBy:         readBy,
	}
}
