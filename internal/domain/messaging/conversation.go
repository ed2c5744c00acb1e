package messaging

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
)

const maxMessageLength = 4000

// Conversation is a thread between two or more users, optionally about a listing
type Conversation struct {
	shared.AgencyAggregateRoot
	Subject        string
	ListingID      *uuid.UUID
	ParticipantIDs []uuid.UUID
	LastMessageAt  *time.Time
}

// NewConversation starts a conversation; participants are de-duplicated and sorted
func NewConversation(agencyID uuid.UUID, subject string, listingID *uuid.UUID, participants ...uuid.UUID) (*Conversation, error) {
	ids := NormalizeParticipants(participants)
	if len(ids) < 2 {
		return nil, shared.NewDomainError("INVALID_PARTICIPANTS", "A conversation needs at least two distinct participants")
	}
	subject = strings.TrimSpace(subject)
	if len(subject) > 200 {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot exceed 200 characters")
	}
	return &Conversation{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(agencyID),
		Subject:             subject,
		ListingID:           listingID,
		ParticipantIDs:      ids,
	}, nil
}

// HasParticipant reports whether userID takes part in the conversation
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Post creates a message from sender and bumps LastMessageAt
func (c *Conversation) Post(senderID uuid.UUID, body string) (*Message, error) {
	if !c.HasParticipant(senderID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Sender is not a participant of this conversation")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 4000 characters")
	}

	now := time.Now()
	msg := &Message{
		ID:             uuid.New(),
		AgencyID:       c.AgencyID,
		ConversationID: c.ID,
		SenderID:       senderID,
		Body:           body,
		SentAt:         now,
		ReadBy:         []uuid.UUID{senderID},
	}
	c.LastMessageAt = &now
	c.UpdatedAt = now
	return msg, nil
}

// Message is a single post in a conversation
type Message struct {
	ID             uuid.UUID
	AgencyID       uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Body           string
	SentAt         time.Time
	ReadBy         []uuid.UUID
}

// IsReadBy reports whether userID has read the message
func (m *Message) IsReadBy(userID uuid.UUID) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkReadBy records that userID read the message. Returns false if already read.
func (m *Message) MarkReadBy(userID uuid.UUID) bool {
	if m.IsReadBy(userID) {
		return false
	}
	m.ReadBy = append(m.ReadBy, userID)
	return true
}

// NormalizeParticipants removes nil and duplicate IDs and sorts the rest
func NormalizeParticipants(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*Conversation, error)
	// FindByParticipants finds the conversation with exactly this participant set and listing
	FindByParticipants(ctx context.Context, agencyID uuid.UUID, participantIDs []uuid.UUID, listingID *uuid.UUID) (*Conversation, error)
	FindForUser(ctx context.Context, agencyID, userID uuid.UUID, filter shared.Filter) ([]Conversation, int64, error)
	Save(ctx context.Context, c *Conversation) error
}

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) ([]Message, int64, error)
	// MarkConversationRead marks all messages in the conversation read by userID and returns how many changed
	MarkConversationRead(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)
}
