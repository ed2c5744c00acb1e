package messaging

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/messaging"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// memoryConversations keeps conversations in a map; safe for concurrent use
type memoryConversations struct {
	mu    sync.Mutex
	items map[uuid.UUID]messaging.Conversation
	saves int
}

func newMemoryConversations() *memoryConversations {
	return &memoryConversations{items: make(map[uuid.UUID]messaging.Conversation)}
}

func (r *memoryConversations) FindByIDForAgency(_ context.Context, agencyID, id uuid.UUID) (*messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok || c.AgencyID != agencyID {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memoryConversations) FindByParticipants(_ context.Context, agencyID uuid.UUID, ids []uuid.UUID, listingID *uuid.UUID) (*messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.AgencyID != agencyID || !sameIDs(c.ParticipantIDs, ids) || !sameListing(c.ListingID, listingID) {
			continue
		}
		return &c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryConversations) FindForUser(_ context.Context, agencyID, userID uuid.UUID, filter shared.Filter) ([]messaging.Conversation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.Conversation
	for _, c := range r.items {
		if c.AgencyID == agencyID && c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryConversations) Save(_ context.Context, c *messaging.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = *c
	r.saves++
	return nil
}

func (r *memoryConversations) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// memoryMessages stores messages; failFor makes Create fail for conversations involving that user
type memoryMessages struct {
	mu       sync.Mutex
	items    []messaging.Message
	convs    *memoryConversations
	failFor  map[uuid.UUID]bool
	readMark int64
}

func (r *memoryMessages) Create(ctx context.Context, m *messaging.Message) error {
	if len(r.failFor) > 0 {
		c, err := r.convs.FindByIDForAgency(ctx, m.AgencyID, m.ConversationID)
		if err != nil {
			return err
		}
		for _, id := range c.ParticipantIDs {
			if r.failFor[id] {
				return errors.New("message store unavailable")
			}
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *m)
	return nil
}

func (r *memoryMessages) FindByConversation(_ context.Context, conversationID uuid.UUID, _ shared.Filter) ([]messaging.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.Message
	for _, m := range r.items {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryMessages) MarkConversationRead(_ context.Context, _, _ uuid.UUID) (int64, error) {
	return r.readMark, nil
}

func (r *memoryMessages) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type MockUserRepository struct {
	identity.UserRepository
	mock.Mock
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, agencyID, ids)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID, []uuid.UUID) []identity.User); ok {
		return fn(ctx, agencyID, ids), args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func sameIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameListing(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
