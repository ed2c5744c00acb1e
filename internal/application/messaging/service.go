// Package messaging implements conversations between agents, landlords and tenants.
package messaging

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/messaging"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBroadcastConcurrency bounds the deliveries in flight during a broadcast
const DefaultBroadcastConcurrency = 8

// Service handles conversations and messages
type Service struct {
	conversations messaging.ConversationRepository
	messages      messaging.MessageRepository
	users         identity.UserRepository
	concurrency   int
	logger        *zap.Logger
}

// NewService creates a new messaging Service
func NewService(
	conversations messaging.ConversationRepository,
	messages messaging.MessageRepository,
	users identity.UserRepository,
	concurrency int,
	logger *zap.Logger,
) *Service {
	if concurrency <= 0 {
		concurrency = DefaultBroadcastConcurrency
	}
	return &Service{
		conversations: conversations,
		messages:      messages,
		users:         users,
		concurrency:   concurrency,
		logger:        logger,
	}
}

// StartConversation finds the caller's conversation with the same participants
// and listing, or creates it, then posts the optional first message
func (s *Service) StartConversation(ctx context.Context, actor appshared.Actor, req StartConversationRequest) (*StartConversationResponse, error) {
	ids := messaging.NormalizeParticipants(append([]uuid.UUID{actor.UserID}, req.ParticipantIDs...))
	if err := s.checkUsers(ctx, actor.AgencyID, ids); err != nil {
		return nil, err
	}

	conv, created, err := s.findOrCreate(ctx, actor.AgencyID, req.Subject, req.ListingID, ids)
	if err != nil {
		return nil, err
	}

	resp := &StartConversationResponse{Created: created}
	if strings.TrimSpace(req.Body) != "" {
		msg, err := s.post(ctx, conv, actor.UserID, req.Body)
		if err != nil {
			return nil, err
		}
		m := ToMessageResponse(msg, actor.UserID)
		resp.Message = &m
	}
	resp.Conversation = ToConversationResponse(conv)

	if created {
		s.logger.Info("Conversation started",
			zap.String("conversation_id", conv.ID.String()),
			zap.Int("participants", len(conv.ParticipantIDs)),
		)
	}
	return resp, nil
}

// SendMessage posts to a conversation the caller takes part in
func (s *Service) SendMessage(ctx context.Context, actor appshared.Actor, req SendMessageRequest) (*MessageResponse, error) {
	conv, err := s.conversations.FindByIDForAgency(ctx, actor.AgencyID, req.ConversationID)
	if err != nil {
		return nil, err
	}
	msg, err := s.post(ctx, conv, actor.UserID, req.Body)
	if err != nil {
		return nil, err
	}
	resp := ToMessageResponse(msg, actor.UserID)
	return &resp, nil
}

// ListConversations lists the caller's conversations, most recently active first
func (s *Service) ListConversations(ctx context.Context, actor appshared.Actor, req ListFilter) (*shared.Paginated[ConversationResponse], error) {
	filter := pageFilter(req)
	items, total, err := s.conversations.FindForUser(ctx, actor.AgencyID, actor.UserID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationResponse, len(items))
	for i := range items {
		out[i] = ToConversationResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListMessages pages through a conversation, newest first
func (s *Service) ListMessages(ctx context.Context, actor appshared.Actor, conversationID uuid.UUID, req ListFilter) (*shared.Paginated[MessageResponse], error) {
	conv, err := s.participantConversation(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	filter := pageFilter(req)
	items, total, err := s.messages.FindByConversation(ctx, conv.ID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]MessageResponse, len(items))
	for i := range items {
		out[i] = ToMessageResponse(&items[i], actor.UserID)
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// MarkRead marks every message in the conversation as read by the caller
func (s *Service) MarkRead(ctx context.Context, actor appshared.Actor, conversationID uuid.UUID) (*MarkReadResponse, error) {
	conv, err := s.participantConversation(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	n, err := s.messages.MarkConversationRead(ctx, conv.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &MarkReadResponse{Updated: n}, nil
}

// Broadcast sends the same message to every recipient in its own conversation
// with the sender. Deliveries run concurrently and settle independently: one
// failed recipient never stops the others, and every recipient gets exactly
// one outcome.
func (s *Service) Broadcast(ctx context.Context, sender appshared.Actor, b Broadcast) (*BroadcastResult, error) {
	result := &BroadcastResult{Delivered: []Delivery{}, Failed: []DeliveryFailure{}}
	body := strings.TrimSpace(b.Body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}
	recipients := uniqueRecipients(b.RecipientIDs, sender.UserID)
	if len(recipients) == 0 {
		return result, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "MessagingService", "Broadcast",
		attribute.Int("broadcast.recipients", len(recipients)),
	)
	defer span.End()

	type outcome struct {
		delivery Delivery
		err      error
	}
	outcomes := make([]outcome, len(recipients))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, recipient := range recipients {
		g.Go(func() error {
			d, err := s.deliver(ctx, sender, recipient, b.ListingID, b.Subject, body)
			outcomes[i] = outcome{delivery: d, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, DeliveryFailure{RecipientID: recipients[i], Error: o.err.Error()})
			s.logger.Warn("Broadcast delivery failed",
				zap.String("recipient_id", recipients[i].String()),
				zap.Error(o.err),
			)
			continue
		}
		result.Delivered = append(result.Delivered, o.delivery)
	}

	span.SetAttributes(
		attribute.Int("broadcast.delivered", len(result.Delivered)),
		attribute.Int("broadcast.failed", len(result.Failed)),
	)
	return result, nil
}

func (s *Service) deliver(ctx context.Context, sender appshared.Actor, recipient uuid.UUID, listingID *uuid.UUID, subject, body string) (Delivery, error) {
	ids := messaging.NormalizeParticipants([]uuid.UUID{sender.UserID, recipient})
	conv, _, err := s.findOrCreate(ctx, sender.AgencyID, subject, listingID, ids)
	if err != nil {
		return Delivery{}, err
	}
	msg, err := s.post(ctx, conv, sender.UserID, body)
	if err != nil {
		return Delivery{}, err
	}
	return Delivery{RecipientID: recipient, ConversationID: conv.ID, MessageID: msg.ID}, nil
}

func (s *Service) findOrCreate(ctx context.Context, agencyID uuid.UUID, subject string, listingID *uuid.UUID, ids []uuid.UUID) (*messaging.Conversation, bool, error) {
	conv, err := s.conversations.FindByParticipants(ctx, agencyID, ids, listingID)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	conv, err = messaging.NewConversation(agencyID, subject, listingID, ids...)
	if err != nil {
		return nil, false, err
	}
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

func (s *Service) post(ctx context.Context, conv *messaging.Conversation, senderID uuid.UUID, body string) (*messaging.Message, error) {
	msg, err := conv.Post(senderID, body)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) participantConversation(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*messaging.Conversation, error) {
	conv, err := s.conversations.FindByIDForAgency(ctx, actor.AgencyID, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(actor.UserID) {
		return nil, appshared.ErrForbidden
	}
	return conv, nil
}

// checkUsers ensures every participant is a user of the agency
func (s *Service) checkUsers(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) < 2 {
		return shared.NewDomainError("INVALID_PARTICIPANTS", "A conversation needs at least two distinct participants")
	}
	users, err := s.users.FindByIDs(ctx, agencyID, ids)
	if err != nil {
		return err
	}
	if len(users) != len(ids) {
		return shared.NewDomainError("INVALID_PARTICIPANTS", "One or more participants do not exist")
	}
	return nil
}

func uniqueRecipients(ids []uuid.UUID, sender uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{sender: true, uuid.Nil: true}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func pageFilter(req ListFilter) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	return filter.Normalize()
}
