package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/messaging"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/persistence/agency"
	"github.com/rentwise/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConversationRepository implements messaging.ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// FindByIDForAgency finds a conversation with its participants
func (r *GormConversationRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*messaging.Conversation, error) {
	var m models.ConversationModel
	if err := r.db.WithContext(ctx).Preload("Participants").
		Scopes(agency.ByID(agencyID, id)).
		First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByParticipants finds the thread between exactly these users about the
// given listing (or about no listing when listingID is nil)
func (r *GormConversationRepository) FindByParticipants(ctx context.Context, agencyID uuid.UUID, participantIDs []uuid.UUID, listingID *uuid.UUID) (*messaging.Conversation, error) {
	query := r.db.WithContext(ctx).Preload("Participants").
		Scopes(agency.Scope(agencyID)).Where("participant_key = ?", models.ParticipantKey(participantIDs))
	if listingID != nil {
		query = query.Where("listing_id = ?", *listingID)
	} else {
		query = query.Where("listing_id IS NULL")
	}

	var m models.ConversationModel
	if err := query.Order("created_at ASC").First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindForUser lists the conversations userID takes part in, most recently active first
func (r *GormConversationRepository) FindForUser(ctx context.Context, agencyID, userID uuid.UUID, filter shared.Filter) ([]messaging.Conversation, int64, error) {
	filter = filter.Normalize()
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.ConversationModel{}).
			Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
			Scopes(agency.Scope(agencyID))
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ConversationModel
	if err := scope().Preload("Participants").
		Order("COALESCE(conversations.last_message_at, conversations.created_at) DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]messaging.Conversation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save upserts the conversation and replaces its participant rows
func (r *GormConversationRepository) Save(ctx context.Context, c *messaging.Conversation) error {
	m := models.ConversationModelFromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Participants").Save(m).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", m.ID).Delete(&models.ConversationParticipantModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&m.Participants).Error
	})
}

// GormMessageRepository implements messaging.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create inserts a message together with its initial read receipts
func (r *GormMessageRepository) Create(ctx context.Context, msg *messaging.Message) error {
	return r.db.WithContext(ctx).Create(models.MessageModelFromDomain(msg)).Error
}

// FindByConversation pages through a conversation's messages, newest first
// unless the filter asks for ascending order
func (r *GormMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) ([]messaging.Message, int64, error) {
	filter = filter.Normalize()
	base := r.db.WithContext(ctx).Model(&models.MessageModel{}).Where("conversation_id = ?", conversationID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.MessageModel
	if err := r.db.WithContext(ctx).Preload("Reads").
		Where("conversation_id = ?", conversationID).
		Order("sent_at " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]messaging.Message, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// MarkConversationRead adds a read receipt for every message userID has not read yet
func (r *GormMessageRepository) MarkConversationRead(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	var unread []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("conversation_id = ?", conversationID).
		Where("id NOT IN (?)", r.db.Model(&models.MessageReadModel{}).Select("message_id").Where("user_id = ?", userID)).
		Pluck("id", &unread).Error; err != nil {
		return 0, err
	}
	if len(unread) == 0 {
		return 0, nil
	}

	now := time.Now()
	reads := make([]models.MessageReadModel, len(unread))
	for i, id := range unread {
		reads[i] = models.MessageReadModel{MessageID: id, UserID: userID, ReadAt: now}
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(reads, 200)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var (
	_ messaging.ConversationRepository = (*GormConversationRepository)(nil)
	_ messaging.MessageRepository      = (*GormMessageRepository)(nil)
)
