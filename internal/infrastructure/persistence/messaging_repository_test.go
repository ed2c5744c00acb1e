package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/messaging"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConversationRepository(t *testing.T) {
	db := newSQLiteDB(t)
	s := seedAgency(t, db)
	repo := NewGormConversationRepository(db)
	ctx := context.Background()

	listingID := s.listing.ID
	about, err := messaging.NewConversation(s.agencyID, "Viewing", &listingID, s.tenant.ID, s.agent.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, about))

	direct, err := messaging.NewConversation(s.agencyID, "", nil, s.agent.ID, s.landlord.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, direct))

	t.Run("finds by participant set regardless of order", func(t *testing.T) {
		found, err := repo.FindByParticipants(ctx, s.agencyID, []uuid.UUID{s.agent.ID, s.tenant.ID}, &listingID)
		require.NoError(t, err)
		assert.Equal(t, about.ID, found.ID)
		assert.ElementsMatch(t, []uuid.UUID{s.tenant.ID, s.agent.ID}, found.ParticipantIDs)

		_, err = repo.FindByParticipants(ctx, s.agencyID, []uuid.UUID{s.agent.ID, s.tenant.ID}, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err = repo.FindByParticipants(ctx, s.agencyID, []uuid.UUID{s.landlord.ID, s.agent.ID}, nil)
		require.NoError(t, err)
		assert.Equal(t, direct.ID, found.ID)
	})

	t.Run("lists conversations of a user", func(t *testing.T) {
		convs, total, err := repo.FindForUser(ctx, s.agencyID, s.agent.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, convs, 2)

		convs, total, err = repo.FindForUser(ctx, s.agencyID, s.tenant.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, convs, 1)
		assert.Len(t, convs[0].ParticipantIDs, 2)
	})

	t.Run("save replaces participants", func(t *testing.T) {
		direct.ParticipantIDs = messaging.NormalizeParticipants(append(direct.ParticipantIDs, s.tenant.ID))
		require.NoError(t, repo.Save(ctx, direct))

		found, err := repo.FindByIDForAgency(ctx, s.agencyID, direct.ID)
		require.NoError(t, err)
		assert.Len(t, found.ParticipantIDs, 3)
	})
}

func TestGormMessageRepository(t *testing.T) {
	db := newSQLiteDB(t)
	s := seedAgency(t, db)
	conversations := NewGormConversationRepository(db)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	conv, err := messaging.NewConversation(s.agencyID, "", nil, s.tenant.ID, s.agent.ID)
	require.NoError(t, err)
	require.NoError(t, conversations.Save(ctx, conv))

	for _, body := range []string{"Hi", "Is it still available?"} {
		msg, err := conv.Post(s.tenant.ID, body)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, msg))
	}
	reply, err := conv.Post(s.agent.ID, "Yes")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, reply))

	msgs, total, err := repo.FindByConversation(ctx, conv.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.True(t, m.IsReadBy(m.SenderID))
	}

	marked, err := repo.MarkConversationRead(ctx, conv.ID, s.agent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	marked, err = repo.MarkConversationRead(ctx, conv.ID, s.agent.ID)
	require.NoError(t, err)
	assert.Zero(t, marked)

	msgs, _, err = repo.FindByConversation(ctx, conv.ID, shared.DefaultFilter())
	require.NoError(t, err)
	for _, m := range msgs {
		assert.True(t, m.IsReadBy(s.agent.ID))
		if m.SenderID == s.tenant.ID {
			assert.False(t, m.IsReadBy(s.landlord.ID))
		}
	}
}
