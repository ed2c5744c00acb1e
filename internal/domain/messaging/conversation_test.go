package messaging

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	conv, err := NewConversation(uuid.New(), " Viewing on Saturday ", nil, a, b, a, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "Viewing on Saturday", conv.Subject)
	assert.Len(t, conv.ParticipantIDs, 2)
	assert.True(t, conv.HasParticipant(a))
	assert.False(t, conv.HasParticipant(uuid.New()))

	_, err = NewConversation(uuid.New(), "solo", nil, a, a)
	assert.Equal(t, "INVALID_PARTICIPANTS", shared.ErrorCode(err))
}

func TestNormalizeParticipants_IsOrderIndependent(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	assert.Equal(t, NormalizeParticipants([]uuid.UUID{a, b, c}), NormalizeParticipants([]uuid.UUID{c, a, b, a}))
}

func TestConversation_Post(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	conv, err := NewConversation(uuid.New(), "", nil, a, b)
	require.NoError(t, err)

	msg, err := conv.Post(a, " Is the flat still available? ")
	require.NoError(t, err)
	assert.Equal(t, "Is the flat still available?", msg.Body)
	assert.Equal(t, conv.ID, msg.ConversationID)
	assert.True(t, msg.IsReadBy(a))
	assert.False(t, msg.IsReadBy(b))
	require.NotNil(t, conv.LastMessageAt)

	assert.True(t, msg.MarkReadBy(b))
	assert.False(t, msg.MarkReadBy(b))

	_, err = conv.Post(uuid.New(), "hi")
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))

	_, err = conv.Post(a, "   ")
	assert.Equal(t, "INVALID_MESSAGE", shared.ErrorCode(err))

	_, err = conv.Post(a, strings.Repeat("é", maxMessageLength+1))
	assert.Equal(t, "INVALID_MESSAGE", shared.ErrorCode(err))
}
