package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, agencyID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, agencyID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, agencyID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, agencyID, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

type MockLoginRecordRepository struct {
	mock.Mock
}

func (m *MockLoginRecordRepository) Append(ctx context.Context, record *identity.LoginRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLoginRecordRepository) FindByUser(ctx context.Context, agencyID, userID uuid.UUID, filter shared.Filter) ([]identity.LoginRecord, int64, error) {
	args := m.Called(ctx, agencyID, userID, filter)
	return args.Get(0).([]identity.LoginRecord), args.Get(1).(int64), args.Error(2)
}

type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) Save(ctx context.Context, token *identity.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) FindByHash(ctx context.Context, tokenHash string) (*identity.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func (m *MockNotifier) SendSMS(ctx context.Context, phone, body string) error {
	args := m.Called(ctx, phone, body)
	return args.Error(0)
}
