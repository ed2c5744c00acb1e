package leasing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/application/messaging"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*leasing.TenantApplication, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.TenantApplication), args.Error(1)
}

func (m *MockApplicationRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]leasing.TenantApplication, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]leasing.TenantApplication), args.Error(1)
}

func (m *MockApplicationRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepository) Save(ctx context.Context, a *leasing.TenantApplication) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockApplicationRepository) FindByListingAndStatuses(ctx context.Context, agencyID, listingID uuid.UUID, statuses []leasing.ApplicationStatus) ([]leasing.TenantApplication, error) {
	args := m.Called(ctx, agencyID, listingID, statuses)
	return args.Get(0).([]leasing.TenantApplication), args.Error(1)
}

func (m *MockApplicationRepository) ExistsOpenForApplicant(ctx context.Context, agencyID, listingID, applicantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, agencyID, listingID, applicantID)
	return args.Bool(0), args.Error(1)
}

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*leasing.LeaseAgreement, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.LeaseAgreement), args.Error(1)
}

func (m *MockLeaseRepository) FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]leasing.LeaseAgreement, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]leasing.LeaseAgreement), args.Error(1)
}

func (m *MockLeaseRepository) CountForAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) Save(ctx context.Context, l *leasing.LeaseAgreement) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeaseRepository) FindByApplication(ctx context.Context, agencyID, applicationID uuid.UUID) (*leasing.LeaseAgreement, error) {
	args := m.Called(ctx, agencyID, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.LeaseAgreement), args.Error(1)
}

func (m *MockLeaseRepository) ExpireDue(ctx context.Context, agencyID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, agencyID, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockListingRepository struct {
	property.ListingRepository
	mock.Mock
}

func (m *MockListingRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*property.Listing, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Listing), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, l *property.Listing) error {
	return m.Called(ctx, l).Error(0)
}

type MockUserRepository struct {
	identity.UserRepository
	mock.Mock
}

func (m *MockUserRepository) FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, agencyID uuid.UUID, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, agencyID, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

// fakeBroadcaster delivers to everyone except the recipients in failFor
type fakeBroadcaster struct {
	mu      sync.Mutex
	failFor map[uuid.UUID]bool
	calls   []messaging.Broadcast
}

func (b *fakeBroadcaster) Broadcast(_ context.Context, _ appshared.Actor, in messaging.Broadcast) (*messaging.BroadcastResult, error) {
	b.mu.Lock()
	b.calls = append(b.calls, in)
	b.mu.Unlock()

	res := &messaging.BroadcastResult{Delivered: []messaging.Delivery{}, Failed: []messaging.DeliveryFailure{}}
	for _, id := range in.RecipientIDs {
		if b.failFor[id] {
			res.Failed = append(res.Failed, messaging.DeliveryFailure{RecipientID: id, Error: "conversation store unavailable"})
			continue
		}
		res.Delivered = append(res.Delivered, messaging.Delivery{RecipientID: id, ConversationID: uuid.New(), MessageID: uuid.New()})
	}
	return res, nil
}

// fakeNotifier records deliveries; addresses in failEmail are refused
type fakeNotifier struct {
	mu        sync.Mutex
	failEmail map[string]bool
	emails    []string
	sms       []string
}

func (n *fakeNotifier) SendEmail(_ context.Context, to, _, _ string) error {
	if n.failEmail[to] {
		return errors.New("mailbox unavailable")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, to)
	return nil
}

func (n *fakeNotifier) SendSMS(_ context.Context, phone, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sms = append(n.sms, phone)
	return nil
}
