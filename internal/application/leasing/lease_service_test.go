package leasing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (f *fixture) lease(t *testing.T) *leasing.LeaseAgreement {
	t.Helper()
	app := f.application(t, f.tenant, leasing.StatusFinalApproved)
	l, err := leasing.NewLeaseFromApplication(app, decimal.NewFromInt(1450), decimal.NewFromInt(2900))
	require.NoError(t, err)
	l.ClearDomainEvents()
	f.leases.On("FindByIDForAgency", mock.Anything, f.agencyID, l.ID).Return(l, nil)
	return l
}

func newLeaseService(f *fixture, store *storage.MemoryObjectStorage) *LeaseService {
	uploader := upload.NewService(store, upload.Config{Concurrency: 1}, nil, zap.NewNop())
	return NewLeaseService(f.leases, f.users, uploader, zap.NewNop())
}

func TestLeaseService_SignAndTerminate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newLeaseService(f, storage.NewMemoryObjectStorage())
	l := f.lease(t)
	f.leases.On("Save", mock.Anything, l).Return(nil)

	_, err := svc.SignLease(ctx, f.actor(f.agent), l.ID)
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))

	resp, err := svc.SignLease(ctx, f.actor(f.tenant), l.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.LeaseStatusDraft, resp.Status)
	assert.NotNil(t, resp.TenantSignedAt)

	_, err = svc.SignLease(ctx, f.actor(f.tenant), l.ID)
	assert.Equal(t, "ALREADY_SIGNED", shared.ErrorCode(err))

	_, err = svc.TerminateLease(ctx, f.actor(f.agent), l.ID, TerminateLeaseRequest{Reason: "Tenant relocating"})
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))

	resp, err = svc.SignLease(ctx, f.actor(f.landlord), l.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.LeaseStatusActive, resp.Status)

	_, err = svc.TerminateLease(ctx, f.actor(f.tenant), l.ID, TerminateLeaseRequest{Reason: "x"})
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))

	resp, err = svc.TerminateLease(ctx, f.actor(f.landlord), l.ID, TerminateLeaseRequest{Reason: "Selling the house"})
	require.NoError(t, err)
	assert.Equal(t, leasing.LeaseStatusTerminated, resp.Status)
	assert.Equal(t, "Selling the house", resp.TerminationReason)
}

func TestLeaseService_GetLease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newLeaseService(f, storage.NewMemoryObjectStorage())
	l := f.lease(t)

	outsider := newUser(t, f, "outsider@example.com", identity.RoleTenant)
	_, err := svc.GetLease(ctx, f.actor(outsider), l.ID)
	assert.Equal(t, "FORBIDDEN", shared.ErrorCode(err))

	resp, err := svc.GetLease(ctx, f.actor(f.tenant), l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, resp.ID)

	t.Run("expires an active lease past its end date", func(t *testing.T) {
		l.Status = leasing.LeaseStatusActive
		svc.now = func() time.Time { return l.EndDate.Add(time.Hour) }
		f.leases.On("Save", mock.Anything, l).Return(nil).Once()

		resp, err := svc.GetLease(ctx, f.actor(f.agent), l.ID)
		require.NoError(t, err)
		assert.Equal(t, leasing.LeaseStatusExpired, resp.Status)
		f.leases.AssertNumberOfCalls(t, "Save", 1)
	})
}

func TestLeaseService_ListLeases(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newLeaseService(f, storage.NewMemoryObjectStorage())
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	tenantOnly := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["tenant_id"] == f.tenant.ID && filter.Filters["status"] == "active"
	})

	f.leases.On("ExpireDue", mock.Anything, f.agencyID, now).Return(int64(1), nil).Once()
	f.leases.On("FindAllForAgency", mock.Anything, f.agencyID, tenantOnly).Return([]leasing.LeaseAgreement{}, nil).Once()
	f.leases.On("CountForAgency", mock.Anything, f.agencyID, tenantOnly).Return(int64(0), nil).Once()

	page, err := svc.ListLeases(ctx, f.actor(f.tenant), LeaseListFilter{Status: "active"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	f.leases.AssertExpectations(t)

	t.Run("expiry failure aborts the list", func(t *testing.T) {
		f.leases.On("ExpireDue", mock.Anything, f.agencyID, now).Return(int64(0), errors.New("db down")).Once()
		_, err := svc.ListLeases(ctx, f.actor(f.agent), LeaseListFilter{})
		assert.EqualError(t, err, "db down")
	})
}

func TestLeaseService_Document(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := storage.NewMemoryObjectStorage()
	svc := newLeaseService(f, store)
	l := f.lease(t)
	f.leases.On("Save", mock.Anything, l).Return(nil)

	_, err := svc.LeaseDocumentURL(ctx, f.actor(f.tenant), l.ID)
	assert.Equal(t, "NOT_FOUND", shared.ErrorCode(err))

	resp, err := svc.AttachLeaseDocument(ctx, f.actor(f.agent), l.ID, upload.File{Name: "signed lease.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.DocumentKey, "uploads/"+f.agencyID.String()+"/leases/"+l.ID.String()+"-"))
	assert.True(t, upload.InAgencyArea(f.agencyID, resp.DocumentKey))
	assert.True(t, strings.HasSuffix(resp.DocumentKey, "-0-signed_lease.pdf"))
	assert.Equal(t, 1, store.Len())

	link, err := svc.LeaseDocumentURL(ctx, f.actor(f.tenant), l.ID)
	require.NoError(t, err)
	assert.Contains(t, link.URL, "signed_lease.pdf")
	assert.True(t, link.ExpiresAt.After(time.Now()))

	store.FailWhen(func(string) error { return errors.New("bucket unavailable") })
	_, err = svc.AttachLeaseDocument(ctx, f.actor(f.agent), l.ID, upload.File{Name: "v2.pdf", Data: []byte("x")})
	assert.Equal(t, "STORAGE_ERROR", shared.ErrorCode(err))
	assert.Equal(t, resp.DocumentKey, l.DocumentKey)
}
