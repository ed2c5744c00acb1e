package rpc

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/app"
	"github.com/rentwise/backend/internal/application/identity"
	"github.com/rentwise/backend/internal/application/leasing"
	"github.com/rentwise/backend/internal/application/messaging"
	"github.com/rentwise/backend/internal/application/property"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/application/task"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/interfaces/http/handler"
)

// IDParams addresses one resource
type IDParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

// LoginHistoryParams pages through a user's logins
type LoginHistoryParams struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// UpdatePropertyParams edits a property
type UpdatePropertyParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
	property.UpdatePropertyRequest
}

// UpdateListingParams edits the terms of a listing
type UpdateListingParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
	property.ListingTermsRequest
}

// CompleteInspectionParams records an inspection outcome
type CompleteInspectionParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
	property.CompleteInspectionRequest
}

// CancelInspectionParams calls off an inspection
type CancelInspectionParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
	property.CancelInspectionRequest
}

// ActParams applies a workflow action to an application
type ActParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
	leasing.ActRequest
}

// NotifyRejectedParams messages the rejected applicants of a listing
type NotifyRejectedParams struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	leasing.NotifyRejectedRequest
}

// TerminateLeaseParams ends a lease early
type TerminateLeaseParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
	leasing.TerminateLeaseRequest
}

// UpdateTaskParams edits a task
type UpdateTaskParams struct {
	ID uuid.UUID `json:"id" binding:"required"`
	task.TaskRequest
}

// TransitionTaskParams moves a task through its lifecycle
type TransitionTaskParams struct {
	ID         uuid.UUID       `json:"id" binding:"required"`
	Transition task.Transition `json:"transition" binding:"required,oneof=start complete cancel reopen"`
}

// ConversationParams addresses a conversation
type ConversationParams struct {
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
}

// ListMessagesParams pages through a conversation
type ListMessagesParams struct {
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
	messaging.ListFilter
}

// BatchUploadParams carries base64 encoded files
type BatchUploadParams struct {
	Prefix string        `json:"prefix" binding:"max=200"`
	Files  []upload.File `json:"files" binding:"required,min=1,max=50,dive"`
}

// NewServiceRegistry registers every remote method over services
func NewServiceRegistry(s *app.Services) *Registry {
	r := NewRegistry()
	registerAuth(r, s.Auth)
	registerUsers(r, s.Users)
	registerProperties(r, s.Properties, s.Listings, s.Inspections)
	registerLeasing(r, s.Applications, s.Leases)
	registerTasks(r, s.Tasks)
	registerMessaging(r, s.Messaging)
	registerUploads(r, s.Uploads)
	return r
}

func registerAuth(r *Registry, svc *identity.AuthService) {
	r.RegisterPublic(MethodAuthRegister, Typed(func(ctx context.Context, _ Caller, p identity.RegisterRequest) (any, error) {
		return svc.Register(ctx, p)
	}))
	r.RegisterPublic(MethodAuthLogin, Typed(func(ctx context.Context, c Caller, p identity.LoginRequest) (any, error) {
		p.IP = c.IP
		p.UserAgent = c.UserAgent
		return svc.Login(ctx, p)
	}))
	r.RegisterPublic(MethodAuthRefresh, Typed(func(ctx context.Context, _ Caller, p identity.RefreshRequest) (any, error) {
		return svc.RefreshToken(ctx, p)
	}))
	r.Register(MethodAuthLogout, Typed(func(ctx context.Context, c Caller, p identity.LogoutRequest) (any, error) {
		if err := svc.Logout(ctx, c.Claims, p); err != nil {
			return nil, err
		}
		return handler.MessageData{Message: "Logged out"}, nil
	}))
	r.RegisterPublic(MethodAuthRequestPasswordReset, Typed(func(ctx context.Context, _ Caller, p identity.PasswordResetRequest) (any, error) {
		if err := svc.RequestPasswordReset(ctx, p); err != nil {
			return nil, err
		}
		return handler.MessageData{Message: "If the account exists, a reset link has been sent"}, nil
	}))
	r.RegisterPublic(MethodAuthResetPassword, Typed(func(ctx context.Context, _ Caller, p identity.ResetPasswordRequest) (any, error) {
		if err := svc.ResetPassword(ctx, p); err != nil {
			return nil, err
		}
		return handler.MessageData{Message: "Password has been reset"}, nil
	}))
}

func registerUsers(r *Registry, svc *identity.UserService) {
	r.Register(MethodUsersGet, byID(svc.GetUser))
	r.Register(MethodUsersList, Typed(func(ctx context.Context, c Caller, p identity.UserListFilter) (any, error) {
		return svc.ListUsers(ctx, c.Actor, p)
	}))
	r.Register(MethodUsersLoginHistory, Typed(func(ctx context.Context, c Caller, p LoginHistoryParams) (any, error) {
		return svc.ListLoginHistory(ctx, c.Actor, p.UserID, p.Page, p.PageSize)
	}))
}

func registerProperties(r *Registry, properties *property.PropertyService, listings *property.ListingService, inspections *property.InspectionService) {
	r.Register(MethodPropertiesCreate, Typed(func(ctx context.Context, c Caller, p property.CreatePropertyRequest) (any, error) {
		return properties.CreateProperty(ctx, c.Actor, p)
	}))
	r.Register(MethodPropertiesGet, byID(properties.GetProperty))
	r.Register(MethodPropertiesList, Typed(func(ctx context.Context, c Caller, p property.PropertyListFilter) (any, error) {
		return properties.ListProperties(ctx, c.Actor, p)
	}))
	r.Register(MethodPropertiesUpdate, Typed(func(ctx context.Context, c Caller, p UpdatePropertyParams) (any, error) {
		return properties.UpdateProperty(ctx, c.Actor, p.ID, p.UpdatePropertyRequest)
	}))
	r.Register(MethodPropertiesArchive, byID(properties.ArchiveProperty))

	r.Register(MethodListingsCreate, Typed(func(ctx context.Context, c Caller, p property.CreateListingRequest) (any, error) {
		return listings.CreateListing(ctx, c.Actor, p)
	}))
	r.Register(MethodListingsGet, byID(listings.GetListing))
	r.Register(MethodListingsList, Typed(func(ctx context.Context, c Caller, p property.ListingListFilter) (any, error) {
		return listings.ListListings(ctx, c.Actor, p)
	}))
	r.Register(MethodListingsUpdate, Typed(func(ctx context.Context, c Caller, p UpdateListingParams) (any, error) {
		return listings.UpdateListing(ctx, c.Actor, p.ID, p.ListingTermsRequest)
	}))
	r.Register(MethodListingsPublish, byID(listings.PublishListing))
	r.Register(MethodListingsWithdraw, byID(listings.WithdrawListing))

	r.Register(MethodInspectionsSchedule, Typed(func(ctx context.Context, c Caller, p property.ScheduleInspectionRequest) (any, error) {
		return inspections.ScheduleInspection(ctx, c.Actor, p)
	}))
	r.Register(MethodInspectionsComplete, Typed(func(ctx context.Context, c Caller, p CompleteInspectionParams) (any, error) {
		return inspections.CompleteInspection(ctx, c.Actor, p.ID, p.CompleteInspectionRequest)
	}))
	r.Register(MethodInspectionsCancel, Typed(func(ctx context.Context, c Caller, p CancelInspectionParams) (any, error) {
		return inspections.CancelInspection(ctx, c.Actor, p.ID, p.CancelInspectionRequest)
	}))
	r.Register(MethodInspectionsList, Typed(func(ctx context.Context, c Caller, p property.InspectionListFilter) (any, error) {
		return inspections.ListInspections(ctx, c.Actor, p)
	}))
}

func registerLeasing(r *Registry, applications *leasing.ApplicationService, leases *leasing.LeaseService) {
	r.Register(MethodApplicationsSubmit, Typed(func(ctx context.Context, c Caller, p leasing.SubmitApplicationRequest) (any, error) {
		return applications.Submit(ctx, c.Actor, p)
	}))
	r.Register(MethodApplicationsGet, byID(applications.Get))
	r.Register(MethodApplicationsList, Typed(func(ctx context.Context, c Caller, p leasing.ApplicationListFilter) (any, error) {
		return applications.List(ctx, c.Actor, p)
	}))
	r.Register(MethodApplicationsAct, Typed(func(ctx context.Context, c Caller, p ActParams) (any, error) {
		return applications.Act(ctx, c.Actor, p.ID, p.ActRequest)
	}))
	r.Register(MethodApplicationsWithdraw, byID(applications.Withdraw))
	r.Register(MethodApplicationsNotifyRejected, Typed(func(ctx context.Context, c Caller, p NotifyRejectedParams) (any, error) {
		return applications.NotifyRejectedApplicants(ctx, c.Actor, p.ListingID, p.NotifyRejectedRequest)
	}))

	r.Register(MethodLeasesGet, byID(leases.GetLease))
	r.Register(MethodLeasesList, Typed(func(ctx context.Context, c Caller, p leasing.LeaseListFilter) (any, error) {
		return leases.ListLeases(ctx, c.Actor, p)
	}))
	r.Register(MethodLeasesSign, byID(leases.SignLease))
	r.Register(MethodLeasesTerminate, Typed(func(ctx context.Context, c Caller, p TerminateLeaseParams) (any, error) {
		return leases.TerminateLease(ctx, c.Actor, p.ID, p.TerminateLeaseRequest)
	}))
}

func registerTasks(r *Registry, svc *task.Service) {
	r.Register(MethodTasksCreate, Typed(func(ctx context.Context, c Caller, p task.TaskRequest) (any, error) {
		return svc.CreateTask(ctx, c.Actor, p)
	}))
	r.Register(MethodTasksList, Typed(func(ctx context.Context, c Caller, p task.TaskListFilter) (any, error) {
		return svc.ListTasks(ctx, c.Actor, p)
	}))
	r.Register(MethodTasksUpdate, Typed(func(ctx context.Context, c Caller, p UpdateTaskParams) (any, error) {
		return svc.UpdateTask(ctx, c.Actor, p.ID, p.TaskRequest)
	}))
	r.Register(MethodTasksTransition, Typed(func(ctx context.Context, c Caller, p TransitionTaskParams) (any, error) {
		return svc.TransitionTask(ctx, c.Actor, p.ID, p.Transition)
	}))
}

func registerMessaging(r *Registry, svc *messaging.Service) {
	r.Register(MethodConversationsStart, Typed(func(ctx context.Context, c Caller, p messaging.StartConversationRequest) (any, error) {
		return svc.StartConversation(ctx, c.Actor, p)
	}))
	r.Register(MethodConversationsList, Typed(func(ctx context.Context, c Caller, p messaging.ListFilter) (any, error) {
		return svc.ListConversations(ctx, c.Actor, p)
	}))
	r.Register(MethodMessagesSend, Typed(func(ctx context.Context, c Caller, p messaging.SendMessageRequest) (any, error) {
		return svc.SendMessage(ctx, c.Actor, p)
	}))
	r.Register(MethodMessagesList, Typed(func(ctx context.Context, c Caller, p ListMessagesParams) (any, error) {
		return svc.ListMessages(ctx, c.Actor, p.ConversationID, p.ListFilter)
	}))
	r.Register(MethodMessagesMarkRead, Typed(func(ctx context.Context, c Caller, p ConversationParams) (any, error) {
		return svc.MarkRead(ctx, c.Actor, p.ConversationID)
	}))
}

func registerUploads(r *Registry, svc *upload.Service) {
	r.Register(MethodUploadsBatch, Typed(func(ctx context.Context, c Caller, p BatchUploadParams) (any, error) {
		return svc.BatchUpload(ctx, upload.AgencyPrefix(c.Actor.AgencyID, p.Prefix), p.Files)
	}))
}

// byID adapts a single-resource service call
func byID[T any](fn func(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*T, error)) HandlerFunc {
	return Typed(func(ctx context.Context, c Caller, p IDParams) (any, error) {
		return fn(ctx, c.Actor, p.ID)
	})
}
