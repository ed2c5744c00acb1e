package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// SubmitApplicationRequest applies for a published listing
type SubmitApplicationRequest struct {
	ListingID     uuid.UUID       `json:"listing_id" binding:"required"`
	Message       string          `json:"message" binding:"max=2000"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	Occupants     int             `json:"occupants" binding:"min=0,max=50"`
	MoveInDate    *time.Time      `json:"move_in_date"`
}

func (r SubmitApplicationRequest) input() leasing.ApplicationInput {
	return leasing.ApplicationInput{
		Message:       r.Message,
		MonthlyIncome: r.MonthlyIncome,
		Occupants:     r.Occupants,
		MoveInDate:    r.MoveInDate,
	}
}

// ActRequest performs a review action on an application
type ActRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note" binding:"max=2000"`
}

// NotifyRejectedRequest messages every rejected applicant of a listing
type NotifyRejectedRequest struct {
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=4000"`
}

// ApplicationListFilter lists applications
type ApplicationListFilter struct {
	ListingID   *uuid.UUID `form:"listing_id" json:"listing_id"`
	ApplicantID *uuid.UUID `form:"applicant_id" json:"applicant_id"`
	Status      string     `form:"status" json:"status"`
	Page        int        `form:"page" json:"page"`
	PageSize    int        `form:"page_size" json:"page_size"`
}

// ApplicationResponse is the public view of an application
type ApplicationResponse struct {
	ID            uuid.UUID                 `json:"id"`
	ListingID     uuid.UUID                 `json:"listing_id"`
	PropertyID    uuid.UUID                 `json:"property_id"`
	ApplicantID   uuid.UUID                 `json:"applicant_id"`
	LandlordID    uuid.UUID                 `json:"landlord_id"`
	AgentID       uuid.UUID                 `json:"agent_id"`
	Message       string                    `json:"message,omitempty"`
	MonthlyIncome decimal.Decimal           `json:"monthly_income"`
	Occupants     int                       `json:"occupants"`
	MoveInDate    *time.Time                `json:"move_in_date,omitempty"`
	Status        leasing.ApplicationStatus `json:"status"`
	Step          int                       `json:"step"`
	DecidedBy     *uuid.UUID                `json:"decided_by,omitempty"`
	DecisionNote  string                    `json:"decision_note,omitempty"`
	WithdrawnAt   *time.Time                `json:"withdrawn_at,omitempty"`
	History       []leasing.StatusChange    `json:"history"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// ToApplicationResponse converts a domain application
func ToApplicationResponse(a *leasing.TenantApplication) ApplicationResponse {
	history := a.History
	if history == nil {
		history = []leasing.StatusChange{}
	}
	return ApplicationResponse{
		ID:            a.ID,
		ListingID:     a.ListingID,
		PropertyID:    a.PropertyID,
		ApplicantID:   a.ApplicantID,
		LandlordID:    a.LandlordID,
		AgentID:       a.AgentID,
		Message:       a.Message,
		MonthlyIncome: a.MonthlyIncome,
		Occupants:     a.Occupants,
		MoveInDate:    a.MoveInDate,
		Status:        a.Status,
		Step:          a.Step,
		DecidedBy:     a.DecidedBy,
		DecisionNote:  a.DecisionNote,
		WithdrawnAt:   a.WithdrawnAt,
		History:       history,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// TransitionResponse describes what a review action did
type TransitionResponse struct {
	From    leasing.ApplicationStatus `json:"from"`
	To      leasing.ApplicationStatus `json:"to"`
	Step    int                       `json:"step"`
	Effect  leasing.Effect            `json:"effect,omitempty"`
	Changed bool                      `json:"changed"`
}

// ActResponse is the application after an action, plus the lease it produced, if any
type ActResponse struct {
	Application ApplicationResponse `json:"application"`
	Transition  TransitionResponse  `json:"transition"`
	Lease       *LeaseResponse      `json:"lease,omitempty"`
}

// NotifyFailure is an applicant who could not be notified
type NotifyFailure struct {
	ApplicantID uuid.UUID `json:"applicant_id"`
	Error       string    `json:"error"`
}

// NotifyResult has one entry per targeted applicant
type NotifyResult struct {
	Notified []uuid.UUID     `json:"notified"`
	Failed   []NotifyFailure `json:"failed"`
}

// LeaseListFilter lists leases
type LeaseListFilter struct {
	PropertyID *uuid.UUID `form:"property_id" json:"property_id"`
	TenantID   *uuid.UUID `form:"tenant_id" json:"tenant_id"`
	Status     string     `form:"status" json:"status" binding:"omitempty,oneof=draft active terminated expired"`
	Page       int        `form:"page" json:"page"`
	PageSize   int        `form:"page_size" json:"page_size"`
}

// TerminateLeaseRequest ends an active lease early
type TerminateLeaseRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

// LeaseResponse is the public view of a lease
type LeaseResponse struct {
	ID                uuid.UUID           `json:"id"`
	ApplicationID     uuid.UUID           `json:"application_id"`
	ListingID         uuid.UUID           `json:"listing_id"`
	PropertyID        uuid.UUID           `json:"property_id"`
	TenantID          uuid.UUID           `json:"tenant_id"`
	LandlordID        uuid.UUID           `json:"landlord_id"`
	AgentID           uuid.UUID           `json:"agent_id"`
	MonthlyRent       decimal.Decimal     `json:"monthly_rent"`
	Deposit           decimal.Decimal     `json:"deposit"`
	StartDate         time.Time           `json:"start_date"`
	EndDate           time.Time           `json:"end_date"`
	Status            leasing.LeaseStatus `json:"status"`
	TenantSignedAt    *time.Time          `json:"tenant_signed_at,omitempty"`
	LandlordSignedAt  *time.Time          `json:"landlord_signed_at,omitempty"`
	TerminatedAt      *time.Time          `json:"terminated_at,omitempty"`
	TerminationReason string              `json:"termination_reason,omitempty"`
	DocumentKey       string              `json:"document_key,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// ToLeaseResponse converts a domain lease
func ToLeaseResponse(l *leasing.LeaseAgreement) LeaseResponse {
	return LeaseResponse{
		ID:                l.ID,
		ApplicationID:     l.ApplicationID,
		ListingID:         l.ListingID,
		PropertyID:        l.PropertyID,
		TenantID:          l.TenantID,
		LandlordID:        l.LandlordID,
		AgentID:           l.AgentID,
		MonthlyRent:       l.MonthlyRent,
		Deposit:           l.Deposit,
		StartDate:         l.StartDate,
		EndDate:           l.EndDate,
		Status:            l.Status,
		TenantSignedAt:    l.TenantSignedAt,
		LandlordSignedAt:  l.LandlordSignedAt,
		TerminatedAt:      l.TerminatedAt,
		TerminationReason: l.TerminationReason,
		DocumentKey:       l.DocumentKey,
		CreatedAt:         l.CreatedAt,
	}
}

// DocumentURLResponse is a presigned link to the signed lease document
type DocumentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
