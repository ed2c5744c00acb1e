package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
)

// ApplicationRepository defines the interface for tenant application persistence.
// Save overwrites the stored record without a version check.
// Supported filter keys: "listing_id", "applicant_id", "agent_id", "landlord_id", "status".
type ApplicationRepository interface {
	shared.AgencyRepository[TenantApplication]

	// FindByListingAndStatuses returns applications for a listing in any of the given statuses
	FindByListingAndStatuses(ctx context.Context, agencyID, listingID uuid.UUID, statuses []ApplicationStatus) ([]TenantApplication, error)
	// ExistsOpenForApplicant reports whether the applicant already has an open application for the listing
	ExistsOpenForApplicant(ctx context.Context, agencyID, listingID, applicantID uuid.UUID) (bool, error)
}

// LeaseRepository defines the interface for lease agreement persistence.
// Supported filter keys: "tenant_id", "landlord_id", "property_id", "status".
type LeaseRepository interface {
	shared.AgencyRepository[LeaseAgreement]

	// FindByApplication returns the lease produced by an application
	FindByApplication(ctx context.Context, agencyID, applicationID uuid.UUID) (*LeaseAgreement, error)
	// ExpireDue moves every active lease whose end date is not after now to expired
	ExpireDue(ctx context.Context, agencyID uuid.UUID, now time.Time) (int64, error)
}
