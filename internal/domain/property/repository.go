package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
)

// PropertyRepository defines the interface for property persistence.
// Supported filter keys: "landlord_id", "status", "kind".
type PropertyRepository interface {
	shared.AgencyRepository[Property]
}

// ListingRepository defines the interface for listing persistence.
// Supported filter keys: "status", "property_id", "agent_id", "landlord_id".
type ListingRepository interface {
	shared.AgencyRepository[Listing]

	// FindActiveByProperty returns draft or published listings of a property
	FindActiveByProperty(ctx context.Context, agencyID, propertyID uuid.UUID) ([]Listing, error)
}

// InspectionRepository defines the interface for inspection persistence.
// Supported filter keys: "property_id", "inspector_id", "status".
type InspectionRepository interface {
	shared.AgencyRepository[Inspection]
}
