package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/property"
	"github.com/rentwise/backend/internal/domain/shared/valueobject"
	"github.com/rentwise/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSQLiteDB opens a migrated in-memory database. A single connection keeps
// every query on the same :memory: instance.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.DB.AutoMigrate(models.All()...))
	return database.DB
}

type seed struct {
	agencyID uuid.UUID
	tenant   *identity.User
	landlord *identity.User
	agent    *identity.User
	property *property.Property
	listing  *property.Listing
}

func seedAgency(t *testing.T, db *gorm.DB) *seed {
	t.Helper()
	ctx := context.Background()
	s := &seed{agencyID: uuid.New()}

	users := NewGormUserRepository(db)
	for _, u := range []struct {
		dst   **identity.User
		email string
		role  identity.Role
	}{
		{&s.tenant, "tenant@example.com", identity.RoleTenant},
		{&s.landlord, "landlord@example.com", identity.RoleLandlord},
		{&s.agent, "agent@example.com", identity.RoleAgent},
	} {
		user, err := identity.NewUser(s.agencyID, u.email, "Password123", u.role)
		require.NoError(t, err)
		require.NoError(t, users.Save(ctx, user))
		*u.dst = user
	}

	var err error
	s.property, err = property.NewProperty(s.agencyID, s.landlord.ID,
		valueobject.MustNewAddress("12 Harbour St", "Sydney", "Australia"),
		property.Details{Name: "Harbour 4B", Kind: property.KindApartment, Bedrooms: 2})
	require.NoError(t, err)
	require.NoError(t, NewGormPropertyRepository(db).Save(ctx, s.property))

	s.listing, err = property.NewListing(s.property, s.agent.ID, property.ListingTerms{
		Title:       "Two bed with view",
		MonthlyRent: decimal.NewFromInt(2400),
		Deposit:     decimal.NewFromInt(4800),
	})
	require.NoError(t, err)
	require.NoError(t, s.listing.Publish())
	require.NoError(t, NewGormListingRepository(db).Save(ctx, s.listing))
	return s
}
