// Package agency restricts GORM statements to the rows of one agency.
//
// Every agency-owned table carries an agency_id column. Repositories apply
// these scopes instead of writing the condition by hand:
//
//	db.WithContext(ctx).Scopes(agency.ByID(agencyID, id)).First(&m)
package agency

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is the agency column of every agency-owned table
const Column = "agency_id"

// Scope limits a statement to the rows of agencyID. The nil UUID matches
// nothing, so an unresolved caller can never read across agencies.
func Scope(agencyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if agencyID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: Column},
			Value:  agencyID,
		})
	}
}

// ByID limits a statement to one row of agencyID
func ByID(agencyID, id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(Scope(agencyID)).Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "id"},
			Value:  id,
		})
	}
}
