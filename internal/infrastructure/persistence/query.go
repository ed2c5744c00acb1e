package persistence

import (
	"errors"
	"strings"

	"github.com/rentwise/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC (the default)
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	if f := strings.TrimSpace(sortField); allowed[f] {
		return f
	}
	return defaultField
}

func sortFields(extra ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

// Sortable columns per table. Anything else falls back to created_at.
var (
	UserSortFields        = sortFields("email", "first_name", "last_name", "role", "status", "last_login_at")
	PropertySortFields    = sortFields("name", "address_city", "kind", "bedrooms", "status")
	ListingSortFields     = sortFields("title", "monthly_rent", "available_from", "status", "published_at")
	InspectionSortFields  = sortFields("scheduled_at", "status", "kind")
	ApplicationSortFields = sortFields("status", "step", "move_in_date")
	LeaseSortFields       = sortFields("start_date", "end_date", "status", "monthly_rent")
	TaskSortFields        = sortFields("title", "due_at", "priority", "status")
)

// page applies ordering, offset and limit from a normalized filter
func page(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	filter = filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, "created_at")
	return query.
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// search adds a case-insensitive LIKE over the given columns.
// LOWER(..) LIKE keeps the query portable between PostgreSQL and SQLite.
func search(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// equals adds "column = value" for every filter key present in columns
func equals(query *gorm.DB, filters map[string]any, columns ...string) *gorm.DB {
	for _, c := range columns {
		if v, ok := filters[c]; ok && v != nil && v != "" {
			query = query.Where(c+" = ?", v)
		}
	}
	return query
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// translate maps gorm's not-found onto the domain error
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
