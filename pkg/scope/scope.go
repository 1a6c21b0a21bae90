package scope

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/saasforge/tenantkit/pkg/tenant"
)

// DefaultColumn is the conventional tenant-owning column name.
const DefaultColumn = "organization_id"

// Eq builds the tenant equality predicate for the given column. Use it when
// composing conditions by hand:
//
//	qb.Where(sq.And{scope.Eq(tc, "organization_id"), sq.Eq{"status": "active"}})
func Eq(tc tenant.Context, column string) sq.Eq {
	if column == "" {
		column = DefaultColumn
	}
	return sq.Eq{column: tc.OrganizationID}
}

// Select constrains a select query to the tenant. The transformation is
// pure: it returns a new builder and never executes anything. Applying it
// twice adds a redundant but harmless duplicate predicate.
func Select(qb sq.SelectBuilder, tc tenant.Context, column string) sq.SelectBuilder {
	return qb.Where(Eq(tc, column))
}

// Update constrains an update query to the tenant.
func Update(qb sq.UpdateBuilder, tc tenant.Context, column string) sq.UpdateBuilder {
	return qb.Where(Eq(tc, column))
}

// Delete constrains a delete query to the tenant.
func Delete(qb sq.DeleteBuilder, tc tenant.Context, column string) sq.DeleteBuilder {
	return qb.Where(Eq(tc, column))
}
