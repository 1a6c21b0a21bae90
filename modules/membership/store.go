package membership

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saasforge/tenantkit/pkg/pg"
	"github.com/saasforge/tenantkit/pkg/scope"
	"github.com/saasforge/tenantkit/pkg/tenant"
)

const membershipsTable = "memberships"

// Store persists memberships in Postgres. It satisfies
// tenant.MembershipChecker, so a resolver can consult it directly.
type Store struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("membership: pgx pool cannot be nil")
	}
	return &Store{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// IsMember implements tenant.MembershipChecker.
func (s *Store) IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	query, args, err := s.sb.Select("1").
		From(membershipsTable).
		Where(sq.Eq{"user_id": userID, "organization_id": orgID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, errors.Join(ErrStorage, err)
	}

	var one int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if pg.IsNotFoundError(err) {
			return false, nil
		}
		return false, errors.Join(ErrStorage, err)
	}
	return true, nil
}

// Add creates a membership. Duplicate user/organization pairs map to
// ErrAlreadyMember via the unique constraint.
func (s *Store) Add(ctx context.Context, userID, orgID uuid.UUID, role Role) (Membership, error) {
	if !role.Valid() {
		return Membership{}, ErrInvalidRole
	}

	m := Membership{
		ID:             uuid.New(),
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
	}

	query, args, err := s.sb.Insert(membershipsTable).
		Columns("id", "user_id", "organization_id", "role").
		Values(m.ID, m.UserID, m.OrganizationID, string(m.Role)).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return Membership{}, errors.Join(ErrStorage, err)
	}

	if err := s.pool.QueryRow(ctx, query, args...).Scan(&m.CreatedAt); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return Membership{}, ErrAlreadyMember
		}
		return Membership{}, errors.Join(ErrStorage, err)
	}
	return m, nil
}

// Remove deletes a membership within the tenant of the request.
func (s *Store) Remove(ctx context.Context, tc tenant.Context, userID uuid.UUID) error {
	builder := scope.Delete(
		s.sb.Delete(membershipsTable).Where(sq.Eq{"user_id": userID}),
		tc, "",
	)

	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Join(ErrStorage, err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns every membership the user holds, for org-switcher
// style lookups that happen before any tenant context exists.
func (s *Store) ListForUser(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	query, args, err := s.sb.Select("id", "user_id", "organization_id", "role", "created_at").
		From(membershipsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return s.queryMemberships(ctx, query, args)
}

// List returns the memberships of the tenant's organization, oldest first.
func (s *Store) List(ctx context.Context, tc tenant.Context) ([]Membership, error) {
	builder := scope.Select(
		s.sb.Select("id", "user_id", "organization_id", "role", "created_at").
			From(membershipsTable),
		tc, "",
	).OrderBy("created_at ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return s.queryMemberships(ctx, query, args)
}

func (s *Store) queryMemberships(ctx context.Context, query string, args []any) ([]Membership, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	defer rows.Close()

	var members []Membership
	for rows.Next() {
		var m Membership
		var role string
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &role, &m.CreatedAt); err != nil {
			return nil, errors.Join(ErrStorage, err)
		}
		m.Role = Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return members, nil
}
