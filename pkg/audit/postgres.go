package audit

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultAuditTable = "audit_events"

// PostgresStorage persists events in a Postgres table. It implements
// BatchStorage and QueryStorage.
type PostgresStorage struct {
	pool  *pgxpool.Pool
	table string
	sb    sq.StatementBuilderType
}

// PostgresOption configures PostgresStorage.
type PostgresOption func(*PostgresStorage)

// WithTable overrides the default audit_events table name.
func WithTable(table string) PostgresOption {
	return func(s *PostgresStorage) {
		if table != "" {
			s.table = table
		}
	}
}

// NewPostgresStorage wraps an existing connection pool.
func NewPostgresStorage(pool *pgxpool.Pool, opts ...PostgresOption) *PostgresStorage {
	if pool == nil {
		panic("audit: pgx pool cannot be nil")
	}

	s := &PostgresStorage{
		pool:  pool,
		table: defaultAuditTable,
		sb:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the audit table if it does not exist. Deployments
// using goose migrations can skip this and own the DDL themselves.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL DEFAULT '',
			user_id TEXT NOT NULL DEFAULT '',
			request_id TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			resource TEXT NOT NULL DEFAULT '',
			resource_id TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_`+s.table+`_tenant_created
			ON `+s.table+` (tenant_id, created_at DESC);
	`)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (s *PostgresStorage) Store(ctx context.Context, event Event) error {
	return s.StoreBatch(ctx, []Event{event})
}

func (s *PostgresStorage) StoreBatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	builder := s.sb.Insert(s.table).Columns(
		"id", "tenant_id", "user_id", "request_id",
		"action", "resource", "resource_id",
		"result", "error", "metadata", "created_at",
	)
	for _, e := range events {
		builder = builder.Values(
			e.ID, e.TenantID, e.UserID, e.RequestID,
			e.Action, e.Resource, e.ResourceID,
			string(e.Result), e.Error, e.Metadata, e.CreatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (s *PostgresStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	builder := s.sb.Select(
		"id", "tenant_id", "user_id", "request_id",
		"action", "resource", "resource_id",
		"result", "error", "metadata", "created_at",
	).From(s.table)

	builder = applyCriteria(builder, criteria)
	builder = builder.OrderBy("created_at DESC")

	if criteria.Limit > 0 {
		builder = builder.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		builder = builder.Offset(uint64(criteria.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var result string
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.UserID, &e.RequestID,
			&e.Action, &e.Resource, &e.ResourceID,
			&result, &e.Error, &e.Metadata, &e.CreatedAt,
		); err != nil {
			return nil, errors.Join(ErrStorageFailure, err)
		}
		e.Result = Result(result)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return events, nil
}

func (s *PostgresStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	builder := applyCriteria(s.sb.Select("COUNT(*)").From(s.table), criteria)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Join(ErrStorageFailure, err)
	}

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Join(ErrStorageFailure, err)
	}
	return count, nil
}

func applyCriteria(builder sq.SelectBuilder, criteria Criteria) sq.SelectBuilder {
	if criteria.TenantID != "" {
		builder = builder.Where(sq.Eq{"tenant_id": criteria.TenantID})
	}
	if criteria.UserID != "" {
		builder = builder.Where(sq.Eq{"user_id": criteria.UserID})
	}
	if criteria.Action != "" {
		builder = builder.Where(sq.Eq{"action": criteria.Action})
	}
	if criteria.Resource != "" {
		builder = builder.Where(sq.Eq{"resource": criteria.Resource})
	}
	if !criteria.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": criteria.Since})
	}
	if !criteria.Until.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": criteria.Until})
	}
	return builder
}
