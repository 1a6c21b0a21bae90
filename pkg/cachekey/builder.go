package cachekey

import (
	"context"
	"net/url"
	"strings"

	"github.com/saasforge/tenantkit/pkg/tenant"
)

const (
	// DefaultPrefix namespaces keys when no prefix is configured.
	DefaultPrefix = "app"

	// DefaultVersion tags keys with a schema version so a format change
	// invalidates old entries instead of misreading them.
	DefaultVersion = "v1"

	// TenantGlobal marks data that is deliberately not tenant-scoped
	// (health status, shared reference data). It bypasses the isolation
	// requirement.
	TenantGlobal = "global"

	delimiter = ":"
)

// Builder derives deterministic, namespaced cache keys. Whether tenant
// isolation is mandatory is fixed at construction time so tests can exercise
// both settings side by side without process-wide state.
type Builder struct {
	prefix            string
	isolationRequired bool
}

// NewBuilder creates a key builder. With isolationRequired set, Build fails
// closed when no tenant can be determined rather than risking a
// cross-tenant key collision.
func NewBuilder(prefix string, isolationRequired bool) *Builder {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Builder{prefix: prefix, isolationRequired: isolationRequired}
}

type keyParams struct {
	tenantID string
	version  string
	suffix   string
}

// Option customizes a single Build call.
type Option func(*keyParams)

// WithTenant pins the tenant segment explicitly instead of inferring it from
// the request context. Pass TenantGlobal for data shared across tenants.
func WithTenant(tenantID string) Option {
	return func(p *keyParams) { p.tenantID = tenantID }
}

// WithVersion overrides the schema version segment.
func WithVersion(version string) Option {
	return func(p *keyParams) { p.version = version }
}

// WithSuffix appends a trailing segment, e.g. a sub-resource or page marker.
func WithSuffix(suffix string) Option {
	return func(p *keyParams) { p.suffix = suffix }
}

// Build derives the key for a resource:
//
//	<prefix>:tenant-<tenant>:<type>:<id>:<version>[:<suffix>]
//
// The tenant segment comes from WithTenant or, failing that, from the tenant
// context carried by ctx. Under mandatory isolation a missing tenant is
// ErrMissingTenant; this is a usage bug, not a retryable condition. Segments
// are percent-encoded so an identifier containing the delimiter cannot
// collide with another key.
//
// Build is pure: identical inputs, including the ambient tenant, always
// produce the identical string, and no I/O happens here.
func (b *Builder) Build(ctx context.Context, resourceType, resourceID string, opts ...Option) (string, error) {
	if resourceType == "" || resourceID == "" {
		return "", ErrEmptySegment
	}

	params := keyParams{version: DefaultVersion}
	for _, opt := range opts {
		opt(&params)
	}

	if params.tenantID == "" {
		if orgID, ok := tenant.OrganizationIDFromContext(ctx); ok {
			params.tenantID = orgID.String()
		}
	}

	if params.tenantID == "" {
		if b.isolationRequired {
			return "", ErrMissingTenant
		}
		params.tenantID = TenantGlobal
	}

	segments := []string{
		escape(b.prefix),
		"tenant-" + escape(params.tenantID),
		escape(resourceType),
		escape(resourceID),
		escape(params.version),
	}
	if params.suffix != "" {
		segments = append(segments, escape(params.suffix))
	}

	return strings.Join(segments, delimiter), nil
}

// MustBuild is Build for callers that treat a key failure as a programming
// error.
func (b *Builder) MustBuild(ctx context.Context, resourceType, resourceID string, opts ...Option) string {
	key, err := b.Build(ctx, resourceType, resourceID, opts...)
	if err != nil {
		panic("cachekey: " + err.Error())
	}
	return key
}

// escape percent-encodes a segment. Plain identifiers pass through
// unchanged; the delimiter and the escape character itself are encoded, so
// distinct inputs can never produce colliding keys.
func escape(segment string) string {
	if !strings.ContainsAny(segment, ":%/ +?&=#") {
		return segment
	}
	return url.QueryEscape(segment)
}
