package tenant

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saasforge/tenantkit/pkg/claims"
)

// Source extracts a candidate organization id from a request. The boolean
// reports whether a candidate was found; extraction errors mean the request
// named an organization but the value was unusable.
type Source interface {
	Extract(r *http.Request, user claims.User) (uuid.UUID, bool, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(r *http.Request, user claims.User) (uuid.UUID, bool, error)

// Extract calls the function.
func (f SourceFunc) Extract(r *http.Request, user claims.User) (uuid.UUID, bool, error) {
	return f(r, user)
}

// ClaimSource takes the organization id asserted with the identity itself.
// It is the authoritative source and runs first in the default chain.
type ClaimSource struct{}

// Extract returns the organization claim when the identity carries one.
func (ClaimSource) Extract(_ *http.Request, user claims.User) (uuid.UUID, bool, error) {
	if !user.HasOrganization() {
		return uuid.UUID{}, false, nil
	}
	return *user.OrganizationID, true, nil
}

// PathSource reads the organization id from the URL path: the chi route
// parameter when the request was routed (e.g. /orgs/{orgID}/...), otherwise
// the segment following a recognized organization prefix.
type PathSource struct {
	// Param is the chi route parameter name. Defaults to "orgID".
	Param string
}

// Path segments recognized as introducing an organization id.
var orgPathPrefixes = []string{"orgs", "organizations"}

// NewPathSource creates a path source for the given chi route parameter.
func NewPathSource(param string) *PathSource {
	if param == "" {
		param = "orgID"
	}
	return &PathSource{Param: param}
}

// Extract returns the organization id named in the path, if any. A segment
// in organization position that is not a valid identifier fails with
// ErrInvalidOrganizationID.
func (s *PathSource) Extract(r *http.Request, _ claims.User) (uuid.UUID, bool, error) {
	param := s.Param
	if param == "" {
		param = "orgID"
	}

	if raw := chi.URLParam(r, param); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.UUID{}, false, errors.Join(ErrInvalidOrganizationID, err)
		}
		return id, true, nil
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, seg := range segments {
		for _, prefix := range orgPathPrefixes {
			if seg != prefix || i+1 >= len(segments) {
				continue
			}
			id, err := uuid.Parse(segments[i+1])
			if err != nil {
				return uuid.UUID{}, false, errors.Join(ErrInvalidOrganizationID, err)
			}
			return id, true, nil
		}
	}

	return uuid.UUID{}, false, nil
}

// QuerySource reads the organization id from recognized query parameters.
type QuerySource struct {
	// Params are the recognized parameter names, checked in order.
	Params []string
}

// NewQuerySource creates a query source. With no names it recognizes
// "org_id" and "organization_id".
func NewQuerySource(params ...string) *QuerySource {
	if len(params) == 0 {
		params = []string{"org_id", "organization_id"}
	}
	return &QuerySource{Params: params}
}

// Extract returns the organization id named in the query string, if any.
func (s *QuerySource) Extract(r *http.Request, _ claims.User) (uuid.UUID, bool, error) {
	query := r.URL.Query()
	for _, name := range s.Params {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.UUID{}, false, errors.Join(ErrInvalidOrganizationID, err)
		}
		return id, true, nil
	}
	return uuid.UUID{}, false, nil
}

// ChainSource consults sources in order and stops at the first candidate.
// Later sources are never reached once an earlier one produced a value, so
// the identity claim cannot be overridden by path or query parameters.
type ChainSource struct {
	Sources []Source
}

// NewChainSource creates a chain over the given sources.
func NewChainSource(sources ...Source) *ChainSource {
	return &ChainSource{Sources: sources}
}

// DefaultSource is the standard priority order: identity claim, then path,
// then query string.
func DefaultSource() Source {
	return NewChainSource(ClaimSource{}, NewPathSource(""), NewQuerySource())
}

// Extract returns the first candidate found. Extraction errors abort the
// chain immediately rather than falling through to a weaker source.
func (c *ChainSource) Extract(r *http.Request, user claims.User) (uuid.UUID, bool, error) {
	for _, src := range c.Sources {
		id, ok, err := src.Extract(r, user)
		if err != nil {
			return uuid.UUID{}, false, err
		}
		if ok {
			return id, true, nil
		}
	}
	return uuid.UUID{}, false, nil
}
