package membership

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saasforge/tenantkit/core"
	"github.com/saasforge/tenantkit/pkg/audit"
	"github.com/saasforge/tenantkit/pkg/tenant"
)

// Storage is what the router needs from a membership backend. *Store
// satisfies it; tests substitute fakes.
type Storage interface {
	Add(ctx context.Context, userID, orgID uuid.UUID, role Role) (Membership, error)
	Remove(ctx context.Context, tc tenant.Context, userID uuid.UUID) error
	List(ctx context.Context, tc tenant.Context) ([]Membership, error)
}

// Invalidator drops cached membership decisions after mutations.
type Invalidator interface {
	Invalidate(ctx context.Context, userID, orgID uuid.UUID)
}

// RouterOptions configures the membership router. Storage is required;
// Audit and Invalidator are optional.
type RouterOptions struct {
	Storage     Storage
	Audit       *audit.Logger
	Invalidator Invalidator
}

type addMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// Router serves the membership API for the organization in the request's
// tenant context. Mount it behind the tenant middleware:
//
//	r.Route("/orgs/{orgID}", func(r chi.Router) {
//		r.Use(tenant.Middleware(resolver))
//		r.Mount("/members", membership.Router(membership.RouterOptions{Storage: store}))
//	})
func Router(opts RouterOptions) chi.Router {
	if opts.Storage == nil {
		panic("membership: storage cannot be nil")
	}

	h := &handlers{
		storage:     opts.Storage,
		auditLog:    opts.Audit,
		invalidator: opts.Invalidator,
	}

	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Delete("/{userID}", h.remove)
	return r
}

type handlers struct {
	storage     Storage
	auditLog    *audit.Logger
	invalidator Invalidator
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		_ = core.Error(w, core.ErrForbidden)
		return
	}

	members, err := h.storage.List(r.Context(), tc)
	if err != nil {
		_ = core.Error(w, err)
		return
	}
	if members == nil {
		members = []Membership{}
	}
	_ = core.JSON(w, http.StatusOK, members)
}

func (h *handlers) add(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		_ = core.Error(w, core.ErrForbidden)
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == uuid.Nil {
		_ = core.Error(w, core.ErrBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = RoleMember
	}

	m, err := h.storage.Add(r.Context(), req.UserID, tc.OrganizationID, req.Role)
	if err != nil {
		h.logError(r.Context(), "member.add", err, req.UserID)
		_ = core.Error(w, mapError(err))
		return
	}

	if h.invalidator != nil {
		h.invalidator.Invalidate(r.Context(), m.UserID, m.OrganizationID)
	}
	h.log(r.Context(), "member.add", m.UserID)

	_ = core.JSON(w, http.StatusCreated, m)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		_ = core.Error(w, core.ErrForbidden)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		_ = core.Error(w, core.ErrBadRequest)
		return
	}

	if err := h.storage.Remove(r.Context(), tc, userID); err != nil {
		h.logError(r.Context(), "member.remove", err, userID)
		_ = core.Error(w, mapError(err))
		return
	}

	if h.invalidator != nil {
		h.invalidator.Invalidate(r.Context(), userID, tc.OrganizationID)
	}
	h.log(r.Context(), "member.remove", userID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) log(ctx context.Context, action string, userID uuid.UUID) {
	if h.auditLog == nil {
		return
	}
	_ = h.auditLog.Log(ctx, action, audit.WithResource("membership", userID.String()))
}

func (h *handlers) logError(ctx context.Context, action string, cause error, userID uuid.UUID) {
	if h.auditLog == nil {
		return
	}
	_ = h.auditLog.LogError(ctx, action, cause, audit.WithResource("membership", userID.String()))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return core.ErrNotFound
	case errors.Is(err, ErrAlreadyMember):
		return core.ErrConflict
	case errors.Is(err, ErrInvalidRole):
		return core.ErrUnprocessableEntity
	default:
		return err
	}
}
