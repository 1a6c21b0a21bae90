package membership_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasforge/tenantkit/modules/membership"
	"github.com/saasforge/tenantkit/pkg/tenant"
)

// fakeStorage keeps memberships in a map keyed by user/organization.
type fakeStorage struct {
	mu      sync.Mutex
	members map[string]membership.Membership
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{members: make(map[string]membership.Membership)}
}

func storageKey(userID, orgID uuid.UUID) string {
	return userID.String() + "/" + orgID.String()
}

func (s *fakeStorage) Add(_ context.Context, userID, orgID uuid.UUID, role membership.Role) (membership.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return membership.Membership{}, s.err
	}
	if !role.Valid() {
		return membership.Membership{}, membership.ErrInvalidRole
	}

	key := storageKey(userID, orgID)
	if _, exists := s.members[key]; exists {
		return membership.Membership{}, membership.ErrAlreadyMember
	}

	m := membership.Membership{
		ID:             uuid.New(),
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		CreatedAt:      time.Now(),
	}
	s.members[key] = m
	return m, nil
}

func (s *fakeStorage) Remove(_ context.Context, tc tenant.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	key := storageKey(userID, tc.OrganizationID)
	if _, exists := s.members[key]; !exists {
		return membership.ErrNotFound
	}
	delete(s.members, key)
	return nil
}

func (s *fakeStorage) List(_ context.Context, tc tenant.Context) ([]membership.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	var out []membership.Membership
	for _, m := range s.members {
		if m.OrganizationID == tc.OrganizationID {
			out = append(out, m)
		}
	}
	return out, nil
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID, orgID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, tenant.DecisionKey(userID, orgID))
}

func serveWithTenant(t *testing.T, router http.Handler, tc tenant.Context, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req = req.WithContext(tenant.WithContext(req.Context(), tc))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	tc := tenant.Context{OrganizationID: orgID, UserID: uuid.New()}

	t.Run("add then list", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		router := membership.Router(membership.RouterOptions{Storage: storage})

		newUser := uuid.New()
		body, _ := json.Marshal(map[string]any{"user_id": newUser, "role": "admin"})
		rec := serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)

		var created membership.Membership
		require.NoError(t, json.Unmarshal(extractData(t, rec), &created))
		assert.Equal(t, newUser, created.UserID)
		assert.Equal(t, orgID, created.OrganizationID)
		assert.Equal(t, membership.RoleAdmin, created.Role)

		rec = serveWithTenant(t, router, tc, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var members []membership.Membership
		require.NoError(t, json.Unmarshal(extractData(t, rec), &members))
		require.Len(t, members, 1)
		assert.Equal(t, newUser, members[0].UserID)
	})

	t.Run("role defaults to member", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		router := membership.Router(membership.RouterOptions{Storage: storage})

		body, _ := json.Marshal(map[string]any{"user_id": uuid.New()})
		rec := serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)

		var created membership.Membership
		require.NoError(t, json.Unmarshal(extractData(t, rec), &created))
		assert.Equal(t, membership.RoleMember, created.Role)
	})

	t.Run("duplicate member conflicts", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		router := membership.Router(membership.RouterOptions{Storage: storage})

		userID := uuid.New()
		body, _ := json.Marshal(map[string]any{"user_id": userID})

		rec := serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid role unprocessable", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		router := membership.Router(membership.RouterOptions{Storage: storage})

		body, _ := json.Marshal(map[string]any{"user_id": uuid.New(), "role": "superuser"})
		rec := serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("remove existing member", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		invalidator := &recordingInvalidator{}
		router := membership.Router(membership.RouterOptions{
			Storage:     storage,
			Invalidator: invalidator,
		})

		userID := uuid.New()
		_, err := storage.Add(context.Background(), userID, orgID, membership.RoleMember)
		require.NoError(t, err)

		rec := serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodDelete, "/"+userID.String(), nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, invalidator.calls, tenant.DecisionKey(userID, orgID))
	})

	t.Run("remove unknown member returns 404", func(t *testing.T) {
		t.Parallel()

		router := membership.Router(membership.RouterOptions{Storage: newFakeStorage()})
		rec := serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodDelete, "/"+uuid.New().String(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed user id in path", func(t *testing.T) {
		t.Parallel()

		router := membership.Router(membership.RouterOptions{Storage: newFakeStorage()})
		rec := serveWithTenant(t, router, tc,
			httptest.NewRequest(http.MethodDelete, "/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing tenant context forbidden", func(t *testing.T) {
		t.Parallel()

		router := membership.Router(membership.RouterOptions{Storage: newFakeStorage()})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("list never leaks other organizations", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		router := membership.Router(membership.RouterOptions{Storage: storage})

		otherOrg := uuid.New()
		_, err := storage.Add(context.Background(), uuid.New(), otherOrg, membership.RoleMember)
		require.NoError(t, err)

		rec := serveWithTenant(t, router, tc, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var members []membership.Membership
		require.NoError(t, json.Unmarshal(extractData(t, rec), &members))
		assert.Empty(t, members)
	})
}

// extractData pulls the data field out of the JSON response envelope.
func extractData(t *testing.T, rec *httptest.ResponseRecorder) []byte {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}
