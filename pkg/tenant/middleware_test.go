package tenant_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasforge/tenantkit/pkg/claims"
	"github.com/saasforge/tenantkit/pkg/tenant"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("member of claimed org reaches the handler with context attached", func(t *testing.T) {
		t.Parallel()

		orgA := uuid.New()
		user := userWithOrg(orgA)

		checker := newMockChecker()
		checker.add(user.ID, orgA)

		mw := tenant.Middleware(tenant.NewResolver(checker))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, orgA, tc.OrganizationID)
			assert.Equal(t, user.ID, tc.UserID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/documents/42", nil)
		req.Header.Set(claims.HeaderUserID, user.ID.String())
		req.Header.Set(claims.HeaderOrganizationID, orgA.String())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("claiming a foreign org is a 403 and handler never runs", func(t *testing.T) {
		t.Parallel()

		orgA := uuid.New()
		orgB := uuid.New()
		user := userWithOrg(orgA)

		checker := newMockChecker()
		checker.add(user.ID, orgA) // member of A only

		mw := tenant.Middleware(tenant.NewResolver(checker))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/documents/42", nil)
		req.Header.Set(claims.HeaderUserID, user.ID.String())
		req.Header.Set(claims.HeaderOrganizationID, orgB.String())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous request to protected path is a 401", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewResolver(newMockChecker()))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/documents/42", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("identity with no derivable organization is a 401", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewResolver(newMockChecker()))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/documents/42", nil)
		req.Header.Set(claims.HeaderUserID, uuid.New().String())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed identity header is a 401", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewResolver(newMockChecker()))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/documents/42", nil)
		req.Header.Set(claims.HeaderUserID, "not-a-uuid")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed organization parameter is a 400", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewResolver(newMockChecker()))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/documents?org_id=org-9", nil)
		req.Header.Set(claims.HeaderUserID, uuid.New().String())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("allow-listed path bypasses resolution and membership lookup", func(t *testing.T) {
		t.Parallel()

		checker := newMockChecker()
		mw := tenant.Middleware(tenant.NewResolver(checker))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.FromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, checker.callCount())
	})

	t.Run("prefix allow-list matches nested paths", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(tenant.NewResolver(newMockChecker()),
			tenant.WithSkipPrefixes("/public"),
		)
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/public/pricing/enterprise", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reuses identity attached by the claims middleware", func(t *testing.T) {
		t.Parallel()

		orgA := uuid.New()
		user := userWithOrg(orgA)

		checker := newMockChecker()
		checker.add(user.ID, orgA)

		mw := tenant.Middleware(tenant.NewResolver(checker))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		// No identity headers on the request itself.
		req := httptest.NewRequest("GET", "/documents/42", nil)
		req = req.WithContext(claims.WithUser(req.Context(), user))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denial observer sees every rejection", func(t *testing.T) {
		t.Parallel()

		orgA := uuid.New()
		orgB := uuid.New()
		user := userWithOrg(orgA)

		checker := newMockChecker()
		checker.add(user.ID, orgA)

		var denied []error
		mw := tenant.Middleware(tenant.NewResolver(checker),
			tenant.WithDenialObserver(func(r *http.Request, err error) {
				denied = append(denied, err)
			}),
		)
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		// Allowed request: observer stays silent.
		req := httptest.NewRequest("GET", "/documents/42", nil)
		req.Header.Set(claims.HeaderUserID, user.ID.String())
		req.Header.Set(claims.HeaderOrganizationID, orgA.String())
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Empty(t, denied)

		// Foreign organization: observer records the denial.
		req = httptest.NewRequest("GET", "/documents/42", nil)
		req.Header.Set(claims.HeaderUserID, user.ID.String())
		req.Header.Set(claims.HeaderOrganizationID, orgB.String())
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.Len(t, denied, 1)
		assert.ErrorIs(t, denied[0], tenant.ErrAccessDenied)
	})

	t.Run("custom error handler observes resolution errors", func(t *testing.T) {
		t.Parallel()

		var got error
		mw := tenant.Middleware(tenant.NewResolver(newMockChecker()),
			tenant.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				got = err
				w.WriteHeader(http.StatusTeapot)
			}),
		)

		req := httptest.NewRequest("GET", "/documents/42", nil)
		req.Header.Set(claims.HeaderUserID, uuid.New().String())

		w := httptest.NewRecorder()
		mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.ErrorIs(t, got, tenant.ErrContextMissing)
	})
}

func TestRequireContext(t *testing.T) {
	t.Parallel()

	t.Run("rejects request without tenant context", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("passes request with tenant context", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(tenant.WithContext(req.Context(), tenant.Context{
			OrganizationID: uuid.New(),
			UserID:         uuid.New(),
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
