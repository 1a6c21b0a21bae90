package core_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasforge/tenantkit/core"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes data envelope", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		err := core.JSON(w, http.StatusOK, map[string]string{"name": "acme"})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]any{"name": "acme"}, body.Data)
		assert.Nil(t, body.Error)
	})

	t.Run("writes meta alongside data", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		err := core.JSONWithMeta(w, http.StatusOK, []string{"a"}, map[string]any{"total": 1})
		require.NoError(t, err)

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 1, body.Meta["total"])
	})
}

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("maps HTTPError to its status and key", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, core.Error(w, core.ErrForbidden))

		assert.Equal(t, http.StatusForbidden, w.Code)

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, "forbidden", body.Error.Code)
	})

	t.Run("hides non-HTTP errors behind 500", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, core.Error(w, assert.AnError))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, "internal_server_error", body.Error.Code)
		assert.NotContains(t, body.Error.Message, assert.AnError.Error())
	})

	t.Run("custom error keeps its key", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		custom := core.NewHTTPError(http.StatusForbidden, "tenant_access_denied")
		require.NoError(t, core.Error(w, custom))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "tenant_access_denied")
	})
}
