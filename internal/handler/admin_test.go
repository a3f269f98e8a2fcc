package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsicat/obsicat-api/internal/model"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app := newTestApp(t)
	free := app.register(t, "free@example.com", "secret123")["access_token"].(string)

	for _, path := range []string{"/admin/stats", "/admin/users"} {
		rec := app.doJSON(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = app.doJSON(t, http.MethodGet, path, "", free)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestAdminStats(t *testing.T) {
	app := newTestApp(t)
	admin := app.registerAdmin(t, "admin@example.com", "secret123")
	app.register(t, "other@example.com", "secret123")

	rec := app.doJSON(t, http.MethodGet, "/admin/stats", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	assert.EqualValues(t, 2, stats["total_users"])
	assert.EqualValues(t, 2, stats["active_users"])
	assert.EqualValues(t, 0, stats["total_payments"])
	assert.EqualValues(t, 0, stats["total_uploads"])
}

func TestAdminListUsers(t *testing.T) {
	app := newTestApp(t)
	admin := app.registerAdmin(t, "admin@example.com", "secret123")
	app.register(t, "other@example.com", "secret123")

	rec := app.doJSON(t, http.MethodGet, "/admin/users", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@example.com")
	assert.Contains(t, rec.Body.String(), "other@example.com")
	// Hashes never leave the server.
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestAdminUpdateUser(t *testing.T) {
	app := newTestApp(t)
	admin := app.registerAdmin(t, "admin@example.com", "secret123")
	target := app.register(t, "target@example.com", "secret123")
	id := target["user"].(map[string]any)["id"].(string)

	rec := app.doJSON(t, http.MethodPut, "/admin/users/"+id,
		`{"role":"premium","is_active":false}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, model.RolePremium, updated["role"])
	assert.Equal(t, false, updated["is_active"])

	rec = app.doJSON(t, http.MethodPut, "/admin/users/"+id, `{"role":"emperor"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.doJSON(t, http.MethodPut, "/admin/users/missing", `{"role":"premium"}`, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDeleteUser(t *testing.T) {
	app := newTestApp(t)
	admin := app.registerAdmin(t, "admin@example.com", "secret123")
	target := app.register(t, "target@example.com", "secret123")
	id := target["user"].(map[string]any)["id"].(string)

	rec := app.doJSON(t, http.MethodDelete, "/admin/users/"+id, "", admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.doJSON(t, http.MethodDelete, "/admin/users/"+id, "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The deleted user's access token now fails at /auth/me.
	rec = app.doJSON(t, http.MethodGet, "/auth/me", "", target["access_token"].(string))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
