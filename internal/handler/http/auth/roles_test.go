package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckRolePermission(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   bool
	}{
		{"admin reads sources", RoleAdmin, http.MethodGet, "/sources", true},
		{"admin upserts source", RoleAdmin, http.MethodPut, "/sources", true},
		{"admin deletes source", RoleAdmin, http.MethodDelete, "/sources", true},
		{"admin starts polling", RoleAdmin, http.MethodPost, "/polling/start", true},
		{"admin reads polling", RoleAdmin, http.MethodGet, "/polling", true},

		{"viewer reads sources", RoleViewer, http.MethodGet, "/sources", true},
		{"viewer reads one source", RoleViewer, http.MethodGet, "/sources/one", true},
		{"viewer reads feeds", RoleViewer, http.MethodGet, "/feeds", true},
		{"viewer reads one feed", RoleViewer, http.MethodGet, "/feeds/one", true},
		{"viewer searches", RoleViewer, http.MethodGet, "/feeds/search", true},
		{"viewer cannot upsert", RoleViewer, http.MethodPut, "/sources", false},
		{"viewer cannot delete", RoleViewer, http.MethodDelete, "/sources", false},
		{"viewer cannot start polling", RoleViewer, http.MethodPost, "/polling/start", false},
		{"viewer cannot read polling state", RoleViewer, http.MethodGet, "/polling", false},
		{"viewer prefix is segment aware", RoleViewer, http.MethodGet, "/feedsX", false},

		{"unknown role", "editor", http.MethodGet, "/sources", false},
		{"empty role", "", http.MethodGet, "/sources", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkRolePermission(tt.role, tt.method, tt.path))
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleViewer))
	assert.False(t, ValidRole("root"))
}
