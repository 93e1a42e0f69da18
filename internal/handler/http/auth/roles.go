package auth

import (
	"net/http"
	"slices"
	"strings"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Permission lists the methods and path patterns a role may use.
// A pattern ending in "/*" matches the prefix itself and everything below it;
// "/*" alone matches every path.
type Permission struct {
	AllowedMethods []string
	AllowedPaths   []string
}

// RolePermissions is the authorization table.
var RolePermissions = map[string]Permission{
	RoleAdmin: {
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedPaths:   []string{"/*"},
	},
	RoleViewer: {
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedPaths: []string{
			"/sources/*",
			"/feeds/*",
		},
	},
}

// ValidRole reports whether role has an entry in RolePermissions.
func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

func checkRolePermission(role, method, path string) bool {
	perm, exists := RolePermissions[role]
	if !exists {
		return false
	}
	if !slices.Contains(perm.AllowedMethods, method) {
		return false
	}
	return matchesPathPattern(path, perm.AllowedPaths)
}

func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}
