package utils

import "strings"

// MatchesPermission checks if a user permission matches the required permission.
// Supports wildcard patterns:
//
//   - "*" matches everything (super admin wildcard)
//   - "invoice:*" matches all actions on the invoice resource
//   - "*:read" matches the read action on all resources
//   - "invoice:finalize" exact match
//
// Permission format: "resource:action". Adding new permissions to the
// database is enough for wildcard holders to pick them up; no code change.
func MatchesPermission(userPerm, requiredPerm string) bool {
	// Exact match (fastest path)
	if userPerm == requiredPerm {
		return true
	}

	// Full wildcard - grants everything
	if userPerm == "*" || userPerm == "*:*" {
		return true
	}

	userParts := strings.Split(userPerm, ":")
	reqParts := strings.Split(requiredPerm, ":")

	// Single-token permissions only match exactly (handled above).
	if len(userParts) < 2 || len(reqParts) < 2 {
		return false
	}

	resourceMatch := userParts[0] == "*" || userParts[0] == reqParts[0]
	actionMatch := userParts[1] == "*" || userParts[1] == reqParts[1]

	return resourceMatch && actionMatch
}

// HasAnyPermission reports whether any of the user's permissions satisfies
// the requirement.
func HasAnyPermission(userPerms []string, requiredPerm string) bool {
	for _, p := range userPerms {
		if MatchesPermission(p, requiredPerm) {
			return true
		}
	}
	return false
}
