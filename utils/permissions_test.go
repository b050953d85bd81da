package utils

import "testing"

func TestMatchesPermission(t *testing.T) {
	tests := []struct {
		name         string
		userPerm     string
		requiredPerm string
		expected     bool
	}{
		// Exact matches
		{"exact match same permission", "classlog:create", "classlog:create", true},
		{"exact match different action", "classlog:create", "classlog:read", false},
		{"exact match different resource", "classlog:create", "invoice:create", false},

		// Full wildcard tests
		{"full wildcard *", "*", "anything:goes", true},
		{"full wildcard *:*", "*:*", "invoice:finalize", true},
		{"full wildcard matches all resources", "*", "user:deactivate", true},

		// Resource wildcard tests
		{"resource wildcard matches create", "invoice:*", "invoice:create", true},
		{"resource wildcard matches finalize", "invoice:*", "invoice:finalize", true},
		{"resource wildcard doesn't match other resource", "invoice:*", "classlog:create", false},

		// Action wildcard tests
		{"action wildcard matches classlog", "*:read", "classlog:read", true},
		{"action wildcard matches banking", "*:read", "banking:read", true},
		{"action wildcard doesn't match other action", "*:read", "classlog:create", false},

		// Edge cases
		{"empty required permission", "classlog:create", "", false},
		{"empty user permission", "", "classlog:create", false},
		{"both empty", "", "", true},
		{"single part exact", "admin", "admin", true},
		{"single part no wildcard expansion", "admin", "admin:read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesPermission(tt.userPerm, tt.requiredPerm); got != tt.expected {
				t.Errorf("MatchesPermission(%q, %q) = %v, want %v",
					tt.userPerm, tt.requiredPerm, got, tt.expected)
			}
		})
	}
}

func TestHasAnyPermission(t *testing.T) {
	perms := []string{"classlog:read", "invoice:*"}

	if !HasAnyPermission(perms, "invoice:finalize") {
		t.Error("expected invoice:* to grant invoice:finalize")
	}
	if !HasAnyPermission(perms, "classlog:read") {
		t.Error("expected exact classlog:read to be granted")
	}
	if HasAnyPermission(perms, "user:invite") {
		t.Error("did not expect user:invite to be granted")
	}
	if HasAnyPermission(nil, "classlog:read") {
		t.Error("empty permission set must grant nothing")
	}
}
