package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/nftlisting/pkg/rbac"
)

func TestDefaultPolicy(t *testing.T) {
	p := rbac.DefaultPolicy()

	owner := &rbac.Subject{ID: "a", Role: rbac.RoleUser}
	other := &rbac.Subject{ID: "b", Role: rbac.RoleUser}
	admin := &rbac.Subject{ID: "c", Role: rbac.RoleAdmin}
	noRole := &rbac.Subject{ID: "d"}

	tests := []struct {
		name   string
		sub    *rbac.Subject
		action rbac.Action
		want   bool
	}{
		{"owner updates", owner, rbac.ActionUpdate, true},
		{"owner deletes", owner, rbac.ActionDelete, true},
		{"stranger updates", other, rbac.ActionUpdate, false},
		{"stranger deletes", other, rbac.ActionDelete, false},
		{"admin updates someone else's", admin, rbac.ActionUpdate, false},
		{"admin deletes someone else's", admin, rbac.ActionDelete, true},
		{"missing role deletes", noRole, rbac.ActionDelete, false},
		{"missing subject", nil, rbac.ActionDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Allows(tt.sub, tt.action, "a"))
		})
	}
}

func TestAllows_EmptyOwnerNeverMatches(t *testing.T) {
	p := rbac.DefaultPolicy()
	assert.False(t, p.Allows(&rbac.Subject{ID: "x"}, rbac.ActionUpdate, ""))
}

func TestNewPolicy_CustomOverride(t *testing.T) {
	p := rbac.NewPolicy(map[rbac.Action][]string{rbac.ActionUpdate: {"moderator"}})
	assert.True(t, p.Allows(&rbac.Subject{ID: "m", Role: "moderator"}, rbac.ActionUpdate, "a"))
	assert.False(t, p.Allows(&rbac.Subject{ID: "m", Role: "moderator"}, rbac.ActionDelete, "a"))
}
