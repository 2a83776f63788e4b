// Package rbac decides whether a subject may mutate a resource it may or may
// not own. Ownership always grants access; a role can additionally be granted
// an override for individual actions.
package rbac

// Role names stored on users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Action is a mutating operation guarded by the policy.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Subject is the caller as loaded from the credential store.
type Subject struct {
	ID   string
	Role string
}

// Policy maps an action to the roles that may perform it on resources they
// do not own.
type Policy struct {
	overrides map[Action]map[string]bool
}

// DefaultPolicy lets admins delete anything. Updates stay owner-only.
func DefaultPolicy() Policy {
	return NewPolicy(map[Action][]string{
		ActionDelete: {RoleAdmin},
	})
}

// NewPolicy builds a Policy from action → override roles.
func NewPolicy(overrides map[Action][]string) Policy {
	p := Policy{overrides: make(map[Action]map[string]bool, len(overrides))}
	for action, roles := range overrides {
		set := make(map[string]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		p.overrides[action] = set
	}
	return p
}

// Allows reports whether sub may perform action on a resource owned by ownerID.
// A nil subject (caller no longer in the store) is never allowed.
func (p Policy) Allows(sub *Subject, action Action, ownerID string) bool {
	if sub == nil || sub.ID == "" {
		return false
	}
	if ownerID != "" && sub.ID == ownerID {
		return true
	}
	return sub.Role != "" && p.overrides[action][sub.Role]
}
