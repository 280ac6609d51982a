package middleware

import "github.com/techzone/storefront-api/internal/core/domain"

// roleSet is the set of roles a guard accepts.
type roleSet map[domain.Role]struct{}

func newRoleSet(roles ...domain.Role) roleSet {
	set := make(roleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s roleSet) allows(role domain.Role) bool {
	_, ok := s[role]
	return ok
}
