package auth

// RequirementKind enumerates the supported access rule types.
type RequirementKind string

const (
	RequirementPermitAll       RequirementKind = "PERMIT_ALL"
	RequirementDenyAll         RequirementKind = "DENY_ALL"
	RequirementIsAuthenticated RequirementKind = "IS_AUTHENTICATED"
	RequirementHasAnyRole      RequirementKind = "HAS_ANY_ROLE"
	RequirementHasAllRoles     RequirementKind = "HAS_ALL_ROLES"
)

// AccessRequirement is the access rule declared for a route. Requirements
// are immutable and known at registration time.
type AccessRequirement struct {
	Kind  RequirementKind
	Roles []string
}

// PermitAll allows every request, authenticated or not.
func PermitAll() AccessRequirement {
	return AccessRequirement{Kind: RequirementPermitAll}
}

// DenyAll rejects every request unconditionally.
func DenyAll() AccessRequirement {
	return AccessRequirement{Kind: RequirementDenyAll}
}

// IsAuthenticated requires a resolved identity, any roles.
func IsAuthenticated() AccessRequirement {
	return AccessRequirement{Kind: RequirementIsAuthenticated}
}

// HasAnyRole requires a resolved identity holding at least one listed role.
func HasAnyRole(roles ...string) AccessRequirement {
	return AccessRequirement{Kind: RequirementHasAnyRole, Roles: roles}
}

// HasAllRoles requires a resolved identity holding every listed role.
func HasAllRoles(roles ...string) AccessRequirement {
	return AccessRequirement{Kind: RequirementHasAllRoles, Roles: roles}
}

// Decision is the outcome of evaluating a requirement against an identity.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Evaluate applies the declared requirement to the resolved identity.
// identity is nil when the request carried no usable credentials; every
// branch that needs one then denies rather than erroring.
func Evaluate(req AccessRequirement, identity *Identity) Decision {
	switch req.Kind {
	case RequirementPermitAll:
		return allow()
	case RequirementDenyAll:
		return deny("route denies all access")
	case RequirementIsAuthenticated:
		if identity == nil {
			return deny("authentication required")
		}
		return allow()
	case RequirementHasAnyRole:
		if identity == nil {
			return deny("authentication required")
		}
		for _, role := range req.Roles {
			if identity.HasRole(role) {
				return allow()
			}
		}
		return deny("missing required role")
	case RequirementHasAllRoles:
		if identity == nil {
			return deny("authentication required")
		}
		for _, role := range req.Roles {
			if !identity.HasRole(role) {
				return deny("missing required role")
			}
		}
		return allow()
	default:
		return deny("unknown requirement")
	}
}
