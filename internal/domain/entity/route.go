package entity

// RouteMeta is the static authorization metadata attached to an operation.
// It is plain data so the guard stays decoupled from any transport.
type RouteMeta struct {
	// Public marks an operation that may be invoked without any token.
	Public bool
	// Roles is the set of role ids of which the caller must hold at least
	// one. Empty means any authenticated identity may proceed.
	Roles []string
}

// PublicRoute returns metadata for an unauthenticated operation.
func PublicRoute() RouteMeta {
	return RouteMeta{Public: true}
}

// AuthenticatedRoute returns metadata for an operation any authenticated
// identity may call.
func AuthenticatedRoute() RouteMeta {
	return RouteMeta{}
}

// RestrictedRoute returns metadata for an operation restricted to the given roles.
func RestrictedRoute(roles ...string) RouteMeta {
	return RouteMeta{Roles: roles}
}
