package access

// Identity is the pre-validated caller supplied by the session layer.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// Decision is the outcome of a role check.
type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Forbidden
)

// String returns the decision name used in logs.
func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Check decides whether id may invoke an operation open to the allowed roles.
// An empty allowed list admits any authenticated caller.
// PRE: none
// POST: Unauthenticated when id is nil or has no UserID; Forbidden when the
// role is not in allowed; Allowed otherwise
func Check(id *Identity, allowed ...string) Decision {
	if id == nil || id.UserID == "" {
		return Unauthenticated
	}
	if len(allowed) == 0 {
		return Allowed
	}
	for _, r := range allowed {
		if id.Role == r {
			return Allowed
		}
	}
	return Forbidden
}
