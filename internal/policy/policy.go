// Package policy holds the client-scoped access decision. It is a pure
// function shared by the page guard, the login-time check and the console
// scoping so the rule set cannot drift between call sites.
package policy

// Decision is the outcome of an access check.
type Decision int

const (
	Deny Decision = iota
	Grant
)

func (d Decision) String() string {
	if d == Grant {
		return "grant"
	}
	return "deny"
}

// Profile is the minimal view of a directory record the decision needs.
type Profile struct {
	ClientID      string
	IsAdmin       bool
	IsClientAdmin bool
}

// Decide reports whether a user may access content scoped to
// requiredClientID. Fails closed: an empty client ID or a missing profile is
// always a Deny.
func Decide(p *Profile, requiredClientID string) Decision {
	// Client scoping is mandatory, never optional.
	if requiredClientID == "" {
		return Deny
	}

	if p == nil {
		return Deny
	}

	// Global admins carry no client and may access any of them.
	if p.IsAdmin {
		return Grant
	}

	// Plain users and client admins alike: membership in the required
	// client is the whole rule.
	if p.ClientID != "" && p.ClientID == requiredClientID {
		return Grant
	}

	return Deny
}
