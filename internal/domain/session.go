package domain

import "time"

// Session is the server-side session state behind the gate cookie. A session
// may exist before authentication: the guard creates a pending session to
// stash the originally requested URL in.
type Session struct {
	ID                 string      `json:"-"`
	User               SessionUser `json:"user,omitempty"`
	Token              string      `json:"token,omitempty"`
	AuthTime           time.Time   `json:"authTime"`
	RedirectAfterLogin string      `json:"redirectAfterLogin,omitempty"`
}

// Authenticated reports whether login has established an identity on the
// session.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil && !s.AuthTime.IsZero()
}

// Expired reports whether the session's idle timeout has elapsed at now.
// Expiry is evaluated lazily on access; there is no background sweep.
func (s *Session) Expired(timeout time.Duration, now time.Time) bool {
	return now.Sub(s.AuthTime) >= timeout
}
