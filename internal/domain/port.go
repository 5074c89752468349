package domain

import "context"

// IdentityProvider is the external service that owns credentials and
// identities. Token issuance and verification cryptography live entirely on
// its side.
type IdentityProvider interface {
	// VerifyToken resolves a bearer credential to its identity.
	// Returns ErrUnauthenticated for missing, invalid or expired tokens.
	VerifyToken(ctx context.Context, token string) (*Identity, error)

	// SignIn performs an email+password login and returns the identity
	// together with a fresh session token.
	SignIn(ctx context.Context, email, password string) (*Identity, string, error)

	// CreateIdentity provisions a new identity and returns its uid.
	CreateIdentity(ctx context.Context, email, password, displayName string) (string, error)

	// DeleteIdentity removes an identity. Returns ErrNotFound when the uid
	// is unknown.
	DeleteIdentity(ctx context.Context, uid string) error

	// SendPasswordReset triggers the provider's password-recovery email.
	SendPasswordReset(ctx context.Context, email string) error
}

// DirectoryStore holds user and client records, queryable by field.
// Per-document operations are atomic; multi-record operations are not.
type DirectoryStore interface {
	GetUser(ctx context.Context, uid string) (*DirectoryUser, error)
	GetUserByEmail(ctx context.Context, email string) (*DirectoryUser, error)
	PutUser(ctx context.Context, user *DirectoryUser) error
	DeleteUser(ctx context.Context, uid string) error

	// ListClientUsers returns the non-admin users of one client, newest
	// first.
	ListClientUsers(ctx context.Context, clientID string) ([]*DirectoryUser, error)

	// ListAdmins returns all global admins, newest first.
	ListAdmins(ctx context.Context) ([]*DirectoryUser, error)

	// CountUsers counts non-admin users, optionally restricted to one
	// client.
	CountUsers(ctx context.Context, clientID string) (int64, error)

	CreateClient(ctx context.Context, name string) (*Client, error)
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// SessionStore provides read/write access to server-side sessions.
type SessionStore interface {
	// Get returns the session, ErrSessionNotFound for an unknown ID, or
	// ErrSessionExpired when the entry outlived its hard TTL but has not
	// been swept yet. Callers treat both errors as a dead session.
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error

	// DeleteByUID destroys every session belonging to an identity. Used
	// when the identity itself is deleted.
	DeleteByUID(ctx context.Context, uid string) error
}

// TokenIssuer generates signed backend tokens for downstream services.
type TokenIssuer interface {
	IssueBackendToken(user SessionUser, sessionID string) (string, error)
}
