package domain

import (
	"time"

	"client-gate/internal/policy"
)

// Identity is an authenticated identity as reported by the identity provider.
type Identity struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
	CreatedAt     time.Time
}

// Claims returns the identity as a login-claims document, the shape the
// login surface submits it in.
func (i *Identity) Claims() map[string]any {
	claims := map[string]any{
		"uid":           i.UID,
		"email":         i.Email,
		"emailVerified": i.EmailVerified,
	}
	if i.DisplayName != "" {
		claims["displayName"] = i.DisplayName
	}
	return claims
}

// DirectoryUser is the directory record for an identity. Global admins have
// no client; everyone else belongs to exactly one.
type DirectoryUser struct {
	UID           string    `json:"uid" bson:"_id"`
	Email         string    `json:"email" bson:"email"`
	FirstName     string    `json:"firstName" bson:"firstName"`
	LastName      string    `json:"lastName" bson:"lastName"`
	ClientID      *string   `json:"clientId" bson:"clientId"`
	IsAdmin       bool      `json:"isAdmin" bson:"isAdmin"`
	IsClientAdmin bool      `json:"isClientAdmin" bson:"isClientAdmin"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// Profile projects the record into the access-policy view.
func (u *DirectoryUser) Profile() *policy.Profile {
	if u == nil {
		return nil
	}
	p := &policy.Profile{
		IsAdmin:       u.IsAdmin,
		IsClientAdmin: u.IsClientAdmin,
	}
	if u.ClientID != nil {
		p.ClientID = *u.ClientID
	}
	return p
}

// Document returns the record as a merge-ready document with the wire field
// names used by the login contract.
func (u *DirectoryUser) Document() map[string]any {
	doc := map[string]any{
		"uid":           u.UID,
		"email":         u.Email,
		"firstName":     u.FirstName,
		"lastName":      u.LastName,
		"isAdmin":       u.IsAdmin,
		"isClientAdmin": u.IsClientAdmin,
	}
	if u.ClientID != nil {
		doc["clientId"] = *u.ClientID
	}
	if !u.CreatedAt.IsZero() {
		doc["createdAt"] = u.CreatedAt
	}
	return doc
}

// Client is a tenant record. Resources are partitioned by its ID.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionUser is the merged identity-claims and directory-record document
// stored in the session, kept in the shape the login request delivered it.
type SessionUser map[string]any

// MergeSessionUser overlays the directory record onto the identity claims.
// Directory fields win when both define a field.
func MergeSessionUser(claims, directory map[string]any) SessionUser {
	merged := make(SessionUser, len(claims)+len(directory))
	for k, v := range claims {
		merged[k] = v
	}
	for k, v := range directory {
		merged[k] = v
	}
	return merged
}

// UID returns the stable identity ID, or "" when absent.
func (u SessionUser) UID() string { return u.stringField("uid") }

// Email returns the user's email, or "" when absent.
func (u SessionUser) Email() string { return u.stringField("email") }

// Profile projects the merged document into the access-policy view.
// A nil user yields a nil profile, which the policy denies.
func (u SessionUser) Profile() *policy.Profile {
	if u == nil {
		return nil
	}
	p := &policy.Profile{ClientID: u.stringField("clientId")}
	if v, ok := u["isAdmin"].(bool); ok {
		p.IsAdmin = v
	}
	if v, ok := u["isClientAdmin"].(bool); ok {
		p.IsClientAdmin = v
	}
	return p
}

func (u SessionUser) stringField(key string) string {
	if v, ok := u[key].(string); ok {
		return v
	}
	return ""
}
