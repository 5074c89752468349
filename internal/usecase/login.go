package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"client-gate/internal/domain"
	"client-gate/internal/policy"

	"github.com/google/uuid"
)

// LoginInput is the login action payload. DirectoryUser keeps the wire name
// "firestoreUser" at the HTTP layer; here it is just the submitted directory
// record.
type LoginInput struct {
	Token         string
	Claims        map[string]any
	DirectoryUser map[string]any
	ClientID      string
	RedirectURL   string
	// PendingSessionID is the visitor's current (unauthenticated) session,
	// if any. Its stashed redirect is consumed and the ID is retired.
	PendingSessionID string
}

// LoginResult carries the established session and where to send the user.
type LoginResult struct {
	SessionID   string
	User        domain.SessionUser
	RedirectURL string
}

// Login establishes an authenticated session from a provider credential.
// The token is the single source of truth: submitted claims never extend
// what the provider and the directory say.
type Login struct {
	provider   domain.IdentityProvider
	directory  domain.DirectoryStore
	sessions   domain.SessionStore
	successURL string
	logger     *slog.Logger
}

// NewLogin creates a new Login usecase. successURL is the post-login fallback
// when neither the request nor the pending session names a destination.
func NewLogin(p domain.IdentityProvider, d domain.DirectoryStore, s domain.SessionStore, successURL string, l *slog.Logger) *Login {
	return &Login{provider: p, directory: d, sessions: s, successURL: successURL, logger: l}
}

// Execute verifies the credential, merges identity claims with the directory
// record and rotates the session ID.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginResult, error) {
	uid, _ := in.Claims["uid"].(string)
	email, _ := in.Claims["email"].(string)
	if uid == "" || email == "" {
		return nil, fmt.Errorf("%w: uid and email are required", domain.ErrInvalidInput)
	}

	identity, err := uc.provider.VerifyToken(ctx, in.Token)
	if err != nil {
		return nil, err
	}
	if identity.UID != uid {
		uc.logger.Warn("login uid does not match token identity",
			"claimed_uid", uid,
			"token_uid", identity.UID,
		)
		return nil, domain.ErrUnauthenticated
	}

	directory := in.DirectoryUser
	record, err := uc.directory.GetUser(ctx, identity.UID)
	switch {
	case err == nil:
		// The stored record is authoritative over whatever the login
		// surface submitted.
		directory = record.Document()
	case errors.Is(err, domain.ErrNotFound):
		// No record yet; the submitted one rides along but carries no
		// privileges the policy would honor without a tenant match.
	default:
		return nil, err
	}

	merged := domain.MergeSessionUser(identity.Claims(), directory)

	if in.ClientID != "" && policy.Decide(merged.Profile(), in.ClientID) != policy.Grant {
		uc.logger.Info("login rejected by access policy",
			"uid", identity.UID,
			"client_id", in.ClientID,
		)
		return nil, domain.ErrForbidden
	}

	return uc.establish(ctx, merged, in.Token, in.PendingSessionID, in.RedirectURL)
}

// establish rotates in a fresh session ID, consuming the pending session's
// stashed redirect exactly once.
func (uc *Login) establish(ctx context.Context, user domain.SessionUser, token, pendingID, explicitRedirect string) (*LoginResult, error) {
	redirect := explicitRedirect

	if pendingID != "" {
		pending, err := uc.sessions.Get(ctx, pendingID)
		if err == nil {
			if redirect == "" {
				redirect = pending.RedirectAfterLogin
			}
			if err := uc.sessions.Delete(ctx, pendingID); err != nil {
				uc.logger.Warn("failed to retire pending session", "error", err)
			}
		} else if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
	}
	if redirect == "" {
		redirect = uc.successURL
	}

	sess := &domain.Session{
		ID:       uuid.NewString(),
		User:     user,
		Token:    token,
		AuthTime: time.Now(),
	}
	if err := uc.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	uc.logger.Info("login succeeded", "uid", user.UID())
	return &LoginResult{SessionID: sess.ID, User: user, RedirectURL: redirect}, nil
}
