package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
	"client-gate/internal/policy"
)

// SignInInput is the signin action payload: a first-party email+password
// login performed server-side.
type SignInInput struct {
	Email            string
	Password         string
	ClientID         string
	RedirectURL      string
	PendingSessionID string
}

// SignIn authenticates against the identity provider's native login flow and
// establishes a session, so the login surface never has to talk to the
// provider itself.
type SignIn struct {
	provider  domain.IdentityProvider
	directory domain.DirectoryStore
	login     *Login
	logger    *slog.Logger
}

// NewSignIn creates a new SignIn usecase.
func NewSignIn(p domain.IdentityProvider, d domain.DirectoryStore, login *Login, l *slog.Logger) *SignIn {
	return &SignIn{provider: p, directory: d, login: login, logger: l}
}

// Execute signs in with the provider and establishes a rotated session.
func (uc *SignIn) Execute(ctx context.Context, in SignInInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	identity, token, err := uc.provider.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	var directory map[string]any
	record, err := uc.directory.GetUser(ctx, identity.UID)
	switch {
	case err == nil:
		directory = record.Document()
	case errors.Is(err, domain.ErrNotFound):
		// Identity exists at the provider but has no directory record;
		// the merged user carries no tenant and the policy will deny any
		// client-scoped page.
	default:
		return nil, err
	}

	merged := domain.MergeSessionUser(identity.Claims(), directory)

	if in.ClientID != "" && policy.Decide(merged.Profile(), in.ClientID) != policy.Grant {
		uc.logger.Info("signin rejected by access policy",
			"uid", identity.UID,
			"client_id", in.ClientID,
		)
		return nil, domain.ErrForbidden
	}

	return uc.login.establish(ctx, merged, token, in.PendingSessionID, in.RedirectURL)
}
