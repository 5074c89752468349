package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"client-gate/internal/domain"
)

// ListUsers returns the non-admin users of one tenant. Global admins pick the
// tenant; client admins always see their own, whatever they asked for.
type ListUsers struct {
	directory domain.DirectoryStore
	logger    *slog.Logger
}

// NewListUsers creates a new ListUsers usecase.
func NewListUsers(d domain.DirectoryStore, l *slog.Logger) *ListUsers {
	return &ListUsers{directory: d, logger: l}
}

// Execute lists the tenant's users on behalf of actor.
func (uc *ListUsers) Execute(ctx context.Context, actor *domain.DirectoryUser, clientID string) ([]*domain.DirectoryUser, error) {
	scoped, err := scopeToTenant(actor, clientID)
	if err != nil {
		return nil, err
	}
	return uc.directory.ListClientUsers(ctx, scoped)
}

// CreateManagedUserInput is the console's user-creation payload.
type CreateManagedUserInput struct {
	Email         string
	FirstName     string
	LastName      string
	ClientID      string
	IsClientAdmin bool
}

// CreateManagedUser provisions a tenant user end to end: provider identity
// with a throwaway password, directory record keyed by the uid, then the
// password-setup email so the user picks their own credential.
type CreateManagedUser struct {
	provider  domain.IdentityProvider
	directory domain.DirectoryStore
	logger    *slog.Logger
}

// NewCreateManagedUser creates a new CreateManagedUser usecase.
func NewCreateManagedUser(p domain.IdentityProvider, d domain.DirectoryStore, l *slog.Logger) *CreateManagedUser {
	return &CreateManagedUser{provider: p, directory: d, logger: l}
}

// Execute creates the user on behalf of actor and returns the directory
// record. A failed setup email does not fail the creation.
func (uc *CreateManagedUser) Execute(ctx context.Context, actor *domain.DirectoryUser, in CreateManagedUserInput) (*domain.DirectoryUser, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	clientID, err := scopeToTenant(actor, in.ClientID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.directory.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %q does not exist", domain.ErrInvalidInput, clientID)
		}
		return nil, err
	}
	if err := checkEmailAvailable(ctx, uc.directory, in.Email); err != nil {
		return nil, err
	}

	password, err := tempPassword()
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(in.FirstName + " " + in.LastName)
	uid, err := uc.provider.CreateIdentity(ctx, in.Email, password, displayName)
	if err != nil {
		return nil, err
	}

	user := &domain.DirectoryUser{
		UID:           uid,
		Email:         in.Email,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		ClientID:      &clientID,
		IsClientAdmin: in.IsClientAdmin,
	}
	if err := uc.directory.PutUser(ctx, user); err != nil {
		// Identity without a record is unusable; roll it back.
		if delErr := uc.provider.DeleteIdentity(ctx, uid); delErr != nil {
			uc.logger.Error("failed to roll back identity after directory write failure",
				"uid", uid, "error", delErr)
		}
		return nil, err
	}

	if err := uc.provider.SendPasswordReset(ctx, in.Email); err != nil {
		uc.logger.Warn("user created but setup email failed", "uid", uid, "error", err)
	}

	uc.logger.Info("managed user created", "uid", uid, "client_id", clientID)
	return user, nil
}

// checkEmailAvailable rejects creation when the address already has a
// directory record. The provider would refuse the duplicate identity anyway;
// checking first avoids the create-then-rollback round trip.
func checkEmailAvailable(ctx context.Context, directory domain.DirectoryStore, email string) error {
	_, err := directory.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return fmt.Errorf("%w: email %q is already registered", domain.ErrInvalidInput, email)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

// scopeToTenant resolves which tenant the actor may operate on. Global admins
// use the requested one; client admins are pinned to their own.
func scopeToTenant(actor *domain.DirectoryUser, requested string) (string, error) {
	switch {
	case actor == nil:
		return "", domain.ErrForbidden
	case actor.IsAdmin:
		if requested == "" {
			return "", fmt.Errorf("%w: client_id is required", domain.ErrInvalidInput)
		}
		return requested, nil
	case actor.IsClientAdmin && actor.ClientID != nil && *actor.ClientID != "":
		return *actor.ClientID, nil
	default:
		return "", domain.ErrForbidden
	}
}

// tempPassword generates an unguessable placeholder credential. The user
// never sees it; the setup email replaces it.
func tempPassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
