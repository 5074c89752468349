package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
)

// ListClients returns all tenants. Every console admin may look; the list
// backs the console's tenant selector.
type ListClients struct {
	directory domain.DirectoryStore
	logger    *slog.Logger
}

// NewListClients creates a new ListClients usecase.
func NewListClients(d domain.DirectoryStore, l *slog.Logger) *ListClients {
	return &ListClients{directory: d, logger: l}
}

// Execute lists the clients on behalf of actor.
func (uc *ListClients) Execute(ctx context.Context, actor *domain.DirectoryUser) ([]*domain.Client, error) {
	if actor == nil || (!actor.IsAdmin && !actor.IsClientAdmin) {
		return nil, domain.ErrForbidden
	}
	return uc.directory.ListClients(ctx)
}

// CreateClient creates a tenant. Global admins only.
type CreateClient struct {
	directory domain.DirectoryStore
	logger    *slog.Logger
}

// NewCreateClient creates a new CreateClient usecase.
func NewCreateClient(d domain.DirectoryStore, l *slog.Logger) *CreateClient {
	return &CreateClient{directory: d, logger: l}
}

// Execute creates the client on behalf of actor.
func (uc *CreateClient) Execute(ctx context.Context, actor *domain.DirectoryUser, name string) (*domain.Client, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	client, err := uc.directory.CreateClient(ctx, name)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("client created", "client_id", client.ID, "name", client.Name)
	return client, nil
}

// DeleteClient removes a tenant and everything referencing it: every
// directory user of the tenant (and their sessions) goes first, the client
// record last, so no user is ever left pointing at a missing tenant.
type DeleteClient struct {
	provider  domain.IdentityProvider
	directory domain.DirectoryStore
	sessions  domain.SessionStore
	logger    *slog.Logger
}

// NewDeleteClient creates a new DeleteClient usecase.
func NewDeleteClient(p domain.IdentityProvider, d domain.DirectoryStore, s domain.SessionStore, l *slog.Logger) *DeleteClient {
	return &DeleteClient{provider: p, directory: d, sessions: s, logger: l}
}

// Execute cascades the deletion on behalf of actor. Global admins only.
// Provider identities are removed best-effort; a directory record that
// cannot be removed aborts before the client record is touched.
func (uc *DeleteClient) Execute(ctx context.Context, actor *domain.DirectoryUser, clientID string) error {
	if actor == nil || !actor.IsAdmin {
		return domain.ErrForbidden
	}
	if clientID == "" {
		return fmt.Errorf("%w: client id is required", domain.ErrInvalidInput)
	}

	if _, err := uc.directory.GetClient(ctx, clientID); err != nil {
		return err
	}

	users, err := uc.directory.ListClientUsers(ctx, clientID)
	if err != nil {
		return err
	}

	for _, user := range users {
		if err := uc.provider.DeleteIdentity(ctx, user.UID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("cascade left a provider identity behind",
				"uid", user.UID, "client_id", clientID, "error", err)
		}
		if err := uc.directory.DeleteUser(ctx, user.UID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("cascade aborted, user %s still references client %s: %w",
				user.UID, clientID, err)
		}
		if err := uc.sessions.DeleteByUID(ctx, user.UID); err != nil {
			uc.logger.Warn("cascade left sessions behind",
				"uid", user.UID, "error", err)
		}
	}

	if err := uc.directory.DeleteClient(ctx, clientID); err != nil {
		return err
	}

	uc.logger.Info("client deleted", "client_id", clientID, "users_removed", len(users))
	return nil
}
