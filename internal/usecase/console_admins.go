package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
)

// ListAdmins returns all global admins. Only global admins may look.
type ListAdmins struct {
	directory domain.DirectoryStore
	logger    *slog.Logger
}

// NewListAdmins creates a new ListAdmins usecase.
func NewListAdmins(d domain.DirectoryStore, l *slog.Logger) *ListAdmins {
	return &ListAdmins{directory: d, logger: l}
}

// Execute lists the admins on behalf of actor.
func (uc *ListAdmins) Execute(ctx context.Context, actor *domain.DirectoryUser) ([]*domain.DirectoryUser, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return uc.directory.ListAdmins(ctx)
}

// CreateAdminInput is the console's admin-creation payload. Admins pick their
// password up front; there is no setup email round trip.
type CreateAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateAdmin provisions a global admin: provider identity plus a directory
// record with no tenant.
type CreateAdmin struct {
	provider  domain.IdentityProvider
	directory domain.DirectoryStore
	logger    *slog.Logger
}

// NewCreateAdmin creates a new CreateAdmin usecase.
func NewCreateAdmin(p domain.IdentityProvider, d domain.DirectoryStore, l *slog.Logger) *CreateAdmin {
	return &CreateAdmin{provider: p, directory: d, logger: l}
}

// Execute creates the admin on behalf of actor. Only global admins may.
func (uc *CreateAdmin) Execute(ctx context.Context, actor *domain.DirectoryUser, in CreateAdminInput) (*domain.DirectoryUser, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if err := checkEmailAvailable(ctx, uc.directory, in.Email); err != nil {
		return nil, err
	}

	displayName := in.FirstName
	if in.LastName != "" {
		displayName += " " + in.LastName
	}
	uid, err := uc.provider.CreateIdentity(ctx, in.Email, in.Password, displayName)
	if err != nil {
		return nil, err
	}

	// Global admins carry no tenant; the policy grants them everything.
	admin := &domain.DirectoryUser{
		UID:       uid,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsAdmin:   true,
	}
	if err := uc.directory.PutUser(ctx, admin); err != nil {
		if delErr := uc.provider.DeleteIdentity(ctx, uid); delErr != nil {
			uc.logger.Error("failed to roll back identity after directory write failure",
				"uid", uid, "error", delErr)
		}
		return nil, err
	}

	uc.logger.Info("admin created", "uid", uid)
	return admin, nil
}
