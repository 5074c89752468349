package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
)

// CreateUser provisions a bare identity at the provider. Directory records
// are written separately by the console flows.
type CreateUser struct {
	provider domain.IdentityProvider
	logger   *slog.Logger
}

// NewCreateUser creates a new CreateUser usecase.
func NewCreateUser(p domain.IdentityProvider, l *slog.Logger) *CreateUser {
	return &CreateUser{provider: p, logger: l}
}

// Execute creates the identity and returns its uid.
func (uc *CreateUser) Execute(ctx context.Context, email, password, displayName string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	uid, err := uc.provider.CreateIdentity(ctx, email, password, displayName)
	if err != nil {
		return "", err
	}

	uc.logger.Info("identity created", "uid", uid)
	return uid, nil
}
