package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"client-gate/internal/domain"
)

// SendPasswordSetup asks the provider to mail a password-setup link. Used for
// both new console-created users and manual resets.
type SendPasswordSetup struct {
	provider domain.IdentityProvider
	logger   *slog.Logger
}

// NewSendPasswordSetup creates a new SendPasswordSetup usecase.
func NewSendPasswordSetup(p domain.IdentityProvider, l *slog.Logger) *SendPasswordSetup {
	return &SendPasswordSetup{provider: p, logger: l}
}

// Execute triggers the recovery email for the address.
func (uc *SendPasswordSetup) Execute(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if err := uc.provider.SendPasswordReset(ctx, email); err != nil {
		return err
	}
	uc.logger.Info("password setup email sent", "email", email)
	return nil
}
