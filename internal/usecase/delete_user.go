package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"client-gate/internal/domain"
)

// DeleteUser removes a user everywhere: the provider identity first, then the
// directory record, then every live session. The steps are not atomic; once
// the identity is gone the remaining cleanup is best-effort and reported as a
// warning, never as failure.
type DeleteUser struct {
	provider  domain.IdentityProvider
	directory domain.DirectoryStore
	sessions  domain.SessionStore
	logger    *slog.Logger
}

// NewDeleteUser creates a new DeleteUser usecase.
func NewDeleteUser(p domain.IdentityProvider, d domain.DirectoryStore, s domain.SessionStore, l *slog.Logger) *DeleteUser {
	return &DeleteUser{provider: p, directory: d, sessions: s, logger: l}
}

// Execute deletes the user. The returned warning is empty on full success.
// Self-deletion is allowed; the session purge at the end guarantees the
// caller's own sessions die with the account.
func (uc *DeleteUser) Execute(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", fmt.Errorf("%w: uid is required", domain.ErrInvalidInput)
	}

	if err := uc.provider.DeleteIdentity(ctx, uid); err != nil {
		return "", err
	}

	var warnings []string
	if err := uc.directory.DeleteUser(ctx, uid); err != nil && !errors.Is(err, domain.ErrNotFound) {
		uc.logger.Warn("identity deleted but directory record remains", "uid", uid, "error", err)
		warnings = append(warnings, "directory record could not be removed")
	}
	if err := uc.sessions.DeleteByUID(ctx, uid); err != nil {
		uc.logger.Warn("identity deleted but sessions remain", "uid", uid, "error", err)
		warnings = append(warnings, "sessions could not be purged")
	}

	if len(warnings) > 0 {
		return "user deleted with partial cleanup: " + strings.Join(warnings, "; "), nil
	}
	uc.logger.Info("user deleted", "uid", uid)
	return "", nil
}
