package usecase

import (
	"context"
	"errors"
	"log/slog"

	"client-gate/internal/domain"
)

// Logout destroys the caller's session. Logging out without one succeeds;
// the operation is idempotent.
type Logout struct {
	sessions domain.SessionStore
	logger   *slog.Logger
}

// NewLogout creates a new Logout usecase.
func NewLogout(s domain.SessionStore, l *slog.Logger) *Logout {
	return &Logout{sessions: s, logger: l}
}

// Execute removes the session identified by sessionID, if any.
func (uc *Logout) Execute(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		// The cookie still gets expired; a lingering store entry only
		// costs its TTL.
		uc.logger.Warn("failed to delete session on logout", "error", err)
	}
	return nil
}
