package usecase

import (
	"context"
	"log/slog"

	"client-gate/internal/domain"
)

// DashboardStats is the console landing-page summary.
type DashboardStats struct {
	Users   int64 `json:"users"`
	Clients int64 `json:"clients"`
}

// Dashboard computes headline counts scoped to what the actor may see.
type Dashboard struct {
	directory domain.DirectoryStore
	logger    *slog.Logger
}

// NewDashboard creates a new Dashboard usecase.
func NewDashboard(d domain.DirectoryStore, l *slog.Logger) *Dashboard {
	return &Dashboard{directory: d, logger: l}
}

// Execute returns the stats for actor. Global admins see totals; client
// admins see their own tenant only.
func (uc *Dashboard) Execute(ctx context.Context, actor *domain.DirectoryUser) (*DashboardStats, error) {
	switch {
	case actor == nil:
		return nil, domain.ErrForbidden

	case actor.IsAdmin:
		users, err := uc.directory.CountUsers(ctx, "")
		if err != nil {
			return nil, err
		}
		clients, err := uc.directory.ListClients(ctx)
		if err != nil {
			return nil, err
		}
		return &DashboardStats{Users: users, Clients: int64(len(clients))}, nil

	case actor.IsClientAdmin && actor.ClientID != nil && *actor.ClientID != "":
		users, err := uc.directory.CountUsers(ctx, *actor.ClientID)
		if err != nil {
			return nil, err
		}
		return &DashboardStats{Users: users, Clients: 1}, nil

	default:
		return nil, domain.ErrForbidden
	}
}
