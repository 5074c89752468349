package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"client-gate/internal/domain"
	"client-gate/internal/metrics"
	"client-gate/internal/policy"

	"github.com/google/uuid"
)

// GuardConfig carries the page-guard settings.
type GuardConfig struct {
	LoginURL       string
	SessionTimeout time.Duration
}

// GuardResult is the outcome of a guard check. When Granted is false the
// caller must redirect to RedirectURL; SessionID is the cookie value to set,
// empty meaning the cookie must be expired.
type GuardResult struct {
	Granted      bool
	RedirectURL  string
	SessionID    string
	User         domain.SessionUser
	BackendToken string
}

// Guard decides whether a page request may proceed. Unauthenticated visitors
// get a pending session stashing the requested URL; authorized visitors get a
// signed backend token for downstream services.
type Guard struct {
	sessions domain.SessionStore
	issuer   domain.TokenIssuer
	cfg      GuardConfig
	logger   *slog.Logger
}

// NewGuard creates a new Guard usecase.
func NewGuard(s domain.SessionStore, i domain.TokenIssuer, cfg GuardConfig, l *slog.Logger) *Guard {
	return &Guard{sessions: s, issuer: i, cfg: cfg, logger: l}
}

// Execute checks the session behind sessionID against requiredClientID.
// Expiry is evaluated here on access, not by a background sweep.
func (uc *Guard) Execute(ctx context.Context, sessionID, requestURI, requiredClientID string) (*GuardResult, error) {
	var sess *domain.Session
	if sessionID != "" {
		s, err := uc.sessions.Get(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound),
			errors.Is(err, domain.ErrSessionExpired):
			// Stale cookie; fall through to the anonymous path.
		case err != nil:
			return nil, err
		default:
			sess = s
		}
	}

	now := time.Now()
	if sess.Authenticated() && !sess.Expired(uc.cfg.SessionTimeout, now) {
		if policy.Decide(sess.User.Profile(), requiredClientID) == policy.Grant {
			token, err := uc.issuer.IssueBackendToken(sess.User, sess.ID)
			if err != nil {
				return nil, err
			}
			metrics.RecordGateDecision("grant")
			return &GuardResult{
				Granted:      true,
				SessionID:    sess.ID,
				User:         sess.User,
				BackendToken: token,
			}, nil
		}

		// Denied sessions are destroyed entirely, not just redirected.
		if err := uc.sessions.Delete(ctx, sess.ID); err != nil {
			uc.logger.Warn("failed to destroy denied session", "error", err)
		}
		uc.logger.Info("access denied",
			"uid", sess.User.UID(),
			"client_id", requiredClientID,
		)
		metrics.RecordGateDecision("deny")
		return &GuardResult{
			RedirectURL: resolveLoginURL(uc.cfg.LoginURL, requestURI, url.Values{
				"error":     {"unauthorized"},
				"client_id": {requiredClientID},
			}),
		}, nil
	}

	// Anonymous path. An expired session is dead weight; replace it with a
	// fresh pending one so the stash never rides an authenticated identity.
	if sess.Authenticated() {
		if err := uc.sessions.Delete(ctx, sess.ID); err != nil {
			uc.logger.Warn("failed to drop expired session", "error", err)
		}
		sess = nil
	}
	if sess == nil {
		sess = &domain.Session{ID: uuid.NewString()}
	}
	sess.RedirectAfterLogin = requestURI
	if err := uc.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	metrics.RecordGateDecision("anonymous")
	return &GuardResult{
		SessionID: sess.ID,
		RedirectURL: resolveLoginURL(uc.cfg.LoginURL, requestURI, url.Values{
			"client_id": {requiredClientID},
		}),
	}, nil
}

// resolveLoginURL resolves the configured login target against the current
// request and appends params. Any target without a scheme, slash-rooted or
// not, is taken relative to the directory of the request path. Parameters
// join with "&" when the target already carries a query string, "?"
// otherwise.
func resolveLoginURL(target, requestURI string, params url.Values) string {
	resolved := target
	if u, err := url.Parse(target); err == nil && !u.IsAbs() {
		requestPath := "/"
		if r, err := url.Parse(requestURI); err == nil && r.Path != "" {
			requestPath = r.Path
		}
		resolved = path.Join(path.Dir(requestPath), target)
	}

	if len(params) == 0 {
		return resolved
	}
	sep := "?"
	if strings.Contains(resolved, "?") {
		sep = "&"
	}
	return resolved + sep + params.Encode()
}
