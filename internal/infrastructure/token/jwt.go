package token

import (
	"time"

	"client-gate/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds JWT generation configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// backendClaims represents the JWT claims for backend authentication.
type backendClaims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID string `json:"client_id,omitempty"`
	Sid      string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTIssuer generates JWT tokens the gate hands to downstream services on a
// granted request. Implements domain.TokenIssuer.
type JWTIssuer struct {
	cfg JWTConfig
}

// NewJWTIssuer creates a new JWT issuer.
func NewJWTIssuer(cfg JWTConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

// IssueBackendToken generates a signed JWT token for the session's user.
func (j *JWTIssuer) IssueBackendToken(user domain.SessionUser, sessionID string) (string, error) {
	if j.cfg.Secret == "" {
		return "", domain.ErrTokenGeneration
	}

	now := time.Now()
	profile := user.Profile()
	claims := backendClaims{
		Email:    user.Email(),
		Role:     roleOf(profile.IsAdmin, profile.IsClientAdmin),
		ClientID: profile.ClientID,
		Sid:      sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   user.UID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.Secret))
}

func roleOf(isAdmin, isClientAdmin bool) string {
	switch {
	case isAdmin:
		return "admin"
	case isClientAdmin:
		return "client_admin"
	default:
		return "user"
	}
}
