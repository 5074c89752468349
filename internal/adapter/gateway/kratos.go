package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"client-gate/internal/domain"

	kratos "github.com/ory/kratos-client-go"
)

// KratosGateway implements domain.IdentityProvider against Ory Kratos.
// The public API serves sign-in, token verification and recovery; identity
// CRUD goes through the admin API.
type KratosGateway struct {
	public *kratos.APIClient
	admin  *kratos.APIClient
}

// NewKratosGateway creates a new Kratos gateway with tuned HTTP transport.
func NewKratosGateway(publicURL, adminURL string, timeout time.Duration) *KratosGateway {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	newClient := func(url string) *kratos.APIClient {
		configuration := kratos.NewConfiguration()
		configuration.Servers = []kratos.ServerConfiguration{{URL: url}}
		configuration.HTTPClient = httpClient
		return kratos.NewAPIClient(configuration)
	}

	return &KratosGateway{
		public: newClient(publicURL),
		admin:  newClient(adminURL),
	}
}

// VerifyToken resolves a session token to its identity.
func (g *KratosGateway) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	session, resp, err := g.public.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, providerErr(resp, err)
	}

	if session.Active != nil && !*session.Active {
		return nil, domain.ErrUnauthenticated
	}
	if session.Identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	return identityFromKratos(session.Identity), nil
}

// SignIn performs a native password login and returns the identity with a
// fresh session token.
func (g *KratosGateway) SignIn(ctx context.Context, email, password string) (*domain.Identity, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	flow, resp, err := g.public.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, "", providerErr(resp, err)
	}

	method := kratos.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: email,
		Password:   password,
	}
	login, resp, err := g.public.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratos.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&method)).
		Execute()
	if err != nil {
		// Kratos answers a failed credential check with a 400 flow error.
		if resp != nil && (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized) {
			return nil, "", domain.ErrUnauthenticated
		}
		return nil, "", providerErr(resp, err)
	}

	token := ""
	if login.SessionToken != nil {
		token = *login.SessionToken
	}
	if token == "" || login.Session.Identity == nil {
		return nil, "", domain.ErrUnauthenticated
	}

	return identityFromKratos(login.Session.Identity), token, nil
}

// CreateIdentity provisions an identity with password credentials.
func (g *KratosGateway) CreateIdentity(ctx context.Context, email, password, displayName string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	traits := map[string]any{"email": email}
	if displayName != "" {
		traits["name"] = displayName
	}

	body := kratos.CreateIdentityBody{
		SchemaId: "default",
		Traits:   traits,
		Credentials: &kratos.IdentityWithCredentials{
			Password: &kratos.IdentityWithCredentialsPassword{
				Config: &kratos.IdentityWithCredentialsPasswordConfig{
					Password: &password,
				},
			},
		},
	}

	identity, resp, err := g.admin.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(body).Execute()
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return "", fmt.Errorf("%w: identity already exists", domain.ErrInvalidInput)
		}
		return "", providerErr(resp, err)
	}

	return identity.Id, nil
}

// DeleteIdentity removes an identity by uid.
func (g *KratosGateway) DeleteIdentity(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := g.admin.IdentityAPI.DeleteIdentity(ctx, uid).Execute()
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return domain.ErrNotFound
		}
		return providerErr(resp, err)
	}
	return nil
}

// SendPasswordReset triggers Kratos's recovery email for the address.
func (g *KratosGateway) SendPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	flow, resp, err := g.public.FrontendAPI.CreateNativeRecoveryFlow(ctx).Execute()
	if err != nil {
		return providerErr(resp, err)
	}

	method := kratos.UpdateRecoveryFlowWithCodeMethod{
		Method: "code",
		Email:  &email,
	}
	_, resp, err = g.public.FrontendAPI.UpdateRecoveryFlow(ctx).
		Flow(flow.Id).
		UpdateRecoveryFlowBody(kratos.UpdateRecoveryFlowWithCodeMethodAsUpdateRecoveryFlowBody(&method)).
		Execute()
	if err != nil {
		return providerErr(resp, err)
	}
	return nil
}

// identityFromKratos maps a Kratos identity to the domain type.
func identityFromKratos(id *kratos.Identity) *domain.Identity {
	identity := &domain.Identity{UID: id.Id}

	if id.CreatedAt != nil {
		identity.CreatedAt = *id.CreatedAt
	}

	traits, ok := id.Traits.(map[string]any)
	if !ok {
		return identity
	}
	if email, ok := traits["email"].(string); ok {
		identity.Email = email
	}
	switch name := traits["name"].(type) {
	case string:
		identity.DisplayName = name
	case map[string]any:
		first, _ := name["first"].(string)
		last, _ := name["last"].(string)
		switch {
		case first != "" && last != "":
			identity.DisplayName = first + " " + last
		case first != "":
			identity.DisplayName = first
		case last != "":
			identity.DisplayName = last
		}
	}
	if addresses := id.VerifiableAddresses; len(addresses) > 0 {
		identity.EmailVerified = addresses[0].Verified
	}
	return identity
}

// providerErr wraps an upstream failure without exposing provider internals
// to callers.
func providerErr(resp *http.Response, err error) error {
	if resp != nil {
		return fmt.Errorf("%w: kratos returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
	return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
}
