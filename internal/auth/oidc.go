package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	errMissingClientID     = errors.New("client id required")
	errMissingClientSecret = errors.New("client secret required")
	errMissingDiscoveryURL = errors.New("discovery url required")
	errMissingRedirectURL  = errors.New("redirect url required")
	errMissingAuthCode     = errors.New("authorization code required")
	// ErrInvalidOIDCConfig wraps provider construction failures.
	ErrInvalidOIDCConfig = errors.New("auth: invalid oidc provider config")
	// ErrCodeExchangeFailed indicates the code-for-token exchange or the
	// follow-up userinfo call failed.
	ErrCodeExchangeFailed = errors.New("auth: code exchange failed")
)

// providerMetadata is the slice of the OIDC discovery document (RFC 8414 shape)
// this service consumes.
type providerMetadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
}

// OIDCProviderConfig bundles configuration for the corporate OIDC login flow.
type OIDCProviderConfig struct {
	ClientID     string
	ClientSecret string
	DiscoveryURL string
	RedirectURL  string
	Scopes       []string
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// OIDCProvider drives the authorization-code flow: discovery, redirect URL
// construction, server-side code exchange, and the userinfo fetch that yields
// the session claim blob. Discovery is fetched once and cached for the process
// lifetime.
type OIDCProvider struct {
	clientID     string
	clientSecret string
	discoveryURL string
	redirectURL  string
	scopes       []string
	httpClient   *http.Client
	logger       *zap.Logger

	mu       sync.Mutex
	metadata *providerMetadata
}

// NewOIDCProvider constructs a provider with validated configuration.
func NewOIDCProvider(cfg OIDCProviderConfig) (*OIDCProvider, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOIDCConfig, errMissingClientID)
	}
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOIDCConfig, errMissingClientSecret)
	}
	discoveryURL := strings.TrimSpace(cfg.DiscoveryURL)
	if discoveryURL == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOIDCConfig, errMissingDiscoveryURL)
	}
	redirectURL := strings.TrimSpace(cfg.RedirectURL)
	if redirectURL == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOIDCConfig, errMissingRedirectURL)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OIDCProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		discoveryURL: discoveryURL,
		redirectURL:  redirectURL,
		scopes:       scopes,
		httpClient:   httpClient,
		logger:       logger,
	}, nil
}

// NewState returns a random, unguessable state nonce for CSRF protection on
// the authorization redirect.
func NewState() string {
	return uuid.NewString()
}

func (p *OIDCProvider) discover(ctx context.Context) (*providerMetadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.metadata != nil {
		return p.metadata, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.discoveryURL, nil)
	if err != nil {
		return nil, err
	}
	response, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery request returned status %d", response.StatusCode)
	}

	var metadata providerMetadata
	if err := json.NewDecoder(response.Body).Decode(&metadata); err != nil {
		return nil, err
	}
	if metadata.AuthorizationEndpoint == "" || metadata.TokenEndpoint == "" {
		return nil, errors.New("discovery document missing endpoints")
	}

	p.metadata = &metadata
	p.logger.Info("oidc discovery loaded", zap.String("issuer", metadata.Issuer))
	return p.metadata, nil
}

func (p *OIDCProvider) oauthConfig(metadata *providerMetadata) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		RedirectURL:  p.redirectURL,
		Scopes:       p.scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  metadata.AuthorizationEndpoint,
			TokenURL: metadata.TokenEndpoint,
		},
	}
}

// AuthCodeURL builds the provider authorization URL for the given state nonce.
func (p *OIDCProvider) AuthCodeURL(ctx context.Context, state string) (string, error) {
	metadata, err := p.discover(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOIDCConfig, err)
	}
	return p.oauthConfig(metadata).AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// userinfoDocument is the provider's userinfo response; identities carries the
// federated directory attributes the identity resolution chain reads.
type userinfoDocument struct {
	Sub        string           `json:"sub"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	GivenName  string           `json:"given_name"`
	FamilyName string           `json:"family_name"`
	Identities []IdentityRecord `json:"identities"`
}

// Exchange trades the authorization code for tokens and fetches userinfo,
// returning the claim payload stored in the session cookie. The exchange is
// server-to-server; the provider access token never reaches the browser.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (SessionClaims, error) {
	if strings.TrimSpace(code) == "" {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrCodeExchangeFailed, errMissingAuthCode)
	}

	metadata, err := p.discover(ctx)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrCodeExchangeFailed, err)
	}
	if metadata.UserinfoEndpoint == "" {
		return SessionClaims{}, fmt.Errorf("%w: discovery document missing userinfo endpoint", ErrCodeExchangeFailed)
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	oauthToken, err := p.oauthConfig(metadata).Exchange(exchangeCtx, code)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrCodeExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadata.UserinfoEndpoint, nil)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrCodeExchangeFailed, err)
	}
	oauthToken.SetAuthHeader(req)

	response, err := p.httpClient.Do(req)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrCodeExchangeFailed, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return SessionClaims{}, fmt.Errorf("%w: userinfo returned status %d", ErrCodeExchangeFailed, response.StatusCode)
	}

	var userinfo userinfoDocument
	if err := json.NewDecoder(response.Body).Decode(&userinfo); err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrCodeExchangeFailed, err)
	}

	name := strings.TrimSpace(userinfo.Name)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(userinfo.GivenName) + " " + strings.TrimSpace(userinfo.FamilyName))
	}

	return SessionClaims{
		Name:       name,
		Email:      userinfo.Email,
		GivenName:  userinfo.GivenName,
		FamilyName: userinfo.FamilyName,
		Identities: userinfo.Identities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userinfo.Sub,
		},
	}, nil
}
