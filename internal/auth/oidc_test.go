package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// newFakeProvider stands up an httptest server speaking the discovery, token
// and userinfo endpoints of the flow.
func newFakeProvider(t *testing.T, userinfoJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"issuer": %q,
			"authorization_endpoint": %q,
			"token_endpoint": %q,
			"userinfo_endpoint": %q
		}`, server.URL, server.URL+"/authorize", server.URL+"/token", server.URL+"/userinfo")
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.FormValue("code") != "valid-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"provider-access-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-access-token" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, userinfoJSON)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestOIDCProvider(t *testing.T, server *httptest.Server) *OIDCProvider {
	t.Helper()
	provider, err := NewOIDCProvider(OIDCProviderConfig{
		ClientID:     "teamboard-client",
		ClientSecret: "teamboard-secret",
		DiscoveryURL: server.URL + "/.well-known/openid-configuration",
		RedirectURL:  "http://localhost:8080/auth/callback",
		HTTPClient:   server.Client(),
	})
	if err != nil {
		t.Fatalf("provider construction failed: %v", err)
	}
	return provider
}

func TestAuthCodeURLCarriesStateAndClient(t *testing.T) {
	server := newFakeProvider(t, `{}`)
	provider := newTestOIDCProvider(t, server)

	authURL, err := provider.AuthCodeURL(context.Background(), "nonce-123")
	if err != nil {
		t.Fatalf("auth url build failed: %v", err)
	}
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("unparseable auth url %q: %v", authURL, err)
	}
	if !strings.HasPrefix(authURL, server.URL+"/authorize") {
		t.Fatalf("expected provider authorize endpoint, got %q", authURL)
	}
	query := parsed.Query()
	if query.Get("state") != "nonce-123" {
		t.Fatalf("state not carried: %q", authURL)
	}
	if query.Get("client_id") != "teamboard-client" {
		t.Fatalf("client id not carried: %q", authURL)
	}
	if !strings.Contains(query.Get("scope"), "openid") {
		t.Fatalf("default scopes missing: %q", authURL)
	}
}

func TestExchangeReturnsSessionClaims(t *testing.T) {
	server := newFakeProvider(t, `{
		"sub": "oidc-sub-1",
		"name": "Morgan Vale",
		"email": "morgan.vale@example.com",
		"given_name": "Morgan",
		"family_name": "Vale",
		"identities": [
			{"provider": "corp-directory", "idpUserInfo": {"attributes": {"uid": "M1"}}}
		]
	}`)
	provider := newTestOIDCProvider(t, server)

	claims, err := provider.Exchange(context.Background(), "valid-code")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if claims.Subject != "oidc-sub-1" || claims.Email != "morgan.vale@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(claims.Identities) != 1 || claims.Identities[0].IDPUserInfo.Attributes.UID != "M1" {
		t.Fatalf("identities blob not preserved: %+v", claims.Identities)
	}

	identity, err := ResolveIdentity(claims)
	if err != nil {
		t.Fatalf("claims from exchange must resolve: %v", err)
	}
	if identity.UserID != "M1" {
		t.Fatalf("expected directory uid resolution, got %q", identity.UserID)
	}
}

func TestExchangeComposesNameFromParts(t *testing.T) {
	server := newFakeProvider(t, `{
		"sub": "oidc-sub-2",
		"email": "ira.chen@example.com",
		"given_name": "Ira",
		"family_name": "Chen"
	}`)
	provider := newTestOIDCProvider(t, server)

	claims, err := provider.Exchange(context.Background(), "valid-code")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if claims.Name != "Ira Chen" {
		t.Fatalf("expected composed name, got %q", claims.Name)
	}
}

func TestExchangeRejectsBadCode(t *testing.T) {
	server := newFakeProvider(t, `{}`)
	provider := newTestOIDCProvider(t, server)

	if _, err := provider.Exchange(context.Background(), "stolen-code"); !errors.Is(err, ErrCodeExchangeFailed) {
		t.Fatalf("expected ErrCodeExchangeFailed, got %v", err)
	}
	if _, err := provider.Exchange(context.Background(), "   "); !errors.Is(err, ErrCodeExchangeFailed) {
		t.Fatalf("expected ErrCodeExchangeFailed for empty code, got %v", err)
	}
}

func TestNewOIDCProviderValidatesConfig(t *testing.T) {
	base := OIDCProviderConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		DiscoveryURL: "https://idp.example.com/.well-known/openid-configuration",
		RedirectURL:  "http://localhost:8080/auth/callback",
	}
	mutations := []func(cfg *OIDCProviderConfig){
		func(cfg *OIDCProviderConfig) { cfg.ClientID = "" },
		func(cfg *OIDCProviderConfig) { cfg.ClientSecret = "" },
		func(cfg *OIDCProviderConfig) { cfg.DiscoveryURL = "" },
		func(cfg *OIDCProviderConfig) { cfg.RedirectURL = "" },
	}
	for i, mutate := range mutations {
		cfg := base
		mutate(&cfg)
		if _, err := NewOIDCProvider(cfg); !errors.Is(err, ErrInvalidOIDCConfig) {
			t.Fatalf("case %d: expected ErrInvalidOIDCConfig, got %v", i, err)
		}
	}
	if _, err := NewOIDCProvider(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestNewStateIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		state := NewState()
		if state == "" || seen[state] {
			t.Fatalf("expected unique non-empty state, got %q", state)
		}
		seen[state] = true
	}
}
