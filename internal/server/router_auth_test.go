package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/auth"
	"github.com/golang-jwt/jwt/v5"
)

func responseCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestLoginRedirectsToProviderWithStateCookie(t *testing.T) {
	env := newTestEnv(t)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/login", http.NoBody)

	env.handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	location := recorder.Header().Get("Location")
	if !strings.HasPrefix(location, "https://idp.example.com/authorize?state=") {
		t.Fatalf("unexpected authorization url %q", location)
	}
	stateCookie := responseCookie(recorder, stateCookieName)
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !strings.HasSuffix(location, stateCookie.Value) {
		t.Fatalf("state cookie %q not carried in url %q", stateCookie.Value, location)
	}
}

func TestCallbackStateMismatchRestartsLogin(t *testing.T) {
	env := newTestEnv(t)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/callback?state=forged&code=abc", http.NoBody)
	request.AddCookie(&http.Cookie{Name: stateCookieName, Value: "expected"})

	env.handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/auth/login" {
		t.Fatalf("expected restart redirect, got %q", location)
	}
	if cookie := responseCookie(recorder, env.sessions.CookieName()); cookie != nil {
		t.Fatal("no session cookie may be issued on state mismatch")
	}
}

func TestCallbackIssuesSessionAndRedirectsToFrontend(t *testing.T) {
	env := newTestEnv(t)
	env.oidc.claims = auth.SessionClaims{
		Name:  "Morgan Vale",
		Email: "morgan.vale@example.com",
		Identities: []auth.IdentityRecord{
			{IDPUserInfo: auth.IDPUserInfo{Attributes: auth.IdentityAttributes{UID: "M1"}}},
		},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "oidc-sub-1"},
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/callback?state=nonce&code=valid-code", http.NoBody)
	request.AddCookie(&http.Cookie{Name: stateCookieName, Value: "nonce"})

	env.handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != testFrontendURL {
		t.Fatalf("expected frontend redirect, got %q", location)
	}

	sessionCookie := responseCookie(recorder, env.sessions.CookieName())
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected session cookie to be issued")
	}
	claims, err := env.sessions.ValidateToken(sessionCookie.Value)
	if err != nil {
		t.Fatalf("issued cookie does not validate: %v", err)
	}
	if claims.Email != "morgan.vale@example.com" {
		t.Fatalf("unexpected claims in cookie: %+v", claims)
	}
}

func TestCallbackExchangeFailureRedirectsWithError(t *testing.T) {
	env := newTestEnv(t)
	env.oidc.exchangeErr = errors.New("provider rejected the code")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/callback?state=nonce&code=bad", http.NoBody)
	request.AddCookie(&http.Cookie{Name: stateCookieName, Value: "nonce"})

	env.handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != testFrontendURL+"/login?error=auth_failed" {
		t.Fatalf("expected error redirect, got %q", location)
	}
}

func TestSessionUserRequiresValidCookie(t *testing.T) {
	env := newTestEnv(t)

	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/auth/user", http.NoBody))
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/user", http.NoBody)
	request.AddCookie(env.sessionCookie(t, "M1"))
	env.handler.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var payload struct {
		User auth.Identity `json:"user"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.User.UserID != "M1" {
		t.Fatalf("expected resolved directory uid, got %+v", payload.User)
	}
}

func TestSessionCheckNeverRejects(t *testing.T) {
	env := newTestEnv(t)

	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/auth/check", http.NoBody))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous check, got %d", recorder.Code)
	}
	var anonymous struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &anonymous); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if anonymous.Authenticated {
		t.Fatal("anonymous check must report authenticated=false")
	}

	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/check", http.NoBody)
	request.AddCookie(env.sessionCookie(t, "M1"))
	env.handler.ServeHTTP(recorder, request)
	var authed struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &authed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !authed.Authenticated {
		t.Fatal("expected authenticated=true with a valid cookie")
	}
}

func TestLogoutClearsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/auth/logout", http.NoBody)
	request.AddCookie(env.sessionCookie(t, "M1"))
	env.handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	cookie := responseCookie(recorder, env.sessions.CookieName())
	if cookie == nil || cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected session cookie cleared, got %+v", cookie)
	}
}
