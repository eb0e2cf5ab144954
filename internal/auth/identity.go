package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated indicates no usable identity could be resolved from the
// session claims.
var ErrUnauthenticated = errors.New("auth: not authenticated")

// IdentityAttributes is the attribute bag attached to a federated identity by
// the identity provider.
type IdentityAttributes struct {
	UID string `json:"uid"`
}

// IDPUserInfo is the provider-side user record nested inside an identity entry.
type IDPUserInfo struct {
	Attributes IdentityAttributes `json:"attributes"`
}

// IdentityRecord is one entry of the OIDC `identities` claim.
type IdentityRecord struct {
	Provider    string      `json:"provider,omitempty"`
	IDPUserInfo IDPUserInfo `json:"idpUserInfo"`
}

// SessionClaims is the JWT payload carried by the session cookie. It preserves
// the raw OIDC claim structure so downstream consumers can reach fields this
// service does not project.
type SessionClaims struct {
	Name       string           `json:"name,omitempty"`
	Email      string           `json:"email,omitempty"`
	GivenName  string           `json:"given_name,omitempty"`
	FamilyName string           `json:"family_name,omitempty"`
	Identities []IdentityRecord `json:"identities,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the canonical, request-scoped representation of the
// authenticated principal.
type Identity struct {
	UserID      string        `json:"user_id"`
	Subject     string        `json:"sub"`
	DisplayName string        `json:"name"`
	Email       string        `json:"email"`
	GivenName   string        `json:"given_name"`
	FamilyName  string        `json:"family_name"`
	Claims      SessionClaims `json:"-"`
}

// ResolveIdentity normalizes session claims into an Identity. The directory
// user id is read from identities[0].idpUserInfo.attributes.uid; a missing or
// empty value at any hop falls through to the raw OIDC subject. If neither
// yields a non-empty id the session is unauthenticated. Pure: no side effects,
// same claims always resolve to the same identity.
func ResolveIdentity(claims SessionClaims) (Identity, error) {
	userID := directoryUID(claims)
	if userID == "" {
		userID = strings.TrimSpace(claims.Subject)
	}
	if userID == "" {
		return Identity{}, ErrUnauthenticated
	}

	return Identity{
		UserID:      userID,
		Subject:     claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
		GivenName:   claims.GivenName,
		FamilyName:  claims.FamilyName,
		Claims:      claims,
	}, nil
}

func directoryUID(claims SessionClaims) string {
	if len(claims.Identities) == 0 {
		return ""
	}
	return strings.TrimSpace(claims.Identities[0].IDPUserInfo.Attributes.UID)
}
