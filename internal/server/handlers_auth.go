package server

import (
	"net/http"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	stateCookieName   = "teamboard_oauth_state"
	stateCookieMaxAge = 600
)

// handleLogin starts the authorization-code flow: a fresh state nonce goes
// into a short-lived cookie and the user is redirected to the provider.
func (h *httpHandler) handleLogin(c *gin.Context) {
	state := auth.NewState()

	authURL, err := h.oidc.AuthCodeURL(c.Request.Context(), state)
	if err != nil {
		h.logger.Error("failed to build authorization url", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed"})
		return
	}

	c.SetCookie(stateCookieName, state, stateCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, authURL)
}

// handleCallback completes the flow: state check, server-side code exchange,
// session cookie issue, redirect to the frontend. A state mismatch restarts
// the login rather than failing hard.
func (h *httpHandler) handleCallback(c *gin.Context) {
	state := c.Query("state")
	expectedState, err := c.Cookie(stateCookieName)
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)
	if err != nil || state == "" || state != expectedState {
		h.logger.Warn("oauth state mismatch, restarting login")
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}

	claims, err := h.oidc.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.Error("code exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, h.frontendURL+"/login?error=auth_failed")
		return
	}

	token, err := h.sessions.Issue(claims)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.Redirect(http.StatusFound, h.frontendURL+"/login?error=auth_failed")
		return
	}

	c.SetCookie(h.sessions.CookieName(), token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	h.logger.Info("user logged in", zap.String("email", claims.Email))
	c.Redirect(http.StatusFound, h.frontendURL)
}

func (h *httpHandler) handleLogout(c *gin.Context) {
	c.SetCookie(h.sessions.CookieName(), "", -1, "/", "", false, true)
	h.logger.Info("user logged out, session cleared")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// handleSessionUser returns the logged-in user's claims, or 401 when no valid
// session cookie is present.
func (h *httpHandler) handleSessionUser(c *gin.Context) {
	claims, err := h.sessions.ValidateRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}
	identity, err := auth.ResolveIdentity(claims)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity})
}

// handleSessionCheck reports authentication status without rejecting
// unauthenticated callers.
func (h *httpHandler) handleSessionCheck(c *gin.Context) {
	claims, err := h.sessions.ValidateRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false, "user": nil})
		return
	}
	identity, err := auth.ResolveIdentity(claims)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false, "user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": identity})
}

func (h *httpHandler) handleSessionValidate(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": identity})
}
