package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/auth"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/team"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/workforce"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityContextKey = "teamboard_identity"

var (
	errMissingSessions    = errors.New("sessions dependency required")
	errMissingOIDC        = errors.New("oidc provider dependency required")
	errMissingTeamService = errors.New("team service dependency required")
	errMissingRepository  = errors.New("workforce repository dependency required")
)

// OIDCProvider is the slice of the login provider the router consumes.
type OIDCProvider interface {
	AuthCodeURL(ctx context.Context, state string) (string, error)
	Exchange(ctx context.Context, code string) (auth.SessionClaims, error)
}

// Dependencies wires the HTTP surface to its collaborators.
type Dependencies struct {
	Sessions    *auth.Sessions
	OIDC        OIDCProvider
	TeamService *team.Service
	Repository  *workforce.Repository
	FrontendURL string
	Logger      *zap.Logger
}

// NewHTTPHandler builds the gin router for the API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Sessions == nil {
		return nil, errMissingSessions
	}
	if deps.OIDC == nil {
		return nil, errMissingOIDC
	}
	if deps.TeamService == nil {
		return nil, errMissingTeamService
	}
	if deps.Repository == nil {
		return nil, errMissingRepository
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	frontendURL := deps.FrontendURL
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := &httpHandler{
		sessions:    deps.Sessions,
		oidc:        deps.OIDC,
		teamService: deps.TeamService,
		repo:        deps.Repository,
		frontendURL: frontendURL,
		logger:      logger,
	}

	router.GET("/", handler.handleRoot)
	router.GET("/health", handler.handleHealth)

	authGroup := router.Group("/auth")
	authGroup.GET("/login", handler.handleLogin)
	authGroup.GET("/callback", handler.handleCallback)
	authGroup.GET("/logout", handler.handleLogout)
	authGroup.POST("/logout", handler.handleLogout)
	authGroup.GET("/user", handler.handleSessionUser)
	authGroup.GET("/check", handler.handleSessionCheck)
	authGroup.GET("/validate", handler.requireIdentity, handler.handleSessionValidate)

	api := router.Group("/api")
	api.Use(handler.requireIdentity)

	teamGroup := api.Group("/team")
	teamGroup.GET("/manager/:manager_id/reportees", handler.handleGetReportees)
	teamGroup.GET("/manager/:manager_id/reportees/summary", handler.handleGetSummary)
	teamGroup.GET("/manager/:manager_id/certifications-summary", handler.handleGetCertificationsSummary)
	teamGroup.GET("/manager/:manager_id/reportees/:reportee_id/certifications", handler.handleGetReporteeCertifications)

	registerCRUDRoutes(api, handler)

	return router, nil
}

type httpHandler struct {
	sessions    *auth.Sessions
	oidc        OIDCProvider
	teamService *team.Service
	repo        *workforce.Repository
	frontendURL string
	logger      *zap.Logger
}

func (h *httpHandler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Team Board API", "version": "1.0.0"})
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// requireIdentity validates the session cookie and resolves the canonical
// identity into the request context.
func (h *httpHandler) requireIdentity(c *gin.Context) {
	claims, err := h.sessions.ValidateRequest(c.Request)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredSessionToken) {
			h.logger.Info("session token expired")
		} else if !errors.Is(err, auth.ErrMissingSessionToken) {
			h.logger.Warn("session validation failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	identity, err := auth.ResolveIdentity(claims)
	if err != nil {
		h.logger.Warn("identity resolution failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	c.Set(identityContextKey, identity)
	c.Next()
}

func currentIdentity(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityContextKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
