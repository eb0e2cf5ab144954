package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/auth"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/config"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/database"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/directory"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/logging"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/server"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/team"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/workforce"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "teamboard-api",
		Short: "Team Board backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-driver", defaults.GetString("database.driver"), "Database driver (sqlite, postgres)")
	cmd.PersistentFlags().String("database-dsn", defaults.GetString("database.dsn"), "Database DSN or SQLite path")
	cmd.PersistentFlags().String("oidc-client-id", defaults.GetString("oidc.client_id"), "OIDC client ID")
	cmd.PersistentFlags().String("oidc-discovery-url", defaults.GetString("oidc.discovery_url"), "OIDC discovery document URL")
	cmd.PersistentFlags().String("oidc-redirect-url", defaults.GetString("oidc.redirect_url"), "OIDC redirect URL")
	cmd.PersistentFlags().String("directory-base-url", defaults.GetString("directory.base_url"), "Org directory API base URL")
	cmd.PersistentFlags().Int("session-ttl-minutes", defaults.GetInt("session.ttl_minutes"), "Session TTL in minutes")
	cmd.PersistentFlags().String("frontend-url", defaults.GetString("frontend.url"), "Frontend origin for CORS and redirects")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Session signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.driver", "database-driver")
	bindFlag(cmd, "database.dsn", "database-dsn")
	bindFlag(cmd, "oidc.client_id", "oidc-client-id")
	bindFlag(cmd, "oidc.discovery_url", "oidc-discovery-url")
	bindFlag(cmd, "oidc.redirect_url", "oidc-redirect-url")
	bindFlag(cmd, "directory.base_url", "directory-base-url")
	bindFlag(cmd, "session.ttl_minutes", "session-ttl-minutes")
	bindFlag(cmd, "frontend.url", "frontend-url")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "session.signing_secret", "signing-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.New(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig.DatabaseDriver, appConfig.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	repository, err := workforce.NewRepository(db)
	if err != nil {
		return err
	}

	directoryClient, err := directory.NewClient(directory.ClientConfig{
		BaseURL: appConfig.DirectoryBaseURL,
		Timeout: appConfig.DirectoryTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	sessions, err := auth.NewSessions(auth.SessionConfig{
		SigningSecret: []byte(appConfig.SessionSigningKey),
		Issuer:        "teamboard-auth",
		CookieName:    appConfig.SessionCookieName,
		TTL:           appConfig.SessionTTL,
	})
	if err != nil {
		return err
	}

	oidcProvider, err := auth.NewOIDCProvider(auth.OIDCProviderConfig{
		ClientID:     appConfig.OIDCClientID,
		ClientSecret: appConfig.OIDCClientSecret,
		DiscoveryURL: appConfig.OIDCDiscoveryURL,
		RedirectURL:  appConfig.OIDCRedirectURL,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	teamService, err := team.NewService(team.ServiceConfig{
		Repository: repository,
		Directory:  directoryClient,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Sessions:    sessions,
		OIDC:        oidcProvider,
		TeamService: teamService,
		Repository:  repository,
		FrontendURL: appConfig.FrontendURL,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
