// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	adminfeature "github.com/minglehub/minglehub/internal/app/features/admin"
	authgooglefeature "github.com/minglehub/minglehub/internal/app/features/authgoogle"
	connectionsfeature "github.com/minglehub/minglehub/internal/app/features/connections"
	healthfeature "github.com/minglehub/minglehub/internal/app/features/health"
	profilefeature "github.com/minglehub/minglehub/internal/app/features/profile"
	"github.com/minglehub/minglehub/internal/app/lifecycle"
	"github.com/minglehub/minglehub/internal/app/relationship"
	connstore "github.com/minglehub/minglehub/internal/app/store/connections"
	userstore "github.com/minglehub/minglehub/internal/app/store/users"
	visstore "github.com/minglehub/minglehub/internal/app/store/visibility"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. MingleHub wires the session middleware
// globally, mounts the public health and auth routes, and groups the user
// and admin APIs under /v1.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	conns := connstore.New(deps.MongoDatabase)
	vis := visstore.New(deps.MongoDatabase)

	// The caller is refetched per request so lock state and role changes
	// take effect immediately.
	sessionMgr.SetUserFetcher(users)

	errLog := httpjson.NewErrorLogger(logger)
	engine := relationship.New(users, conns, vis, logger)
	manager := lifecycle.New(users, conns, vis, logger)

	r := chi.NewRouter()
	r.Use(sessionMgr.LoadCaller)

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authHandler := authgooglefeature.NewHandler(users, sessionMgr, errLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.SessionKey, logger)
	r.Mount("/auth", authgooglefeature.Routes(authHandler))

	// User API
	profileHandler := profilefeature.NewHandler(users, errLog, logger)
	connectionsHandler := connectionsfeature.NewHandler(engine, users, conns, errLog, logger)
	r.Route("/v1/user", func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		profilefeature.Register(r, profileHandler)
		connectionsfeature.Register(r, connectionsHandler)
	})

	// Admin API
	adminHandler := adminfeature.NewHandler(manager, users, errLog, logger)
	r.Mount("/v1/admin", adminfeature.Routes(adminHandler))

	return r, nil
}
