// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/campusclubs/clubhub/internal/app/features/auth"
	clubsfeature "github.com/campusclubs/clubhub/internal/app/features/clubs"
	dashboardfeature "github.com/campusclubs/clubhub/internal/app/features/dashboard"
	eventsfeature "github.com/campusclubs/clubhub/internal/app/features/events"
	healthfeature "github.com/campusclubs/clubhub/internal/app/features/health"
	usersfeature "github.com/campusclubs/clubhub/internal/app/features/users"
	clubstore "github.com/campusclubs/clubhub/internal/app/store/clubs"
	eventstore "github.com/campusclubs/clubhub/internal/app/store/events"
	relationstore "github.com/campusclubs/clubhub/internal/app/store/relations"
	statsstore "github.com/campusclubs/clubhub/internal/app/store/stats"
	userstore "github.com/campusclubs/clubhub/internal/app/store/users"
	"github.com/campusclubs/clubhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ClubHub builds the token manager, the
// stores, and the feature handlers here, then mounts each feature's routes
// under its API prefix. The bearer-token middleware runs globally so every
// handler can read the current user from the request context.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.TokenSecret, appCfg.TokenExpiry, db, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(db)
	clubs := clubstore.New(db)
	events := eventstore.New(db)
	relations := relationstore.New(db, logger)
	stats := statsstore.New(db)

	r := chi.NewRouter()

	// Global auth middleware: loads the bearer-token user into the request
	// context when a valid token is present. Routes that need a user gate
	// on RequireSignedIn / RequireRole in their own subrouters.
	r.Use(tokens.LoadBearerUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Registration and login (public)
	authHandler := authfeature.NewHandler(users, tokens, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	// User accounts and per-user reference lists
	usersHandler := usersfeature.NewHandler(users, clubs, events, relations, db, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Clubs, memberships, and club event listings
	clubsHandler := clubsfeature.NewHandler(clubs, events, users, relations, logger)
	r.Mount("/clubs", clubsfeature.Routes(clubsHandler))

	// Events and attendance
	eventsHandler := eventsfeature.NewHandler(events, clubs, relations, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	// Aggregate and per-club dashboards
	dashboardHandler := dashboardfeature.NewHandler(stats, clubs, events, users, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	return r, nil
}
