// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/reliefhub/internal/app/features/auditlog"
	cmsfeature "github.com/dalemusser/reliefhub/internal/app/features/cms"
	dashboardfeature "github.com/dalemusser/reliefhub/internal/app/features/dashboard"
	donationsfeature "github.com/dalemusser/reliefhub/internal/app/features/donations"
	healthfeature "github.com/dalemusser/reliefhub/internal/app/features/health"
	helprequestsfeature "github.com/dalemusser/reliefhub/internal/app/features/helprequests"
	inventoryfeature "github.com/dalemusser/reliefhub/internal/app/features/inventory"
	loginfeature "github.com/dalemusser/reliefhub/internal/app/features/login"
	publicfeature "github.com/dalemusser/reliefhub/internal/app/features/public"
	systemusersfeature "github.com/dalemusser/reliefhub/internal/app/features/systemusers"
	volunteersfeature "github.com/dalemusser/reliefhub/internal/app/features/volunteers"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/envelope"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. ReliefHub serves a JSON API only: public
// read and submit endpoints under /api, and the bearer-token admin API
// under /api/admin.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc, err := newServices(appCfg, deps.ReliefHubMongoDatabase, logger)
	if err != nil {
		logger.Error("service wiring failed", zap.Error(err))
		return nil, err
	}

	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRateIP, appCfg.LoginRateEmail)
	go limiter.Run(backgroundContext())

	return newRouter(deps, svc, limiter, appCfg.TrustProxy, logger), nil
}

// newRouter mounts every feature on a fresh chi router. trustProxy lets
// forwarding headers set the client IP used by login throttling and history.
func newRouter(deps DBDeps, svc *appServices, limiter *ratelimit.LoginLimiter, trustProxy bool, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		envelope.Fail(w, http.StatusNotFound, "Route not found: "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		envelope.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check endpoint for load balancers and orchestrators
	var pinger healthfeature.Pinger
	if deps.ReliefHubMongoClient != nil {
		pinger = deps.ReliefHubMongoClient
	}
	healthHandler := healthfeature.NewHandler(pinger, logger)

	publicHandler := publicfeature.NewHandler(svc.PublicInfo, svc.CMS, logger)
	helpHandler := helprequestsfeature.NewHandler(svc.HelpRequests, logger)
	volHandler := volunteersfeature.NewHandler(svc.Volunteers, logger)
	donationsHandler := donationsfeature.NewHandler(svc.PublicInfo, logger)

	loginHandler := loginfeature.NewHandler(svc.AdminUsers, limiter, svc.Logins, logger)
	dashHandler := dashboardfeature.NewHandler(svc.Analytics, logger)
	invHandler := inventoryfeature.NewHandler(svc.Inventory, logger)
	cmsHandler := cmsfeature.NewHandler(svc.CMS, logger)
	usersHandler := systemusersfeature.NewHandler(svc.AdminUsers, logger)
	logsHandler := auditlogfeature.NewHandler(svc.AdminUsers, logger)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/health", healthfeature.Routes(healthHandler))

		// Public feeds and submissions
		publicHandler.MountRoutes(api)
		api.Route("/help-requests", helpHandler.MountPublic)
		api.Route("/volunteers", volHandler.MountPublic)
		api.Mount("/donations", donationsfeature.Routes(donationsHandler))

		// Admin API
		api.Route("/admin", func(ar chi.Router) {
			ar.Route("/auth", func(ac chi.Router) {
				loginHandler.MountRoutes(ac, svc.Tokens.RequireSignedIn)
			})

			ar.Group(func(pr chi.Router) {
				pr.Use(svc.Tokens.RequireSignedIn)

				dashHandler.MountRoutes(pr)
				pr.Route("/help-requests", helpHandler.MountAdmin)
				pr.Route("/volunteers", volHandler.MountAdmin)
				pr.Mount("/inventory", inventoryfeature.Routes(invHandler))
				pr.Mount("/cms", cmsfeature.Routes(cmsHandler))

				// Account management and the activity log
				pr.Group(func(sr chi.Router) {
					sr.Use(auth.RequireRole(models.RoleSuperAdmin))
					sr.Mount("/users", systemusersfeature.Routes(usersHandler))
					sr.Mount("/activity-logs", auditlogfeature.Routes(logsHandler))
				})
			})
		})
	})

	return r
}
