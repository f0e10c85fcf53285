package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/leadflow-backend/api/controllers"
	"github.com/angelmondragon/leadflow-backend/api/middleware"
	"github.com/angelmondragon/leadflow-backend/internal/activities"
	"github.com/angelmondragon/leadflow-backend/internal/auth"
	"github.com/angelmondragon/leadflow-backend/internal/facebook"
	"github.com/angelmondragon/leadflow-backend/internal/leads"
	"github.com/angelmondragon/leadflow-backend/internal/organizations"
	"github.com/angelmondragon/leadflow-backend/internal/savedfilters"
	"github.com/angelmondragon/leadflow-backend/internal/users"
	"github.com/angelmondragon/leadflow-backend/pkg/auth/session"
	"github.com/angelmondragon/leadflow-backend/pkg/config"
	"github.com/angelmondragon/leadflow-backend/pkg/db"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
	"github.com/angelmondragon/leadflow-backend/pkg/redis"
)

// RouterParams wires every dependency the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Metrics        *prometheus.Registry

	AuthService     auth.Service
	LeadService     leads.Service
	ActivityService *activities.Service
	FilterService   *savedfilters.Service
	UserService     *users.Service
	OrgService      *organizations.Service
	FacebookService *facebook.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
			r.Get("/me", controllers.AuthMe(p.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.LeadsList(p.LeadService, logg))
			r.Post("/", controllers.LeadsCreate(p.LeadService, logg))
			r.Get("/export", controllers.LeadsExport(p.LeadService, logg))

			r.Route("/bulk", func(r chi.Router) {
				r.Post("/mark-contacted", controllers.LeadsBulkMarkContacted(p.LeadService, logg))
				r.Post("/assign", controllers.LeadsBulkAssign(p.LeadService, logg))
				r.Post("/unassign", controllers.LeadsBulkUnassign(p.LeadService, logg))
				r.Post("/delete", controllers.LeadsBulkDelete(p.LeadService, logg))
			})

			r.Route("/{leadId}", func(r chi.Router) {
				r.Get("/", controllers.LeadsGet(p.LeadService, logg))
				r.Patch("/", controllers.LeadsUpdate(p.LeadService, logg))
				r.Delete("/", controllers.LeadsDelete(p.LeadService, logg))
				r.Get("/activities", controllers.LeadActivities(p.LeadService, p.ActivityService, logg))
			})
		})

		r.Route("/saved-filters", func(r chi.Router) {
			r.Get("/", controllers.SavedFiltersList(p.FilterService, logg))
			r.Post("/", controllers.SavedFiltersCreate(p.FilterService, logg))
			r.Patch("/{filterId}", controllers.SavedFiltersUpdate(p.FilterService, logg))
			r.Delete("/{filterId}", controllers.SavedFiltersDelete(p.FilterService, logg))
		})

		r.Get("/users/dashboard", controllers.UsersDashboard(p.UserService, logg))

		r.Route("/organization", func(r chi.Router) {
			r.Get("/", controllers.OrganizationGet(p.OrgService, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/auto-assign", controllers.OrganizationAutoAssign(p.OrgService, logg))
		})

		r.Route("/facebook", func(r chi.Router) {
			r.Post("/sync", controllers.FacebookSync(p.FacebookService, logg))
			r.Get("/connections", controllers.FacebookConnections(p.FacebookService, logg))
		})
	})

	return r
}
