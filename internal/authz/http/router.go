package http

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/aussiebroadwan/useraccount/api/authz" // Swagger docs
	"github.com/aussiebroadwan/useraccount/internal/authz/cache"
	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/internal/authz/store"
	"github.com/aussiebroadwan/useraccount/pkg/httpx"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	store        store.Store
	cache        cache.Cache
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Authorizer     *service.Authorizer
	Ledger         *service.TokenLedger
	RefreshService *service.RefreshService
	SessionService *service.SessionService
	RetentionHours int
}

func NewRouter(keys *jwtx.KeySet, st store.Store, c cache.Cache, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		store:        st,
		cache:        c,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger, "/livez", "/readyz"),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMonitor()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/",
		httpx.Chain(httpSwagger.Handler(),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			User Account Authorization API
//	@version		0.1.0
//	@description	Validates identity provider access tokens, tracks issued and revoked tokens, and brokers login, refresh and sign-out.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/useraccount
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Validation is called by other services on every request
	r.Mux.Handle("POST /auth/validate-token",
		httpx.Chain(&ValidateTokenHandler{Authorizer: r.Authorizer},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /auth/login",
		httpx.Chain(&LoginHandler{Sessions: r.SessionService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Not behind Authenticate: an expired access token is allowed here
	r.Mux.Handle("POST /auth/refresh-token",
		httpx.Chain(&RefreshHandler{Refresh: r.RefreshService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /auth/signout",
		httpx.Chain(&SignOutHandler{Sessions: r.SessionService},
			Authenticate(r.Authorizer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMonitor() {
	r.Mux.Handle("GET /monitor",
		httpx.Chain(MonitorHandler(time.Now),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /monitor/clear-tokens",
		httpx.Chain(&ClearTokensHandler{Ledger: r.Ledger, RetentionHours: r.RetentionHours},
			Authenticate(r.Authorizer),
			RequireRight(domain.RightSystem),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
