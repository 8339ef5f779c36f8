package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/metrics"
	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
	"github.com/aussiebroadwan/clientdesk/pkg/jwtx"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options are the process-wide HTTP settings.
type Options struct {
	Debug        bool
	AllowedHosts []string
	CORSAllowAll bool
	CORSOrigins  []string
	RateLimits   httpx.RateLimits
	Pagination   Pagination
	BuildVersion string
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	verifier  jwtx.Verifier
	opts      Options
	startTime time.Time
	logger    *slog.Logger
	store     store.Store

	ClientService *service.ClientService
	TokenService  *service.TokenService
	UserService   *service.UserService

	// Metrics and Gatherer are optional; /metrics is only served when
	// Gatherer is set.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

func NewRouter(verifier jwtx.Verifier, st store.Store, opts Options, logger *slog.Logger) *Router {
	return &Router{
		Mux:       http.NewServeMux(),
		verifier:  verifier,
		opts:      opts,
		startTime: time.Now(),
		logger:    logger,
		store:     st,
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Services and metrics must be set before calling it.
//
//	@title						Client Management API
//	@version					1.0.0
//	@description				Client records with soft-delete, behind a bearer JWT admin gate.
//	@description
//	@description				Obtain a token pair from /api/token/ and send the access token as "Bearer {token}".
//	@description				Access tokens last 5 minutes; refresh tokens last 1 day and rotate on use.
//
//	@BasePath					/
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ApplyRoutes() {
	r.registerClients()
	r.registerTokens()
	r.registerDocs()
	r.registerSystem()

	// m[0] is outermost. Metrics must see the request the mux matches so
	// nothing between it and the mux may replace *http.Request.
	r.middlewares = []httpx.Middleware{
		middleware.Recoverer,
		middleware.RealIP,
		slogx.HTTPMiddleware(r.logger),
		r.Metrics.Middleware,
		httpx.SecurityHeaders,
		httpx.CORS(r.opts.CORSAllowAll, r.opts.CORSOrigins),
	}
	if !r.opts.Debug {
		r.middlewares = append(r.middlewares, httpx.AllowedHosts(r.opts.AllowedHosts))
	}
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// admin gates a client route: verified bearer token, an active staff user,
// the route's scope, then the per-user rate limit.
func (r *Router) admin(h http.HandlerFunc, scope string, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAdmin(r.UserService),
		httpx.RequireAnyScope(scope),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{
		ClientService: r.ClientService,
		Pagination:    r.opts.Pagination,
	}
	limits := r.opts.RateLimits

	list := r.admin(h.HandleList, domain.ScopeClientsRead, limits.Lenient)
	get := r.admin(h.HandleGet, domain.ScopeClientsRead, limits.Lenient)
	create := r.admin(h.HandleCreate, domain.ScopeClientsWrite, limits.Moderate)
	update := r.admin(h.HandleUpdate, domain.ScopeClientsWrite, limits.Moderate)
	deactivate := r.admin(h.HandleDelete, domain.ScopeClientsWrite, limits.Moderate)

	r.Mux.Handle("GET /clients/{$}", list)
	r.Mux.Handle("POST /clients/add/{$}", create)
	r.Mux.Handle("GET /clients/{id}/{$}", get)

	// No DELETE: removal is a status change reachable by PATCH or PUT.
	r.Mux.Handle("PATCH /clients/{id}/update/{$}", update)
	r.Mux.Handle("PUT /clients/{id}/update/{$}", update)
	r.Mux.Handle("PATCH /clients/{id}/delete/{$}", deactivate)
	r.Mux.Handle("PUT /clients/{id}/delete/{$}", deactivate)
}

func (r *Router) registerTokens() {
	h := &TokenHandler{TokenService: r.TokenService, Metrics: r.Metrics}
	limits := r.opts.RateLimits

	// Credential endpoints: strict, keyed by IP plus the username when the
	// body is a form.
	r.Mux.Handle("POST /api/token/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleObtain),
			httpx.RateLimitByIPAndFormField(limits.Strict, "username"),
		),
	)
	r.Mux.Handle("POST /api/token/refresh/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(limits.Strict),
		),
	)

	r.Mux.Handle("POST /api/token/blacklist/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleBlacklist),
			httpx.RateLimitByIP(limits.Moderate),
		),
	)
	r.Mux.Handle("POST /api/token/verify/{$}",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(limits.Moderate),
		),
	)
}

func (r *Router) registerDocs() {
	public := httpx.RateLimitByIP(r.opts.RateLimits.Public)

	r.Mux.Handle("GET /api/schema/{$}", httpx.Chain(SchemaHandler(), public))
	r.Mux.Handle("GET /api/schema/swagger-ui/",
		httpx.Chain(httpSwagger.Handler(httpSwagger.URL(schemaPath)), public),
	)
	r.Mux.Handle("GET /api/schema/redoc/{$}", httpx.Chain(RedocHandler(), public))
}

func (r *Router) registerSystem() {
	public := httpx.RateLimitByIP(r.opts.RateLimits.Public)

	r.Mux.Handle("GET /livez", httpx.Chain(LivezHandler(r.startTime, r.opts.BuildVersion), public))
	r.Mux.Handle("GET /readyz", httpx.Chain(ReadyzHandler(r.startTime, r.opts.BuildVersion, r.store), public))

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.Gatherer))
	}
}
