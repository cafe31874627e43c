package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jotterhq/jotter/internal/metrics"
	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/internal/store"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/jwtx"
	"github.com/jotterhq/jotter/pkg/slogx"

	_ "github.com/jotterhq/jotter/api/jotter" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	issuer       *jwtx.Issuer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService
	NoteService *service.NoteService

	// Optional wiring, assigned before ApplyRoutes.
	Metrics      *metrics.Collector
	Gatherer     prometheus.Gatherer
	CookieSecure bool
	CORSOrigin   string
}

func NewRouter(
	issuer *jwtx.Issuer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		verifier:     issuer.AccessVerifier(),
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
}

func (r *Router) ApplyRoutes() {
	// Global middleware chain, outermost first. Metrics wraps closest
	// to the mux so the matched route pattern is set by the time it
	// records.
	r.middlewares = []httpx.Middleware{
		httpx.RecoverMiddleware(),
		slogx.HTTPMiddleware(r.logger),
	}
	if r.CORSOrigin != "" {
		r.middlewares = append(r.middlewares, httpx.CORSMiddleware(r.CORSOrigin))
	}
	if r.Metrics != nil {
		r.middlewares = append(r.middlewares, r.Metrics.HTTPMiddleware())
	}

	r.registerAuth()
	r.registerNotes()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						jotter API
//	@version					0.1.0
//	@description				Personal note-taking service. Authentication uses short-lived JWT
//	@description				access tokens plus rotating, device-scoped refresh tokens delivered
//	@description				only via an HttpOnly cookie.
//
//	@contact.name				jotter maintainers
//	@contact.url				https://github.com/jotterhq/jotter
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /signup", &SignupHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
	})
	r.Mux.Handle("POST /login", &LoginHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
	})
	r.Mux.Handle("POST /logout", &LogoutHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
	})
	r.Mux.Handle("POST /refresh-token", &RefreshHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
	})

	me := &UserInfoHandler{AuthService: r.AuthService}
	r.Mux.Handle("GET /me", httpx.Chain(me,
		httpx.AuthnMiddleware(r.verifier),
	))
}

func (r *Router) registerNotes() {
	h := &NotesHandler{NoteService: r.NoteService}
	guard := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("GET /notes", httpx.Chain(http.HandlerFunc(h.HandleList), guard))
	r.Mux.Handle("POST /notes", httpx.Chain(http.HandlerFunc(h.HandleCreate), guard))
	r.Mux.Handle("GET /notes/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), guard))
	r.Mux.Handle("PUT /notes/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), guard))
	r.Mux.Handle("DELETE /notes/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), guard))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.issuer))

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.Gatherer))
	}
}
