package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prasetyowira/shortlink/api/middleware"
	"github.com/prasetyowira/shortlink/api/response"
	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
	"github.com/prasetyowira/shortlink/infrastructure/metrics"
)

// Options tune the router's middleware.
type Options struct {
	User           string
	Password       string
	Timeout        time.Duration
	MaxConcurrency int64
}

// Router represents the application router
type Router struct {
	handler *Handler
	router  *chi.Mux
	metrics *metrics.Metrics
	opts    Options
	log     *logger.Logger
}

// NewRouter creates a new router with the middleware chain installed:
// recovery, real IP, request logging, metrics, load shedding and timeout.
func NewRouter(handler *Handler, m *metrics.Metrics, opts Options, log *logger.Logger) *Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.ConcurrencyLimit(opts.MaxConcurrency, log, m))
	r.Use(middleware.Timeout(opts.Timeout, log, m))

	return &Router{
		handler: handler,
		router:  r,
		metrics: m,
		opts:    opts,
		log:     log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	r.log.Info(context.Background(), constant.MsgSettingUpRoutes, logger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	creds := map[string]string{
		r.opts.User: r.opts.Password,
	}
	r.router.With(
		middleware.BasicAuth(constant.AuthRealm, creds, r.log),
	).Post(constant.RouteSaveURL, r.handler.SaveURL)

	r.router.Get(constant.RouteHealthcheck, r.handler.Health)
	r.router.Method(http.MethodGet, constant.RouteMetrics, r.metrics.Handler())
	r.router.Get(constant.RouteQRCode, r.handler.QRCode)
	r.router.Get(constant.RouteRedirect, r.handler.Redirect)

	r.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteError(w, constant.MsgRouteNotFound, http.StatusNotFound)
	})
	r.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteError(w, constant.MsgMethodNotAllowed, http.StatusMethodNotAllowed)
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
