package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"inventory/internal/log"
	"inventory/internal/metrics"
	"inventory/internal/middleware/ratelimit"
	"inventory/internal/middleware/security"
	"inventory/internal/middleware/trace"
	"inventory/internal/services"
	"inventory/internal/workspace"
	appweb "inventory/web"
)

// Options configures NewServer.
type Options struct {
	Addr               string
	MaxUploadBytes     int64
	RateLimitPerMinute int
	TrustedProxies     []string
	SessionTTL         time.Duration
	// Metrics, when set, is served on /metrics.
	Metrics *metrics.Metrics
}

type Server struct {
	http.Server
	templates  *template.Template
	svc        *services.DashboardService
	sessions   *workspace.Registry
	metrics    metrics.Recorder
	limiter    *ratelimit.Limiter
	logger     *log.Logger
	maxUpload  int64
	sessionTTL time.Duration

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(opts Options, svc *services.DashboardService, sessions *workspace.Registry, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	resolver, err := security.NewClientIPResolver(opts.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	var rec metrics.Recorder = metrics.Nop{}
	if opts.Metrics != nil {
		rec = opts.Metrics
	}

	s := &Server{
		templates:  t,
		svc:        svc,
		sessions:   sessions,
		metrics:    rec,
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		logger:     logger.WithComponent(log.ComponentHTTP),
		maxUpload:  opts.MaxUploadBytes,
		sessionTTL: opts.SessionTTL,
	}

	mux := http.NewServeMux()

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	mux.HandleFunc("GET /{$}", s.withSession(s.handleIndex))
	mux.HandleFunc("POST /analyze", s.withSession(s.handleAnalyze))
	mux.HandleFunc("GET /dashboard", s.withSession(s.handleDashboard))
	mux.HandleFunc("GET /api/report", s.withSession(s.handleReport))

	limited := s.limiter.Middleware(resolver.ClientIP, s.handleRateLimited, http.MethodPost)(mux)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)
	handler := trace.NewMiddleware(logger, resolver.ClientIP).Middleware(headers)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).
		WarnContext(r.Context(), "Rate limit exceeded", log.FieldPath, r.URL.Path)
	TooManyRequestsError("Too many uploads. Please try again in a moment.").Write(w)
}
