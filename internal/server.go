package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymprofile/internal/auth"
	"github.com/2beens/gymprofile/internal/config"
	"github.com/2beens/gymprofile/internal/gymstats/library"
	gymstatsmcp "github.com/2beens/gymprofile/internal/gymstats/mcp"
	"github.com/2beens/gymprofile/internal/gymstats/profile"
	"github.com/2beens/gymprofile/internal/middleware"
	"github.com/2beens/gymprofile/internal/telemetry/metrics"
	"github.com/2beens/gymprofile/internal/telemetry/tracing"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	mcpSecret         string // shared with MCP clients calling /mcp
	versionInfo       string

	config      *config.Config
	storage     *Storage
	redisClient *redis.Client

	loginChecker   auth.Checker
	authService    *auth.Service
	library        *library.Library
	profileService *profile.Service
	mcpServer      *mcp.Server

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	stopSessionsCleanup context.CancelFunc
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	MCPSecret               string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	promRegistry := metrics.SetupPrometheus()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	st, err := OpenStorage(ctx, cfg, rdb, params.HoneycombTracingEnabled)
	if err != nil {
		return nil, err
	}
	if st.DBPool != nil {
		if err := metrics.RegisterDBPool(promRegistry, st.DBPool, cfg.DBName); err != nil {
			log.Errorf("register db pool metrics: %s", err)
		}
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymprofile-backend", rdb)
	if err != nil {
		return nil, err
	}

	lib, err := library.LoadOrDefault(cfg.LibraryPath)
	if err != nil {
		return nil, fmt.Errorf("load exercise library: %w", err)
	}

	s := &Server{
		config:         cfg,
		mcpSecret:      params.MCPSecret,
		versionInfo:    params.VersionInfo,
		storage:        st,
		redisClient:    rdb,
		library:        lib,
		metricsManager: metrics.NewManager("backend", "gymstats", promRegistry),
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}
	s.metricsManager.GaugeLifeSignal.Set(0)
	s.wire(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	})

	return s, nil
}

// wire builds the services on top of the storage backends.
func (s *Server) wire(admin *auth.Admin) {
	s.profileService = NewProfileService(s.config, s.storage, s.library, s.metricsManager)

	s.authService = auth.NewAuthService(admin, auth.DefaultTTL, s.redisClient)
	s.authService.OnLogin(s.profileService.AfterLogin)
	s.loginChecker = auth.NewLoginChecker(auth.DefaultTTL, s.redisClient)

	s.mcpServer = gymstatsmcp.NewServer(
		gymstatsmcp.NewContextService(s.storage.SchemaRepo, s.profileService, s.library),
	)
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymprofile-router"))

	authHandler := auth.NewHandler(s.authService, s.versionInfo, s.metricsManager)
	authHandler.SetupRoutes(r, redis_rate.NewLimiter(s.redisClient), s.config.LoginRateLimitPerMin)

	profileHandler := profile.NewHandler(s.profileService, s.library)
	profileHandler.SetupRoutes(r.PathPrefix("/gymstats").Subrouter())

	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(otelhttp.NewHandler(mcpHandler, "mcp")).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.mcpSecret, s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	cleanupCtx, cancel := context.WithCancel(ctx)
	s.stopSessionsCleanup = cancel
	go s.cleanSessions(cleanupCtx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) cleanSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionsCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.authService.ScanAndClean(ctx, now); removed > 0 {
				log.Debugf("removed %d expired sessions", removed)
			}
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.stopSessionsCleanup != nil {
		s.stopSessionsCleanup()
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	// post-login reconciles still hold the stores
	s.profileService.Wait()
	log.Debugln("scheduled reconciles done")

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.storage != nil {
		s.storage.Close()
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
