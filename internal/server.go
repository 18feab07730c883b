package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/stargym/internal/auth"
	"github.com/2beens/stargym/internal/config"
	"github.com/2beens/stargym/internal/db"
	"github.com/2beens/stargym/internal/extraction"
	"github.com/2beens/stargym/internal/gemini"
	"github.com/2beens/stargym/internal/imports"
	"github.com/2beens/stargym/internal/live"
	"github.com/2beens/stargym/internal/middleware"
	"github.com/2beens/stargym/internal/plans"
	"github.com/2beens/stargym/internal/records"
	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training/stats"
	"github.com/2beens/stargym/pkg"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	gemini      *gemini.Client

	authService *auth.Service
	tracker     *extraction.Tracker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	GeminiAPIKey            string
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

type HealthResponse struct {
	Status              string `json:"status"`
	ExtractionsInFlight int    `json:"extractionsInFlight"`
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		MaxConns:       cfg.PostgresMaxConns,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("stargym", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

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

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "stargym-backend", rdb)
	if err != nil {
		dbPool.Close()
		_ = rdb.Close()
		return nil, err
	}

	authService := auth.NewService(cfg.AppID, cfg.SessionTTL, rdb, metricsManager)
	go func() {
		ticker := time.NewTicker(sessionsCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				authService.ScanAndClean(ctx)
			}
		}
	}()

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	if params.GeminiAPIKey == "" {
		log.Warnln("gemini API key empty, extraction requests will fail")
	}

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		gemini:      gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, params.GeminiAPIKey, tracedHttpClient),
		versionInfo: params.VersionInfo,

		authService: authService,
		tracker:     extraction.NewTracker(metricsManager),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	notifier := live.NewNotifier(s.redisClient, s.metricsManager, s.config.LiveSubscriptionBufferSize)
	statsCache := stats.NewCache(
		s.config.StatsCacheSizeMB*1024*1024,
		s.config.StatsCacheExpireSeconds,
		s.metricsManager,
	)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	authHandler := auth.NewHandler(s.authService)
	r.HandleFunc("/auth/anonymous", authHandler.HandleSignInAnonymously).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/token", authHandler.HandleSignInWithToken).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/signout", authHandler.HandleSignOut).Methods("POST", "OPTIONS")

	plansService := plans.NewService(plans.NewRepo(s.dbPool), notifier, s.metricsManager)
	plansHandler := plans.NewHandler(plansService, statsCache, s.metricsManager)
	r.HandleFunc("/plans", plansHandler.HandleList).Methods("GET", "OPTIONS").Name("list-plans")
	r.HandleFunc("/plans", plansHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-plan")
	r.HandleFunc("/plans/subscribe", plansHandler.HandleSubscribe).Methods("GET", "OPTIONS").Name("subscribe-plans")
	r.HandleFunc("/plans/{id}", plansHandler.HandleReplace).Methods("PUT", "OPTIONS").Name("replace-plan")
	r.HandleFunc("/plans/{id}", plansHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-plan")
	r.HandleFunc("/plans/{id}/phases/{phase}/workouts/{date}/toggle", plansHandler.HandleToggleWorkout).Methods("POST", "OPTIONS").Name("toggle-workout")
	r.HandleFunc("/stats", plansHandler.HandleStats).Methods("GET", "OPTIONS").Name("stats")
	r.HandleFunc("/dashboard", plansHandler.HandleDashboard).Methods("GET", "OPTIONS").Name("dashboard")
	r.HandleFunc("/calendar", plansHandler.HandleCalendar).Methods("GET", "OPTIONS").Name("calendar")

	recordsService := records.NewService(records.NewRepo(s.dbPool), notifier, s.metricsManager)
	recordsHandler := records.NewHandler(recordsService, s.metricsManager)
	r.HandleFunc("/prs", recordsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-prs")
	r.HandleFunc("/prs", recordsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-pr")
	r.HandleFunc("/prs/subscribe", recordsHandler.HandleSubscribe).Methods("GET", "OPTIONS").Name("subscribe-prs")
	r.HandleFunc("/prs/{id}", recordsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-pr")
	r.HandleFunc("/prs/{id}", recordsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-pr")

	importStore := imports.NewStore(s.redisClient, s.config.StagedImportTTL)
	importsHandler := imports.NewHandler(importStore, plansService)
	r.HandleFunc("/imports/{id}", importsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-import")
	r.HandleFunc("/imports/{id}", importsHandler.HandlePatch).Methods("PATCH", "OPTIONS").Name("patch-import")
	r.HandleFunc("/imports/{id}", importsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-import")
	r.HandleFunc("/imports/{id}/commit", importsHandler.HandleCommit).Methods("POST", "OPTIONS").Name("commit-import")

	extractionClient := extraction.NewClient(s.gemini, s.metricsManager)
	extractionHandler := extraction.NewHandler(extractionClient, importStore, s.tracker, s.config.ExtractionTimeout)

	extractRouter := r.PathPrefix("/extract").Subrouter()
	extractRouter.Use(middleware.RateLimit(reqRateLimiter, "extract", s.config.ExtractionRateLimitPerMin, s.metricsManager))
	extractRouter.HandleFunc("/workout", extractionHandler.HandleExtractWorkout).Methods("POST", "OPTIONS").Name("extract-workout")
	extractRouter.HandleFunc("/suggestion", extractionHandler.HandleSuggestWorkout).Methods("POST", "OPTIONS").Name("suggest-workout")
	extractRouter.HandleFunc("/plan", extractionHandler.HandleExtractPlan).Methods("POST", "OPTIONS").Name("extract-plan")
	// abandoning is not rate limited
	r.HandleFunc("/extract/requests/{id}", extractionHandler.HandleAbandonRequest).Methods("DELETE", "OPTIONS").Name("abandon-extraction")

	coachHandler := extraction.NewCoachHandler(extractionHandler, extractionClient, plansService, recordsService, statsCache)
	coachRouter := r.PathPrefix("/coach").Subrouter()
	coachRouter.Use(middleware.RateLimit(reqRateLimiter, "coach", s.config.ExtractionRateLimitPerMin, s.metricsManager))
	coachRouter.HandleFunc("/analysis", coachHandler.HandleAnalysis).Methods("POST", "OPTIONS").Name("coach-analysis")
	coachRouter.HandleFunc("/prs", coachHandler.HandlePRAdvice).Methods("POST", "OPTIONS").Name("coach-prs")

	r.HandleFunc("/healthz", s.handleHealthz).Methods("GET").Name("healthz")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.config.AppID, s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSONResponseOK(w, HealthResponse{
		Status:              "ok",
		ExtractionsInFlight: s.tracker.InFlight(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// extraction calls may take a while; live streams clear their own deadline
		WriteTimeout: s.config.ExtractionTimeout + 30*time.Second,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	var err error
	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the backends go away
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}
