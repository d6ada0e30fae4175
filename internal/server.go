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
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/westhnu/fitdna/internal/config"
	"github.com/westhnu/fitdna/internal/db"
	"github.com/westhnu/fitdna/internal/fitdna"
	"github.com/westhnu/fitdna/internal/middleware"
	"github.com/westhnu/fitdna/internal/telemetry/metrics"
	"github.com/westhnu/fitdna/internal/telemetry/tracing"
	"github.com/westhnu/fitdna/internal/workouts"
	"github.com/westhnu/fitdna/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	referenceTables *fitdna.Loader
	fitdnaService   *fitdna.Service
	workoutsRepo    *workouts.Repo

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitdna", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitdna-backend")
	if err != nil {
		return nil, err
	}

	tableExists, err := pkg.PathExists(params.Config.ReferenceTablePath, false)
	if err != nil {
		return nil, fmt.Errorf("check reference table path: %w", err)
	}
	if !tableExists {
		return nil, fmt.Errorf("reference table not found at: %s", params.Config.ReferenceTablePath)
	}

	referenceTables := fitdna.NewLoader(params.Config.ReferenceTablePath)
	if _, err := referenceTables.Table(); err != nil {
		return nil, fmt.Errorf("load reference tables: %w", err)
	}

	threshold := params.Config.ClassifyThreshold
	if threshold == 0 {
		threshold = fitdna.DefaultThreshold
	}

	fitdnaService := fitdna.NewService(
		referenceTables,
		fitdna.NewRepo(dbPool),
		fitdna.NewCohortCache(rdb),
		threshold,
	)

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		referenceTables: referenceTables,
		fitdnaService:   fitdnaService,
		workoutsRepo:    workouts.NewRepo(dbPool),

		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitdna-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	classifyRateLimit := middleware.RateLimit(
		reqRateLimiter,
		"fitdna-classify",
		s.config.ClassifyRateLimitAllowedPerMin,
		s.metricsManager,
	)

	fitdnaHandler := fitdna.NewHandler(s.fitdnaService, s.metricsManager)
	fitdnaRouter := r.PathPrefix("/fitdna").Subrouter()
	fitdnaRouter.Handle("/classify", classifyRateLimit(http.HandlerFunc(fitdnaHandler.HandleClassify))).Methods("POST", "OPTIONS").Name("classify")
	fitdnaRouter.Handle("/axes", classifyRateLimit(http.HandlerFunc(fitdnaHandler.HandleClassifyAxes))).Methods("POST", "OPTIONS").Name("classify-axes")
	fitdnaRouter.HandleFunc("/types", fitdnaHandler.HandleTypes).Methods("GET", "OPTIONS").Name("list-types")
	fitdnaRouter.HandleFunc("/types/{code}", fitdnaHandler.HandleDescribeType).Methods("GET", "OPTIONS").Name("describe-type")
	fitdnaRouter.HandleFunc("/result/{userID}", fitdnaHandler.HandleLatestResult).Methods("GET", "OPTIONS").Name("latest-result")
	fitdnaRouter.HandleFunc("/results/page/{page}/size/{size}", fitdnaHandler.HandleListResults).Methods("GET", "OPTIONS").Name("list-results")

	workoutsAnalyzer := workouts.NewAnalyzer(s.workoutsRepo, workouts.NewScorer())
	workoutsHandler := workouts.NewHandler(s.workoutsRepo, workoutsAnalyzer, s.metricsManager)
	r.HandleFunc("/workouts", workoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/workouts/session/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/workouts/session/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/workouts/list/page/{page}/size/{size}", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/workouts/consistency", workoutsHandler.HandleConsistency).Methods("POST", "OPTIONS").Name("consistency")
	r.HandleFunc("/workouts/measurements", workoutsHandler.HandleAddMeasurement).Methods("POST", "OPTIONS").Name("new-measurement")
	r.HandleFunc("/reports/monthly/{userID}/{year}/{month}", workoutsHandler.HandleMonthlyReport).Methods("GET", "OPTIONS").Name("monthly-report")

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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
			log.Fatalf("fitdna service, listen and serve: %s", err)
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

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
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
