package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xenking/autoparts-storefront/internal/backend"
	"github.com/xenking/autoparts-storefront/internal/domain/checkout"
	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
	"github.com/xenking/autoparts-storefront/internal/domain/supplier"
	"github.com/xenking/autoparts-storefront/internal/domain/vehicle"
	"github.com/xenking/autoparts-storefront/internal/handler"
	"github.com/xenking/autoparts-storefront/internal/session"
	"github.com/xenking/autoparts-storefront/pkg/health"
	"github.com/xenking/autoparts-storefront/pkg/httpmiddleware"
)

const serviceName = "storefront-api"

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.BackendURL),
		zap.Bool("database", cfg.DatabaseURL != ""),
	)

	st := newMemoryStorage()
	if cfg.DatabaseURL != "" {
		var err error
		if st, err = newPostgresStorage(ctx, lg, cfg); err != nil {
			return err
		}
	}
	defer st.Close()

	// Health check service.
	healthSvc := health.New()
	if st.pool != nil {
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(st.pool))
	}
	healthSvc.AddReadinessCheck("backend", 5*time.Second,
		health.HTTPCheck(&http.Client{Timeout: 5 * time.Second}, cfg.BackendURL))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	routes, err := newRouter(ctx, cfg, st, m, healthSvc)
	if err != nil {
		return err
	}

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           routes,
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newRouter wires the backend collaborators, domain services and handlers
// behind the middleware chain.
func newRouter(ctx context.Context, cfg *Config, st *storage, tel httpmiddleware.Telemetry, healthSvc *health.Health) (http.Handler, error) {
	client, err := backend.New(cfg.BackendURL)
	if err != nil {
		return nil, errors.Wrap(err, "create backend client")
	}
	lookup := vehicle.NewCachedLookup(client, vehicle.CacheConfig{
		TTL:         cfg.VehicleCache.TTL,
		NegativeTTL: cfg.VehicleCache.NegativeTTL,
		Rate:        rate.Limit(cfg.VehicleCache.Rate),
		Burst:       cfg.VehicleCache.Burst,
	})

	couponValidator := coupon.NewRepoValidator(st.coupons)
	h, err := handler.New(handler.Deps{
		Sessions:  session.NewRegistry(st.wishlists, cfg.SessionIdleTimeout),
		Coupons:   couponValidator,
		Vehicles:  vehicle.NewResolver(lookup),
		Catalog:   client,
		Checkout:  checkout.NewService(client, couponValidator, st.receipts),
		Suppliers: supplier.NewConsole(client, client, client, client),
		Meter:     tel.MeterProvider().Meter(serviceName),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	return httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", handler.SessionHeader, handler.UserHeader},
			ExposeHeaders:    []string{handler.SessionHeader, httpmiddleware.RequestIDHeader},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.RequestID(),
		httpmiddleware.LogRequests(),
		httpmiddleware.Instrument(serviceName, tel),
		httpmiddleware.Gzip(),
	), nil
}
