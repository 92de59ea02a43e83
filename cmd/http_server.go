package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/attendance"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/events"
	coreuser "github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/customer"
	"github.com/frahmantamala/office-management/internal/dashboard"
	"github.com/frahmantamala/office-management/internal/department"
	"github.com/frahmantamala/office-management/internal/notice"
	"github.com/frahmantamala/office-management/internal/store"
	"github.com/frahmantamala/office-management/internal/task"
	"github.com/frahmantamala/office-management/internal/transport"
	"github.com/frahmantamala/office-management/internal/transport/middleware"
	"github.com/frahmantamala/office-management/internal/transport/rest"
	"github.com/frahmantamala/office-management/internal/transport/swagger"
	"github.com/frahmantamala/office-management/internal/user"
	"github.com/frahmantamala/office-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle office pages and API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Store    *openedStore
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "store", deps.Store.name)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.EventBus.Wait()
	if err := deps.Store.Close(); err != nil {
		deps.Logger.Error("Store close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	loc, err := config.App.Location()
	if err != nil {
		return nil, err
	}
	clock := internal.NewClock(loc)

	st, err := openStore(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	collections := store.NewCollections(st)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)
	if _, err := events.RegisterMetrics(bus, registry); err != nil {
		return nil, fmt.Errorf("failed to register event metrics: %w", err)
	}

	// Repositories and services
	users := coreuser.NewRepository(collections)
	departmentService := department.NewService(department.NewRepository(collections), users, lg)
	if _, err := departmentService.EnsureDefaults(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed departments: %w", err)
	}

	tokens := auth.NewJWTTokenGenerator(config.Security.SessionSecret, config.Security.SessionDuration)
	cookie := auth.SessionCookie{Name: config.Security.CookieName(), Secure: config.Security.SecureCookie}
	authService := auth.NewService(users, tokens, config.Security.BCryptCost, bus, lg)
	userService := user.NewService(users, departmentService, config.Security.BCryptCost, bus, lg)
	attendanceService := attendance.NewService(attendance.NewRepository(collections), users, bus, lg).WithClock(clock)
	taskService := task.NewService(task.NewRepository(collections), users, bus, lg).WithClock(clock)
	customerService := customer.NewService(customer.NewRepository(collections), bus, lg).WithClock(clock)
	noticeService := notice.NewService(notice.NewRepository(collections), users, bus, lg).WithClock(clock)
	dashboardService := dashboard.NewService(dashboard.Sources{
		Users:       users,
		Departments: departmentService,
		Attendance:  attendanceService,
		Tasks:       taskService,
		Notices:     noticeService,
		Customers:   customerService,
	}, lg).WithClock(clock)

	// Handlers
	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authService, cookie, lg),
		Dashboard:   dashboard.NewHandler(base, dashboardService),
		Users:       user.NewHandler(base, userService),
		Departments: department.NewHandler(base, departmentService),
		Attendance:  attendance.NewHandler(base, attendanceService),
		Tasks:       task.NewHandler(base, taskService),
		Customers:   customer.NewHandler(base, customerService),
		Notices:     notice.NewHandler(base, noticeService),
	}

	ops := rest.Ops{Store: st.Pinger(), StoreName: st.name}
	if spec, err := swagger.LoadSpec(ctx, config.App.OpenAPIPath); err != nil {
		lg.Warn("openapi document unavailable, docs routes disabled", "path", config.App.OpenAPIPath, "error", err)
	} else {
		ops.Spec = spec
	}
	if config.Observability.Metrics.Enabled {
		httpMetrics, err := middleware.NewHTTPMetrics(registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register http metrics: %w", err)
		}
		ops.Metrics = httpMetrics
		ops.MetricsPath = config.Observability.Metrics.Path
		ops.MetricsHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, handlers, auth.NewRBACAuthorization(cookie, lg), ops, lg)

	return &Dependencies{
		Config:   config,
		Store:    st,
		EventBus: bus,
		Router:   router,
		Logger:   lg,
	}, nil
}
