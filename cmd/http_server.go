package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/org-admin/api"
	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/auth"
	authPostgres "github.com/frahmantamala/org-admin/internal/auth/postgres"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/frahmantamala/org-admin/internal/organization"
	organizationPostgres "github.com/frahmantamala/org-admin/internal/organization/postgres"
	"github.com/frahmantamala/org-admin/internal/permission"
	permissionPostgres "github.com/frahmantamala/org-admin/internal/permission/postgres"
	"github.com/frahmantamala/org-admin/internal/role"
	rolePostgres "github.com/frahmantamala/org-admin/internal/role/postgres"
	"github.com/frahmantamala/org-admin/internal/supplier"
	supplierPostgres "github.com/frahmantamala/org-admin/internal/supplier/postgres"
	"github.com/frahmantamala/org-admin/internal/tag"
	tagPostgres "github.com/frahmantamala/org-admin/internal/tag/postgres"
	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/frahmantamala/org-admin/internal/transport/middleware"
	"github.com/frahmantamala/org-admin/internal/transport/rest"
	"github.com/frahmantamala/org-admin/internal/user"
	userPostgres "github.com/frahmantamala/org-admin/internal/user/postgres"
	"github.com/frahmantamala/org-admin/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if _, err := api.Load(context.Background()); err != nil {
		deps.Logger.Error("OpenAPI document is invalid", "error", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

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
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	db := store.New(deps.DB, lg)
	builder := query.NewBuilder(cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit)
	hasher := auth.NewBcryptHasher(cfg.Security.PasswordCost())
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, hasher, lg)
	userService := user.NewService(userPostgres.NewUserRepository(db, builder), hasher, lg)
	roleService := role.NewService(db, rolePostgres.NewRoleRepository(), lg)
	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(db, builder), lg)
	supplierService := supplier.NewService(supplierPostgres.NewSupplierRepository(db, builder), lg)
	tagService := tag.NewService(tagPostgres.NewTagRepository(db, builder), lg)
	organizationService := organization.NewService(organizationPostgres.NewOrganizationRepository(deps.Gorm), lg)

	handlers := rest.Handlers{
		Health:        rest.NewHealthHandler(map[string]rest.Pinger{"postgres": deps.DB}),
		Auth:          auth.NewHandler(base, authService),
		RBAC:          auth.NewRBACAuthorization(base, authService),
		Recovery:      middleware.RecoveryMiddleware(base),
		Users:         user.NewHandler(base, userService),
		Roles:         role.NewHandler(base, roleService),
		Permissions:   crud.NewHandler[permission.Permission](base, permissionService, permission.Filters),
		Suppliers:     crud.NewHandler[supplier.Supplier](base, supplierService, supplier.Filters),
		Tags:          crud.NewHandler[tag.Tag](base, tagService, tag.Filters),
		Organizations: organization.NewHandler(base, organizationService),
	}
	if cfg.Security.LoginRatePerSecond > 0 {
		handlers.LoginLimiter = middleware.NewRateLimiter(
			base,
			float64(cfg.Security.LoginRatePerSecond),
			cfg.Security.LoginBurst,
			cfg.Server.TrustedProxyList()...,
		)
	}

	opts := rest.Options{
		AllowedOrigins: strings.Split(cfg.Server.AllowedOrigins, ","),
		OpenAPISpec:    api.Spec,
	}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(deps.Router, handlers, opts)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx-backed pool shared by sqlx repositories and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm reuses the sqlx pool instead of opening a second one.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
