package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/navcrm/navcrm/internal/config"
	"github.com/navcrm/navcrm/internal/domain/callhistory"
	"github.com/navcrm/navcrm/internal/domain/condition"
	"github.com/navcrm/navcrm/internal/domain/patient"
	"github.com/navcrm/navcrm/internal/domain/person"
	"github.com/navcrm/navcrm/internal/domain/physician"
	"github.com/navcrm/navcrm/internal/platform/auth"
	"github.com/navcrm/navcrm/internal/platform/db"
	"github.com/navcrm/navcrm/internal/platform/middleware"
	"github.com/navcrm/navcrm/internal/platform/validation"
)

func main() {
	root := &cobra.Command{
		Use:   "crm-server",
		Short: "Patient navigator CRM API server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	var migrationsDir string
	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(migrationsDir, true)
		},
	}
	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(migrationsDir, false)
		},
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "migrations directory")
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)

	root.AddCommand(serveCmd, migrateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger := newLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	if cfg.IsDev() {
		logger.Warn().Msg("development mode: bearer-token auth disabled")
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{Secret: []byte(cfg.JWTSecret)}))
	}
	apiV1.Use(db.SessionMiddleware(pool))

	personRepo := person.NewRepoPG(pool)
	conditionRepo := condition.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	callRepo := callhistory.NewRepoPG(pool)
	physicianRepo := physician.NewRepoPG(pool)
	hospitalRepo := physician.NewHospitalRepoPG(pool)

	person.NewHandler(person.NewService(personRepo)).RegisterRoutes(apiV1)
	condition.NewHandler(condition.NewService(conditionRepo)).RegisterRoutes(apiV1)
	patient.NewHandler(patient.NewService(patientRepo, personRepo, conditionRepo)).RegisterRoutes(apiV1)
	callhistory.NewHandler(callhistory.NewService(callRepo, patientRepo)).RegisterRoutes(apiV1)
	physician.NewHandler(physician.NewService(physicianRepo, hospitalRepo, personRepo)).RegisterRoutes(apiV1)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runMigrate(dir string, apply bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	m := db.NewMigrator(pool, dir)

	if apply {
		n, err := m.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		logger.Info().Int("applied", n).Msg("migrations complete")
		return nil
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied " + st.AppliedAt.Format(time.RFC3339)
		}
		fmt.Printf("%03d %-40s %s\n", st.Version, st.Name, state)
	}
	return nil
}
