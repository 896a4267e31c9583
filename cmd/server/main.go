package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cropcal/config"
	"cropcal/database"
	"cropcal/pkg/catalog"
	"cropcal/pkg/logging"
	"cropcal/router"

	// Auth
	authCtrlImp "cropcal/pkg/auth/controllerImp"

	// Calendar
	calCtrlImp "cropcal/pkg/calendar/controllerImp"
	calRepoImp "cropcal/pkg/calendar/repositoryImp"
	calSvcImp "cropcal/pkg/calendar/serviceImp"
	calStoreImp "cropcal/pkg/calendar/storeImp"

	// Health
	healthCtrlImp "cropcal/pkg/health/controllerImp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cropcal",
		Short:         "Crop calendar service",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "crops",
			Short: "Print the crop catalog, including CATALOG_FILE",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _ := config.Load()
				cat, err := loadCatalog(cfg.CatalogFile)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, c := range cat.All() {
					fmt.Fprintf(out, "%-10s %-12s %4d days  %s\n", c.ID, c.DisplayName, c.GrowthDurationDays, c.Icon)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the calendar tables",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _ := config.Load()
				db, err := database.OpenSQLite(cfg.DBPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", cfg.DBPath)
				return database.Close(db)
			},
		},
	)
	return root
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	extra, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return catalog.New(catalog.Merge(catalog.Builtin(), extra)...)
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	// 1) Config + logger
	cfg, warns := config.Load()
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	for _, w := range warns {
		log.Warn("config", zap.String("detail", w))
	}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		time.Local = loc
	} else {
		log.Warn("unknown timezone, keeping system default", zap.String("tz", cfg.Timezone))
	}

	// 2) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	// 3) Catalog
	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}
	log.Info("catalog loaded", zap.Int("crops", cat.Len()), zap.String("file", cfg.CatalogFile))

	// 4) Stores + manager
	guests := calStoreImp.NewGuestSessions(cfg.GuestIdleTTL, nil)
	durable := calStoreImp.NewDurable(calRepoImp.New(db), nil)
	svc := calSvcImp.NewCalendarService(cat, guests, durable, calSvcImp.Options{
		WriteTimeout: cfg.WriteTimeout,
		Logger:       log.Named("calendar"),
	})

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(logging.RequestLogger(log.Named("http")))

	router.New(
		e,
		cfg.EnableHeaderAuth,
		calCtrlImp.New(svc, log.Named("http")),
		authCtrlImp.NewAuthController(guests, log.Named("auth")),
		healthCtrlImp.NewHealthCtrl(db, guests, log.Named("health")),
	)

	// 6) Start until signalled
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("port", cfg.Port), zap.String("db", cfg.DBPath))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout+5*time.Second)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
