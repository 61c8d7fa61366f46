package main

// POST /cart/add - Add an item to the session cart
// POST /cart/remove - Remove an item from the cart
// POST /cart/update - Set an item's quantity (<= 0 removes it)
// POST /cart/clear - Empty the cart
// GET /cart/list - Cart lines with prices and total
// GET /cart/badge - Navbar badge for the cart
// GET /notifications - Drain pending toasts
// POST /validate/{register|login|checkout} - Form checks
// POST /validate/password-strength, /validate/password-match
// POST /page/watch, DELETE /page/watch - Start/stop a page's refresh timers
// POST /page/menu/filter, /page/checkout/payment - HTML helpers

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"restaurant-cart/catalog"
	"restaurant-cart/config"
	"restaurant-cart/handler"
	"restaurant-cart/logger"
	"restaurant-cart/refresh"
	"restaurant-cart/service"
	"restaurant-cart/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Store + catalog ---
	var (
		sessions store.SessionStore
		menu     catalog.Catalog = catalog.Placeholder
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("db connection failed", zap.Error(err))
		}
		if _, err := pg.DB.ExecContext(ctx, migrationSQL); err != nil {
			log.Fatal("failed running migrations", zap.Error(err))
		}
		log.Info("database migrations executed")
		sessions = pg

		items, err := pg.MenuCatalog(ctx)
		if err != nil {
			log.Fatal("load menu", zap.Error(err))
		}
		if len(items) > 0 {
			menu = items
		}
	default:
		sessions = store.NewMemoryStore()
	}

	if cfg.MenuXLSX != "" {
		f, err := os.Open(cfg.MenuXLSX)
		if err != nil {
			log.Fatal("open menu spreadsheet", zap.Error(err))
		}
		items, skipped, err := catalog.FromXLSX(f, cfg.MenuSheet)
		f.Close()
		if err != nil {
			log.Fatal("load menu spreadsheet", zap.Error(err), zap.String("path", cfg.MenuXLSX))
		}
		log.Info("menu loaded from spreadsheet",
			zap.String("path", cfg.MenuXLSX),
			zap.Int("items", len(items)),
			zap.Int("skipped", skipped),
		)
		menu = items
	}

	// --- Service ---
	svc := service.NewService(sessions, menu, log, service.WithNotificationTTL(cfg.NotificationTTL))
	defer svc.Close()

	badges := refresh.Every(ctx, refresh.BadgeInterval, svc.RefreshBadges)
	defer badges.Stop()

	sweep := refresh.Every(ctx, cfg.SessionIdle/2, func(context.Context) { svc.Sweep(cfg.SessionIdle) })
	defer sweep.Stop()

	// --- Router ---
	r := mux.NewRouter()
	handler.NewHandler(svc, log).RegisterRoutes(r)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
