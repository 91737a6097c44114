package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"jobbook/internal/config"
	"jobbook/internal/handlers"
	"jobbook/internal/identity"
	"jobbook/internal/logger"
	"jobbook/internal/services"
	"jobbook/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(os.Getenv("JOBBOOK_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	// Storage is a convenience layer: when the local file cannot be
	// opened the app runs with a no-op medium and empty data instead of
	// refusing to start.
	var kv store.KV
	sqlKV, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		zl.Warn("local storage unavailable, continuing without persistence",
			zap.String("path", cfg.DBPath), zap.Error(err))
		kv = store.NoopKV{}
	} else {
		defer sqlKV.Close()
		kv = sqlKV
	}
	records := store.NewRecordStore(kv, zl)

	var provider identity.Provider
	if cfg.AuthURL != "" {
		provider = identity.NewHTTPVerifier(cfg.AuthURL, zl)
	} else {
		sp := identity.NewStaticProvider()
		for _, u := range cfg.DevUsers {
			sp.Add(u.Token, u.UserID, u.DisplayName)
		}
		provider = sp
		zl.Info("using static identity provider", zap.Int("users", len(cfg.DevUsers)))
	}

	intakeSvc := services.NewIntakeService(records)
	scheduleSvc := services.NewScheduleService(records)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(identity.Middleware(provider, zl))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	handlers.NewIntakeHandler(intakeSvc, zl).Register(api)
	handlers.NewScheduleHandler(scheduleSvc, zl).Register(api)

	zl.Info("server starting", zap.String("listen", cfg.Listen))
	if err := e.Start(cfg.Listen); err != nil {
		zl.Fatal("server failed", zap.Error(err))
	}
}
