package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kavanaghbl/chambers-site/internal/cache"
	"github.com/kavanaghbl/chambers-site/internal/config"
	dbpkg "github.com/kavanaghbl/chambers-site/internal/db"
	"github.com/kavanaghbl/chambers-site/internal/logger"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	"github.com/kavanaghbl/chambers-site/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.Init(cfg.IsProduction())
	defer log.Sync()

	db := dbpkg.NewDB(cfg)
	rdb := cache.New(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Webhook providers probe with GET; answer 405, not 404.
	r.HandleMethodNotAllowed = true

	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg)

	zap.L().Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		zap.L().Fatal("failed to start server", zap.Error(err))
	}
}
