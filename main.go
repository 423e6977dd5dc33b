package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/metrics"
	"inventory/internal/middleware"
	"inventory/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Printf("store close: %v", err)
		}
	}()

	if cfg.Seed {
		products, err := database.InitialProducts()
		if err != nil {
			log.Fatal(err)
		}
		if _, err := database.SeedProducts(ctx, store.Products, products); err != nil {
			log.Fatal(err)
		}
	}

	productService := services.NewProductService(store.Products)

	r := gin.Default()
	r.Use(middleware.RequestID(), middleware.Metrics())
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}

	r.GET("/health", handlers.Health(store.Products))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlers.RegisterProductRoutes(r.Group("/api"), productService)

	for _, route := range r.Routes() {
		log.Printf("route %-6s %s", route.Method, route.Path)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (storage=%s)", srv.Addr, cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
