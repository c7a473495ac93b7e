package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/handlers"
	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/middleware"
	"github.com/UCgr8/needsites-public-sub000/internal/adapters/mailer"
	"github.com/UCgr8/needsites-public-sub000/internal/adapters/postgres"
	redisadapter "github.com/UCgr8/needsites-public-sub000/internal/adapters/redis"
	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/catalog"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/config"
)

func main() {
	cfg := config.Load()

	log.Printf("Starting %s (env=%s)", cfg.App.Name, cfg.App.Env)

	// PostgreSQL
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to ping PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	// Redis
	redisOpts, err := goredis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := goredis.NewClient(redisOpts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Static catalog snapshot
	snapshot, err := catalog.LoadSnapshot(cfg.Catalog.DataPath)
	if err != nil {
		log.Fatalf("Failed to load catalog snapshot: %v", err)
	}
	static := catalog.NewHolder(snapshot)
	log.Printf("Loaded catalog snapshot (%d listings, %d bundles)", len(snapshot.Listings), len(snapshot.Bundles))

	// External clients
	mailClient := mailer.NewClient(cfg.Mail)

	// Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)
	listingRepo := postgres.NewListingRepository(dbPool)
	bundleRepo := postgres.NewBundleRepository(dbPool)
	leadRepo := postgres.NewLeadRepository(dbPool)

	// Cache
	store := redisadapter.NewCache(redisClient)

	// Services
	authService := app.NewAuthService(cfg.Auth, userRepo, sessionRepo)
	catalogService := app.NewCatalogService(listingRepo, bundleRepo, static)
	adminService := app.NewListingAdminService(listingRepo, bundleRepo)
	leadService := app.NewLeadService(leadRepo, store, mailClient, cfg.Forms, cfg.Catalog.CheckoutURL)

	// Catalog refresher
	refresher := app.NewRefresher(bundleRepo, static, cfg.Catalog.DataPath, cfg.Catalog.RefreshSpec)
	if err := refresher.Start(); err != nil {
		log.Fatalf("Failed to start catalog refresher: %v", err)
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(dbPool, redisClient, static, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	contactHandler := handlers.NewContactHandler(leadService)
	leadHandler := handlers.NewLeadHandler(leadService)
	draftHandler := handlers.NewDraftHandler(leadService)
	adminHandler := handlers.NewAdminHandler(adminService, leadService, refresher)

	// Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS. The storefront is served from a different origin, and the
	// contact contract requires pre-flight requests to be answered.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-Key", "X-Storefront-Path"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Historical contact endpoint, kept at its original path
	r.With(httprate.LimitByIP(10, 1*time.Minute)).Post("/api/contact", contactHandler.Submit)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog
		r.Get("/listings", catalogHandler.List)
		r.Get("/listings/{name}", catalogHandler.Get)
		r.Get("/bundles", catalogHandler.Bundles)
		r.Get("/bundles/{slug}", catalogHandler.GetBundle)

		// Lead capture (rate limited)
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(10, 1*time.Minute))
			r.Post("/leads/buy-now", leadHandler.BuyNow)
			r.Post("/leads/offer", leadHandler.Offer)
			r.Post("/leads/rent-to-own", leadHandler.RentToOwn)
		})

		// Drafts
		r.Route("/drafts/{key}", func(r chi.Router) {
			r.Get("/", draftHandler.Get)
			r.Put("/", draftHandler.Put)
			r.Delete("/", draftHandler.Delete)
		})

		// Public auth routes (rate limited)
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(30, 1*time.Minute))
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.Refresh)
		})

		// Operator routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService))

			// Auth
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			// Listings
			r.Post("/admin/listings", adminHandler.CreateListing)
			r.Put("/admin/listings/{name}", adminHandler.UpdateListing)
			r.Delete("/admin/listings/{name}", adminHandler.DeleteListing)

			// Bundles
			r.Post("/admin/bundles", adminHandler.CreateBundle)
			r.Put("/admin/bundles/{slug}", adminHandler.UpdateBundle)
			r.Delete("/admin/bundles/{slug}", adminHandler.DeleteBundle)

			// Leads
			r.Get("/admin/leads", adminHandler.ListLeads)
			r.Get("/admin/leads/{id}", adminHandler.GetLead)

			// Catalog maintenance
			r.Post("/admin/catalog/refresh", adminHandler.RefreshCatalog)
		})
	})

	// Server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
