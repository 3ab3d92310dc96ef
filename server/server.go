package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soundfolio/cache"
	"soundfolio/config"
	"soundfolio/db"
	"soundfolio/logger"
	"soundfolio/mailer"
	"soundfolio/repository"
	"soundfolio/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until interrupted.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	if err := db.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", logger.ErrorField(err))
	}

	// The catalog cache and asset serving degrade gracefully: a missing
	// Redis or MinIO leaves the read path hitting the store directly.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, catalog cache disabled", logger.ErrorField(err))
	} else {
		cache.SetClient(db.RedisClient)
		defer db.CloseRedis()
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Warn("MinIO unavailable, asset serving disabled", logger.ErrorField(err))
	}

	store := repository.NewGormCatalogStore(db.DB)
	m := mailer.NewMailer(cfg)

	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	apiHandler := NewAPIHandler(store, m, hub, cfg)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// API endpoints
	router.HandleFunc("/api/webhook", apiHandler.WebhookHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks", apiHandler.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/like", apiHandler.LikeHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/contact", apiHandler.ContactHandler).Methods(http.MethodPost)

	// Live catalog updates for open gallery sessions
	router.HandleFunc("/ws/catalog", hub.ServeWS).Methods(http.MethodGet)

	// Cover art and media objects served from MinIO
	router.PathPrefix("/covers/").HandlerFunc(AssetHandler)
	router.PathPrefix("/media/").HandlerFunc(AssetHandler)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
