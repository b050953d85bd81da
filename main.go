package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"yep.or.id/classadmin/config"
	"yep.or.id/classadmin/handlers"
	"yep.or.id/classadmin/middleware"
	"yep.or.id/classadmin/pkg/banking"
	"yep.or.id/classadmin/pkg/geocode"
	"yep.or.id/classadmin/pkg/mailer"
	"yep.or.id/classadmin/pkg/storage"
	"yep.or.id/classadmin/pkg/vision"
	"yep.or.id/classadmin/routes"
	"yep.or.id/classadmin/scheduler"
	"yep.or.id/classadmin/utils"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	db, err := config.Connect(cfg)
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}

	if err := config.Migrations(db); err != nil {
		logger.Fatal("could not run migrations", zap.Error(err))
	}
	if err := config.RunAllSeeding(db); err != nil {
		logger.Warn("seeding encountered issues", zap.Error(err))
	}

	ctx := context.Background()

	var store storage.Store
	if cfg.GCSBucket != "" {
		store, err = storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			logger.Fatal("could not init GCS storage", zap.Error(err))
		}
	} else {
		store = storage.NewLocalStore(cfg.UploadDir)
	}

	h := &handlers.Handler{
		DB:    db,
		Cfg:   cfg,
		Auth:  &middleware.Auth{Secret: []byte(cfg.JWTSecret), DB: db},
		Log:   logger,
		Store: store,
	}

	if cfg.GeminiAPIKey != "" {
		h.Vision, err = vision.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("could not init Gemini client", zap.Error(err))
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, photo analysis disabled")
	}
	if cfg.GeocodingAPIKey != "" {
		h.Geocoder = geocode.NewClient(cfg.GeocodingAPIKey)
	}
	if cfg.SMTPHost != "" {
		h.Mailer = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		logger.Warn("SMTP_HOST not set, donor portal sign-in disabled")
	}

	var providers []banking.Provider
	if cfg.MercuryAPIKey != "" {
		providers = append(providers, banking.NewMercuryClient(cfg.MercuryAPIKey))
	}
	if cfg.WiseAPIKey != "" {
		providers = append(providers, banking.NewWiseClient(cfg.WiseAPIKey, cfg.WiseProfileID))
	}
	if len(providers) > 0 {
		h.Syncer = banking.NewSyncer(db, logger, providers...)
	}

	sched := scheduler.New(db, logger, h.Syncer)
	if err := sched.Start(); err != nil {
		logger.Fatal("could not start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	handler := enableCORS(routes.RegisterRoutes(h))
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
