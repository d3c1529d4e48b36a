package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/auth"
	"github.com/lvasseur/factures/internal/config"
	"github.com/lvasseur/factures/internal/db"
	"github.com/lvasseur/factures/internal/gate"
	"github.com/lvasseur/factures/internal/models"
	"github.com/lvasseur/factures/internal/offline"
	"github.com/lvasseur/factures/internal/server"
	"github.com/lvasseur/factures/internal/services"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.Load()

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := db.Migrate(database, cfg); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if cfg.Seed {
		if err := db.Seed(database); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}
	if *migrateOnly {
		log.Println("migrations done, exiting")
		return
	}

	cache, err := offline.Open(cfg.OfflineCachePath)
	if err != nil {
		log.Fatalf("offline cache: %v", err)
	}

	// Sessions referring to deleted users are invalidated on the next
	// request.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		if err := database.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncSvc := services.NewSyncService(database, cache)
	syncSvc.Start(ctx, cfg.SyncInterval)

	handler := server.NewRouter(server.Deps{
		DB:   database,
		Gate: gate.New(gate.NewDBResolver(database)),
		Sync: syncSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	closeDB(database)
}

func closeDB(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
