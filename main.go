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
	"golang.org/x/crypto/bcrypt"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/middleware"
	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/routes"
	"github.com/zjkm666/ust-legazpi-mhs/services"
	"github.com/zjkm666/ust-legazpi-mhs/store"
	"github.com/zjkm666/ust-legazpi-mhs/utils"
)

func main() {
	if err := config.InitLogger(); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer config.Logger.Sync()

	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.InitDB(conf); err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	if err := config.InitRedis(conf); err != nil {
		log.Fatalf("redis init failed: %v", err)
	}

	db := store.NewGorm(config.DB)
	users := db.Users()
	moods := db.MoodLogs()
	sessions := db.Sessions()
	bookmarks := db.Bookmarks()

	if err := seedAdminUser(users, conf); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}

	scheduler := services.NewTimerScheduler()
	crisis := services.NewCrisisDetector(conf.CrisisKeywordList())
	moodService := services.NewMoodService(moods, users, config.Logger)
	counseling := services.NewCounselingService(sessions, users, scheduler, crisis, services.CounselingOptions{
		MatchDelay:    time.Duration(conf.MatchDelayMS) * time.Millisecond,
		ReplyMinDelay: time.Duration(conf.ReplyMinDelayMS) * time.Millisecond,
		ReplyMaxDelay: time.Duration(conf.ReplyMaxDelayMS) * time.Millisecond,
		Logger:        config.Logger,
	})
	catalog := services.NewResourceCatalog()

	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	middleware.SetupMiddleware(r)

	routes.RegisterRoutes(r, routes.Dependencies{
		Config:     conf,
		Users:      users,
		Moods:      moods,
		Sessions:   sessions,
		Bookmarks:  bookmarks,
		MoodSvc:    moodService,
		Counseling: counseling,
		Catalog:    catalog,
	})

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	go func() {
		config.Logger.Infow("server listening", "port", conf.ServerPort, "environment", conf.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	// Drain the pending simulated-counselor timers before exit.
	scheduler.Stop()
	config.Logger.Infow("server stopped")
}

// seedAdminUser makes sure the configured administrator account exists.
func seedAdminUser(users store.UserStore, conf config.Config) error {
	if conf.AdminEmail == "" || conf.AdminPassword == "" {
		config.Logger.Warnw("admin account not configured, skipping seed")
		return nil
	}

	if _, err := users.GetByEmail(conf.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(conf.AdminPassword), 12)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:        utils.GenerateID(),
		Email:     conf.AdminEmail,
		Password:  string(hash),
		Type:      models.UserTypeAdmin,
		FirstName: "System",
		LastName:  "Administrator",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := users.Create(admin); err != nil {
		return err
	}
	config.Logger.Infow("admin account created", "email", conf.AdminEmail)
	return nil
}
