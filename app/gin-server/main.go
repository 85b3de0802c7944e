package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/placementcell/config"
	"github.com/yoockh/placementcell/internal/api/handlers"
	"github.com/yoockh/placementcell/internal/api/middleware"
	"github.com/yoockh/placementcell/internal/api/routes"
	"github.com/yoockh/placementcell/internal/cache"
	"github.com/yoockh/placementcell/internal/logger"
	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/notify"
	mongorepo "github.com/yoockh/placementcell/internal/repositories/mongo"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/security"
	"github.com/yoockh/placementcell/internal/services"
	"github.com/yoockh/placementcell/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx := context.Background()

	// Relational store
	db, err := config.OpenDatabase(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if cfg.Database.AutoMigrate {
		if err := pgrepo.Migrate(db); err != nil {
			log.WithError(err).Fatal("database migrate")
		}
	}
	log.WithField("driver", cfg.Database.Driver).Info("database connected")

	// MongoDB
	mongoClient, err := config.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		log.WithError(err).Fatal("mongo init")
	}
	mdb := mongoClient.Database(cfg.Mongo.Database)
	if err := config.EnsureMongoIndexes(ctx, mdb); err != nil {
		log.WithError(err).Fatal("mongo indexes")
	}
	log.Info("mongo connected")

	// Redis (optional)
	rdb, err := config.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("redis init")
	}
	var jobCache cache.Cache
	var limiter middleware.Limiter
	if rdb != nil {
		jobCache = cache.NewRedisCache(rdb, "placementcell:")
		limiter = middleware.NewRedisLimiter(rdb)
		log.Info("redis connected")
	} else {
		jobCache = cache.NewMemoryCache(cfg.JobsCacheTTL, 5*time.Minute)
		log.Warn("redis not configured; using in-process cache, auth rate limiting disabled")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("storage init")
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Mail.SendGridAPIKey != "" {
		notifier = notify.NewSendGrid(cfg.Mail.SendGridAPIKey, cfg.Mail.From, cfg.Mail.FromName)
	} else {
		log.Warn("SENDGRID_API_KEY not set; status emails disabled")
	}

	studentTokens := security.NewTokenManager(cfg.Auth.StudentSecret, cfg.Auth.Issuer, security.AudienceStudent, cfg.Auth.AccessTokenTTL)
	adminTokens := security.NewTokenManager(cfg.Auth.AdminSecret, cfg.Auth.Issuer, security.AudienceAdmin, cfg.Auth.AccessTokenTTL)

	// Repositories
	studentRepo := pgrepo.NewStudentRepo(db)
	adminRepo := pgrepo.NewAdminRepo(db)
	skillRepo := pgrepo.NewSkillRepo(db)
	jobRepo := pgrepo.NewJobRepo(db)
	appRepo := pgrepo.NewApplicationRepo(db)
	resumeRepo := pgrepo.NewResumeRepo(db)
	eventRepo := mongorepo.NewEventRepo(mdb)

	// Services
	var clock services.Clock
	authSvc := services.NewAuthService(studentRepo, adminRepo, studentTokens, adminTokens, clock)
	studentSvc := services.NewStudentService(studentRepo, skillRepo, clock)
	jobSvc := services.NewJobService(jobRepo, appRepo, studentRepo, jobCache, cfg.JobsCacheTTL, log, clock)
	appSvc := services.NewApplicationService(appRepo, jobRepo, studentRepo, resumeRepo, notifier, log, clock)
	resumeSvc := services.NewResumeService(resumeRepo, studentRepo, store, log, clock)
	eventSvc := services.NewEventService(eventRepo, clock)
	dashboardSvc := services.NewDashboardService(studentRepo, appRepo, jobSvc, eventRepo, appSvc, clock)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		created, err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "Placement Cell")
		if err != nil {
			log.WithError(err).Fatal("admin bootstrap")
		}
		if created {
			log.WithField("email", cfg.Auth.AdminEmail).Info("admin account created")
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = 2 * models.MaxResumeBytes

	routes.RegisterRoutes(r, routes.Deps{
		StudentTokens:  studentTokens,
		AdminTokens:    adminTokens,
		Limiter:        limiter,
		AuthRateLimit:  cfg.Auth.RateLimit,
		AuthRateWindow: cfg.Auth.RateWindow,
		Auth:           handlers.NewAuthHandler(authSvc),
		Jobs:           handlers.NewJobHandler(jobSvc, appSvc),
		Applications:   handlers.NewApplicationHandler(appSvc),
		Resumes:        handlers.NewResumeHandler(resumeSvc),
		Students:       handlers.NewStudentHandler(studentSvc),
		Dashboard:      handlers.NewDashboardHandler(dashboardSvc),
		Events:         handlers.NewEventHandler(eventSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Warn("mongo disconnect")
	}
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
