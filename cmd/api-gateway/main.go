package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/eduplatform-api/api/swagger"
	"github.com/noah-isme/eduplatform-api/internal/handler"
	"github.com/noah-isme/eduplatform-api/internal/middleware"
	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/internal/repository"
	"github.com/noah-isme/eduplatform-api/internal/service"
	"github.com/noah-isme/eduplatform-api/pkg/cache"
	"github.com/noah-isme/eduplatform-api/pkg/config"
	"github.com/noah-isme/eduplatform-api/pkg/database"
	"github.com/noah-isme/eduplatform-api/pkg/export"
	"github.com/noah-isme/eduplatform-api/pkg/logger"
	"github.com/noah-isme/eduplatform-api/pkg/mail"
	corsmiddleware "github.com/noah-isme/eduplatform-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/eduplatform-api/pkg/middleware/requestid"
)

// @title EduPlatform API
// @version 1.0.0
// @description Classroom management backend: classes, memberships, invitations and class content.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, member count cache disabled", zap.Error(err))
	}
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.CountTTL, logr, cfg.Cache.Enabled)

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	codeRepo := repository.NewCodeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	contentRepo := repository.NewContentRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		RememberExpiry:    cfg.JWT.RememberMaxAge,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, logr)
	codeSvc := service.NewCodeService(codeRepo, metricsSvc, cfg.Codes.MaxAttempts, logr)
	membershipSvc := service.NewMembershipService(memberRepo, classRepo, cacheSvc, logr)
	roleSvc := service.NewRoleService(classRepo, memberRepo, cacheSvc, db, validate, logr)
	classSvc := service.NewClassService(classRepo, memberRepo, membershipSvc, roleSvc, cacheSvc, db, validate, logr)
	joinSvc := service.NewJoinService(classRepo, userRepo, memberRepo, membershipSvc, cfg.Redirects, logr)
	inviteSvc := service.NewInviteService(classRepo, memberRepo, mail.NewLogSender(logr), metricsSvc, cfg.Invite, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, classRepo, memberRepo, validate, logr)
	discussionSvc := service.NewDiscussionService(discussionRepo, memberRepo, validate, logr)
	contentSvc := service.NewContentService(contentRepo, classRepo, codeSvc, validate, logr)
	feedSvc := service.NewFeedService(announcementRepo, contentRepo, logr)
	exportSvc := service.NewExportService(classRepo, memberRepo, export.NewCSVExporter(), export.NewPDFExporter(), validate, logr)

	secureCookies := cfg.Env == config.EnvProduction
	authHandler := handler.NewAuthHandler(authSvc, secureCookies)
	userHandler := handler.NewUserHandler(userSvc)
	classHandler := handler.NewClassHandler(codeSvc, classSvc, exportSvc)
	membershipHandler := handler.NewMembershipHandler(membershipSvc, roleSvc, joinSvc, inviteSvc)
	joinHandler := handler.NewJoinHandler(joinSvc, cfg.Redirects, secureCookies, logr)
	streamHandler := handler.NewStreamHandler(announcementSvc, discussionSvc)
	contentHandler := handler.NewContentHandler(contentSvc, feedSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, func(ctx context.Context) error {
		return database.Ready(ctx, db)
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc, "/health", "/ready", "/metrics"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/join/:kode/:email", middleware.OptionalJWT(authSvc), joinHandler.InviteLink)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/generate-kode-kelas", classHandler.GenerateCode)
	api.GET("/users/register", authHandler.Register)
	api.GET("/users/login", authHandler.Login)
	api.GET("/kelas/search", classHandler.Search)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))
	secured.GET("/users/search", userHandler.Search)
	secured.GET("/daftar-kelas", membershipHandler.Summary)
	secured.GET("/kelas/list", membershipHandler.List)
	secured.GET("/data-kelas", contentHandler.ClassFeed)
	secured.GET("/pengumuman", streamHandler.ListAnnouncements)
	secured.GET("/diskusi", streamHandler.Thread)
	secured.GET("/tugas", contentHandler.ListAssignments)
	secured.GET("/metrics/snapshot", metricsHandler.Snapshot)

	mutations := secured.Group("")
	mutations.Use(middleware.Audit(logr, "kelas"))
	mutations.GET("/kelas/join", membershipHandler.Join)
	mutations.GET("/kelas/action", classHandler.Action)
	mutations.GET("/anggota/status", membershipHandler.ChangeStatus)
	mutations.GET("/diskusi/send", streamHandler.Send)
	mutations.POST("/pengumuman/create", streamHandler.CreateAnnouncement)

	teachers := mutations.Group("")
	teachers.Use(middleware.RequireRoles(models.RoleGuru))
	teachers.GET("/kelas/create", classHandler.Create)
	teachers.GET("/kelas/invite", membershipHandler.Invite)
	teachers.GET("/kelas/export", classHandler.Export)
	teachers.POST("/tugas/create", contentHandler.CreateAssignment)
	teachers.POST("/materi/create", contentHandler.CreateMaterial(models.KindMaterial))
	teachers.POST("/quiz/create", contentHandler.CreateMaterial(models.KindQuiz))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inviteSvc.Start(ctx)
	defer inviteSvc.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
