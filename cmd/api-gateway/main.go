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
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-admin-api/api/swagger"
	"github.com/noah-isme/campus-admin-api/internal/handler"
	"github.com/noah-isme/campus-admin-api/internal/repository"
	"github.com/noah-isme/campus-admin-api/internal/service"
	"github.com/noah-isme/campus-admin-api/migrations"
	"github.com/noah-isme/campus-admin-api/pkg/cache"
	"github.com/noah-isme/campus-admin-api/pkg/config"
	"github.com/noah-isme/campus-admin-api/pkg/database"
	"github.com/noah-isme/campus-admin-api/pkg/jobs"
	"github.com/noah-isme/campus-admin-api/pkg/logger"
	"github.com/noah-isme/campus-admin-api/pkg/storage"
)

// @title Campus Admin API
// @version 1.0.0
// @description University academic administration: hierarchy, courses, enrollment, attendance and reporting.
// @BasePath /api/v1
// @schemes http
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.NewMigrator(db, migrations.Files, logr).Up(ctx)
		if err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		logr.Info("migrations applied", zap.Strings("versions", applied))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	objects, localFiles, err := newObjectStore(cfg, logr)
	if err != nil {
		logr.Fatal("failed to init storage", zap.Error(err))
	}

	app := newApplication(cfg, db, redisClient, objects, logr)
	app.notifications.Start(ctx)

	router := newRouter(cfg, app, localFiles, readinessChecks(db, redisClient), logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	app.notifications.Stop()
}

// newObjectStore selects OSS or local disk. The local store is also returned so /files can
// serve its signed links.
func newObjectStore(cfg *config.Config, logr *zap.Logger) (storage.ObjectStore, *storage.LocalStorage, error) {
	if cfg.Storage.Driver == config.StorageDriverOSS {
		store, err := storage.NewOSSStorage(storage.OSSConfig{
			Endpoint:      cfg.Storage.OSSEndpoint,
			AccessKeyID:   cfg.Storage.OSSAccessKeyID,
			AccessSecret:  cfg.Storage.OSSAccessSecret,
			Bucket:        cfg.Storage.OSSBucket,
			PublicBaseURL: cfg.Storage.OSSPublicBaseURL,
		}, logr)
		return store, nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)
	local, err := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.APIPrefix+"/files", signer)
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}

func readinessChecks(db *sqlx.DB, client *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}

// application holds the wired services shared by the router.
type application struct {
	metrics       *service.MetricsService
	auth          *service.AuthService
	users         *service.UserService
	imports       *service.ImportService
	hierarchy     *service.HierarchyService
	courses       *service.CourseService
	enrollments   *service.EnrollmentService
	modules       *service.ModuleService
	assignments   *service.AssignmentService
	notifier      *service.NotificationService
	notifications *jobs.Queue
	attendance    *service.AttendanceService
	classManager  *service.ClassManagerService
	reports       *service.ReportService
	dashboard     *service.DashboardService
	auditWriter   *repository.UserRepository
}

func newApplication(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, objects storage.ObjectStore, logr *zap.Logger) *application {
	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	hierarchyRepo := repository.NewHierarchyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	reportRepo := repository.NewReportRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "campus:", logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, redisClient != nil)

	notifier := service.NewNotificationService(notificationRepo, metrics, logr)
	queue := jobs.NewQueue("notifications", notifier.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.Retries,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	notifier.UseQueue(queue)

	return &application{
		metrics: metrics,
		auth: service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
			AccessTokenSecret:  cfg.JWT.Secret,
			AccessTokenExpiry:  cfg.JWT.Expiration,
			RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
			Issuer:             cfg.JWT.Issuer,
		}),
		users: service.NewUserService(userRepo, enrollmentRepo, validate, logr),
		imports: service.NewImportService(userRepo, hierarchyRepo, metrics, service.ImportConfig{
			DefaultPassword:     cfg.Import.DefaultPassword,
			TextDefaultPassword: cfg.Import.TextDefaultPassword,
		}, logr),
		hierarchy:     service.NewHierarchyService(hierarchyRepo, userRepo, validate, logr),
		courses:       service.NewCourseService(courseRepo, moduleRepo, assignmentRepo, userRepo, validate, logr),
		enrollments:   service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, userRepo, metrics, logr),
		modules:       service.NewModuleService(moduleRepo, courseRepo, objects, cfg.Storage.MaxUploadBytes, validate, logr),
		assignments:   service.NewAssignmentService(assignmentRepo, courseRepo, enrollmentRepo, notifier, objects, cfg.Storage.MaxUploadBytes, validate, logr),
		notifier:      notifier,
		notifications: queue,
		attendance:    service.NewAttendanceService(attendanceRepo, courseRepo, enrollmentRepo, cacheSvc, validate, logr),
		classManager:  service.NewClassManagerService(courseRepo, attendanceRepo, cacheSvc, validate, logr),
		reports:       service.NewReportService(reportRepo, cacheSvc, cfg.Reports.CacheTTL, validate, logr).UseMetrics(metrics),
		dashboard:     service.NewDashboardService(dashboardRepo, attendanceRepo, hierarchyRepo, cacheSvc, metrics, cfg.Dashboard.CacheTTL, logr),
		auditWriter:   userRepo,
	}
}
