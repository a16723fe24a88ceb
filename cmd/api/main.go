package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/config"
	appHTTP "github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/geocode"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/telemetry"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-ess-backend/internal/service/attendance"
	clockService "github.com/cmlabs-hris/hrms-ess-backend/internal/service/clock"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/service/credential"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/service/file"
	geocodeService "github.com/cmlabs-hris/hrms-ess-backend/internal/service/geocode"
	leaveService "github.com/cmlabs-hris/hrms-ess-backend/internal/service/leave"
	sessionService "github.com/cmlabs-hris/hrms-ess-backend/internal/service/session"
	teamService "github.com/cmlabs-hris/hrms-ess-backend/internal/service/team"
	tenantService "github.com/cmlabs-hris/hrms-ess-backend/internal/service/tenant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.App.Env,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.OTLPInsecure,
	})

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(dsn); err != nil {
			log.Fatal("Failed to run migrations: ", err)
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	location := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	tenantRepo := postgresql.NewTenantRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveApplicationRepo := postgresql.NewLeaveApplicationRepository(db)
	clockEventRepo := postgresql.NewClockEventRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	geocodeCacheRepo := postgresql.NewGeocodeCacheRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.JWT.CookieSecure)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	fileSvc := file.NewFileService(fileStorage)

	hub := sse.NewHub()
	resolver := geocodeService.NewResolver(
		geocodeCacheRepo,
		geocode.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout),
		cfg.Geocoder.Enabled,
	)

	verifier := credential.NewVerifier(userRepo)
	sessionSvc := sessionService.NewSessionService(
		userRepo,
		tenantRepo,
		sessionRepo,
		verifier,
		JWTService,
		transactor,
		sessionService.LockoutPolicy{
			MaxAttempts: cfg.Auth.MaxFailedAttempts,
			Window:      cfg.Auth.LockoutDuration,
		},
	)
	leaveSvc := leaveService.NewLeaveService(leaveTypeRepo, leaveBalanceRepo, leaveApplicationRepo, transactor)
	clockSvc := clockService.NewClockService(clockEventRepo, employeeRepo, fileSvc, resolver, hub, location)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, location)
	teamSvc := teamService.NewTeamService(employeeRepo)
	tenantSvc := tenantService.NewTenantService(tenantRepo, userRepo, employeeRepo, leaveTypeRepo, leaveBalanceRepo, transactor)

	scheduler := cron.NewScheduler()
	cron.NewSessionJobs(sessionSvc, JWTService, cfg.Auth.SessionRetention).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(JWTService, sessionSvc),
			Tenant:     appHTTP.NewTenantHandler(tenantSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Clock:      appHTTP.NewClockHandler(clockSvc, location),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, location),
			Team:       appHTTP.NewTeamHandler(teamSvc),
			Stream:     appHTTP.NewStreamHandler(hub),
		},
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.AllowedOrigins,
			UploadsDir:     cfg.Storage.BasePath,
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           otelhttp.NewHandler(router, "hrms-ess"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("Telemetry shutdown error", "error", err)
	}
}
