package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/officehr/payroll-backend-go/internal/config"
	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
	appHTTP "github.com/officehr/payroll-backend-go/internal/handler/http"
	"github.com/officehr/payroll-backend-go/internal/pkg/cron"
	"github.com/officehr/payroll-backend-go/internal/pkg/database"
	"github.com/officehr/payroll-backend-go/internal/pkg/email"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
	"github.com/officehr/payroll-backend-go/internal/pkg/rbac"
	"github.com/officehr/payroll-backend-go/internal/pkg/sse"
	"github.com/officehr/payroll-backend-go/internal/pkg/storage"
	"github.com/officehr/payroll-backend-go/internal/repository/memory"
	"github.com/officehr/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/officehr/payroll-backend-go/internal/service/attendance"
	serviceAuth "github.com/officehr/payroll-backend-go/internal/service/auth"
	employeeService "github.com/officehr/payroll-backend-go/internal/service/employee"
	expenseService "github.com/officehr/payroll-backend-go/internal/service/expense"
	"github.com/officehr/payroll-backend-go/internal/service/file"
	payrollService "github.com/officehr/payroll-backend-go/internal/service/payroll"
	reportService "github.com/officehr/payroll-backend-go/internal/service/report"
	settingsService "github.com/officehr/payroll-backend-go/internal/service/settings"
	"github.com/redis/go-redis/v9"
)

type repositories struct {
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	payrolls   payroll.PayrollRepository
	expenses   expense.ExpenseRepository
	settings   settings.SettingsRepository
	users      user.UserRepository
	transactor database.Transactor
	close      func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.App.Timezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("init local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("init email service: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authorizer, err := rbac.NewDefaultAuthorizer()
	if err != nil {
		return fmt.Errorf("init authorizer: %w", err)
	}

	settingsSvc := settingsService.NewSettingsService(repos.settings)
	authSvc := serviceAuth.NewAuthService(repos.users, jwtService)
	employeeSvc := employeeService.NewEmployeeService(repos.employees, settingsSvc, fileService)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employees, settingsSvc, loc)
	payrollSvc := payrollService.NewPayrollService(repos.payrolls, repos.employees, repos.attendance, settingsSvc, fileService, emailSvc)
	expenseSvc := expenseService.NewExpenseService(repos.expenses, fileService, repos.transactor)
	reportSvc := reportService.NewReportService(repos.employees, repos.attendance, repos.payrolls, repos.expenses, loc)

	if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	var rdb redis.Cmdable
	if cfg.Redis.Addr != "" {
		client, err := database.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		rdb = client
		slog.Info("Redis connected", slog.String("addr", cfg.Redis.Addr))
	}

	hub := sse.NewHub()

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler(loc)
		jobs := cron.NewJobs(payrollSvc, attendanceSvc, expenseSvc, loc)
		jobs.PublishTo(hub)
		if err := jobs.RegisterJobs(scheduler, cfg.Cron); err != nil {
			return fmt.Errorf("register cron jobs: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		Logger:      logger,
		FrontendURL: cfg.App.FrontendURL,
		JWTService:  jwtService,
		Authorizer:  authorizer,
		Redis:       rdb,
		Auth:        appHTTP.NewAuthHandler(authSvc),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:     appHTTP.NewPayrollHandler(payrollSvc),
		Expense:     appHTTP.NewExpenseHandler(expenseSvc),
		Settings:    appHTTP.NewSettingsHandler(settingsSvc),
		Report:      appHTTP.NewReportHandler(reportSvc),
		Event:       appHTTP.NewEventHandler(hub),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", slog.Int("port", cfg.App.Port), slog.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case "memory":
		slog.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			employees:  memory.NewEmployeeRepository(store),
			attendance: memory.NewAttendanceRepository(store),
			payrolls:   memory.NewPayrollRepository(store),
			expenses:   memory.NewExpenseRepository(store),
			settings:   memory.NewSettingsRepository(store),
			users:      memory.NewUserRepository(store),
			transactor: store,
			close:      func() {},
		}, nil
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return &repositories{
			employees:  postgresql.NewEmployeeRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			payrolls:   postgresql.NewPayrollRepository(db),
			expenses:   postgresql.NewExpenseRepository(db),
			settings:   postgresql.NewSettingsRepository(db),
			users:      postgresql.NewUserRepository(db),
			transactor: postgresql.NewTransactor(db),
			close:      db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.Database.Driver)
	}
}
