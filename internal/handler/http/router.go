package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/officehr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/officehr/payroll-backend-go/internal/pkg/jwt"
	"github.com/officehr/payroll-backend-go/internal/pkg/rbac"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// RouterDeps carries everything the HTTP layer needs. Redis is optional.
type RouterDeps struct {
	Logger      *slog.Logger
	FrontendURL string
	JWTService  jwt.Service
	Authorizer  rbac.Authorizer
	Redis       redis.Cmdable

	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Expense    ExpenseHandler
	Settings   SettingsHandler
	Report     ReportHandler
	Event      EventHandler
}

func NewRouter(d RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if d.Logger != nil {
		r.Use(httplog.RequestLogger(d.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	can := func(resource user.Resource, action user.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(d.Authorizer, resource, action)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", d.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(d.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(d.JWTService.JWTAuth()))

			r.Get("/auth/me", d.Auth.Me)

			r.Route("/employees", func(r chi.Router) {
				r.With(can(user.ResourceEmployees, user.ActionView)).Get("/", d.Employee.ListEmployees)
				r.With(can(user.ResourceEmployees, user.ActionView)).Get("/stats", d.Employee.GetStats)
				r.With(can(user.ResourceEmployees, user.ActionCreate)).Post("/", d.Employee.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.With(can(user.ResourceEmployees, user.ActionView)).Get("/", d.Employee.GetEmployee)
					r.With(can(user.ResourceEmployees, user.ActionEdit)).Put("/", d.Employee.UpdateEmployee)
					r.With(can(user.ResourceEmployees, user.ActionDelete)).Delete("/", d.Employee.DeleteEmployee)
					r.With(can(user.ResourceEmployees, user.ActionEdit)).Post("/documents", d.Employee.UploadDocument)
					r.With(can(user.ResourceEmployees, user.ActionEdit)).Delete("/documents/{docId}", d.Employee.DeleteDocument)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(can(user.ResourceAttendance, user.ActionCreate)).Post("/checkin", d.Attendance.CheckIn)
				r.With(can(user.ResourceAttendance, user.ActionCreate)).Post("/checkout", d.Attendance.CheckOut)
				r.With(can(user.ResourceAttendance, user.ActionView)).Get("/today", d.Attendance.GetToday)
				r.With(can(user.ResourceAttendance, user.ActionView)).Get("/report/{month}", d.Attendance.GetMonthlyReport)
				r.With(can(user.ResourceAttendance, user.ActionView)).Get("/employee/{employeeId}", d.Attendance.GetEmployeeAttendance)
				r.With(can(user.ResourceAttendance, user.ActionEdit)).Put("/{id}", d.Attendance.Update)
				r.With(can(user.ResourceAttendance, user.ActionDelete)).Delete("/{id}", d.Attendance.Delete)
			})

			r.Route("/payroll", func(r chi.Router) {
				generate := r.With(can(user.ResourcePayroll, user.ActionCreate))
				if d.Redis != nil {
					generate = generate.With(middleware.Idempotency(d.Redis, idempotencyTTL))
				}
				generate.Post("/generate", d.Payroll.GeneratePayroll)

				r.With(can(user.ResourcePayroll, user.ActionView)).Get("/", d.Payroll.ListPayrolls)
				r.With(can(user.ResourcePayroll, user.ActionView)).Get("/stats", d.Payroll.GetStats)
				r.With(can(user.ResourcePayroll, user.ActionView)).Get("/monthly/{month}", d.Payroll.GetMonthlyPayroll)
				r.With(can(user.ResourcePayroll, user.ActionView)).Get("/employee/{employeeId}", d.Payroll.GetEmployeePayroll)
				r.With(can(user.ResourcePayroll, user.ActionEdit)).Put("/status/{id}", d.Payroll.UpdateStatus)
				r.With(can(user.ResourcePayroll, user.ActionExport)).Get("/payslip/{id}", d.Payroll.DownloadPayslip)
				r.With(can(user.ResourcePayroll, user.ActionEdit)).Post("/send-payslip/{id}", d.Payroll.SendPayslip)
				r.With(can(user.ResourcePayroll, user.ActionView)).Get("/{id}", d.Payroll.GetPayroll)
				r.With(can(user.ResourcePayroll, user.ActionEdit)).Put("/{id}", d.Payroll.UpdatePayroll)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.With(can(user.ResourceExpenses, user.ActionView)).Get("/", d.Expense.ListExpenses)
				r.With(can(user.ResourceExpenses, user.ActionView)).Get("/stats", d.Expense.GetStats)
				r.With(can(user.ResourceExpenses, user.ActionView)).Get("/profit-loss", d.Expense.GetProfitLoss)
				r.With(can(user.ResourceExpenses, user.ActionCreate)).Post("/", d.Expense.CreateExpense)
				r.Route("/{id}", func(r chi.Router) {
					r.With(can(user.ResourceExpenses, user.ActionView)).Get("/", d.Expense.GetExpense)
					r.With(can(user.ResourceExpenses, user.ActionEdit)).Put("/", d.Expense.UpdateExpense)
					r.With(can(user.ResourceExpenses, user.ActionDelete)).Delete("/", d.Expense.DeleteExpense)
					r.With(can(user.ResourceExpenses, user.ActionEdit)).Post("/receipt", d.Expense.UploadReceipt)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Use(can(user.ResourceSettings, user.ActionView))
				r.Get("/", d.Settings.GetSettings)
				r.Get("/payroll-config", d.Settings.GetPayrollConfig)
				r.Get("/expense-categories", d.Settings.GetExpenseCategories)
				r.Get("/employee-config", d.Settings.GetEmployeeConfig)
				r.With(can(user.ResourceSettings, user.ActionEdit)).Put("/", d.Settings.UpdateSettings)
			})

			r.Route("/reports", func(r chi.Router) {
				r.With(can(user.ResourceReports, user.ActionView)).Get("/dashboard", d.Report.GetDashboard)
				r.With(can(user.ResourceReports, user.ActionView)).Get("/financial", d.Report.GetFinancialReport)
				r.With(can(user.ResourceReports, user.ActionExport)).Get("/{kind}/export", d.Report.Export)
			})

			r.With(can(user.ResourceReports, user.ActionView)).Get("/events", d.Event.Stream)
		})
	})

	return r
}
