package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the non-handler settings of the HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	UploadsDir     string
	Env            string
	Version        string
	LogLevel       slog.Level
}

type Handlers struct {
	Auth       AuthHandler
	Tenant     TenantHandler
	Leave      LeaveHandler
	Clock      ClockHandler
	Attendance AttendanceHandler
	Team       TeamHandler
	Stream     StreamHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-ess"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadsDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired(JWTService))
			r.Get("/uploads/*", NewUploadsHandler(opts.UploadsDir).Serve)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/session", h.Auth.Restore)
			r.Post("/logout", h.Auth.Logout)
		})

		r.Post("/tenants", h.Tenant.SignUp)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/leave", func(r chi.Router) {
				r.Get("/types", h.Leave.ListTypes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.Use(middleware.RequirePermission(user.PermissionLeaveViewOwn))
					r.Get("/balances", h.Leave.ListBalances)
					r.Post("/quote", h.Leave.Quote)

					r.Route("/applications", func(r chi.Router) {
						r.Get("/", h.Leave.ListMine)
						r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.Submit)
						r.Route("/{id}", func(r chi.Router) {
							r.Get("/", h.Leave.GetMine)
							r.Delete("/", h.Leave.Delete)
							r.Post("/cancel", h.Leave.Cancel)
						})
					})
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee)

				r.Route("/clock", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/events", h.Clock.Record)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/today", h.Clock.Today)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/timesheet", h.Attendance.Timesheet)
					r.Get("/timesheet/export", h.Attendance.ExportTimesheet)
				})
			})

			r.Route("/team", func(r chi.Router) {
				r.Route("/members", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeViewAll))
					r.Get("/", h.Team.ListMembers)
					r.Route("/{employeeID}", func(r chi.Router) {
						r.Get("/", h.Team.GetMember)
						r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/events", h.Clock.ListForEmployee)
						r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/attendance", h.Attendance.EmployeeTimesheet)
					})
				})

				r.Route("/leave/applications", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveViewAll))
					r.Get("/", h.Leave.ListTeam)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Post("/{id}/approve", h.Leave.Approve)
						r.Post("/{id}/reject", h.Leave.Reject)
					})
				})
			})
		})

		// The event stream is the only route that also takes ?access_token=.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, tokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService))
			r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/team/stream", h.Stream.Stream)
		})
	})
	return r
}

// tokenFromQuery lets EventSource clients, which cannot set headers, pass the
// access token as ?access_token=.
func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("access_token")
}
