package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/staffsync/staffsync-backend/internal/analytics"
	"github.com/staffsync/staffsync-backend/internal/announcement"
	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/auth"
	"github.com/staffsync/staffsync-backend/internal/dashboard"
	"github.com/staffsync/staffsync-backend/internal/document"
	"github.com/staffsync/staffsync-backend/internal/employee"
	"github.com/staffsync/staffsync-backend/internal/leave"
	"github.com/staffsync/staffsync-backend/internal/notification"
	"github.com/staffsync/staffsync-backend/internal/task"
	"github.com/staffsync/staffsync-backend/internal/transport/middleware"
	"github.com/staffsync/staffsync-backend/internal/transport/swagger"
	"github.com/staffsync/staffsync-backend/internal/user"
)

const APIPrefix = "/api/v1"

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	User         *user.Handler
	Employee     *employee.Handler
	Attendance   *attendance.Handler
	Task         *task.Handler
	Leave        *leave.Handler
	Document     *document.Handler
	Announcement *announcement.Handler
	Notification *notification.Handler
	Analytics    *analytics.Handler
	Dashboard    *dashboard.Handler
}

type Options struct {
	AllowedOrigins []string
	OpenAPIPath    string
	// Observer and MetricsHandler are both nil when metrics are disabled.
	Observer       middleware.HTTPObserver
	MetricsHandler http.Handler
	MetricsPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	if opts.Observer != nil {
		router.Use(middleware.Metrics(opts.Observer))
	}
	router.Use(middleware.LoggingMiddleware(logger))

	if opts.MetricsHandler != nil {
		router.Handle(opts.MetricsPath, opts.MetricsHandler)
	}
	if opts.OpenAPIPath != "" {
		router.Get(swagger.SpecRoute, swagger.SpecHandler(opts.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/signup", h.Auth.Signup)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			pr.Get("/auth/me", h.User.GetCurrentUser)

			pr.Route("/hr", func(hr chi.Router) {
				hr.Use(h.RBAC.RequireHR())
				registerHRRoutes(hr, h)
			})

			pr.Route("/employee", func(er chi.Router) {
				er.Use(h.RBAC.RequireEmployee())
				registerEmployeeRoutes(er, h)
			})
		})
	})
}

func registerHRRoutes(r chi.Router, h Handlers) {
	r.Get("/dashboard/stats", h.Dashboard.HRStats)
	r.Get("/recent-activity", h.Dashboard.RecentActivity)
	r.Get("/analytics", h.Analytics.Report)

	r.Route("/employees", func(er chi.Router) {
		er.Get("/", h.Employee.List)
		er.Post("/", h.Employee.Create)
		er.Get("/{id}", h.Employee.Get)
		er.Put("/{id}", h.Employee.Update)
		er.Delete("/{id}", h.Employee.Deactivate)
		er.Post("/{id}/tasks", h.Task.AssignTask)
	})

	r.Route("/attendance", func(ar chi.Router) {
		ar.Get("/", h.Attendance.ListAttendance)
		ar.Post("/mark", h.Attendance.MarkAttendance)
		ar.Get("/report.pdf", h.Attendance.DownloadReport)
	})

	r.Route("/leave-requests", func(lr chi.Router) {
		lr.Get("/", h.Leave.List)
		lr.Put("/{id}/status", h.Leave.Review)
	})

	r.Route("/announcements", func(ar chi.Router) {
		ar.Get("/", h.Announcement.ListAll)
		ar.Post("/", h.Announcement.Create)
	})

	r.Route("/notifications", func(nr chi.Router) {
		nr.Post("/", h.Notification.Send)
		nr.Get("/sent", h.Notification.ListSent)
		registerInboxRoutes(nr, h)
	})
}

func registerEmployeeRoutes(r chi.Router, h Handlers) {
	r.Get("/dashboard", h.Dashboard.EmployeeDashboard)

	r.Route("/attendance", func(ar chi.Router) {
		ar.Get("/", h.Attendance.GetMyAttendance)
		ar.Post("/checkin", h.Attendance.CheckIn)
		ar.Post("/checkout", h.Attendance.CheckOut)
	})

	r.Route("/tasks", func(tr chi.Router) {
		tr.Get("/", h.Task.ListMyTasks)
		tr.Post("/", h.Task.CreateMyTask)
		tr.Put("/{id}", h.Task.UpdateMyTask)
	})

	r.Route("/leave-requests", func(lr chi.Router) {
		lr.Get("/", h.Leave.ListMine)
		lr.Post("/", h.Leave.Submit)
	})

	r.Route("/documents", func(dr chi.Router) {
		dr.Get("/", h.Document.List)
		dr.Post("/", h.Document.Upload)
		dr.Get("/{id}/download", h.Document.Download)
	})

	r.Get("/announcements", h.Announcement.ListForEmployees)

	r.Route("/notifications", func(nr chi.Router) {
		registerInboxRoutes(nr, h)
	})
}

// registerInboxRoutes mounts the per-user notification inbox, shared by HR
// and employee callers.
func registerInboxRoutes(r chi.Router, h Handlers) {
	r.Get("/", h.Notification.ListMine)
	r.Put("/read-all", h.Notification.MarkAllRead)
	r.Put("/{id}/read", h.Notification.MarkRead)
}
