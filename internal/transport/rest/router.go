package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/office-management/internal/attendance"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/customer"
	"github.com/frahmantamala/office-management/internal/dashboard"
	"github.com/frahmantamala/office-management/internal/department"
	"github.com/frahmantamala/office-management/internal/notice"
	"github.com/frahmantamala/office-management/internal/store"
	"github.com/frahmantamala/office-management/internal/task"
	"github.com/frahmantamala/office-management/internal/transport/middleware"
	"github.com/frahmantamala/office-management/internal/transport/swagger"
	userPkg "github.com/frahmantamala/office-management/internal/user"
)

// Handlers groups every page handler the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	Dashboard   *dashboard.Handler
	Users       *userPkg.Handler
	Departments *department.Handler
	Attendance  *attendance.Handler
	Tasks       *task.Handler
	Customers   *customer.Handler
	Notices     *notice.Handler
}

// Ops carries the operational endpoints. Nil members are not mounted.
type Ops struct {
	Store       store.Pinger
	StoreName   string
	Spec        *swagger.Spec
	Metrics     *middleware.HTTPMetrics
	MetricsPath string
	MetricsHTTP http.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, rbac *auth.RBACAuthorization, ops Ops, logger *slog.Logger) {
	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if ops.Metrics != nil {
		router.Use(ops.Metrics.Middleware)
	}
	router.Use(h.Auth.IdentityMiddleware)
	router.Use(middleware.UserContext)

	registerOpsRoutes(router, ops)

	// Entry, setup and session pages
	router.Get("/", h.Auth.Index)
	router.Get("/setup", h.Auth.SetupPage)
	router.Post("/setup", h.Auth.Setup)
	router.Get("/login", h.Auth.LoginPage)
	router.Post("/login", h.Auth.Login)
	router.Get("/logout", h.Auth.Logout)

	// Any signed-in user
	router.Group(func(r chi.Router) {
		r.Use(rbac.RequireLogin())

		r.Get("/member", h.Dashboard.GetMember)
		r.Get("/attendance", h.Attendance.GetAttendance)
		r.Post("/attendance", h.Attendance.PostAttendance)
		r.Get("/tasks", h.Tasks.GetTasks)
		r.Post("/tasks", h.Tasks.PostTasks)
		r.Get("/customers", h.Customers.GetCustomers)
		r.Get("/notices", h.Notices.GetNotices)
		r.Get("/profile", h.Users.GetProfile)
		r.Post("/profile", h.Users.PostProfile)
	})

	// Admin only
	router.Group(func(r chi.Router) {
		r.Use(rbac.RequireRole(user.RoleAdmin))

		r.Get("/admin", h.Dashboard.GetAdmin)
		r.Get("/users", h.Users.GetUsers)
		r.Post("/users", h.Users.PostUsers)
		r.Get("/departments", h.Departments.GetDepartments)
		r.Post("/departments", h.Departments.PostDepartments)
		r.Post("/customers", h.Customers.PostCustomers)
		r.Post("/notices", h.Notices.PostNotices)
	})

	router.Group(func(r chi.Router) {
		r.Use(rbac.RequireRole(user.RoleLeader))
		r.Get("/leader", h.Dashboard.GetLeader)
	})

	router.Group(func(r chi.Router) {
		r.Use(rbac.RequireRole(user.RoleAdmin, user.RoleLeader))
		r.Get("/attendance/export", h.Attendance.ExportAttendance)
	})
}

func registerOpsRoutes(router *chi.Mux, ops Ops) {
	if ops.Spec != nil {
		router.Method(http.MethodGet, swagger.SpecPath, ops.Spec)
		router.Handle("/swagger/*", swagger.Handler())
	}

	if ops.MetricsHTTP != nil {
		router.Method(http.MethodGet, ops.MetricsPath, ops.MetricsHTTP)
	}

	health := NewHealthHandler(ops.Store, ops.StoreName)
	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", health.pingHandler)
		if ops.Store != nil {
			r.Get("/health", health.healthCheckHandler)
		}
	})
}
