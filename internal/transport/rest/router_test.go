package rest_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/attendance"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/events"
	coreuser "github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/customer"
	"github.com/frahmantamala/office-management/internal/dashboard"
	"github.com/frahmantamala/office-management/internal/department"
	"github.com/frahmantamala/office-management/internal/notice"
	"github.com/frahmantamala/office-management/internal/store"
	"github.com/frahmantamala/office-management/internal/task"
	"github.com/frahmantamala/office-management/internal/transport"
	"github.com/frahmantamala/office-management/internal/transport/middleware"
	"github.com/frahmantamala/office-management/internal/transport/rest"
	"github.com/frahmantamala/office-management/internal/user"
	"github.com/frahmantamala/office-management/pkg/logger"
)

func TestRest(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Rest Suite")
}

// newRouter wires every page over an in-memory store, as the server command does.
func newRouter(ctx context.Context) *chi.Mux {
	lg := logger.Discard()
	clock := internal.FixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	collections := store.NewCollections(store.NewMemoryStore())
	bus := events.NewEventBus(lg)

	users := coreuser.NewRepository(collections)
	departments := department.NewService(department.NewRepository(collections), users, lg)
	_, err := departments.EnsureDefaults(ctx)
	gomega.Expect(err).ToNot(gomega.HaveOccurred())

	cookie := auth.SessionCookie{Name: "office_session"}
	tokens := auth.NewJWTTokenGenerator("router-test-secret-0123456789abcdef", time.Hour)
	attendanceService := attendance.NewService(attendance.NewRepository(collections), users, bus, lg).WithClock(clock)
	taskService := task.NewService(task.NewRepository(collections), users, bus, lg).WithClock(clock)
	customerService := customer.NewService(customer.NewRepository(collections), bus, lg).WithClock(clock)
	noticeService := notice.NewService(notice.NewRepository(collections), users, bus, lg).WithClock(clock)
	dashboardService := dashboard.NewService(dashboard.Sources{
		Users:       users,
		Departments: departments,
		Attendance:  attendanceService,
		Tasks:       taskService,
		Notices:     noticeService,
		Customers:   customerService,
	}, lg).WithClock(clock)

	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Auth:        auth.NewHandler(auth.NewService(users, tokens, bcrypt.MinCost, bus, lg), cookie, lg),
		Dashboard:   dashboard.NewHandler(base, dashboardService),
		Users:       user.NewHandler(base, user.NewService(users, departments, bcrypt.MinCost, bus, lg)),
		Departments: department.NewHandler(base, departments),
		Attendance:  attendance.NewHandler(base, attendanceService),
		Tasks:       task.NewHandler(base, taskService),
		Customers:   customer.NewHandler(base, customerService),
		Notices:     notice.NewHandler(base, noticeService),
	}

	registry := prometheus.NewRegistry()
	httpMetrics, err := middleware.NewHTTPMetrics(registry)
	gomega.Expect(err).ToNot(gomega.HaveOccurred())

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, handlers, auth.NewRBACAuthorization(cookie, lg), rest.Ops{
		Store:       store.NewMemoryStore(),
		StoreName:   "memory",
		Metrics:     httpMetrics,
		MetricsPath: "/metrics",
		MetricsHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, lg)
	return router
}

var _ = ginkgo.Describe("Router", func() {
	var router *chi.Mux

	do := func(method, path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req := httptest.NewRequest(method, path, body)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		if session != nil {
			req.AddCookie(session)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func(username, password string) *http.Cookie {
		w := do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}}, nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
		for _, c := range w.Result().Cookies() {
			if c.Name == "office_session" && c.Value != "" {
				return c
			}
		}
		ginkgo.Fail("login did not set a session cookie")
		return nil
	}

	ginkgo.BeforeEach(func() {
		router = newRouter(context.Background())
	})

	ginkgo.Context("on a fresh install", func() {
		ginkgo.It("should send every entry page to /setup", func() {
			for _, path := range []string{"/", "/login"} {
				w := do(http.MethodGet, path, nil, nil)
				gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
				gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/setup"))
			}
		})

		ginkgo.It("should close setup after the first admin is created", func() {
			w := do(http.MethodPost, "/setup", url.Values{"username": {"root"}, "password": {"pw"}}, nil)
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))

			w = do(http.MethodGet, "/setup", nil, nil)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))
		})
	})

	ginkgo.Context("with an admin and a member", func() {
		var admin, member *http.Cookie

		ginkgo.BeforeEach(func() {
			do(http.MethodPost, "/setup", url.Values{"username": {"root"}, "password": {"pw"}}, nil)
			admin = login("root", "pw")

			w := do(http.MethodPost, "/users", url.Values{
				"action":     {"add"},
				"username":   {"bob"},
				"password":   {"pw"},
				"role":       {coreuser.RoleMember},
				"department": {"Finance"},
			}, admin)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/users"))

			member = login("bob", "pw")
		})

		ginkgo.It("should redirect anonymous visitors to /login", func() {
			for _, path := range []string{"/member", "/tasks", "/admin", "/attendance/export"} {
				w := do(http.MethodGet, path, nil, nil)
				gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther), path)
				gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"), path)
			}
		})

		ginkgo.It("should dispatch the index page by role", func() {
			gomega.Expect(do(http.MethodGet, "/", nil, admin).Header().Get("Location")).To(gomega.Equal("/admin"))
			gomega.Expect(do(http.MethodGet, "/", nil, member).Header().Get("Location")).To(gomega.Equal("/member"))
		})

		ginkgo.It("should refuse admin and leader pages to a member", func() {
			for _, path := range []string{"/admin", "/leader", "/users", "/departments", "/attendance/export"} {
				gomega.Expect(do(http.MethodGet, path, nil, member).Code).To(gomega.Equal(http.StatusForbidden), path)
			}
			w := do(http.MethodPost, "/notices", url.Values{"action": {"send"}, "message": {"hi"}}, member)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should record a member check-in and show it on the attendance page", func() {
			w := do(http.MethodPost, "/attendance", url.Values{"action": {"check_in"}}, member)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/attendance"))

			w = do(http.MethodGet, "/attendance", nil, member)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"bob"`))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("2024-03-01"))
		})

		ginkgo.It("should let the admin export attendance", func() {
			w := do(http.MethodGet, "/attendance/export?date=2024-03-01", nil, admin)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Header().Get("Content-Disposition")).To(gomega.ContainSubstring("attendance-2024-03-01.xlsx"))
		})

		ginkgo.It("should reject a wrong password without a cookie", func() {
			w := do(http.MethodPost, "/login", url.Values{"username": {"bob"}, "password": {"nope"}}, nil)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Result().Cookies()).To(gomega.BeEmpty())
		})

		ginkgo.It("should end the session on logout", func() {
			w := do(http.MethodGet, "/logout", nil, member)
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))
			cookies := w.Result().Cookies()
			gomega.Expect(cookies).To(gomega.HaveLen(1))
			gomega.Expect(cookies[0].MaxAge).To(gomega.BeNumerically("<", 0))
		})
	})

	ginkgo.Context("operational endpoints", func() {
		ginkgo.It("should answer ping and health without a session", func() {
			w := do(http.MethodGet, "/api/ping", nil, nil)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"OK"`))

			w = do(http.MethodGet, "/api/health", nil, nil)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"memory"`))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"healthy"`))
		})

		ginkgo.It("should count requests by route pattern", func() {
			do(http.MethodGet, "/api/ping", nil, nil)

			w := do(http.MethodGet, "/metrics", nil, nil)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`office_http_requests_total{method="GET",route="/api/ping",status="200"} 1`))
		})

		ginkgo.It("should not mount the docs without a loaded document", func() {
			gomega.Expect(do(http.MethodGet, "/openapi.yml", nil, nil).Code).To(gomega.Equal(http.StatusNotFound))
		})
	})
})
