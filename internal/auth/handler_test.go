package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/pkg/logger"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
		handler  *Handler
		rbac     *RBACAuthorization
		cookie   SessionCookie
	)

	postForm := func(path string, form url.Values) *http.Request {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	withSession := func(req *http.Request, username string) *http.Request {
		token, _, err := tokenGen.Generate(username)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: token})
		return req
	}

	// serve runs req through the identity middleware and then next.
	serve := func(next http.Handler, req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.IdentityMiddleware(next).ServeHTTP(w, req)
		return w
	}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("test-session-secret-0123456789abcdef", time.Hour)
		cookie = SessionCookie{Name: "office_session"}
		svc := NewService(mockRepo, tokenGen, bcrypt.MinCost, nil, logger.Discard())
		handler = NewHandler(svc, cookie, logger.Discard())
		rbac = NewRBACAuthorization(cookie, logger.Discard())
	})

	ginkgo.Describe("Index", func() {
		ginkgo.It("should send everyone to /setup while no users exist", func() {
			w := serve(http.HandlerFunc(handler.Index), httptest.NewRequest(http.MethodGet, "/", nil))
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/setup"))
		})

		ginkgo.DescribeTable("should dispatch by role",
			func(username, role, expected string) {
				mockRepo.withUser("root", "pw", user.RoleAdmin, user.AdminDepartment)
				mockRepo.withUser(username, "pw", role, "Finance")

				req := httptest.NewRequest(http.MethodGet, "/", nil)
				if username != "" {
					req = withSession(req, username)
				}
				w := serve(http.HandlerFunc(handler.Index), req)

				gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
				gomega.Expect(w.Header().Get("Location")).To(gomega.Equal(expected))
			},
			ginkgo.Entry("admin", "boss", user.RoleAdmin, "/admin"),
			ginkgo.Entry("leader", "lead", user.RoleLeader, "/leader"),
			ginkgo.Entry("member", "bob", user.RoleMember, "/member"),
		)

		ginkgo.It("should send anonymous visitors to /login", func() {
			mockRepo.withUser("root", "pw", user.RoleAdmin, user.AdminDepartment)
			w := serve(http.HandlerFunc(handler.Index), httptest.NewRequest(http.MethodGet, "/", nil))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))
		})
	})

	ginkgo.Describe("Setup", func() {
		ginkgo.It("should create the admin and redirect to /login", func() {
			w := httptest.NewRecorder()
			handler.Setup(w, postForm("/setup", url.Values{"username": {"root"}, "password": {"pw"}}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))
			gomega.Expect(mockRepo.dir).To(gomega.HaveKey("root"))
		})

		ginkgo.It("should answer 400 when the password is missing", func() {
			w := httptest.NewRecorder()
			handler.Setup(w, postForm("/setup", url.Values{"username": {"root"}}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("VALIDATION_FAILED"))
		})

		ginkgo.It("should redirect every method to /login once users exist", func() {
			mockRepo.withUser("root", "pw", user.RoleAdmin, user.AdminDepartment)

			get := httptest.NewRecorder()
			handler.SetupPage(get, httptest.NewRequest(http.MethodGet, "/setup", nil))
			gomega.Expect(get.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(get.Header().Get("Location")).To(gomega.Equal("/login"))

			post := httptest.NewRecorder()
			handler.Setup(post, postForm("/setup", url.Values{"username": {"mallory"}, "password": {"pw"}}))
			gomega.Expect(post.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(post.Header().Get("Location")).To(gomega.Equal("/login"))
			gomega.Expect(mockRepo.dir).ToNot(gomega.HaveKey("mallory"))
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.BeforeEach(func() {
			mockRepo.withUser("alice", "correct_password", user.RoleMember, "Finance")
		})

		ginkgo.It("should set an HttpOnly session cookie and redirect to /", func() {
			w := httptest.NewRecorder()
			handler.Login(w, postForm("/login", url.Values{"username": {"alice"}, "password": {"correct_password"}}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/"))
			cookies := w.Result().Cookies()
			gomega.Expect(cookies).To(gomega.HaveLen(1))
			gomega.Expect(cookies[0].Name).To(gomega.Equal("office_session"))
			gomega.Expect(cookies[0].HttpOnly).To(gomega.BeTrue())
		})

		ginkgo.It("should re-render the form with a flash on bad credentials", func() {
			w := httptest.NewRecorder()
			handler.Login(w, postForm("/login", url.Values{"username": {"alice"}, "password": {"nope"}}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("Invalid credentials"))
			gomega.Expect(w.Result().Cookies()).To(gomega.BeEmpty())
		})

		ginkgo.It("should redirect to /setup when nobody exists yet", func() {
			delete(mockRepo.dir, "alice")
			w := httptest.NewRecorder()
			handler.LoginPage(w, httptest.NewRequest(http.MethodGet, "/login", nil))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/setup"))
		})
	})

	ginkgo.It("Logout should clear the cookie", func() {
		w := httptest.NewRecorder()
		handler.Logout(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

		gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))
		gomega.Expect(w.Result().Cookies()[0].MaxAge).To(gomega.BeNumerically("<", 0))
	})

	ginkgo.Describe("Guards", func() {
		var reached bool
		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			u, found := UserFromContext(r.Context())
			gomega.Expect(found).To(gomega.BeTrue())
			gomega.Expect(u).ToNot(gomega.BeNil())
			w.WriteHeader(http.StatusOK)
		})

		ginkgo.BeforeEach(func() {
			reached = false
			mockRepo.withUser("root", "pw", user.RoleAdmin, user.AdminDepartment)
			mockRepo.withUser("bob", "pw", user.RoleMember, "Finance")
		})

		ginkgo.It("RequireLogin should redirect anonymous requests to /login", func() {
			w := serve(rbac.RequireLogin()(ok), httptest.NewRequest(http.MethodGet, "/member", nil))
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("RequireRole should answer a bare 403 for the wrong role", func() {
			req := withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), "bob")
			w := serve(rbac.RequireRole(user.RoleAdmin)(ok), req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(strings.TrimSpace(w.Body.String())).To(gomega.Equal("Unauthorized"))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("RequireRole should pass a matching role", func() {
			req := withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), "root")
			w := serve(rbac.RequireRole(user.RoleAdmin)(ok), req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reached).To(gomega.BeTrue())
		})

		ginkgo.It("should force a logout when the session's user was deleted", func() {
			req := withSession(httptest.NewRequest(http.MethodGet, "/member", nil), "bob")
			_ = mockRepo.Update(context.Background(), func(dir user.Directory) error {
				delete(dir, "bob")
				return nil
			})

			w := serve(rbac.RequireLogin()(ok), req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/login"))
			cleared := w.Result().Cookies()
			gomega.Expect(cleared).To(gomega.HaveLen(1))
			gomega.Expect(cleared[0].Value).To(gomega.BeEmpty())
			gomega.Expect(reached).To(gomega.BeFalse())
		})
	})

	ginkgo.It("Authorize should order checks as login then role", func() {
		gomega.Expect(Authorize(Identity{})).To(gomega.Equal(Unauthenticated))
		gomega.Expect(Authorize(Identity{Username: "ghost"}, user.RoleAdmin)).To(gomega.Equal(Unauthenticated))
		member := Identity{Username: "bob", User: &user.User{Username: "bob", Role: user.RoleMember}}
		gomega.Expect(Authorize(member)).To(gomega.Equal(Allowed))
		gomega.Expect(Authorize(member, user.RoleAdmin, user.RoleLeader)).To(gomega.Equal(Forbidden))
	})
})
