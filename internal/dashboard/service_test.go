package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/attendance"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/customer"
	"github.com/frahmantamala/office-management/internal/dashboard"
	"github.com/frahmantamala/office-management/internal/department"
	"github.com/frahmantamala/office-management/internal/notice"
	"github.com/frahmantamala/office-management/internal/store"
	"github.com/frahmantamala/office-management/internal/task"
	"github.com/frahmantamala/office-management/internal/transport"
	"github.com/frahmantamala/office-management/pkg/logger"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

var _ = Describe("Dashboard Service", func() {
	var (
		ctx     context.Context
		service *dashboard.Service
		admin   *user.User
		leader  *user.User
		bob     *user.User
		dana    *user.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock := internal.FixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
		lg := logger.Discard()

		collections := store.NewCollections(store.NewMemoryStore())
		users := user.NewRepository(collections)
		departments := department.NewService(department.NewRepository(collections), users, lg)
		attendanceSvc := attendance.NewService(attendance.NewRepository(collections), users, nil, lg).WithClock(clock)
		taskSvc := task.NewService(task.NewRepository(collections), users, nil, lg).WithClock(clock)
		noticeSvc := notice.NewService(notice.NewRepository(collections), users, nil, lg).WithClock(clock)
		customerSvc := customer.NewService(customer.NewRepository(collections), nil, lg).WithClock(clock)

		service = dashboard.NewService(dashboard.Sources{
			Users:       users,
			Departments: departments,
			Attendance:  attendanceSvc,
			Tasks:       taskSvc,
			Notices:     noticeSvc,
			Customers:   customerSvc,
		}, lg).WithClock(clock)

		admin = &user.User{Username: "root", Role: user.RoleAdmin, Department: user.AdminDepartment}
		leader = &user.User{Username: "lead", Role: user.RoleLeader, Department: "Designers"}
		bob = &user.User{Username: "bob", Role: user.RoleMember, Department: "Finance"}
		dana = &user.User{Username: "dana", Role: user.RoleMember, Department: "Designers"}
		Expect(users.Update(ctx, func(dir user.Directory) error {
			for _, u := range []*user.User{admin, leader, bob, dana} {
				dir[u.Username] = u
			}
			return nil
		})).To(Succeed())
		_, err := departments.EnsureDefaults(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, _ = attendanceSvc.CheckIn(ctx, "bob")
		_, _ = attendanceSvc.CheckIn(ctx, "dana")
		_, _ = attendanceSvc.CheckOut(ctx, "dana")
		_, _ = taskSvc.Add(ctx, bob, task.AddTaskDTO{Title: "ledger"})
		_, _ = taskSvc.Add(ctx, dana, task.AddTaskDTO{Title: "mockups"})
		_, _ = noticeSvc.Send(ctx, "root", notice.SendNoticeDTO{Title: "all hands"})
		_, _ = noticeSvc.Send(ctx, "root", notice.SendNoticeDTO{Title: "bob only", Target: "bob"})
		_, _ = customerSvc.Add(ctx, "root", customer.AddCustomerDTO{Name: "Acme"})
	})

	It("should count the whole office for admins", func() {
		d, err := service.Admin(ctx, admin, "2024-03-01")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Users).To(Equal(4))
		Expect(d.Departments).To(Equal(len(department.DefaultDepartments)))
		Expect(d.Attendance).To(Equal(attendance.Summary{Present: 2, CheckedOut: 1}))
		Expect(d.Tasks).To(Equal(task.Summary{Total: 2, Pending: 2}))
		Expect(d.Notices).To(Equal(2))
		Expect(d.Customers).NotTo(BeNil())
		Expect(*d.Customers).To(Equal(1))
	})

	It("should count only the leader's visible set", func() {
		d, err := service.Leader(ctx, leader, "2024-03-01")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Users).To(Equal(2))
		Expect(d.Departments).To(Equal(1))
		Expect(d.Viewable).To(Equal([]string{"Designers"}))
		Expect(d.Attendance.Present).To(Equal(1))
		Expect(d.Tasks.Total).To(Equal(1))
		Expect(d.Notices).To(Equal(1))
		Expect(d.Customers).To(BeNil())
	})

	It("should show members their own check-in", func() {
		d, err := service.Member(ctx, bob, "2024-03-01")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.CheckedIn()).To(BeTrue())
		Expect(d.Today.TimeIn).To(Equal("09:00"))
		Expect(d.Notices).To(Equal(2))

		d, err = service.Member(ctx, bob, "2024-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.CheckedIn()).To(BeFalse())
		Expect(d.Tasks.Total).To(BeZero())
	})

	It("should render the selected day as JSON", func() {
		handler := dashboard.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
		req := httptest.NewRequest(http.MethodGet, "/admin?global_date=2024-03-01", nil)
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{Username: "root", User: admin}))
		w := httptest.NewRecorder()

		handler.GetAdmin(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("date", "2024-03-01"))
		Expect(body).To(HaveKeyWithValue("customers", BeNumerically("==", 1)))
	})
})
