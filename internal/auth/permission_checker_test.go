package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/office-management/internal/core/user"
)

var _ = ginkgo.Describe("HasPermission", func() {
	admin := &user.User{Username: "root", Role: user.RoleAdmin, Department: user.AdminDepartment}
	leader := &user.User{
		Username:   "lead",
		Role:       user.RoleLeader,
		Department: "Designers",
		Permissions: map[string][]string{
			"Finance":     {user.ActionView},
			"Menu Upload": {user.ActionAll},
		},
	}
	member := &user.User{
		Username:    "bob",
		Role:        user.RoleMember,
		Department:  "Finance",
		Permissions: map[string][]string{"Designers": {user.ActionView}},
	}

	ginkgo.DescribeTable("decides by role, own department, then explicit grant",
		func(u *user.User, department, action string, expected bool) {
			gomega.Expect(HasPermission(u, department, action)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("admin, any department", admin, "Finance", "edit", true),
		ginkgo.Entry("admin, unknown department", admin, "Nowhere", "anything", true),
		ginkgo.Entry("leader, own department, no grants", leader, "Designers", "assign", true),
		ginkgo.Entry("leader, granted action", leader, "Finance", "view", true),
		ginkgo.Entry("leader, ungranted action", leader, "Finance", "assign", false),
		ginkgo.Entry("leader, wildcard grant", leader, "Menu Upload", "edit", true),
		ginkgo.Entry("leader, absent department", leader, "Customer Handling", "view", false),
		ginkgo.Entry("member, own department without grant", member, "Finance", "view", false),
		ginkgo.Entry("member, explicit grant", member, "Designers", "view", true),
		ginkgo.Entry("nil user", nil, "Finance", "view", false),
	)

	ginkgo.It("lists permitted departments in input order", func() {
		depts := []string{"Designers", "Menu Upload", "Finance", "Customer Handling"}
		gomega.Expect(PermittedDepartments(leader, depts, user.ActionView)).
			To(gomega.Equal([]string{"Designers", "Menu Upload", "Finance"}))
	})

	ginkgo.Describe("CanAssignTo", func() {
		designer := &user.User{Username: "dana", Role: user.RoleMember, Department: "Designers"}
		accountant := &user.User{Username: "carl", Role: user.RoleMember, Department: "Finance"}

		ginkgo.It("lets anyone assign to themselves", func() {
			gomega.Expect(CanAssignTo(member, member)).To(gomega.BeTrue())
		})

		ginkgo.It("lets admins assign anywhere", func() {
			gomega.Expect(CanAssignTo(admin, accountant)).To(gomega.BeTrue())
		})

		ginkgo.It("lets leaders assign inside their own department", func() {
			gomega.Expect(CanAssignTo(leader, designer)).To(gomega.BeTrue())
		})

		ginkgo.It("requires an assign grant for other departments", func() {
			gomega.Expect(CanAssignTo(leader, accountant)).To(gomega.BeFalse())
		})

		ginkgo.It("never lets members assign to others", func() {
			gomega.Expect(CanAssignTo(member, designer)).To(gomega.BeFalse())
		})
	})
})
