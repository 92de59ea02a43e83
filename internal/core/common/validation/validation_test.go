package validation_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidateCredentials", func() {
	fields := func(err *internal.AppError) []string {
		out := make([]string, 0, len(err.Fields))
		for _, e := range err.Fields {
			out = append(out, e.Field)
		}
		return out
	}

	It("should accept a plain username and password", func() {
		Expect(validation.ValidateCredentials("bob", "pw")).To(BeNil())
	})

	It("should report every missing field at once", func() {
		err := validation.ValidateCredentials("", "")
		Expect(err).ToNot(BeNil())
		Expect(err.Code).To(Equal(internal.ErrCodeValidationFailed))
		Expect(err.StatusCode).To(Equal(400))
		Expect(fields(err)).To(ConsistOf("username", "password"))
	})

	DescribeTable("should reject malformed usernames",
		func(username string) {
			err := validation.ValidateCredentials(username, "pw")
			Expect(err).ToNot(BeNil())
			Expect(fields(err)).To(ConsistOf("username"))
		},
		Entry("inner space", "bob smith"),
		Entry("tab", "bob\tsmith"),
		Entry("too long", strings.Repeat("a", 65)),
	)

	It("should cap passwords at the bcrypt input limit", func() {
		err := validation.ValidateCredentials("bob", strings.Repeat("p", 73))
		Expect(err).ToNot(BeNil())
		Expect(err.Reason()).To(ContainSubstring("72"))
	})

	It("should count password length in bytes", func() {
		// 40 characters, 80 bytes
		err := validation.ValidateCredentials("bob", strings.Repeat("é", 40))
		Expect(err).ToNot(BeNil())
		Expect(fields(err)).To(ConsistOf("password"))
		Expect(err.Reason()).To(ContainSubstring("72 bytes"))
	})

	It("should count username length in characters", func() {
		Expect(validation.ValidateCredentials(strings.Repeat("é", 64), "pw")).To(BeNil())
	})
})
