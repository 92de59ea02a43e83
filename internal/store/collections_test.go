package store_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/office-management/internal/store"
)

type failingStore struct {
	err error
}

func (f *failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f *failingStore) Set(context.Context, string, []byte) error         { return f.err }

var _ = Describe("Collections", func() {
	var (
		ctx         context.Context
		mem         *store.MemoryStore
		collections *store.Collections
	)

	BeforeEach(func() {
		ctx = context.Background()
		mem = store.NewMemoryStore()
		collections = store.NewCollections(mem)
	})

	It("should leave the destination empty for a missing key", func() {
		list, err := store.Read[[]string](ctx, collections, store.KeyDepartments)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())

		exists, err := collections.Exists(ctx, store.KeyDepartments)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("should round-trip a whole collection", func() {
		Expect(collections.Save(ctx, store.KeyDepartments, []string{"Finance", "Designers"})).To(Succeed())

		list, err := store.Read[[]string](ctx, collections, store.KeyDepartments)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(Equal([]string{"Finance", "Designers"}))
	})

	It("should not write when the mutation skips", func() {
		err := store.Mutate(ctx, collections, store.KeyDepartments, func(v *[]string) error {
			*v = append(*v, "Finance")
			return store.ErrSkipWrite
		})
		Expect(err).NotTo(HaveOccurred())

		exists, err := collections.Exists(ctx, store.KeyDepartments)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("should propagate mutation errors without writing", func() {
		boom := errors.New("boom")
		err := store.Mutate(ctx, collections, store.KeyTasks, func(v *[]string) error {
			*v = append(*v, "x")
			return boom
		})
		Expect(err).To(MatchError(boom))

		exists, _ := collections.Exists(ctx, store.KeyTasks)
		Expect(exists).To(BeFalse())
	})

	It("should wrap store failures", func() {
		broken := store.NewCollections(&failingStore{err: errors.New("disk gone")})
		_, err := store.Read[[]string](ctx, broken, store.KeyTasks)
		Expect(err).To(MatchError(ContainSubstring("get tasks")))
	})

	It("should not lose concurrent appends to the same collection", func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				err := store.Mutate(ctx, collections, store.KeyAttendance, func(v *[]int) error {
					*v = append(*v, len(*v))
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		list, err := store.Read[[]int](ctx, collections, store.KeyAttendance)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(50))
	})

	It("should initialise a key only once", func() {
		wrote, err := collections.Init(ctx, store.KeyDepartments, []string{"Finance"})
		Expect(err).NotTo(HaveOccurred())
		Expect(wrote).To(BeTrue())

		wrote, err = collections.Init(ctx, store.KeyDepartments, []string{"Other"})
		Expect(err).NotTo(HaveOccurred())
		Expect(wrote).To(BeFalse())

		list, err := store.Read[[]string](ctx, collections, store.KeyDepartments)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(Equal([]string{"Finance"}))
	})

	It("should treat an emptied collection as initialised", func() {
		Expect(collections.Save(ctx, store.KeyDepartments, []string{})).To(Succeed())
		wrote, err := collections.Init(ctx, store.KeyDepartments, []string{"Finance"})
		Expect(err).NotTo(HaveOccurred())
		Expect(wrote).To(BeFalse())
	})
})
