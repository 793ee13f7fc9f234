package sqlbind_test

import (
	"testing"

	"github.com/frahmantamala/org-admin/internal/core/sqlbind"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSQLBind(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQLBind Suite")
}

var _ = Describe("Binder", func() {
	It("numbers placeholders in bind order", func() {
		b := sqlbind.New()

		Expect(b.Bind("a")).To(Equal("$1"))
		Expect(b.Bind(int64(7))).To(Equal("$2"))
		Expect(b.BindAll("x", "y")).To(Equal([]string{"$3", "$4"}))
		Expect(b.Args()).To(Equal([]any{"a", int64(7), "x", "y"}))
		Expect(b.Len()).To(Equal(4))
	})

	It("renders tuples", func() {
		b := sqlbind.New()
		b.Bind(int64(1))

		Expect(b.Tuple(int64(1), int64(9))).To(Equal("($2, $3)"))
		Expect(b.Len()).To(Equal(3))
	})

	It("starts empty", func() {
		b := sqlbind.New()
		Expect(b.Args()).To(BeEmpty())
		Expect(b.Len()).To(Equal(0))
	})
})
