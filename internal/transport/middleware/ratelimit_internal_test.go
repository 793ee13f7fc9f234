package middleware

import (
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RateLimiter bucket sweep", func() {
	var (
		rl    *RateLimiter
		clock time.Time
	)

	ginkgo.BeforeEach(func() {
		rl = NewRateLimiter(transport.NewBaseHandler(slog.New(slog.NewTextHandler(os.Stdout, nil))), 1, 1)
		clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return clock }
	})

	ginkgo.It("drops idle buckets once per ttl rather than on every call", func() {
		rl.allow("a")
		rl.allow("b")
		gomega.Expect(rl.buckets).To(gomega.HaveLen(2))

		clock = clock.Add(rl.ttl + time.Second)
		rl.allow("c")
		gomega.Expect(rl.buckets).To(gomega.HaveLen(1))
		gomega.Expect(rl.buckets).To(gomega.HaveKey("c"))

		// no sweep within ttl of the last one
		clock = clock.Add(rl.ttl - time.Second)
		rl.allow("d")
		gomega.Expect(rl.buckets).To(gomega.HaveLen(2))

		clock = clock.Add(rl.ttl + time.Second)
		rl.allow("e")
		gomega.Expect(rl.buckets).To(gomega.HaveLen(1))
		gomega.Expect(rl.buckets).To(gomega.HaveKey("e"))
	})
})
