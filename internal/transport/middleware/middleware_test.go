package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/frahmantamala/org-admin/internal/transport/middleware"
	"github.com/frahmantamala/org-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newBase() *transport.BaseHandler {
	return transport.NewBaseHandler(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
}

var _ = Describe("RequestID", func() {
	It("mints an id when none is sent and exposes it to the handler", func() {
		var seen string
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logger.RequestID(r.Context())
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal(seen))
	})

	It("reuses the incoming id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "trace-1")
		w := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(w, req)
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("trace-1"))
	})

	It("replaces an oversized id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, strings.Repeat("x", 200))
		w := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(w, req)
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(HaveLen(36))
	})
})

var _ = Describe("RateLimiter", func() {
	It("rejects a client once its burst is spent and keeps others apart", func() {
		h := middleware.NewRateLimiter(newBase(), 0.001, 2).Middleware(ok)

		send := func(ip string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.RemoteAddr = ip + ":5555"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		Expect(send("10.0.0.1").Code).To(Equal(http.StatusOK))
		Expect(send("10.0.0.1").Code).To(Equal(http.StatusOK))

		w := send("10.0.0.1")
		Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		Expect(w.Header().Get("Retry-After")).To(Equal("1"))
		Expect(w.Body.String()).To(ContainSubstring("RATE_LIMITED"))

		Expect(send("10.0.0.2").Code).To(Equal(http.StatusOK))
	})

	It("ignores X-Forwarded-For from an untrusted peer", func() {
		h := middleware.NewRateLimiter(newBase(), 0.001, 1).Middleware(ok)
		send := func(xff string) int {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = "203.0.113.7:4000"
			req.Header.Set("X-Forwarded-For", xff)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w.Code
		}
		Expect(send("1.1.1.1")).To(Equal(http.StatusOK))
		Expect(send("2.2.2.2")).To(Equal(http.StatusTooManyRequests))
		Expect(send("3.3.3.3, 4.4.4.4")).To(Equal(http.StatusTooManyRequests))
	})

	It("keys on the rightmost untrusted hop behind a trusted proxy", func() {
		h := middleware.NewRateLimiter(newBase(), 0.001, 1, "10.0.0.0/8", "192.168.1.5").Middleware(ok)
		send := func(remote, xff string) int {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = remote + ":4000"
			req.Header.Set("X-Forwarded-For", xff)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w.Code
		}
		Expect(send("10.0.0.1", "9.9.9.9, 1.1.1.1")).To(Equal(http.StatusOK))
		// spoofed leftmost hop, same real client
		Expect(send("10.0.0.2", "8.8.8.8, 1.1.1.1, 192.168.1.5")).To(Equal(http.StatusTooManyRequests))
		Expect(send("10.0.0.1", "2.2.2.2")).To(Equal(http.StatusOK))
		// every hop trusted falls back to the peer
		Expect(send("192.168.1.5", "10.0.0.9")).To(Equal(http.StatusOK))
		Expect(send("192.168.1.5", "")).To(Equal(http.StatusTooManyRequests))
	})
})

var _ = Describe("ParseTrustedProxies", func() {
	It("accepts CIDRs and bare addresses and skips garbage", func() {
		nets := middleware.ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.5 ", "::1", "nope", ""})
		Expect(nets).To(HaveLen(3))
		Expect(nets[0].String()).To(Equal("10.0.0.0/8"))
		Expect(nets[1].String()).To(Equal("192.168.1.5/32"))
		Expect(nets[2].String()).To(Equal("::1/128"))
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight requests without reaching the handler", func() {
		called := false
		h := middleware.CORS([]string{"https://admin.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(called).To(BeFalse())
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://admin.example.com"))
	})

	It("does not reflect an unknown origin", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		middleware.CORS([]string{"https://admin.example.com"})(ok).ServeHTTP(w, req)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("allows any origin with a wildcard", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://other.example.com")
		w := httptest.NewRecorder()
		middleware.CORS([]string{"*"})(ok).ServeHTTP(w, req)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://other.example.com"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into a 500 error body", func() {
		h := middleware.RecoveryMiddleware(newBase())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		w := httptest.NewRecorder()
		Expect(func() { h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil)) }).NotTo(Panic())
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
		Expect(w.Body.String()).NotTo(ContainSubstring("boom"))
	})

	It("lets http.ErrAbortHandler through", func() {
		h := middleware.RecoveryMiddleware(newBase())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		Expect(func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(PanicWith(http.ErrAbortHandler))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("passes the request body through untouched", func() {
		var got string
		h := middleware.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			got = string(b)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":1}`))
		}))
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":"jane","password":"secret"}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(got).To(Equal(`{"identifier":"jane","password":"secret"}`))
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(Equal(`{"id":1}`))
	})
})
