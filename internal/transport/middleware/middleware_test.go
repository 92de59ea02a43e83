package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Middleware Suite")
}

var _ = ginkgo.Describe("Logging", func() {
	var (
		buf *bytes.Buffer
		lg  *slog.Logger
	)

	// entries decodes every JSON log line written so far.
	entries := func() []map[string]any {
		var out []map[string]any
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			if line == "" {
				continue
			}
			var m map[string]any
			gomega.Expect(json.Unmarshal([]byte(line), &m)).To(gomega.Succeed())
			out = append(out, m)
		}
		return out
	}

	ginkgo.BeforeEach(func() {
		buf = &bytes.Buffer{}
		lg = slog.New(slog.NewJSONHandler(buf, nil))
	})

	ginkgo.It("should mask passwords in url-encoded forms and keep the body readable", func() {
		form := url.Values{"username": {"bob"}, "password": {"hunter2"}, "new_password": {"x"}}
		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			seen = r.PostFormValue("password")
			http.Redirect(w, r, "/", http.StatusSeeOther)
		})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		LoggingMiddleware(lg)(next).ServeHTTP(httptest.NewRecorder(), req)

		gomega.Expect(seen).To(gomega.Equal("hunter2"))
		logs := entries()
		gomega.Expect(logs).To(gomega.HaveLen(2))
		gomega.Expect(logs[0]["body"]).To(gomega.ContainSubstring("username=bob"))
		gomega.Expect(logs[0]["body"]).ToNot(gomega.ContainSubstring("hunter2"))
		gomega.Expect(logs[1]["status_code"]).To(gomega.BeNumerically("==", http.StatusSeeOther))
		gomega.Expect(logs[1]["location"]).To(gomega.Equal("/"))
	})

	ginkgo.It("should mask the cookie header", func() {
		req := httptest.NewRequest(http.MethodGet, "/member", nil)
		req.Header.Set("Cookie", "office_session=abc")
		LoggingMiddleware(lg)(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), req)

		headers := entries()[0]["headers"].(map[string]any)
		gomega.Expect(headers["Cookie"]).To(gomega.Equal("[FILTERED]"))
	})

	ginkgo.DescribeTable("redactJSON",
		func(body, expected string) {
			gomega.Expect(redactJSON([]byte(body))).To(gomega.Equal(expected))
		},
		ginkgo.Entry("nested JSON", `{"user":{"password":"p","name":"a"}}`, `{"user":{"name":"a","password":"[FILTERED]"}}`),
		ginkgo.Entry("plain text", "hello", "hello"),
		ginkgo.Entry("empty", "", ""),
	)
})

var _ = ginkgo.Describe("Recovery", func() {
	ginkgo.It("should turn a panic into a 500 JSON error", func() {
		boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
		w := httptest.NewRecorder()
		RecoveryMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(boom).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(w.Header().Get("Content-Type")).To(gomega.Equal("application/json"))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("INTERNAL_ERROR"))
	})

	ginkgo.It("should let an aborted handler propagate", func() {
		abort := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) })
		handler := RecoveryMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(abort)

		gomega.Expect(func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(gomega.PanicWith(http.ErrAbortHandler))
	})
})

var _ = ginkgo.Describe("RequestID", func() {
	ginkgo.It("should echo an incoming trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-1")
		w := httptest.NewRecorder()
		RequestID(http.NotFoundHandler()).ServeHTTP(w, req)
		gomega.Expect(w.Header().Get(TraceHeader)).To(gomega.Equal("trace-1"))
	})

	ginkgo.It("should mint one when none is present", func() {
		w := httptest.NewRecorder()
		RequestID(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		gomega.Expect(w.Header().Get(TraceHeader)).To(gomega.HaveLen(36))
	})
})
