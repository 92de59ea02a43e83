package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

// redactedNames are matched case-insensitively as substrings of header,
// form and JSON field names.
var redactedNames = []string{
	"password",
	"token",
	"authorization",
	"cookie",
	"secret",
	"session",
	"credential",
}

const redacted = "[FILTERED]"

// LoggingMiddleware logs each request and its response with credentials masked.
// Only JSON response bodies are logged; workbooks and redirects are not.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			logger.InfoContext(r.Context(), "incoming request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", requestBody(r),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var body bytes.Buffer
			ww.Tee(&body)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			respBody := ""
			if strings.HasPrefix(ww.Header().Get("Content-Type"), "application/json") {
				respBody = redactJSON(body.Bytes())
			}

			logger.Log(r.Context(), level, "response",
				"request_id", reqID,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"location", ww.Header().Get("Location"),
				"body", respBody,
			)
		})
	}
}

// requestBody reads and restores the body, returning a masked copy for the log.
func requestBody(r *http.Request) string {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return "[multipart]"
	}
	if r.Body == nil {
		return ""
	}
	raw, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))

	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		return redactForm(raw)
	}
	return redactJSON(raw)
}

func isRedactedName(name string) bool {
	lower := strings.ToLower(name)
	for _, n := range redactedNames {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isRedactedName(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func redactForm(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return "[unparseable form]"
	}
	for key := range values {
		if isRedactedName(key) {
			values[key] = []string{redacted}
		}
	}
	return values.Encode()
}

// redactJSON masks matching keys at any depth. Non-JSON text is logged as
// is unless it mentions a redacted name.
func redactJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		if isRedactedName(string(raw)) {
			return redacted
		}
		return string(raw)
	}
	out, err := json.Marshal(redactValue(v))
	if err != nil {
		return "[unencodable body]"
	}
	return string(out)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			if isRedactedName(k) {
				t[k] = redacted
			} else {
				t[k] = redactValue(item)
			}
		}
	case []any:
		for i, item := range t {
			t[i] = redactValue(item)
		}
	}
	return v
}
