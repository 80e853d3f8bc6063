package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// MaskValue replaces every redacted value.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys and header names whose values are never logged.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"x-csrf-token":        true,
	"x-request-signature": true,
	"api_key":             true,
	"apikey":              true,
	"access_token":        true,
	"refresh_token":       true,
	"jsessionid":          true,
	"signature":           true,
	"url_secret":          true,
	"password":            true,
	"passwd":              true,
}

// sensitiveKeywords mark a key as sensitive wherever they appear in it. The
// bare word "key" is absent so cache keys and route keys stay visible.
var sensitiveKeywords = []string{
	"password", "secret", "token", "auth", "credential", "cookie", "signature",
}

// tokenPatterns match values that are credentials whatever their key.
var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^[A-Za-z0-9]{32,}$`),
}

// signedQueryParam matches credential-bearing query parameters inside URLs,
// including URLs embedded in error messages.
var signedQueryParam = regexp.MustCompile(`(?i)([?&](?:sig|signature|token|key|apikey|api_key|access_token|auth)=)[^&\s"']+`)

// SecureHandler redacts credentials of the leg endpoint from log records
// before they reach the wrapped handler. Sensitive keys are masked whole,
// token-shaped values are masked whole, and signed query parameters are
// masked in place so the rest of a URL stays readable. Header maps logged
// with Headers are masked per header.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next wraps slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs redacts attrs once and attaches them to the wrapped handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SecureHandler{next: h.next.WithAttrs(redactAll(attrs))}
}

// WithGroup delegates to the wrapped handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

func redactAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redact(a)
	}
	return out
}

func redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redactAll(a.Value.Group())...)}
	}
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); RedactString(s) != s {
			return slog.String(a.Key, RedactString(s))
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case error:
			if msg := v.Error(); MaskURL(msg) != msg {
				return slog.String(a.Key, MaskURL(msg))
			}
		case map[string]string:
			return slog.Attr{Key: a.Key, Value: Headers(v)}
		}
	}
	return a
}

// IsSensitiveKey reports whether values logged under key (an attribute key
// or a header name) must be masked.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// RedactString masks s entirely if it looks like a credential, and masks
// signed query parameters otherwise.
func RedactString(s string) string {
	for _, p := range tokenPatterns {
		if p.MatchString(s) {
			return MaskValue
		}
	}
	return MaskURL(s)
}

// MaskURL masks signed query parameters in s, leaving everything else intact.
func MaskURL(s string) string {
	if !strings.ContainsAny(s, "?&") {
		return s
	}
	return signedQueryParam.ReplaceAllString(s, "${1}"+MaskValue)
}

// Headers returns request headers as a group sorted by name, with the
// values of sensitive headers masked.
func Headers(headers map[string]string) slog.Value {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		v := headers[name]
		if IsSensitiveKey(name) {
			v = MaskValue
		} else {
			v = RedactString(v)
		}
		attrs = append(attrs, slog.String(name, v))
	}
	return slog.GroupValue(attrs...)
}

// NewSecureLogger returns a text logger to w that redacts credentials.
// Verbose enables Debug; otherwise only warnings and errors are written.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output for log aggregation.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
