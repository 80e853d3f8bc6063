package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/log"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// maxBodySize bounds the bytes read from one response.
const maxBodySize = 8 << 20

// Rate-limit tier boundaries derived from Retry-After.
const (
	shortRetryAfter  = 30 * time.Second
	mediumRetryAfter = 120 * time.Second
)

// HTTPConfig configures the HTTP fetcher.
type HTTPConfig struct {
	// URLTemplate is the signed query URL with {origin}, {destination} and
	// {date} placeholders.
	URLTemplate string

	// Headers are set on every request, typically authorization.
	Headers map[string]string

	// ProxyAddress is an optional SOCKS5 proxy (host:port).
	ProxyAddress string

	// Timeout bounds one request.
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// HTTP fetches legs from the signed query endpoint.
type HTTP struct {
	cfg    HTTPConfig
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// HTTPOption configures an HTTP fetcher.
type HTTPOption func(*HTTP)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client. Configured headers are still injected.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = client
	}
}

// NewHTTP creates an HTTP fetcher.
func NewHTTP(cfg HTTPConfig, opts ...HTTPOption) (*HTTP, error) {
	for _, p := range []string{"{origin}", "{destination}", "{date}"} {
		if !strings.Contains(cfg.URLTemplate, p) {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidURLTemplate, p)
		}
	}

	h := &HTTP{cfg: cfg, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(h)
	}

	if h.client == nil {
		transport, err := newTransport(cfg.ProxyAddress)
		if err != nil {
			return nil, err
		}
		h.client = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}

	base := h.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client := *h.client
	client.Transport = &headerInjectingTransport{base: base, headers: cfg.Headers}
	h.client = &client

	h.logger.Debug("leg fetcher configured",
		slog.String("url_template", log.MaskURL(cfg.URLTemplate)),
		slog.Bool("proxy", cfg.ProxyAddress != ""),
		slog.Attr{Key: "headers", Value: log.Headers(cfg.Headers)},
	)
	return h, nil
}

// QueryURL expands the URL template for one hop.
func (h *HTTP) QueryURL(origin, destination string, date time.Time) string {
	r := strings.NewReplacer(
		"{origin}", url.PathEscape(origin),
		"{destination}", url.PathEscape(destination),
		"{date}", model.FormatDate(date),
	)
	return r.Replace(h.cfg.URLTemplate)
}

// Fetch performs one query.
func (h *HTTP) Fetch(ctx context.Context, origin, destination string, date time.Time) ([]model.RawLeg, error) {
	target := h.QueryURL(origin, destination, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, Transport(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if h.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", h.cfg.UserAgent)
	}

	h.logger.Debug("fetching legs", slog.String("url", target))

	resp, err := h.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, Transport(fmt.Errorf("failed to read response: %w", err))
	}

	if fe := h.classifyStatus(resp); fe != nil {
		return nil, fe
	}

	return decodeFlights(body)
}

func (h *HTTP) classifyStatus(resp *http.Response) *Error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		tier := RetryAfterTier(resp.Header.Get("Retry-After"), h.now())
		return &Error{Kind: KindRateLimited, Tier: tier, Status: resp.StatusCode, Err: errors.New("too many requests")}
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return &Error{Kind: KindBadRequest, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return nil
}

// RetryAfterTier maps a Retry-After header (seconds or HTTP date) to a tier.
// A missing or unparsable header is TierShort.
func RetryAfterTier(value string, now time.Time) Tier {
	value = strings.TrimSpace(value)
	if value == "" {
		return TierShort
	}

	var wait time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		wait = at.Sub(now)
	} else {
		return TierShort
	}

	switch {
	case wait <= shortRetryAfter:
		return TierShort
	case wait <= mediumRetryAfter:
		return TierMedium
	default:
		return TierLong
	}
}

func decodeFlights(body []byte) ([]model.RawLeg, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, Malformed(fmt.Errorf("failed to decode response: %w", err))
	}
	if r.Flights == nil {
		return nil, Malformed(errors.New(`response has no "flights" field`))
	}
	return *r.Flights, nil
}
