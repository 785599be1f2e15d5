// Package linkcheck verifies the supplementary links of publication
// records: remote URLs are probed over HTTP and local paths are opened
// as PDFs.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/matsen/pubpage/internal/pdf"
	"github.com/matsen/pubpage/internal/reference"
)

const (
	// DefaultTimeout bounds each remote probe.
	DefaultTimeout = 15 * time.Second

	// RateLimit is the default number of remote probes per second.
	RateLimit = 2.0
)

// Status is the outcome of checking one link.
type Status string

const (
	StatusOK          Status = "ok"
	StatusMissing     Status = "missing"     // 404/410 or no such file
	StatusBroken      Status = "broken"      // other HTTP error, or unreadable PDF
	StatusUnreachable Status = "unreachable" // transport failure
	StatusMismatch    Status = "mismatch"    // PDF prints a different DOI than the record
)

// Result reports one checked link.
type Result struct {
	Key    string `json:"key"`
	Target string `json:"target"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// OK reports whether the link passed.
func (r Result) OK() bool { return r.Status == StatusOK }

// Checker probes links. It is not safe for concurrent use.
type Checker struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	siteRoot   string
	linkField  string
	logger     *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = hc
	}
}

// WithRate sets the remote probe rate in requests per second. A rate of
// zero or less disables the limit.
func WithRate(perSecond float64) Option {
	return func(c *Checker) {
		limit := rate.Limit(perSecond)
		if perSecond <= 0 {
			limit = rate.Inf
		}
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// WithSiteRoot sets the directory local links are resolved against.
func WithSiteRoot(dir string) Option {
	return func(c *Checker) {
		c.siteRoot = dir
	}
}

// WithLinkField sets the record field holding the link.
func WithLinkField(name string) Option {
	return func(c *Checker) {
		c.linkField = name
	}
}

// WithLogger sets the logger for per-link debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		siteRoot:   ".",
		linkField:  reference.FieldHowPublished,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check probes the link of every record that has one, in record order.
// It stops early only if ctx is cancelled.
func (c *Checker) Check(ctx context.Context, recs []reference.Record) ([]Result, error) {
	var results []Result
	for _, rec := range recs {
		target := strings.TrimSpace(rec.Field(c.linkField, ""))
		if target == "" {
			continue
		}
		doi := strings.TrimSpace(rec.Field(reference.FieldDOI, ""))

		res, err := c.CheckTarget(ctx, rec.Key, target, doi)
		if err != nil {
			return results, err
		}
		c.logger.Debug("checked link",
			zap.String("key", res.Key),
			zap.String("target", res.Target),
			zap.String("status", string(res.Status)))
		results = append(results, res)
	}
	return results, nil
}

// CheckTarget probes a single link. doi, when set, is compared against
// the DOI printed in a local PDF.
func (c *Checker) CheckTarget(ctx context.Context, key, target, doi string) (Result, error) {
	res := Result{Key: key, Target: target}
	if isRemote(target) {
		if err := c.limiter.Wait(ctx); err != nil {
			return res, fmt.Errorf("rate limiter: %w", err)
		}
		res.Status, res.Detail = c.probe(ctx, target)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return res, nil
	}
	res.Status, res.Detail = c.inspect(target, doi)
	return res, nil
}

func isRemote(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// probe sends HEAD, falling back to GET for servers that reject HEAD.
func (c *Checker) probe(ctx context.Context, url string) (Status, string) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		resp, err = c.do(ctx, http.MethodGet, url)
	}
	if err != nil {
		return StatusUnreachable, err.Error()
	}

	switch {
	case resp.StatusCode < 400:
		return StatusOK, fmt.Sprintf("HTTP %d", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return StatusMissing, fmt.Sprintf("HTTP %d", resp.StatusCode)
	default:
		return StatusBroken, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
}

// do sends one request and discards the body.
func (c *Checker) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "pubpage-linkcheck")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}

// inspect checks a local link relative to the site root. Leading slashes
// are site-absolute.
func (c *Checker) inspect(target, doi string) (Status, string) {
	rel := strings.TrimPrefix(target, "file://")
	path := filepath.Join(c.siteRoot, filepath.FromSlash(strings.TrimLeft(rel, "/")))

	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StatusMissing, "no such file: " + path
		}
		return StatusBroken, err.Error()
	}
	if fi.IsDir() {
		return StatusBroken, "is a directory: " + path
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return StatusOK, fmt.Sprintf("%d bytes", fi.Size())
	}

	info, err := pdf.Inspect(path)
	if err != nil {
		return StatusBroken, "unreadable PDF: " + err.Error()
	}
	detail := fmt.Sprintf("%d pages", info.Pages)
	if doi != "" && info.DOI != "" && !strings.EqualFold(doi, info.DOI) {
		return StatusMismatch, fmt.Sprintf("%s, prints doi:%s", detail, info.DOI)
	}
	return StatusOK, detail
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}
