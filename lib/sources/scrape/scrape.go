// Package scrape holds the live-session machinery shared by the auction
// platform adapters: HTTP client construction, paced page fetching, and the
// generic header-bearing-table walk that turns a listing page into records.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"lienterminal-backend/lib/colmap"
	"lienterminal-backend/lib/htmlutil"
	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/telemetry"
)

var tracer = otel.Tracer("lienterminal.sources.scrape")

const DefaultTimeout = 30 * time.Second

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Options struct {
	BaseURL string
	// Timeout bounds each request; DefaultTimeout when zero.
	Timeout time.Duration
	// RequestsPerSecond paces page fetches so county sites are not hammered.
	// Defaults to 2.
	RequestsPerSecond float64
}

// Session is the scoped resource an interactive fetch acquires: an HTTP
// client with a cookie jar pinned to one auction site.
type Session struct {
	Http    *resty.Client
	BaseURL *url.URL
	limiter *rate.Limiter
}

// With opens a session, runs fn, and releases the session on every exit
// path. Leaked sessions exhaust connection limits, so adapters must go
// through here rather than holding clients across fetches.
func With(ctx context.Context, opts Options, fn func(ctx context.Context, s *Session) error) error {
	s, err := open(opts)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(ctx, s)
}

func open(opts Options) (*Session, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "lienterminal.sources.scrape.http")

	return &Session{
		Http:    client,
		BaseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (s *Session) close() {
	s.Http.GetClient().CloseIdleConnections()
}

// GetDocument fetches one page through the session's rate limiter and
// parses it.
func (s *Session) GetDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := s.Http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("unexpected status %s for %s", res.Status(), pageURL)
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// PostForm submits a form through the session's rate limiter and parses the
// resulting page.
func (s *Session) PostForm(ctx context.Context, action string, form map[string]string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := s.Http.R().SetContext(ctx).SetFormData(form).Post(action)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("unexpected status %s for %s", res.Status(), action)
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// PageRecords walks the page's header-bearing tables and extracts records
// from the first one whose headers map to a parcel id column. The other
// tables on these sites are navigation chrome around the one sale list.
func PageRecords(ctx context.Context, doc *goquery.Document, params sources.RowParams) []lien.Record {
	ctx, span := tracer.Start(ctx, "PageRecords")
	defer span.End()

	for _, table := range htmlutil.Tables(ctx, doc) {
		mapping := colmap.Detect(table.Headers, colmap.Options{})
		if _, ok := mapping.HeaderFor(colmap.FieldParcelID); !ok {
			continue
		}
		return sources.BuildRecords(ctx, table.Headers, table.Rows, mapping, params)
	}
	return nil
}

// NextPageURL finds the pagination link on a listing page, resolved against
// the page's base. False when the last page is reached.
func NextPageURL(doc *goquery.Document, base *url.URL) (string, bool) {
	var next string
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		label := htmlutil.CellText(a)
		if label != "Next" && label != "Next »" && label != ">" && a.AttrOr("rel", "") != "next" {
			return true
		}
		href := a.AttrOr("href", "")
		if href == "" || href == "#" {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		next = base.ResolveReference(ref).String()
		return false
	})
	return next, next != ""
}
