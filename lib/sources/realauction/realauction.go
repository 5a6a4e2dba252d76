// Package realauction scrapes the RealAuction county sites used by many
// Florida, Arizona, Colorado and New Jersey tax lien certificate auctions.
// Public preview lists are available without a login.
package realauction

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/sources/scrape"
)

var tracer = otel.Tracer("lienterminal.sources.realauction")

// Known county sites per region. Each county runs its own subdomain.
var sites = map[string]map[string]string{
	"FL": {
		"duval":        "https://duval.realtaxlien.com/",
		"hillsborough": "https://hillsborough.realtaxlien.com/",
		"orange":       "https://orange.realtaxlien.com/",
	},
	"AZ": {
		"maricopa": "https://maricopa.realtaxlien.com/",
		"pima":     "https://pima.realtaxlien.com/",
	},
	"CO": {
		"denver": "https://denver.realtaxlien.com/",
	},
	"NJ": {},
}

const demoURL = "https://demo.realtaxlien.com/"

const defaultMaxPages = 5

type Options struct {
	Region    string
	SubRegion string
	// UseDemo targets the platform's demo site instead of a county site.
	UseDemo bool
	// Timeout bounds each request in a fetch session.
	Timeout time.Duration
	// MaxPages caps pagination; defaultMaxPages when zero.
	MaxPages int
}

// Adapter implements sources.Source and sources.Interactive for the
// RealAuction platform.
type Adapter struct {
	region    string
	subRegion string
	siteURL   string
	timeout   time.Duration
	maxPages  int
}

var _ sources.Interactive = (*Adapter)(nil)

func New(opts Options) (*Adapter, error) {
	region := strings.ToUpper(strings.TrimSpace(opts.Region))
	counties, ok := sites[region]
	if !ok {
		return nil, &sources.ConfigurationError{
			Region:    region,
			Supported: supportedRegions(),
			Reason:    "is not served by RealAuction",
		}
	}

	siteURL := demoURL
	if !opts.UseDemo {
		slug := countySlug(opts.SubRegion)
		siteURL, ok = counties[slug]
		if !ok {
			return nil, &sources.ConfigurationError{
				Region:    region,
				Supported: countyNames(counties),
				Reason:    "has no RealAuction site for county " + strings.TrimSpace(opts.SubRegion),
			}
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = scrape.DefaultTimeout
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	return &Adapter{
		region:    region,
		subRegion: strings.TrimSpace(opts.SubRegion),
		siteURL:   siteURL,
		timeout:   timeout,
		maxPages:  maxPages,
	}, nil
}

func (a *Adapter) Platform() lien.SourcePlatform {
	return lien.PlatformRealAuction
}

func (a *Adapter) SubRegions() []string {
	return Counties(a.region)
}

// Counties lists the counties with a known RealAuction site in a region.
func Counties(region string) []string {
	return countyNames(sites[strings.ToUpper(strings.TrimSpace(region))])
}

func (a *Adapter) SessionTimeout() time.Duration {
	return a.timeout
}

func (a *Adapter) Fetch(ctx context.Context, opts sources.FetchOptions) (lien.Batch, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("region", a.region),
		attribute.String("site", a.siteURL),
	)

	var records []lien.Record
	err := scrape.With(ctx, scrape.Options{
		BaseURL: a.siteURL,
		Timeout: a.timeout,
	}, func(ctx context.Context, s *scrape.Session) error {
		pageURL := a.siteURL
		for page := 0; page < a.maxPages; page++ {
			doc, err := s.GetDocument(ctx, pageURL)
			if err != nil {
				return err
			}

			records = append(records, scrape.PageRecords(ctx, doc, sources.RowParams{
				Region:    a.region,
				SubRegion: a.subRegion,
				Platform:  lien.PlatformRealAuction,
				Limit:     remaining(opts.Limit, len(records)),
			})...)
			if opts.Limit > 0 && len(records) >= opts.Limit {
				break
			}

			next, ok := scrape.NextPageURL(doc, s.BaseURL)
			if !ok {
				break
			}
			pageURL = next
		}
		return nil
	})
	if err != nil {
		return lien.Batch{}, &sources.SourceUnavailableError{
			Platform: lien.PlatformRealAuction,
			URL:      a.siteURL,
			Err:      err,
		}
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return lien.Batch{
		Records:         records,
		SourceLocator:   a.siteURL,
		CapturedAt:      time.Now(),
		RegionFilter:    a.region,
		SubRegionFilter: a.subRegion,
	}, nil
}

func remaining(limit, have int) int {
	if limit <= 0 {
		return 0
	}
	left := limit - have
	if left < 0 {
		return 0
	}
	return left
}

func countySlug(county string) string {
	slug := strings.ToLower(strings.TrimSpace(county))
	slug = strings.ReplaceAll(slug, " ", "")
	return strings.ReplaceAll(slug, "-", "")
}

var titleCaser = cases.Title(language.AmericanEnglish)

func countyNames(counties map[string]string) []string {
	names := make([]string, 0, len(counties))
	for slug := range counties {
		names = append(names, titleCaser.String(slug))
	}
	sort.Strings(names)
	return names
}

func supportedRegions() []string {
	regions := make([]string, 0, len(sites))
	for r := range sites {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
