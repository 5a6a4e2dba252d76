// Package zeus scrapes the Zeus Auction / SRI Services portal used by
// Indiana, Iowa and some Colorado counties. Zeus requires a registered
// account; fetching without working credentials fails with a
// SourceUnavailableError rather than returning partial data.
package zeus

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/sources/scrape"
)

var tracer = otel.Tracer("lienterminal.sources.zeus")

const baseURL = "https://www.zeusauction.com/"

// Zeus runs one portal; county selection happens on the sale list page.
var regionCounties = map[string][]string{
	"IN": {"marion", "lake", "hamilton"},
	"IA": {"polk", "linn"},
	"CO": {"adams", "jefferson"},
}

var errLoginFailed = errors.New("login rejected, check the account credentials")
var errNoCredentials = errors.New("no credentials configured")

type Credentials struct {
	Username string
	Password string
}

type Options struct {
	Region      string
	SubRegion   string
	Credentials Credentials
	Timeout     time.Duration
}

// Adapter implements sources.Source and sources.Interactive for the Zeus
// platform.
type Adapter struct {
	region    string
	subRegion string
	creds     Credentials
	timeout   time.Duration
}

var _ sources.Interactive = (*Adapter)(nil)

func New(opts Options) (*Adapter, error) {
	region := strings.ToUpper(strings.TrimSpace(opts.Region))
	if _, ok := regionCounties[region]; !ok {
		return nil, &sources.ConfigurationError{
			Region:    region,
			Supported: supportedRegions(),
			Reason:    "is not served by Zeus Auction",
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = scrape.DefaultTimeout
	}

	return &Adapter{
		region:    region,
		subRegion: strings.TrimSpace(opts.SubRegion),
		creds:     opts.Credentials,
		timeout:   timeout,
	}, nil
}

func (a *Adapter) Platform() lien.SourcePlatform {
	return lien.PlatformZeus
}

var titleCaser = cases.Title(language.AmericanEnglish)

func (a *Adapter) SubRegions() []string {
	return Counties(a.region)
}

// Counties lists the counties known to hold sales on the Zeus portal in a
// region.
func Counties(region string) []string {
	counties := regionCounties[strings.ToUpper(strings.TrimSpace(region))]
	names := make([]string, len(counties))
	for i, c := range counties {
		names[i] = titleCaser.String(c)
	}
	sort.Strings(names)
	return names
}

func (a *Adapter) SessionTimeout() time.Duration {
	return a.timeout
}

func (a *Adapter) Fetch(ctx context.Context, opts sources.FetchOptions) (lien.Batch, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("region", a.region))

	var records []lien.Record
	err := scrape.With(ctx, scrape.Options{
		BaseURL: baseURL,
		Timeout: a.timeout,
	}, func(ctx context.Context, s *scrape.Session) error {
		listPage, err := a.login(ctx, s)
		if err != nil {
			return err
		}

		records = scrape.PageRecords(ctx, listPage, sources.RowParams{
			Region:    a.region,
			SubRegion: a.subRegion,
			Platform:  lien.PlatformZeus,
			Limit:     opts.Limit,
		})
		return nil
	})
	if err != nil {
		return lien.Batch{}, &sources.SourceUnavailableError{
			Platform: lien.PlatformZeus,
			URL:      baseURL,
			Err:      err,
		}
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return lien.Batch{
		Records:         records,
		SourceLocator:   baseURL,
		CapturedAt:      time.Now(),
		RegionFilter:    a.region,
		SubRegionFilter: a.subRegion,
	}, nil
}

// login walks the portal's login form and returns the post-login page. Zeus
// renders the same form again when the credentials are rejected.
func (a *Adapter) login(ctx context.Context, s *scrape.Session) (*goquery.Document, error) {
	if a.creds.Username == "" || a.creds.Password == "" {
		return nil, errNoCredentials
	}

	loginPage, err := s.GetDocument(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	form := loginPage.Find("form").FilterFunction(func(_ int, f *goquery.Selection) bool {
		return f.Find("input[type=password]").Length() > 0
	}).First()
	if form.Length() == 0 {
		return nil, errors.New("could not find the login form")
	}

	fields := map[string]string{}
	form.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name != "" {
			fields[name] = input.AttrOr("value", "")
		}
	})
	userField := form.Find("input[type=text], input[type=email]").First().AttrOr("name", "username")
	passField := form.Find("input[type=password]").First().AttrOr("name", "password")
	fields[userField] = a.creds.Username
	fields[passField] = a.creds.Password

	action := form.AttrOr("action", baseURL)
	result, err := s.PostForm(ctx, action, fields)
	if err != nil {
		return nil, err
	}
	if result.Find("input[type=password]").Length() > 0 {
		return nil, errLoginFailed
	}
	return result, nil
}

func supportedRegions() []string {
	regions := make([]string, 0, len(regionCounties))
	for r := range regionCounties {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
