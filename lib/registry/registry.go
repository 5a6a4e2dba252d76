// Package registry maps jurisdiction codes onto the adapters that can serve
// them and constructs the right one for a request. The region table is an
// explicit constructed value, not package-level state, so tests and callers
// can substitute their own without global side effects.
package registry

import (
	"fmt"
	"strings"
	"time"

	"lienterminal-backend/lib/colmap"
	"lienterminal-backend/lib/configutil"
	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/sources/fileingest"
	"lienterminal-backend/lib/sources/realauction"
	"lienterminal-backend/lib/sources/zeus"
)

// RegionConfig describes one supported jurisdiction: which platform is
// preferred, which ones can stand in, and whether spreadsheets can always be
// uploaded for it.
type RegionConfig struct {
	Code           string                `json:"code"`
	Name           string                `json:"name"`
	Primary        lien.SourcePlatform   `json:"primary"`
	Fallbacks      []lien.SourcePlatform `json:"fallbacks"`
	SupportsUpload bool                  `json:"supports_upload"`
	LiveScraping   bool                  `json:"live_scraping"`
	Notes          string                `json:"notes"`
}

// SourceOptions carries the per-request construction parameters handed to
// whichever factory wins resolution. Fields irrelevant to the chosen
// platform are ignored.
type SourceOptions struct {
	SubRegion string
	Timeout   time.Duration

	// file ingestion
	Path      string
	Content   []byte
	Overrides map[string]colmap.Field

	// scraping
	Credentials zeus.Credentials
	UseDemo     bool
}

// Factory constructs a validated adapter for one platform.
type Factory func(region string, opts SourceOptions) (sources.Source, error)

type Registry struct {
	order     []string
	regions   map[string]RegionConfig
	factories map[lien.SourcePlatform]Factory
}

// New builds a registry from an explicit region table and platform
// factories.
func New(regions []RegionConfig, factories map[lien.SourcePlatform]Factory) *Registry {
	r := &Registry{
		regions:   make(map[string]RegionConfig, len(regions)),
		factories: factories,
	}
	for _, cfg := range regions {
		code := strings.ToUpper(strings.TrimSpace(cfg.Code))
		cfg.Code = code
		if _, seen := r.regions[code]; !seen {
			r.order = append(r.order, code)
		}
		r.regions[code] = cfg
	}
	return r
}

// Default returns a registry covering the full supported region set with the
// built-in platform factories.
func Default() *Registry {
	return New(DefaultRegions(), DefaultFactories())
}

// FromConfigFile builds a registry from a json5 region table on disk
// (merged with any `.local` override next to it), using the built-in
// factories.
func FromConfigFile(name string) (*Registry, error) {
	regions, err := configutil.ReadConfig[[]RegionConfig](name)
	if err != nil {
		return nil, err
	}
	return New(regions, DefaultFactories()), nil
}

// ResolveOptions selects which adapter services a request.
type ResolveOptions struct {
	// PlatformHint forces a platform. The manual-upload platform always
	// wins when hinted; any other hint picks the first candidate
	// advertising it, falling back to the region's preferred candidate.
	PlatformHint lien.SourcePlatform
	Source       SourceOptions
}

// Resolve returns a constructed, validated adapter for the region. An
// unsupported region fails fast with a *sources.ConfigurationError naming
// the supported set, before any I/O is attempted.
func (r *Registry) Resolve(region string, opts ResolveOptions) (sources.Source, error) {
	code := strings.ToUpper(strings.TrimSpace(region))
	cfg, ok := r.regions[code]
	if !ok {
		return nil, &sources.ConfigurationError{
			Region:    code,
			Supported: r.Regions(),
			Reason:    "is not supported",
		}
	}

	platform := cfg.Primary
	switch {
	case opts.PlatformHint == lien.PlatformManualUpload:
		platform = lien.PlatformManualUpload
	case opts.PlatformHint != "":
		for _, candidate := range cfg.candidates() {
			if candidate == opts.PlatformHint {
				platform = candidate
				break
			}
		}
	}

	factory, ok := r.factories[platform]
	if !ok {
		return nil, &sources.ConfigurationError{
			Region:    code,
			Supported: r.Regions(),
			Reason:    fmt.Sprintf("has no factory for platform %q", platform),
		}
	}
	return factory(code, opts.Source)
}

// Regions lists the supported region codes in declaration order.
func (r *Registry) Regions() []string {
	return append([]string(nil), r.order...)
}

// Region returns the configuration for one region code.
func (r *Registry) Region(code string) (RegionConfig, bool) {
	cfg, ok := r.regions[strings.ToUpper(strings.TrimSpace(code))]
	return cfg, ok
}

// AvailablePlatforms lists the platforms that can serve a region, preferred
// first, with manual upload appended when the region supports it.
func (r *Registry) AvailablePlatforms(region string) []lien.SourcePlatform {
	cfg, ok := r.Region(region)
	if !ok {
		return nil
	}
	platforms := cfg.candidates()
	if cfg.SupportsUpload && !contains(platforms, lien.PlatformManualUpload) {
		platforms = append(platforms, lien.PlatformManualUpload)
	}
	return platforms
}

// SubRegionsFor enumerates the counties a region's platform can serve.
// Empty when the platform has no fixed county enumeration, as with manual
// uploads.
func (r *Registry) SubRegionsFor(region string, hint lien.SourcePlatform) []string {
	cfg, ok := r.Region(region)
	if !ok {
		return nil
	}
	platform := cfg.Primary
	if hint != "" && contains(cfg.candidates(), hint) {
		platform = hint
	}
	switch platform {
	case lien.PlatformRealAuction:
		return realauction.Counties(cfg.Code)
	case lien.PlatformZeus:
		return zeus.Counties(cfg.Code)
	}
	return nil
}

// LiveScrapingAvailable reports whether a region has a live scrape source.
func (r *Registry) LiveScrapingAvailable(region string) bool {
	cfg, ok := r.Region(region)
	return ok && cfg.LiveScraping
}

// Notes returns the operator notes recorded for a region.
func (r *Registry) Notes(region string) string {
	cfg, _ := r.Region(region)
	return cfg.Notes
}

func (cfg RegionConfig) candidates() []lien.SourcePlatform {
	out := make([]lien.SourcePlatform, 0, 1+len(cfg.Fallbacks))
	out = append(out, cfg.Primary)
	return append(out, cfg.Fallbacks...)
}

func contains(list []lien.SourcePlatform, p lien.SourcePlatform) bool {
	for _, c := range list {
		if c == p {
			return true
		}
	}
	return false
}

// DefaultFactories wires the built-in adapters.
func DefaultFactories() map[lien.SourcePlatform]Factory {
	return map[lien.SourcePlatform]Factory{
		lien.PlatformRealAuction: func(region string, opts SourceOptions) (sources.Source, error) {
			return realauction.New(realauction.Options{
				Region:    region,
				SubRegion: opts.SubRegion,
				UseDemo:   opts.UseDemo,
				Timeout:   opts.Timeout,
			})
		},
		lien.PlatformZeus: func(region string, opts SourceOptions) (sources.Source, error) {
			return zeus.New(zeus.Options{
				Region:      region,
				SubRegion:   opts.SubRegion,
				Credentials: opts.Credentials,
				Timeout:     opts.Timeout,
			})
		},
		lien.PlatformManualUpload: func(region string, opts SourceOptions) (sources.Source, error) {
			return fileingest.New(fileingest.Options{
				Region:    region,
				SubRegion: opts.SubRegion,
				Path:      opts.Path,
				Content:   opts.Content,
				Overrides: opts.Overrides,
			})
		},
	}
}

// DefaultRegions is the built-in region table. Notes come from the field
// research on each jurisdiction's sale mechanics.
func DefaultRegions() []RegionConfig {
	return []RegionConfig{
		{
			Code: "FL", Name: "Florida",
			Primary:        lien.PlatformRealAuction,
			Fallbacks:      []lien.SourcePlatform{lien.PlatformManualUpload},
			SupportsUpload: true, LiveScraping: true,
			Notes: "30+ counties on RealAuction sites, year-round county-held certificates.",
		},
		{
			Code: "AZ", Name: "Arizona",
			Primary:        lien.PlatformRealAuction,
			Fallbacks:      []lien.SourcePlatform{lien.PlatformManualUpload},
			SupportsUpload: true,
			Notes: "16% max rate, February auctions. Registration required for bidding.",
		},
		{
			Code: "IL", Name: "Illinois",
			Primary:        lien.PlatformManualUpload,
			SupportsUpload: true,
			Notes: "Cook County sale lists are sold as spreadsheets; December auctions.",
		},
		{
			Code: "NJ", Name: "New Jersey",
			Primary:        lien.PlatformRealAuction,
			Fallbacks:      []lien.SourcePlatform{lien.PlatformManualUpload},
			SupportsUpload: true,
			Notes: "565 municipalities, each runs its own sale.",
		},
		{
			Code: "IN", Name: "Indiana",
			Primary:        lien.PlatformZeus,
			Fallbacks:      []lien.SourcePlatform{lien.PlatformManualUpload},
			SupportsUpload: true,
			Notes: "Zeus Auction portal, registration required.",
		},
		{
			Code: "CO", Name: "Colorado",
			Primary:        lien.PlatformRealAuction,
			Fallbacks:      []lien.SourcePlatform{lien.PlatformZeus, lien.PlatformManualUpload},
			SupportsUpload: true,
			Notes: "14% rate (2025), October-November auctions. Some counties on Zeus.",
		},
		{
			Code: "IA", Name: "Iowa",
			Primary:        lien.PlatformZeus,
			Fallbacks:      []lien.SourcePlatform{lien.PlatformManualUpload},
			SupportsUpload: true,
			Notes: "24% rate, June auctions.",
		},
		{
			Code: "MS", Name: "Mississippi",
			Primary:        lien.PlatformManualUpload,
			SupportsUpload: true,
			Notes: "Premium bid auctions in April/August; lists arrive as uploads.",
		},
		{
			Code: "AL", Name: "Alabama",
			Primary:        lien.PlatformManualUpload,
			SupportsUpload: true,
			Notes: "Interest rate bid-down, max 12%, March-June sales.",
		},
		{
			Code: "SC", Name: "South Carolina",
			Primary:        lien.PlatformManualUpload,
			SupportsUpload: true,
			Notes: "Tax deed state, 12-month redemption, November-December sales.",
		},
	}
}
