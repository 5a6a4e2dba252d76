// Package fileingest turns one uploaded spreadsheet/CSV payload into a
// normalized lien batch, auto-detecting the column layout. Critical for
// regions like Illinois where sale lists ship as downloadable spreadsheets
// rather than scrapeable pages.
package fileingest

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"lienterminal-backend/lib/colmap"
	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/tabular"
)

var tracer = otel.Tracer("lienterminal.sources.fileingest")

type Options struct {
	// Region is the two-letter code the uploaded data belongs to. Required.
	Region string
	// SubRegion labels rows whose table carries no county column.
	SubRegion string
	// Path to a local file, or Content with the raw uploaded bytes. Exactly
	// one is required; Content wins when both are set.
	Path    string
	Content []byte
	// Overrides force specific header-to-field assignments past the
	// automatic mapping.
	Overrides map[string]colmap.Field
	// Threshold overrides the mapping engine's acceptance score.
	Threshold int
}

// Adapter implements sources.Source and sources.Static for file input.
type Adapter struct {
	opts Options

	// last detection result, kept for the correction UI. Read-only side
	// channel, not part of the returned batch.
	mapping  colmap.Mapping
	detected bool
}

var _ sources.Static = (*Adapter)(nil)

func New(opts Options) (*Adapter, error) {
	if !lien.IsSupportedRegion(opts.Region) {
		return nil, &sources.ConfigurationError{
			Region:    opts.Region,
			Supported: lien.SupportedRegions,
			Reason:    "is not supported",
		}
	}
	if len(opts.Content) == 0 && opts.Path == "" {
		return nil, &sources.ConfigurationError{
			Reason: "file ingestion requires a file path or raw content",
		}
	}
	return &Adapter{opts: opts}, nil
}

func (a *Adapter) Platform() lien.SourcePlatform {
	return lien.PlatformManualUpload
}

// SubRegions is empty: uploaded files carry no county enumeration.
func (a *Adapter) SubRegions() []string {
	return nil
}

func (a *Adapter) InputLocator() string {
	if a.opts.Path != "" {
		return a.opts.Path
	}
	return "uploaded file"
}

// Mapping exposes the column mapping detected by the last Fetch, so a caller
// can present unmapped headers for correction. False before any fetch.
func (a *Adapter) Mapping() (colmap.Mapping, bool) {
	return a.mapping, a.detected
}

func (a *Adapter) Fetch(ctx context.Context, opts sources.FetchOptions) (lien.Batch, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("locator", a.InputLocator()))

	table, err := a.load()
	if err != nil {
		return lien.Batch{}, &sources.FormatError{
			Locator: a.InputLocator(),
			Err:     err,
		}
	}

	// headers are table-wide: one mapping decision per fetch, not per row
	a.mapping = colmap.Detect(table.Headers, colmap.Options{
		Threshold: a.opts.Threshold,
		Overrides: a.opts.Overrides,
	})
	a.detected = true
	span.SetAttributes(
		attribute.Int("columns_mapped", len(a.mapping.Columns)),
		attribute.Int("columns_unmapped", len(a.mapping.Unmapped)),
	)

	records := sources.BuildRecords(ctx, table.Headers, table.Rows, a.mapping, sources.RowParams{
		Region:    a.opts.Region,
		SubRegion: a.opts.SubRegion,
		Platform:  lien.PlatformManualUpload,
		Limit:     opts.Limit,
	})
	for _, r := range records {
		r.RawFields["_source"] = a.InputLocator()
	}

	return lien.Batch{
		Records:         records,
		SourceLocator:   a.InputLocator(),
		CapturedAt:      time.Now(),
		RegionFilter:    strings.ToUpper(strings.TrimSpace(a.opts.Region)),
		SubRegionFilter: a.opts.SubRegion,
	}, nil
}

func (a *Adapter) load() (tabular.Table, error) {
	if len(a.opts.Content) > 0 {
		return tabular.Load(a.opts.Content)
	}
	return tabular.LoadFile(a.opts.Path)
}
