// Package lien defines the normalized record model every ingestion source
// must produce. All data from any source (RealAuction, Zeus, file upload)
// is transformed into this one schema.
package lien

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SupportedRegions is the closed set of two-letter jurisdiction codes the
// system knows how to ingest. Order matters nowhere, but keep it stable for
// error messages.
var SupportedRegions = []string{"IL", "FL", "AZ", "NJ", "IN", "CO", "IA", "MS", "AL", "SC"}

var supportedRegionSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SupportedRegions))
	for _, r := range SupportedRegions {
		m[r] = struct{}{}
	}
	return m
}()

// IsSupportedRegion reports whether code (any case) names a supported
// jurisdiction.
func IsSupportedRegion(code string) bool {
	_, ok := supportedRegionSet[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// SourcePlatform tags a record with the platform it was obtained from.
type SourcePlatform string

const (
	PlatformRealAuction  SourcePlatform = "RealAuction"
	PlatformZeus         SourcePlatform = "Zeus"
	PlatformManualUpload SourcePlatform = "Manual Upload"
	PlatformUnknown      SourcePlatform = "Unknown"
)

// ValidationError reports a record input that violates a model invariant.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

var titleCaser = cases.Title(language.AmericanEnglish)

// Record is one normalized certificate/deed observation.
//
// Construct records through NewRecord, never literally: normalization and
// invariant checks only happen there. A record is never mutated after
// construction, except that adapters may annotate RawFields with provenance.
type Record struct {
	// Region is the two-letter jurisdiction code, always upper case.
	Region string
	// SubRegion is the county/municipality name, title-cased, never empty.
	SubRegion string
	// ParcelID is unique within a sub-region. The jurisdiction's format is
	// preserved verbatim apart from trimming and upper-casing.
	ParcelID string
	Address  string
	// AssessedValue is the county's property valuation, nil when the source
	// did not supply one.
	AssessedValue *float64
	// FaceAmount is the amount owed (lien value). Zero when the source could
	// not determine it, never negative.
	FaceAmount float64
	// BidInterestRate is the winning auction rate in [0, 100], nil when
	// unknown.
	BidInterestRate *float64
	AuctionDate     *time.Time
	SourcePlatform  SourcePlatform
	// RawFields retains the original source fields for audit purposes. It is
	// never interpreted by downstream logic.
	RawFields map[string]string
}

// RecordInput carries the raw values for one record prior to validation.
type RecordInput struct {
	Region          string
	SubRegion       string
	ParcelID        string
	Address         string
	AssessedValue   *float64
	FaceAmount      float64
	BidInterestRate *float64
	AuctionDate     *time.Time
	SourcePlatform  SourcePlatform
	RawFields       map[string]string
}

// NewRecord validates and normalizes in, returning a *ValidationError when
// any invariant is violated. Normalization is deterministic: two semantically
// identical inputs produce the same stored values.
func NewRecord(in RecordInput) (Record, error) {
	region := strings.ToUpper(strings.TrimSpace(in.Region))
	if _, ok := supportedRegionSet[region]; !ok {
		return Record{}, &ValidationError{
			Field:  "region",
			Value:  region,
			Reason: fmt.Sprintf("not in supported set %v", SupportedRegions),
		}
	}

	subRegion := titleCaser.String(strings.TrimSpace(in.SubRegion))
	if subRegion == "" {
		return Record{}, &ValidationError{
			Field:  "sub_region",
			Value:  in.SubRegion,
			Reason: "must not be empty",
		}
	}

	parcel := strings.Trim(strings.TrimSpace(in.ParcelID), `"'`)
	parcel = strings.ToUpper(parcel)
	if parcel == "" {
		return Record{}, &ValidationError{
			Field:  "parcel_id",
			Value:  in.ParcelID,
			Reason: "must not be empty",
		}
	}

	if in.FaceAmount < 0 {
		return Record{}, &ValidationError{
			Field:  "face_amount",
			Value:  fmt.Sprintf("%v", in.FaceAmount),
			Reason: "must not be negative",
		}
	}
	if in.AssessedValue != nil && *in.AssessedValue < 0 {
		return Record{}, &ValidationError{
			Field:  "assessed_value",
			Value:  fmt.Sprintf("%v", *in.AssessedValue),
			Reason: "must not be negative",
		}
	}
	if in.BidInterestRate != nil && (*in.BidInterestRate < 0 || *in.BidInterestRate > 100) {
		return Record{}, &ValidationError{
			Field:  "bid_interest_rate",
			Value:  fmt.Sprintf("%v", *in.BidInterestRate),
			Reason: "must be within [0, 100]",
		}
	}

	platform := in.SourcePlatform
	if platform == "" {
		platform = PlatformUnknown
	}

	return Record{
		Region:          region,
		SubRegion:       subRegion,
		ParcelID:        parcel,
		Address:         strings.TrimSpace(in.Address),
		AssessedValue:   in.AssessedValue,
		FaceAmount:      in.FaceAmount,
		BidInterestRate: in.BidInterestRate,
		AuctionDate:     in.AuctionDate,
		SourcePlatform:  platform,
		RawFields:       in.RawFields,
	}, nil
}

// LoanToValue returns the lien-to-value ratio as a percentage, rounded to two
// decimals. It is the key risk metric: lower means safer. The second return
// is false when the assessed value is absent or zero, in which case the ratio
// is undefined.
func (r Record) LoanToValue() (float64, bool) {
	if r.AssessedValue == nil || *r.AssessedValue <= 0 {
		return 0, false
	}
	return round2(r.FaceAmount / *r.AssessedValue * 100), true
}

// EquityCushion returns 100 minus the LTV ratio: the share of property value
// not encumbered by the lien. Undefined whenever LoanToValue is.
func (r Record) EquityCushion() (float64, bool) {
	ltv, ok := r.LoanToValue()
	if !ok {
		return 0, false
	}
	return round2(100 - ltv), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Float returns a pointer to v, for optional numeric record fields.
func Float(v float64) *float64 {
	return &v
}

// Date returns a pointer to midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
