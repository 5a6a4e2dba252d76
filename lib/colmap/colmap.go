// Package colmap reconciles arbitrary spreadsheet/table headers onto the
// canonical lien record fields, using approximate string matching against a
// curated synonym set per field. No manual configuration is needed, but every
// decision can be corrected with explicit overrides.
package colmap

import (
	"sort"

	"github.com/antzucaro/matchr"

	"lienterminal-backend/lib/parseutil"
)

// Field names a canonical record attribute a column can supply.
type Field string

const (
	FieldParcelID      Field = "parcel_id"
	FieldAddress       Field = "address"
	FieldAssessedValue Field = "assessed_value"
	FieldFaceAmount    Field = "face_amount"
	FieldInterestRate  Field = "interest_rate_bid"
	FieldAuctionDate   Field = "auction_date"
	FieldCounty        Field = "county"
)

type synonymSet struct {
	field    Field
	synonyms []string
}

// targetFields lists, per canonical field, the header variants counties use.
// The declaration order doubles as the tie-break order: a header that would
// fuzzily match two fields is always awarded to whichever field appears first
// here. That is load-bearing for reproducibility, do not reorder casually.
var targetFields = []synonymSet{
	{FieldParcelID, []string{
		"parcel id", "parcel number", "parcel", "parcel #", "pin",
		"property index number", "apn", "assessor parcel number",
		"account number", "account", "tax id", "property id",
		"certificate number", "cert #", "key number",
	}},
	{FieldAddress, []string{
		"property address", "address", "situs address", "location",
		"property location", "street address", "street", "site address",
	}},
	{FieldAssessedValue, []string{
		"assessed value", "assessed", "total assessed value", "just value",
		"market value", "property value", "taxable value", "total value",
		"fair market value", "fmv",
	}},
	{FieldFaceAmount, []string{
		"face amount", "face value", "tax amount", "amount due", "total due",
		"total tax", "taxes due", "delinquent amount", "minimum bid",
		"opening bid", "upset price", "redemption amount", "lien amount",
	}},
	{FieldInterestRate, []string{
		"interest rate", "rate", "bid rate", "winning rate", "bid %",
		"interest %",
	}},
	{FieldAuctionDate, []string{
		"auction date", "sale date", "tax sale date", "date",
	}},
	{FieldCounty, []string{
		"county", "county name",
	}},
}

// DefaultThreshold is the minimum similarity score (0-100) for an automatic
// match.
const DefaultThreshold = 70

type Options struct {
	// Threshold overrides DefaultThreshold when positive.
	Threshold int
	// Overrides maps an observed header directly onto a field. Overrides win
	// unconditionally over the automatic pass, even stealing headers it
	// already claimed for another field.
	Overrides map[string]Field
}

// Mapping is the result of one detection pass over a table's headers.
type Mapping struct {
	// Columns maps each claimed observed header to its canonical field.
	Columns map[string]Field
	// Unmapped lists the observed headers no field claimed, in source order.
	// Exposed so a reviewer or UI can inspect and correct the mapping.
	Unmapped []string
}

// Fields returns the canonical fields in declared priority order.
func Fields() []Field {
	fields := make([]Field, len(targetFields))
	for i, target := range targetFields {
		fields[i] = target.field
	}
	return fields
}

// HeaderFor returns the observed header claimed for field, if any.
func (m Mapping) HeaderFor(field Field) (string, bool) {
	for header, f := range m.Columns {
		if f == field {
			return header, true
		}
	}
	return "", false
}

// Similarity scores two strings on a symmetric 0-100 scale using the
// character-level Levenshtein ratio. Both inputs are compared as given;
// callers normalize case and whitespace first.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	if la+lb == 0 {
		return 100
	}
	d := matchr.Levenshtein(a, b)
	score := 100 * (la + lb - 2*d) / (la + lb)
	if score < 0 {
		return 0
	}
	return score
}

// Detect decides which observed header supplies which canonical field.
//
// The pass is greedy, one-to-one and deterministic: fields are considered in
// declared order, an exact case-insensitive synonym hit scores 100 and wins
// immediately, otherwise the best-scoring unclaimed header is taken when it
// meets the threshold. A claimed header is removed from consideration by
// later fields. Detect never fails: fields nobody matched simply stay out of
// the mapping, and the leftover headers are reported in Mapping.Unmapped.
func Detect(headers []string, opts Options) Mapping {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = parseutil.NormalizeLabel(h)
	}

	columns := make(map[string]Field)
	claimed := make(map[string]struct{})

	for _, target := range targetFields {
		bestHeader := ""
		bestScore := 0

		for i, header := range headers {
			if _, taken := claimed[header]; taken {
				continue
			}

			if exactMatch(normalized[i], target.synonyms) {
				bestHeader = header
				bestScore = 100
				break
			}
			for _, syn := range target.synonyms {
				if score := Similarity(normalized[i], syn); score > bestScore {
					bestScore = score
					bestHeader = header
				}
			}
		}

		if bestHeader != "" && bestScore >= threshold {
			columns[bestHeader] = target.field
			claimed[bestHeader] = struct{}{}
		}
	}

	applyOverrides(columns, headers, opts.Overrides)

	var unmapped []string
	for _, header := range headers {
		if _, ok := columns[header]; !ok {
			unmapped = append(unmapped, header)
		}
	}

	return Mapping{Columns: columns, Unmapped: unmapped}
}

func exactMatch(normalizedHeader string, synonyms []string) bool {
	for _, syn := range synonyms {
		if normalizedHeader == syn {
			return true
		}
	}
	return false
}

func applyOverrides(columns map[string]Field, headers []string, overrides map[string]Field) {
	if len(overrides) == 0 {
		return
	}

	observed := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		observed[h] = struct{}{}
	}

	// sorted for a deterministic outcome when overrides collide
	keys := make([]string, 0, len(overrides))
	for header := range overrides {
		keys = append(keys, header)
	}
	sort.Strings(keys)

	for _, header := range keys {
		if _, ok := observed[header]; !ok {
			continue
		}
		field := overrides[header]
		// an override displaces whatever the automatic pass assigned, both
		// for this header and for any other header holding the target field
		for other, f := range columns {
			if f == field && other != header {
				delete(columns, other)
			}
		}
		columns[header] = field
	}
}
