package sources

import (
	"context"
	"log/slog"

	"lienterminal-backend/lib/colmap"
	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/parseutil"
)

// RowParams configures BuildRecords for one table.
type RowParams struct {
	Region string
	// SubRegion is the fallback county when the table maps no county column.
	SubRegion string
	Platform  lien.SourcePlatform
	// Limit caps the number of records built, zero means unbounded.
	Limit int
}

// BuildRecords is the row-transformation step shared by every tabular
// source: it resolves each canonical field through the detected column
// mapping and constructs validated records.
//
// A row without a resolvable, non-empty parcel id cannot be identified and
// is silently skipped; that is the only deliberate skip condition. Any other
// per-row construction failure also drops just that row, never the batch.
func BuildRecords(ctx context.Context, headers []string, rows [][]string, mapping colmap.Mapping, p RowParams) []lien.Record {
	fieldIndex := make(map[colmap.Field]int)
	for i, header := range headers {
		if field, ok := mapping.Columns[header]; ok {
			fieldIndex[field] = i
		}
	}

	var records []lien.Record
	for _, row := range rows {
		if p.Limit > 0 && len(records) >= p.Limit {
			break
		}

		cell := func(field colmap.Field) string {
			i, ok := fieldIndex[field]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		parcel := parseutil.CleanParcelID(cell(colmap.FieldParcelID))
		if parcel == "" {
			continue
		}

		subRegion := cell(colmap.FieldCounty)
		if subRegion == "" {
			subRegion = p.SubRegion
		}
		if subRegion == "" {
			subRegion = "Unknown"
		}

		in := lien.RecordInput{
			Region:         p.Region,
			SubRegion:      subRegion,
			ParcelID:       parcel,
			Address:        cell(colmap.FieldAddress),
			SourcePlatform: p.Platform,
			RawFields:      rawFields(headers, row),
		}
		if v, ok := parseutil.ParseCurrency(cell(colmap.FieldAssessedValue)); ok {
			in.AssessedValue = lien.Float(v)
		}
		if v, ok := parseutil.ParseCurrency(cell(colmap.FieldFaceAmount)); ok {
			in.FaceAmount = v
		}
		if v, ok := parseutil.ParsePercent(cell(colmap.FieldInterestRate)); ok {
			in.BidInterestRate = lien.Float(v)
		}
		if t, ok := parseutil.ParseDate(cell(colmap.FieldAuctionDate)); ok {
			in.AuctionDate = &t
		}

		record, err := lien.NewRecord(in)
		if err != nil {
			slog.DebugContext(ctx, "dropping row", "parcel", parcel, "err", err)
			continue
		}
		records = append(records, record)
	}
	return records
}

func rawFields(headers []string, row []string) map[string]string {
	raw := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			raw[header] = row[i]
		}
	}
	return raw
}
