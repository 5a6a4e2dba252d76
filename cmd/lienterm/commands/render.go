package commands

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"lienterminal-backend/cmd/lienterm/utils"
	"lienterminal-backend/lib/colmap"
	"lienterminal-backend/lib/lien"
)

const previewRows = 20

func renderBatch(batch lien.Batch) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"Parcel", "County", "Face", "Assessed", "Rate", "Auction", "LTV", "Cushion"})

	for i, r := range batch.Records {
		if i >= previewRows {
			t.AppendFooter(table.Row{fmt.Sprintf("... %d more", len(batch.Records)-previewRows)})
			break
		}

		auction := ""
		if r.AuctionDate != nil {
			auction = r.AuctionDate.Format("2006-01-02")
		}
		ltv := ""
		if v, ok := r.LoanToValue(); ok {
			ltv = fmt.Sprintf("%.2f%%", v)
		}
		cushion := ""
		if v, ok := r.EquityCushion(); ok {
			cushion = fmt.Sprintf("%.2f%%", v)
		}

		t.AppendRow(table.Row{
			r.ParcelID,
			r.SubRegion,
			fmt.Sprintf("$%.2f", r.FaceAmount),
			optMoney(r.AssessedValue),
			optPercent(r.BidInterestRate),
			auction,
			ltv,
			cushion,
		})
	}
	t.Render()

	fmt.Printf("%d records, $%.2f total face amount", batch.Count(), batch.TotalFaceAmount())
	if avg, ok := batch.AverageLTV(); ok {
		fmt.Printf(", %.2f%% average ltv", avg)
	}
	fmt.Println()
}

func renderMapping(m colmap.Mapping) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"Field", "Source Column"})
	for _, field := range colmap.Fields() {
		header, ok := m.HeaderFor(field)
		if !ok {
			header = "(unmapped)"
		}
		t.AppendRow(table.Row{string(field), header})
	}
	t.Render()

	if len(m.Unmapped) > 0 {
		fmt.Println("unmapped columns:", strings.Join(m.Unmapped, ", "))
	}
}

func optMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("$%.2f", *v)
}

func optPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// parseOverrides turns repeated "Header=field" flag values into a colmap
// override set, rejecting unknown field names.
func parseOverrides(pairs []string) (map[string]colmap.Field, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	known := make(map[colmap.Field]bool)
	for _, f := range colmap.Fields() {
		known[f] = true
	}

	overrides := make(map[string]colmap.Field, len(pairs))
	for _, pair := range pairs {
		header, field, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid override %q, expected <column>=<field>", pair)
		}
		if !known[colmap.Field(field)] {
			return nil, fmt.Errorf("unknown field %q in override %q", field, pair)
		}
		overrides[header] = colmap.Field(field)
	}
	return overrides, nil
}

func applyFilters(batch lien.Batch, maxLTV, minFace, maxFace float64) lien.Batch {
	if maxLTV > 0 {
		batch = batch.FilterByLTV(maxLTV)
	}
	if minFace > 0 || maxFace > 0 {
		upper := maxFace
		if upper <= 0 {
			upper = math.MaxFloat64
		}
		batch = batch.FilterByFaceAmount(minFace, upper)
	}
	return batch
}
