// Package export writes normalized lien batches back out as flat files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"lienterminal-backend/lib/lien"
)

var csvHeader = []string{
	"region",
	"county",
	"parcel_id",
	"address",
	"face_amount",
	"assessed_value",
	"interest_rate_bid",
	"auction_date",
	"ltv",
	"equity_cushion",
	"source_platform",
}

// WriteCSV writes the batch as CSV with a fixed header row. Optional fields
// that are absent for a record are left as empty cells.
func WriteCSV(w io.Writer, batch lien.Batch) error {
	out := csv.NewWriter(w)
	if err := out.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range batch.Records {
		row := []string{
			r.Region,
			r.SubRegion,
			r.ParcelID,
			r.Address,
			formatFloat(r.FaceAmount),
			formatOptFloat(r.AssessedValue),
			formatOptFloat(r.BidInterestRate),
			"",
			"",
			"",
			string(r.SourcePlatform),
		}
		if r.AuctionDate != nil {
			row[7] = r.AuctionDate.Format("2006-01-02")
		}
		if ltv, ok := r.LoanToValue(); ok {
			row[8] = formatFloat(ltv)
		}
		if cushion, ok := r.EquityCushion(); ok {
			row[9] = formatFloat(cushion)
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("write record %q: %w", r.ParcelID, err)
		}
	}

	out.Flush()
	return out.Error()
}

// WriteCSVFile writes the batch to a file, creating or truncating it.
func WriteCSVFile(path string, batch lien.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, batch)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
