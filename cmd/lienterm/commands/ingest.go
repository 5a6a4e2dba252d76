package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lienterminal-backend/lib/export"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/sources/fileingest"
)

var ingestFlags struct {
	county    string
	overrides []string
	threshold int
	limit     int
	out       string
	maxLTV    float64
	minFace   float64
	maxFace   float64
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&ingestFlags.county, "county", "", "County the file's records belong to.")
	f.StringArrayVar(&ingestFlags.overrides, "map", nil, "Force a column mapping, e.g. --map 'Amt Due=face_amount'. Repeatable.")
	f.IntVar(&ingestFlags.threshold, "threshold", 0, "Minimum fuzzy match score for column detection (default 70).")
	f.IntVar(&ingestFlags.limit, "limit", 0, "Stop after this many records.")
	f.StringVar(&ingestFlags.out, "out", "", "Write the normalized batch to this CSV file.")
	f.Float64Var(&ingestFlags.maxLTV, "max-ltv", 0, "Drop records above this loan-to-value percentage.")
	f.Float64Var(&ingestFlags.minFace, "min-face", 0, "Drop records below this face amount.")
	f.Float64Var(&ingestFlags.maxFace, "max-face", 0, "Drop records above this face amount.")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <region> <file>",
	Short: "Normalizes a county auction file (csv, tsv or xlsx) into lien records.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := parseOverrides(ingestFlags.overrides)
		if err != nil {
			return err
		}

		adapter, err := fileingest.New(fileingest.Options{
			Region:    args[0],
			SubRegion: ingestFlags.county,
			Path:      args[1],
			Overrides: overrides,
			Threshold: ingestFlags.threshold,
		})
		if err != nil {
			return err
		}

		batch, err := adapter.Fetch(cmd.Context(), sources.FetchOptions{
			Limit: ingestFlags.limit,
		})
		if err != nil {
			return err
		}
		batch = applyFilters(batch, ingestFlags.maxLTV, ingestFlags.minFace, ingestFlags.maxFace)

		if mapping, ok := adapter.Mapping(); ok {
			renderMapping(mapping)
		}
		renderBatch(batch)

		if ingestFlags.out != "" {
			if err := export.WriteCSVFile(ingestFlags.out, batch); err != nil {
				return err
			}
			fmt.Println("wrote", ingestFlags.out)
		}
		return nil
	},
}
