package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lienterminal-backend/lib/configutil"
	"lienterminal-backend/lib/export"
	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/registry"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/sources/zeus"
)

// CredentialsConfig holds login details for platforms that gate their
// auction lists behind an account.
type CredentialsConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var fetchFlags struct {
	platform    string
	county      string
	demo        bool
	limit       int
	timeout     time.Duration
	out         string
	credentials string
	maxLTV      float64
	minFace     float64
	maxFace     float64
}

func init() {
	f := fetchCmd.Flags()
	f.StringVar(&fetchFlags.platform, "platform", "", "Force a specific auction platform instead of the region's preferred one.")
	f.StringVar(&fetchFlags.county, "county", "", "Restrict the fetch to one county.")
	f.BoolVar(&fetchFlags.demo, "demo", false, "Fetch from the platform's public demo site instead of a live auction.")
	f.IntVar(&fetchFlags.limit, "limit", 0, "Stop after this many records.")
	f.DurationVar(&fetchFlags.timeout, "timeout", 0, "Per-request timeout (default 30s).")
	f.StringVar(&fetchFlags.out, "out", "", "Write the normalized batch to this CSV file.")
	f.StringVar(&fetchFlags.credentials, "credentials", "credentials.json5", "Config file with login details, for platforms that need them.")
	f.Float64Var(&fetchFlags.maxLTV, "max-ltv", 0, "Drop records above this loan-to-value percentage.")
	f.Float64Var(&fetchFlags.minFace, "min-face", 0, "Drop records below this face amount.")
	f.Float64Var(&fetchFlags.maxFace, "max-face", 0, "Drop records above this face amount.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <region>",
	Short: "Scrapes the live auction list for a region and normalizes it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()

		creds, err := configutil.ReadConfig[CredentialsConfig](fetchFlags.credentials)
		if err != nil && cmd.Flags().Changed("credentials") {
			return fmt.Errorf("read credentials: %w", err)
		}

		src, err := reg.Resolve(args[0], registry.ResolveOptions{
			PlatformHint: lien.SourcePlatform(fetchFlags.platform),
			Source: registry.SourceOptions{
				SubRegion: fetchFlags.county,
				Timeout:   fetchFlags.timeout,
				UseDemo:   fetchFlags.demo,
				Credentials: zeus.Credentials{
					Username: creds.Username,
					Password: creds.Password,
				},
			},
		})
		if err != nil {
			return err
		}

		fmt.Println("fetching from", string(src.Platform()))

		batch, err := src.Fetch(cmd.Context(), sources.FetchOptions{
			Limit: fetchFlags.limit,
		})
		if err != nil {
			return err
		}
		batch = applyFilters(batch, fetchFlags.maxLTV, fetchFlags.minFace, fetchFlags.maxFace)

		renderBatch(batch)

		if fetchFlags.out != "" {
			if err := export.WriteCSVFile(fetchFlags.out, batch); err != nil {
				return err
			}
			fmt.Println("wrote", fetchFlags.out)
		}
		return nil
	},
}
