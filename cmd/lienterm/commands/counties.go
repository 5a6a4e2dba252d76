package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lienterminal-backend/cmd/lienterm/utils"
	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/registry"
)

var countiesPlatform *string

func init() {
	countiesPlatform = countiesCmd.Flags().String("platform", "", "Only list counties served by this platform.")
	rootCmd.AddCommand(countiesCmd)
}

var countiesCmd = &cobra.Command{
	Use:   "counties <region>",
	Short: "Lists the counties with live adapter coverage in a region.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()

		if _, ok := reg.Region(args[0]); !ok {
			return fmt.Errorf("unsupported region %q (supported: %v)", args[0], reg.Regions())
		}

		counties := reg.SubRegionsFor(args[0], lien.SourcePlatform(*countiesPlatform))
		if len(counties) == 0 {
			fmt.Println("no live adapter covers this region, records must be uploaded from a file")
			return nil
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"County"})
		for _, c := range counties {
			t.AppendRow(table.Row{c})
		}
		t.Render()
		return nil
	},
}
