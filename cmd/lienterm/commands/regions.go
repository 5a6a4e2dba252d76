package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lienterminal-backend/cmd/lienterm/utils"
	"lienterminal-backend/lib/registry"
)

func init() {
	rootCmd.AddCommand(regionsCmd)
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Lists the supported regions and the platforms serving each one.",
	Run: func(cmd *cobra.Command, args []string) {
		reg := registry.Default()

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Code", "Name", "Primary", "Platforms", "Upload", "Live", "Notes"})
		for _, code := range reg.Regions() {
			cfg, _ := reg.Region(code)

			platforms := ""
			for i, p := range reg.AvailablePlatforms(code) {
				if i > 0 {
					platforms += ", "
				}
				platforms += string(p)
			}

			t.AppendRow(table.Row{
				cfg.Code,
				cfg.Name,
				string(cfg.Primary),
				platforms,
				yesNo(cfg.SupportsUpload),
				yesNo(cfg.LiveScraping),
				cfg.Notes,
			})
		}
		t.Render()
	},
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
