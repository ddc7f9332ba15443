package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/luckylabs-yuno/yuno/internal/widget"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the configuration presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Name", "Title", "Description")
			for _, p := range widget.Presets() {
				if err := table.Append(p.Name, p.Title, p.Description); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
