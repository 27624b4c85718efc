package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ringkasan/internal/export/service"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), formatsTable())
			return err
		},
	}
}

func formatsTable() string {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateHeader = false
	tw.AppendHeader(table.Row{"FORMAT", "NAME", "EXTENSION", "MIME TYPE", "DESCRIPTION"})
	for _, f := range service.SupportedFormats() {
		tw.AppendRow(table.Row{f.Format, f.Name, "." + f.Extension, f.MimeType, f.Description})
	}
	return tw.Render() + "\n"
}
