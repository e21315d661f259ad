package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/transforms"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newOpsCmd(st streams) *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the operations and the annotation kinds each supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(st.out, supportTable())
			return nil
		},
	}
}

// supportTable renders the operation/kind support matrix.
func supportTable() string {
	catalog := transforms.Operations().Catalog()
	kinds := features.Kinds()

	headers := []string{"Operation"}
	for _, k := range kinds {
		headers = append(headers, string(k))
	}

	var rows [][]string
	for _, name := range catalog.Names() {
		row := []string{name}
		for _, k := range kinds {
			mark := "-"
			if catalog.Supports(name, k) {
				mark = "yes"
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
