package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asnlabels/pkg/sheet"
)

// labelsCommand creates the labels command listing the supported sheets.
func (c *CLI) labelsCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List supported label sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				return runPick(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), sheetTable(sheet.All()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "pick a sheet interactively and print the matching generate command")
	return cmd
}

// runPick lets the user choose a sheet and prints a generate command for it.
func runPick(w io.Writer) error {
	final, err := tea.NewProgram(NewSheetListModel(sheet.All())).Run()
	if err != nil {
		return fmt.Errorf("sheet picker: %w", err)
	}
	m, ok := final.(SheetListModel)
	if !ok || m.Selected == nil {
		return nil
	}
	fmt.Fprintln(w, generateHint(*m.Selected))
	return nil
}

// generateHint returns the command that fills one full sheet of type t.
func generateHint(t sheet.Type) string {
	cmd := fmt.Sprintf("%s generate -l %d -n %d", appName, t.ID, t.PerPage())
	return StyleDim.Render("Generate a full sheet:") + " " + styleCommand.Render(cmd)
}
