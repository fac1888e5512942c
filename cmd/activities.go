package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/ui/theme"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the bundled activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		t := newTable("ID", "Label", "Kind", "Title", "Library", "Content")
		for _, a := range activity.Catalog() {
			title, lib := "-", "-"
			if m, err := activity.ReadManifest(cfg.Content.Dir, a.ID); err == nil {
				title, lib = m.Title, m.MainLibrary
			}
			id := a.ID
			if a.ID == cfg.Activity {
				id += " *"
			}
			t.Row(id, a.Label, a.Kind.String(), title, lib, a.ContentPath(cfg.Content.BasePath))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

// newTable returns a table styled like the TUI.
func newTable(headers ...string) *table.Table {
	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(upper...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
