package cli

import (
	"github.com/semmy-space/credstore/internal/config"
	"github.com/semmy-space/credstore/internal/output"
	"github.com/semmy-space/credstore/internal/secrets"
)

// BackendsCmd lists backend types and whether this host supports them
type BackendsCmd struct {
	All bool `help:"Include backends that are unavailable on this host" short:"a"`
}

type backendRow struct {
	Name      string `json:"name"`
	Available string `json:"available"`
	Selected  string `json:"selected"`
	Note      string `json:"note,omitempty"`
}

// Run executes the backends command
func (cmd *BackendsCmd) Run(g *Globals, cfg *config.Config, fp *FormatterProvider) error {
	// Backend: CLI flag/env > config > auto
	selected := g.Backend
	if selected == "" {
		selected = cfg.Backend
	}
	if selected == "" {
		selected = string(secrets.TypeAuto)
	}

	var rows []backendRow
	for _, a := range secrets.Available() {
		if !a.Available && !cmd.All {
			continue
		}
		rows = append(rows, backendRow{
			Name:      string(a.Type),
			Available: formatBool(a.Available),
			Selected:  formatBool(string(a.Type) == selected),
			Note:      a.Note,
		})
	}

	cols := []output.Column{
		{Name: "Backend", Key: "Name"},
		{Name: "Available", Key: "Available"},
		{Name: "Selected", Key: "Selected"},
		{Name: "Note", Key: "Note"},
	}
	return fp.Formatter.PrintList(rows, cols)
}

// formatBool renders a bool for tables
func formatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
