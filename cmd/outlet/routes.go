package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/outlet/pkg/route"
)

func routesCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the compiled route table",
		Long: `Compile the project's route file and print one line per leaf
route: its fused path, its name, and the fragment chain an outlet
tree renders for it.

Duplicate paths or names fail the command.

Examples:
  outlet routes
  outlet routes --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject(*configPath)
			if err != nil {
				return err
			}
			defs, err := loadRoutes(cfg)
			if err != nil {
				return err
			}
			table := route.MustCompile(defs)
			if asJSON {
				return writeRoutesJSON(os.Stdout, table)
			}
			printRoutes(os.Stdout, table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")

	return cmd
}

type routeLine struct {
	Path  string   `json:"path"`
	Name  string   `json:"name,omitempty"`
	Chain []string `json:"chain"`
}

func lineOf(n *route.Normalized) routeLine {
	l := routeLine{Path: n.Path, Name: n.Name, Chain: make([]string, len(n.Routes))}
	for i, def := range n.Routes {
		l.Chain[i] = def.Path
	}
	return l
}

func printRoutes(w io.Writer, table *route.Table) {
	entries := table.Entries()
	fmt.Fprintf(w, "  %-32s %-20s %s\n", "PATH", "NAME", "CHAIN")
	for i := range entries {
		l := lineOf(&entries[i])
		name := l.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "  %-32s %-20s %s\n", l.Path, name, formatChain(l.Chain))
	}
	fmt.Fprintf(w, "\n  %d routes\n", len(entries))
}

func formatChain(chain []string) string {
	parts := make([]string, len(chain))
	for i, p := range chain {
		if p == "" {
			p = "(index)"
		}
		parts[i] = p
	}
	return strings.Join(parts, " > ")
}

func writeRoutesJSON(w io.Writer, table *route.Table) error {
	entries := table.Entries()
	lines := make([]routeLine, len(entries))
	for i := range entries {
		lines[i] = lineOf(&entries[i])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(lines)
}
