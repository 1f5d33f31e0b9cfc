package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/outlet/internal/errors"
	"github.com/vango-dev/outlet/pkg/route"
)

func matchCmd(configPath *string) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "match <url|name>",
		Short: "Resolve a URL or a route name against the table",
		Long: `Resolve a query the way a navigation would, without navigating.

A query starting with '/' is matched as a URL. Anything else is a
route name; bind its parameters with --param.

Examples:
  outlet match /users/42
  outlet match user-detail --param id=42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuery(args[0], params)
			if err != nil {
				return err
			}
			cfg, err := loadProject(*configPath)
			if err != nil {
				return err
			}
			defs, err := loadRoutes(cfg)
			if err != nil {
				return err
			}
			matched, err := route.MustCompile(defs).Match(q)
			if err != nil {
				return errors.Classify(err, "E149")
			}
			printMatch(os.Stdout, matched)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Route parameter as key=value (repeatable)")

	return cmd
}

// parseQuery builds a URL query for arguments starting with '/', and a
// name query otherwise.
func parseQuery(arg string, params []string) (route.Query, error) {
	if arg == "" {
		return route.Query{}, errors.New("E149")
	}
	if strings.HasPrefix(arg, "/") {
		if len(params) > 0 {
			return route.Query{}, errors.New("E149").
				WithDetail("--param only applies to name queries")
		}
		return route.URL(arg), nil
	}

	var bound route.Params
	for _, p := range params {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return route.Query{}, errors.New("E149").
				WithDetailf("parameter %q is not key=value", p)
		}
		if bound == nil {
			bound = route.Params{}
		}
		bound[k] = v
	}
	return route.Named(arg, bound), nil
}

func printMatch(w io.Writer, n *route.Normalized) {
	l := lineOf(n)
	fmt.Fprintf(w, "  Path:   %s\n", l.Path)
	if l.Name != "" {
		fmt.Fprintf(w, "  Name:   %s\n", l.Name)
	}
	fmt.Fprintf(w, "  URL:    %s\n", n.URL)
	fmt.Fprintf(w, "  Chain:  %s\n", formatChain(l.Chain))
	if len(n.Params) > 0 {
		keys := make([]string, 0, len(n.Params))
		for k := range n.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "  Params:")
		for _, k := range keys {
			fmt.Fprintf(w, "    %s = %s\n", k, n.Params[k])
		}
	}
}
