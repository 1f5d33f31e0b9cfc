package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// currentBuild reports the linker-set version, falling back to the module
// version for binaries installed with go install.
func currentBuild() buildInfo {
	v := version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return buildInfo{
		Version:   v,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the outlet CLI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			switch {
			case short:
				fmt.Println(b.Version)
			case asJSON:
				return json.NewEncoder(os.Stdout).Encode(b)
			default:
				fmt.Println()
				fmt.Printf("  Version:    %s\n", b.Version)
				fmt.Printf("  Commit:     %s\n", b.Commit)
				fmt.Printf("  Built:      %s\n", b.Date)
				fmt.Printf("  Go version: %s\n", b.GoVersion)
				fmt.Printf("  OS/Arch:    %s\n", b.Platform)
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")

	return cmd
}
