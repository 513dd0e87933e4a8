package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/aretw0/stance"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/modes"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stance",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "stance version %s\n", strings.TrimSpace(stance.Version))
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(out, "  go:       %s\n", info.GoVersion)
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					fmt.Fprintf(out, "  revision: %s\n", s.Value)
				}
			}
		}
		fmt.Fprintf(out, "  robots:   %s, %s\n", domain.RobotLite3, domain.RobotX30)

		names := modes.NewRegistry().Names()
		list := make([]string, len(names))
		for i, n := range names {
			list[i] = string(n)
		}
		fmt.Fprintf(out, "  modes:    %s\n", strings.Join(list, ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
