package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/toyinlola/heft/cmd.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print heft's version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := resolvedVersion()
		if versionShort {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "heft %s (commit %s, built %s, %s %s/%s)\n",
			v, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return err
	},
}

// resolvedVersion falls back to the module version for go install builds.
func resolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = resolvedVersion()
	rootCmd.SetVersionTemplate("heft {{.Version}}\n")
}
