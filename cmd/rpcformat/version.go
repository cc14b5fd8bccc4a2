package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version and the payload kinds it formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rpcformat %s", buildVersion())
		if commit != "" && commit != "none" {
			fmt.Fprintf(out, " (%s)", commit)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "kinds: %s\n", strings.Join(handlerNames(), ", "))
		return nil
	},
}

func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}
