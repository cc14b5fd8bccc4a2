package main

import (
	"fmt"

	"github.com/devblac/rpcformat/pkg/format"
	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [kind]",
	Short: "List the canonical fields of each record kind",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := format.New(nil)

		kinds := format.KindNames()
		if len(args) == 1 {
			if _, ok := f.Lookup(args[0]); !ok {
				return fmt.Errorf("unknown record kind %q", args[0])
			}
			kinds = []string{args[0]}
		}

		headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
		tbl := table.New("Kind", "#", "Field").WithWriter(cmd.OutOrStdout())
		tbl.WithHeaderFormatter(headerFmt)

		for _, kind := range kinds {
			spec, _ := f.Lookup(kind)
			for i, name := range spec.Names() {
				tbl.AddRow(kind, i+1, name)
			}
		}
		tbl.Print()
		return nil
	},
}
