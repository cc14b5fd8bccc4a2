package main

import (
	"fmt"
	"sort"

	"github.com/devblac/rpcformat/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config and resolve every alias",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}
		fmt.Fprintf(out, "config %s (version %d)\n", green("OK"), cfg.Version)

		resolver, err := cfg.Resolver()
		if err != nil {
			return err
		}

		aliases := make([]string, 0, len(cfg.Aliases))
		for alias := range cfg.Aliases {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)

		failures := 0
		for _, alias := range aliases {
			addr, err := resolver.Resolve(alias)
			if err != nil {
				failures++
				fmt.Fprintf(out, "- alias %s: %s %v\n", alias, red("ERROR"), err)
				continue
			}
			fmt.Fprintf(out, "- alias %s -> %s\n", alias, addr)
		}

		if failures > 0 {
			return fmt.Errorf("validate: %d alias(es) failed to resolve", failures)
		}

		fmt.Fprintf(out, "validate: %s\n", green("success"))
		return nil
	},
}
