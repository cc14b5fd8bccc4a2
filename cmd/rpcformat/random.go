package main

import (
	"errors"
	"fmt"

	"github.com/devblac/rpcformat/pkg/random"
	"github.com/spf13/cobra"
)

var (
	flagSeed  string
	flagLower int
	flagUpper int
)

func init() {
	randomCmd.PersistentFlags().StringVar(&flagSeed, "seed", "", "Seed string (required)")
	randomCmd.PersistentFlags().IntVar(&flagLower, "lower", 0, "Lower bound")
	randomCmd.PersistentFlags().IntVar(&flagUpper, "upper", 32, "Upper bound")

	randomCmd.AddCommand(randomBytesCmd, randomNumberCmd)
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Derive deterministic values from a seed",
}

var randomBytesCmd = &cobra.Command{
	Use:   "bytes",
	Short: "Print a 0x-prefixed hex string whose length lies in [lower, upper] bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSeed == "" {
			return errors.New("--seed is required")
		}
		fmt.Fprintln(cmd.OutOrStdout(), random.HexString(flagSeed, flagLower, flagUpper))
		return nil
	},
}

var randomNumberCmd = &cobra.Command{
	Use:   "number",
	Short: "Print an integer in [lower, upper)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSeed == "" {
			return errors.New("--seed is required")
		}
		if flagUpper < flagLower {
			return fmt.Errorf("upper (%d) must not be below lower (%d)", flagUpper, flagLower)
		}
		fmt.Fprintln(cmd.OutOrStdout(), random.Number(flagSeed, flagLower, flagUpper))
		return nil
	},
}
