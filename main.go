//go:build !(js || wasm)

package main

import (
	"github.com/cottand/affinesimp/cmd"
	"github.com/spf13/cobra"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "affinesimp [subcommand]",
	Short:        "affinesimp simplifies the floordiv and mod expressions of affine access maps",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.SimplifyCmd)
	rootCmd.AddCommand(cmd.VerifyCmd)
	rootCmd.AddCommand(cmd.LowerCmd)
}
