package cmd

import (
	"fmt"
	"github.com/cottand/affinesimp/hostir"
	"github.com/cottand/affinesimp/internal/log"
	"github.com/cottand/affinesimp/lower"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
)

var LowerCmd = &cobra.Command{
	Use:          "lower program.yaml",
	Short:        "Generate Go functions computing the indices of every operation",
	RunE:         runLower,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	lowerOutPath  *string
	lowerPackage  *string
	lowerSimplify *bool
	lowerLevel    *int
)

func init() {
	lowerOutPath = LowerCmd.Flags().StringP("out", "o", "", "output path, stdout if empty")
	lowerPackage = LowerCmd.Flags().String("package", "index", "package name of the generated file")
	lowerSimplify = LowerCmd.Flags().Bool("simplify", false, "simplify the program before lowering it")
	lowerLevel = LowerCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runLower(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*lowerLevel))

	p, err := hostir.LoadProgramFile(args[0])
	if err != nil {
		return err
	}
	if *lowerSimplify {
		if _, err := hostir.ApplyToProgram(p, hostir.DefaultRules(), hostir.DefaultDriverConfig()); err != nil {
			return fmt.Errorf("could not simplify %s: %w", args[0], err)
		}
	}

	f, err := lower.Program(*lowerPackage, p)
	if err != nil {
		return fmt.Errorf("could not lower program: %w", err)
	}
	src, err := lower.Source(f)
	if err != nil {
		return err
	}
	return writeOutput(cmd, *lowerOutPath, func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
}
