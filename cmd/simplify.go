package cmd

import (
	"errors"
	"fmt"
	"github.com/cottand/affinesimp/hostir"
	"github.com/cottand/affinesimp/internal/log"
	"github.com/cottand/affinesimp/simplify"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
	"os"
	"path"
)

var SimplifyCmd = &cobra.Command{
	Use:          "simplify program.yaml",
	Short:        "Remove floordiv and mod numerator terms that cannot affect the result",
	RunE:         runSimplify,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	simplifyOutPath *string
	simplifyLevel   *int
	maxIterations   *int
	floorDivRule    *bool
	modRule         *bool
	showDiff        *bool
)

func init() {
	simplifyOutPath = SimplifyCmd.Flags().StringP("out", "o", "", "output path, stdout if empty")
	simplifyLevel = SimplifyCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
	maxIterations = SimplifyCmd.Flags().Int("max-iterations", hostir.DefaultDriverConfig().MaxIterations, "maximum number of rewrite sweeps per function")
	floorDivRule = SimplifyCmd.Flags().Bool("floordiv", true, "simplify floordiv expressions")
	modRule = SimplifyCmd.Flags().Bool("mod", true, "simplify mod expressions")
	showDiff = SimplifyCmd.Flags().Bool("diff", false, "print every rewrite to stderr")
}

// selectedRules registers the enabled rules for every kind of operation
func selectedRules(floorDiv, mod bool) *simplify.RuleSet {
	rs := simplify.NewRuleSet()
	for _, kind := range hostir.OpKinds {
		if floorDiv {
			rs.Add(string(kind), simplify.FloorDivRule{})
		}
		if mod {
			rs.Add(string(kind), simplify.ModRule{})
		}
	}
	return rs
}

func runSimplify(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*simplifyLevel))

	if *maxIterations <= 0 {
		return fmt.Errorf("--max-iterations must be positive, got %d", *maxIterations)
	}
	p, err := hostir.LoadProgramFile(args[0])
	if err != nil {
		return err
	}

	cfg := hostir.DefaultDriverConfig()
	cfg.MaxIterations = *maxIterations
	if *showDiff {
		cfg.OnRewrite = diffPrinter(cmd.ErrOrStderr())
	}
	stats, err := hostir.ApplyToProgram(p, selectedRules(*floorDivRule, *modRule), cfg)
	if errors.Is(err, hostir.ErrNoConvergence) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Sprint("warning: ")+err.Error())
	} else if err != nil {
		return err
	}
	logger := log.Section("hostir.driver")
	for _, rule := range stats.RuleNames() {
		logger.Info("applied rule", "rule", rule, "count", stats.Rewrites[rule])
	}

	return writeOutput(cmd, *simplifyOutPath, func(w io.Writer) error {
		return hostir.WriteProgram(w, p)
	})
}

// writeOutput writes to the file at outPath, or to the command's output
// when outPath is empty
func writeOutput(cmd *cobra.Command, outPath string, write func(io.Writer) error) error {
	if outPath == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path.Clean(outPath))
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not write to file: %w", err)
	}
	return f.Close()
}
