package cmd

import (
	"fmt"
	"github.com/cottand/affinesimp/hostir"
	"github.com/cottand/affinesimp/internal/log"
	"github.com/spf13/cobra"
	"log/slog"
)

var VerifyCmd = &cobra.Command{
	Use:   "verify original.yaml [rewritten.yaml]",
	Short: "Check that rewritten access maps address the same elements as the original ones",
	Long: `Enumerates every value of the parameters and induction variables of each
function and compares the elements both programs address. With a single
program, it is simplified first and compared against itself.`,
	RunE:         runVerify,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
}

var (
	maxPoints   *int
	verifyLevel *int
)

func init() {
	maxPoints = VerifyCmd.Flags().Int("max-points", 1<<20, "maximum number of points to enumerate per function")
	verifyLevel = VerifyCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runVerify(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*verifyLevel))

	original, err := hostir.LoadProgramFile(args[0])
	if err != nil {
		return err
	}

	var rewritten *hostir.Program
	if len(args) == 2 {
		rewritten, err = hostir.LoadProgramFile(args[1])
		if err != nil {
			return err
		}
	} else {
		rewritten = original.Clone()
		if _, err := hostir.ApplyToProgram(rewritten, hostir.DefaultRules(), hostir.DefaultDriverConfig()); err != nil {
			return fmt.Errorf("could not simplify %s: %w", args[0], err)
		}
	}

	if err := hostir.VerifyProgram(original, rewritten, *maxPoints); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Sprint("ok: ")+fmt.Sprintf("%d functions address the same elements", len(original.Funcs)))
	return nil
}
