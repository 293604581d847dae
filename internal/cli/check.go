package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/chaincheck/internal/runner"
	"github.com/mvp-joe/chaincheck/internal/suite"
)

var (
	checkJSON  bool
	checkQuiet bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [suite.yml]",
	Short: "Run every check in a suite",
	Long: `Run the checks of a suite file concurrently and print a report.

The suite defaults to the configured path (.chaincheck/suite.yml under the
project root). Exit status is 1 if any check fails or errors.

Suite format:
  checks:
    - name: create appointment builds an authorized POST
      file: src/main/java/rest/ApiUtil.java
      method: createAppointmentWithAuth
      tokens: [given, then, extract, response]`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output the report as JSON")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Hide the progress bar")
}

// suitePath returns the suite named on the command line, or the configured one.
func suitePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Suite
}

func loadSuite(args []string) (*suite.Suite, error) {
	s, err := suite.Load(suitePath(args))
	if err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}
	return s, nil
}

func newRunner(progress runner.ProgressReporter) *runner.Runner {
	return runner.New(runner.Config{
		Concurrency:  cfg.Concurrency,
		ReadTimeout:  cfg.ReadTimeout,
		SkipComments: cfg.SkipComments,
		Logger:       logger,
		Progress:     progress,
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSuite(args)
	if err != nil {
		return err
	}

	progress := NewCLIProgressReporter(checkQuiet || checkJSON, cmd.ErrOrStderr())
	report, err := newRunner(progress).Run(cmd.Context(), s)
	if err != nil {
		return err
	}

	if checkJSON {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printReport(cmd.OutOrStdout(), report)
	}

	if !report.OK() {
		return errChecksFailed
	}
	return nil
}
