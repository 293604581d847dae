package cli

import (
	"github.com/spf13/cobra"

	"github.com/mvp-joe/chaincheck/internal/validator"
)

var (
	validateJSON         bool
	validateSkipComments bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file> <method> <token>...",
	Short: "Check that a method contains tokens in order",
	Long: `Locate the first declaration of <method> in <file> and verify that every
token occurs in its body, each after the previous one.

Exit status is 0 when the method validates, 1 when the method or a token is
missing, and 2 when the file cannot be read or its braces do not balance.

Example:
  chaincheck validate src/main/java/rest/ApiUtil.java createAppointmentWithAuth given then extract response`,
	Args: cobra.MinimumNArgs(3),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output the result as JSON")
	validateCmd.Flags().BoolVar(&validateSkipComments, "skip-comments", false, "Ignore tokens that only appear in comments (default from config)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, method, tokens := args[0], args[1], args[2:]

	skip := cfg.SkipComments
	if cmd.Flags().Changed("skip-comments") {
		skip = validateSkipComments
	}

	v := validator.New(
		validator.WithSkipComments(skip),
		validator.WithReadTimeout(cfg.ReadTimeout),
		validator.WithLogger(logger),
	)

	res, err := v.Validate(cmd.Context(), file, method, tokens)
	if err != nil {
		return err
	}

	if validateJSON {
		if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		printResult(cmd.OutOrStdout(), res)
	}

	if !res.Valid {
		return errChecksFailed
	}
	return nil
}
