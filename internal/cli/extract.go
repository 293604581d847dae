package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/chaincheck/internal/validator"
)

var extractJSON bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file> <method>",
	Short: "Print the body of a method",
	Long: `Print the body of the first declaration of <method> in <file>, braces
included, as validate sees it.

Example:
  chaincheck extract src/main/java/rest/ApiUtil.java createAppointmentWithAuth`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Output signature and body as JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	file, method := args[0], args[1]

	v := validator.New(
		validator.WithReadTimeout(cfg.ReadTimeout),
		validator.WithLogger(logger),
	)

	sig, body, err := v.ExtractMethod(cmd.Context(), file, method)
	if err != nil {
		return err
	}
	if !sig.Found {
		return &ExitError{Code: 1, Message: fmt.Sprintf("method %q not found in %s", method, file)}
	}

	out := cmd.OutOrStdout()
	if extractJSON {
		return writeJSON(out, map[string]interface{}{
			"file":      file,
			"signature": sig,
			"body":      body,
		})
	}

	fmt.Fprintf(out, "// %s:%d-%d %s(%s)\n", file, body.StartLine, body.EndLine, sig.Name, sig.Params)
	fmt.Fprintln(out, body.Text)
	return nil
}
