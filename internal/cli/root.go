package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "csvup",
	Short: "Load a CSV file into PostgreSQL and verify the row count",
	Long: `csvup reads a delimited text file, derives a PostgreSQL schema from its
contents, replaces the destination table, and verifies the upload by
comparing local and remote row counts.

Column types are inferred per column (bigint, double precision, boolean,
timestamptz, text) and the destination table is dropped and recreated on
every run. The single verification report line goes to stdout; all other
output goes to stderr.

Exit Codes:
  0  - Success (row counts match, or mismatch without --strict)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - User denied table replace approval
  13 - Schema incompatible with the destination
  14 - Insufficient privileges
  15 - Input file not found
  16 - Input file parse failed
  17 - Count query failed
  20 - Row counts do not match (--strict only)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// Registering --help without a shorthand frees -h for subcommand flags.
	rootCmd.PersistentFlags().Bool("help", false, "Help for csvup")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
