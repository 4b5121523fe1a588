package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/staves/internal/stavecmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "staves",
		Short: "Rename stave pallet photos to the stave counts recorded in the spreadsheet",
		Long: `Staves reconciles the stave data collection spreadsheet with a directory of
downloaded pallet photos.

Operators upload a photo and type a stave count per spreadsheet row. Staves maps each
photo's Drive name to its count, stores that mapping, and renames the local photos to
<count><ext> so the count can be read straight from the file name.

Configuration is read from the environment (and a .env file if present); flags
override it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(stavecmd.NewRunCmd())
	cmd.AddCommand(stavecmd.NewExtractCmd())
	cmd.AddCommand(stavecmd.NewRenameCmd())

	return cmd
}
