package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpshade/pocket-deck/internal/config"
	"github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/service"
)

var (
	configPath string
	verbose    bool

	version = "dev"

	// Set by PersistentPreRunE for every command
	cfg *config.Config
	svc *service.Service
	app *CLI
)

var rootCmd = &cobra.Command{
	Use:   "pocket-deck",
	Short: "Compile presentation specs into self-contained HTML slide decks",
	Long: `pocket-deck turns a YAML or JSON presentation spec into a single HTML file
with embedded styles, SVG charts and keyboard navigation.

Common workflows:
  pocket-deck render deck.yaml            Write deck.html next to the spec
  pocket-deck validate decks/             Check every spec in a directory
  pocket-deck export deck.yaml -f pdf     Print-ready HTML for PDF export
  pocket-deck preview deck.yaml           Browse the slides in the terminal
  pocket-deck serve                       Start the HTTP API`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Verbose = true
		}

		s, err := service.NewService(loaded)
		if err != nil {
			return err
		}
		cfg, svc = loaded, s
		app = NewCLI(svc, cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.pocket-deck/config.yaml, or $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Verbose output with debug logging and error details")
}

// Execute runs the command line and prints any error through the CLI error
// handler. It returns the error so main can set the exit code.
func Execute(v string) error {
	version = v
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	// Usage errors from cobra are plain errors
	if !errors.IsAppError(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\nRun 'pocket-deck --help' for usage.\n", err)
		return err
	}
	fmt.Fprintln(os.Stderr, errors.NewCLIErrorHandler(verbose).FormatError(err))
	return err
}
