package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dpshade/pocket-deck/internal/api"
	"github.com/dpshade/pocket-deck/internal/config"
	"github.com/dpshade/pocket-deck/internal/export"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/ui"
)

var (
	outputPath    string
	toStdout      bool
	themeID       string
	aspectRatio   string
	fontSize      string
	minify        bool
	noEmbedStyles bool
	slideNumbers  bool
	renderFormat  string
	exportFormat  string

	capsJSON     bool
	outlineRaw   bool
	outlineCopy  bool
	outlineWidth int

	installID    string
	installForce bool

	serveHost string
	servePort int
)

var renderCmd = &cobra.Command{
	Use:   "render <spec>",
	Short: "Render a spec file into a self-contained HTML deck",
	Long: `Render validates the spec and writes a single HTML document.

Flags override the spec's own options, which override the config defaults.
With --format pdf or json the command behaves like export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(renderFormat)
		if err != nil {
			return err
		}
		opts, err := generationOptions(cmd)
		if err != nil {
			return err
		}
		out := OutputOptions{Path: outputPath, Stdout: toStdout}
		if format != export.FormatHTML {
			return app.Export(args[0], format, opts, out)
		}
		return app.Render(args[0], opts, out)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <spec>",
	Short: "Export a spec file as html, pdf (print-ready HTML) or json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		opts, err := generationOptions(cmd)
		if err != nil {
			return err
		}
		return app.Export(args[0], format, opts, OutputOptions{Path: outputPath, Stdout: toStdout})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <spec|dir>...",
	Short: "Validate spec files and report every issue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Validate(args)
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes [id]",
	Short: "List themes, or show one theme's colours and fonts",
	Args:  cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if svc == nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return svc.Capabilities().Themes, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return app.Theme(args[0])
		}
		return app.Themes()
	},
}

var themesInstallCmd = &cobra.Command{
	Use:   "install <theme.yaml>",
	Short: "Install a YAML theme definition into the user theme directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.InstallTheme(args[0], config.ThemeInstallOptions{ID: installID, Force: installForce})
	},
}

var themesRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an installed theme",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RemoveTheme(args[0])
	},
}

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List slide kinds, chart kinds, export formats and themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Capabilities(capsJSON)
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline <spec>",
	Short: "Print a markdown outline of a spec file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outlineCopy {
			return app.CopyOutline(args[0])
		}
		return app.Outline(args[0], outlineRaw, outlineWidth)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <spec>",
	Short: "Browse a spec's slides in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.Run(svc, args[0])
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		server := api.NewAPIServer(svc, cfg.Addr(), version)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
		return server.Stop(shutdownCtx)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the pocket-deck configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ConfigInit(configPath)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ConfigShow()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pocket-deck %s\n", version)
	},
}

// addGenerationFlags registers the option flags shared by render and export
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: spec name with the format's extension)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	cmd.Flags().StringVarP(&themeID, "theme", "t", "", "Theme id")
	cmd.Flags().StringVar(&aspectRatio, "aspect", "", "Aspect ratio: 16:9 or 4:3")
	cmd.Flags().StringVar(&fontSize, "font-size", "", "Font size: small, medium or large")
	cmd.Flags().BoolVar(&minify, "minify", false, "Minify the generated HTML")
	cmd.Flags().BoolVar(&noEmbedStyles, "no-embed-styles", false, "Link an external pocket-deck.css instead of embedding styles")
	cmd.Flags().BoolVar(&slideNumbers, "slide-numbers", true, "Show slide numbers")
}

// generationOptions collects the option flags that were set explicitly and
// validates them like call-level options from the API
func generationOptions(cmd *cobra.Command) (*models.GenerationOptions, error) {
	flags := cmd.Flags()
	raw := map[string]interface{}{}

	if flags.Changed("theme") {
		raw["theme"] = themeID
	}
	if flags.Changed("aspect") {
		raw["aspectRatio"] = aspectRatio
	}
	if flags.Changed("font-size") {
		raw["fontSize"] = fontSize
	}
	if flags.Changed("minify") {
		raw["minify"] = minify
	}
	if flags.Changed("no-embed-styles") {
		raw["embedStyles"] = !noEmbedStyles
	}
	if flags.Changed("slide-numbers") {
		raw["slideNumbers"] = slideNumbers
	}

	if len(raw) == 0 {
		return nil, nil
	}
	opts, result := svc.Validator().ValidateOptions(raw)
	if !result.Valid {
		return nil, result.ToAppError()
	}
	return opts, nil
}

func init() {
	addGenerationFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html, pdf or json")

	addGenerationFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: html, pdf or json")

	capabilitiesCmd.Flags().BoolVar(&capsJSON, "json", false, "Print as JSON")

	outlineCmd.Flags().BoolVar(&outlineRaw, "raw", false, "Print the markdown without terminal rendering")
	outlineCmd.Flags().BoolVarP(&outlineCopy, "copy", "c", false, "Copy the markdown outline to the clipboard")
	outlineCmd.Flags().IntVarP(&outlineWidth, "width", "w", 80, "Word wrap width")

	themesInstallCmd.Flags().StringVar(&installID, "id", "", "Install under a different theme id")
	themesInstallCmd.Flags().BoolVar(&installForce, "force", false, "Replace an installed theme with the same id")
	themesCmd.AddCommand(themesInstallCmd, themesRemoveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default from config)")

	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(
		renderCmd,
		exportCmd,
		validateCmd,
		themesCmd,
		capabilitiesCmd,
		outlineCmd,
		previewCmd,
		serveCmd,
		configCmd,
		versionCmd,
	)
}
