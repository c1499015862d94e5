package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/dpshade/pocket-deck/internal/clipboard"
	"github.com/dpshade/pocket-deck/internal/config"
	"github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/export"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/service"
	"github.com/dpshade/pocket-deck/internal/ui"
	"github.com/dpshade/pocket-deck/internal/validation"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service *service.Service
	out     io.Writer
}

// NewCLI creates a new CLI instance writing to out
func NewCLI(svc *service.Service, out io.Writer) *CLI {
	return &CLI{service: svc, out: out}
}

// OutputOptions controls where command output goes
type OutputOptions struct {
	Path   string // output file; derived from the spec path when empty
	Stdout bool   // write the result to stdout instead of a file
}

// Render compiles a spec file into an HTML document
func (c *CLI) Render(specPath string, opts *models.GenerationOptions, out OutputOptions) error {
	doc, _, err := c.service.GenerateFile(specPath, opts)
	if err != nil {
		return err
	}

	if out.Stdout {
		_, err := io.WriteString(c.out, doc.HTML)
		return err
	}

	target := out.Path
	if target == "" {
		target = service.DefaultOutputPath(specPath, ".html")
	}
	written, err := c.service.WriteDocument(doc, target)
	if err != nil {
		return err
	}

	minified := ""
	if doc.Metadata.Minified {
		minified = ", minified"
	}
	c.success("Rendered %d slides → %s (%s%s)", doc.Metadata.SlideCount, written[0],
		humanize.Bytes(uint64(doc.Metadata.Size)), minified)
	for _, extra := range written[1:] {
		c.info("Stylesheet → %s", extra)
	}
	c.warnings(doc.Metadata.Warnings)
	return nil
}

// Export writes a spec file in one of the export formats
func (c *CLI) Export(specPath string, format export.Format, opts *models.GenerationOptions, out OutputOptions) error {
	raw, err := c.service.LoadSpec(specPath)
	if err != nil {
		return err
	}
	res, err := c.service.Export(format, raw, opts)
	if err != nil {
		return err
	}

	if out.Stdout {
		_, err := c.out.Write(res.Data)
		return err
	}

	target := out.Path
	if target == "" {
		target = service.DefaultOutputPath(specPath, res.Extension)
	}
	written, err := c.service.WriteExport(res, target)
	if err != nil {
		return err
	}
	c.success("Exported %s → %s (%s)", format, written, humanize.Bytes(uint64(len(res.Data))))
	return nil
}

// Validate checks spec files. Directories are expanded to the spec files
// they contain. Every file is reported; the error summarizes failures.
func (c *CLI) Validate(paths []string) error {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return errors.NewAppError(errors.ErrCodeFileNotFound, "spec file not found").WithContext("path", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := c.service.Storage().ListSpecs(p)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			c.warn("No spec files in %s", p)
		}
		files = append(files, found...)
	}

	invalid := 0
	for _, file := range files {
		result, err := c.service.ValidateFile(file)
		if err != nil {
			invalid++
			c.failure("%s: %s", file, errors.GetAppError(err).Message)
			continue
		}
		if !result.Valid {
			invalid++
			c.failure("%s: %d issue(s)", file, len(result.Issues))
			c.issues(result.Issues)
			continue
		}
		c.success("%s: %d slides", file, len(result.Spec.Slides))
		c.warnings(result.Warnings.Lines())
	}

	if invalid > 0 {
		return errors.NewAppError(errors.ErrCodeSpecValidation,
			fmt.Sprintf("%d of %d spec file(s) invalid", invalid, len(files)))
	}
	return nil
}

// Themes lists the registered themes
func (c *CLI) Themes() error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(ui.StyleTextDim).
		Headers("ID", "NAME", "MODE", "PRIMARY")

	for _, th := range c.service.Themes() {
		mode := "light"
		if th.Dark {
			mode = "dark"
		}
		t.Row(th.ID, th.Name, mode, th.Colors["primary"])
	}
	fmt.Fprintln(c.out, t.Render())
	return nil
}

// Theme shows one theme with colour swatches
func (c *CLI) Theme(id string) error {
	th, err := c.service.Theme(id)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, ui.CreateMainHeader(th.Name+" ("+th.ID+")"))
	if th.Description != "" {
		fmt.Fprintln(c.out, ui.CreateMetadata(th.Description))
	}
	fmt.Fprintln(c.out)

	names := make([]string, 0, len(th.Colors))
	for name := range th.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(c.out, "  "+ui.CreateSwatch(name, th.Colors[name]))
	}

	if len(th.Palette) > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, ui.StyleSubtitle.Render("Chart palette"))
		for i, hex := range th.Palette {
			fmt.Fprintln(c.out, "  "+ui.CreateSwatch(fmt.Sprintf("series %d", i+1), hex))
		}
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, ui.StyleSubtitle.Render("Typography"))
	fmt.Fprintf(c.out, "  heading  %s\n  body     %s\n  mono     %s\n",
		th.Typography.Heading, th.Typography.Body, th.Typography.Mono)
	if th.Typography.BaseSize > 0 {
		fmt.Fprintf(c.out, "  base     %dpx\n", th.Typography.BaseSize)
	}
	return nil
}

// InstallTheme copies a theme definition into the user theme directory
func (c *CLI) InstallTheme(src string, opts config.ThemeInstallOptions) error {
	installer, err := config.NewThemeInstaller(c.service.Config())
	if err != nil {
		return err
	}
	th, err := installer.Install(src, opts)
	if err != nil {
		return err
	}
	c.success("Installed theme '%s' into %s", th.ID, installer.Dir())
	return nil
}

// RemoveTheme deletes an installed theme
func (c *CLI) RemoveTheme(id string) error {
	installer, err := config.NewThemeInstaller(c.service.Config())
	if err != nil {
		return err
	}
	if err := installer.Uninstall(id); err != nil {
		return err
	}
	c.success("Removed theme '%s'", id)
	return nil
}

// Capabilities prints what this build can render
func (c *CLI) Capabilities(asJSON bool) error {
	caps := c.service.Capabilities()
	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(caps)
	}

	section := func(title string, values []string) {
		fmt.Fprintln(c.out, ui.StyleSubtitle.Render(title))
		fmt.Fprintln(c.out, "  "+strings.Join(values, ", "))
	}
	section("Slide kinds", stringsOf(caps.SlideKinds))
	section("Chart kinds", stringsOf(caps.ChartKinds))
	section("Export formats", stringsOf(caps.ExportFormats))
	section("Aspect ratios", stringsOf(caps.AspectRatios))
	section("Font sizes", stringsOf(caps.FontSizes))
	section("Themes", caps.Themes)
	return nil
}

// Outline prints a markdown outline of a spec file. Unless raw is set the
// markdown is rendered for the terminal.
func (c *CLI) Outline(specPath string, raw bool, width int) error {
	spec, err := c.service.Spec(specPath)
	if err != nil {
		return err
	}
	md := service.Outline(spec)
	if raw {
		_, err := io.WriteString(c.out, md)
		return err
	}
	rendered, err := ui.RenderMarkdown(md, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.out, rendered)
	return err
}

// CopyOutline puts the markdown outline of a spec file on the clipboard
func (c *CLI) CopyOutline(specPath string) error {
	spec, err := c.service.Spec(specPath)
	if err != nil {
		return err
	}
	msg, err := clipboard.CopyWithFallback(service.Outline(spec))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to copy outline").WithDetails(clipboard.GetInstallInstructions())
	}
	c.success("%s", msg)
	return nil
}

// ConfigInit writes a default config file
func (c *CLI) ConfigInit(path string) error {
	cfg, created, err := config.Init(path)
	if err != nil {
		return err
	}
	if !created {
		c.info("Config already exists at %s", cfg.Path())
		return nil
	}
	c.success("Created %s", cfg.Path())
	return nil
}

// ConfigShow prints the effective configuration
func (c *CLI) ConfigShow() error {
	cfg := c.service.Config()
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, ui.CreateMetadata("# "+cfg.Path()))
	_, err = io.WriteString(c.out, data)
	return err
}

func (c *CLI) success(format string, args ...interface{}) {
	fmt.Fprintln(c.out, ui.CreateStatus("✓", "success")+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) failure(format string, args ...interface{}) {
	fmt.Fprintln(c.out, ui.CreateStatus("✗", "error")+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) info(format string, args ...interface{}) {
	fmt.Fprintln(c.out, ui.CreateStatus("•", "info")+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) warn(format string, args ...interface{}) {
	fmt.Fprintln(c.out, ui.CreateStatus("⚠", "warning")+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) warnings(lines []string) {
	for _, line := range lines {
		c.warn("%s", line)
	}
}

func (c *CLI) issues(issues validation.Issues) {
	for _, line := range issues.Lines() {
		fmt.Fprintln(c.out, "    "+ui.StyleTextMuted.Render(line))
	}
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
