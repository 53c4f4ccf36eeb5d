package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/pipeline"
	"github.com/matzehuels/modgraph/pkg/render"
)

// stdoutPath as --output writes diagrams to standard output.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output           string   // output file (single format) or base path (multiple)
	formats          []string // output formats
	showExports      bool     // list exports inside module nodes
	showServices     bool     // label edges with imported services
	maxServiceLength int      // truncate edge labels beyond this length
	title            string   // timeline title
	showCounts       bool     // export/import counts in timeline labels
	noCache          bool     // disable cache reads and writes
	refresh          bool     // ignore cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a module graph (JSON or HCL) to diagrams",
		Long: `Render a module graph to one or more diagram formats.

Formats: ` + strings.Join(pipeline.Formats(), ", ") + `

With a single format and --output -, the diagram is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == stdoutPath && len(opts.formats) != 1 {
				return fmt.Errorf("--output %s needs exactly one format", stdoutPath)
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	defaults := c.Config.RenderOptions()
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated (default: flowchart)")
	cmd.Flags().BoolVar(&opts.showExports, "show-exports", defaults.ShowExports, "list exported services in module nodes")
	cmd.Flags().BoolVar(&opts.showServices, "show-services", defaults.ShowServices, "label edges with imported services")
	cmd.Flags().IntVar(&opts.maxServiceLength, "max-service-length", defaults.MaxServiceLength, "truncate edge labels longer than this")
	cmd.Flags().StringVar(&opts.title, "title", defaults.Title, "timeline title (empty for none)")
	cmd.Flags().BoolVar(&opts.showCounts, "show-counts", defaults.ShowCounts, "show export/import counts in the timeline")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

// parseFormats splits the --format flag. Empty means the pipeline default.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// renderOptions merges config values with flags the user set explicitly.
func (c *CLI) renderOptions(cmd *cobra.Command, opts *renderOpts) render.Options {
	ro := c.Config.RenderOptions()
	flags := cmd.Flags()
	if flags.Changed("show-exports") {
		ro.ShowExports = opts.showExports
	}
	if flags.Changed("show-services") {
		ro.ShowServices = opts.showServices
	}
	if flags.Changed("max-service-length") {
		ro.MaxServiceLength = opts.maxServiceLength
	}
	if flags.Changed("title") {
		ro.Title = opts.title
	}
	if flags.Changed("show-counts") {
		ro.ShowCounts = opts.showCounts
	}
	return ro
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	result, err := runner.Execute(ctx, g, pipeline.Options{
		Formats:  opts.formats,
		Render:   c.renderOptions(cmd, opts),
		Keywords: c.Config.Classifier,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	formats := sortedFormats(result.Artifacts)
	if opts.output == stdoutPath {
		_, err := c.Out.Write(result.Artifacts[formats[0]])
		return err
	}

	paths, err := writeArtifacts(ctx, result.Artifacts, input, opts.output)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(formats)), "input", input)

	c.printSuccess("Rendered %s", filepath.Base(input))
	c.printStats(result.Stats.ModuleCount, result.Stats.EdgeCount, result.Stats.PhaseCount, result.CacheInfo.AllHit())
	for _, p := range paths {
		c.printFile(p)
	}
	if result.Analysis.Layers.HasFallback() {
		c.printWarning("%d module(s) could not be ordered and were placed in the last phase", len(result.Analysis.Layers.Unordered()))
	}
	return nil
}

// writeArtifacts writes each artifact and returns the paths in format order.
func writeArtifacts(ctx context.Context, artifacts map[string][]byte, input, output string) ([]string, error) {
	logger := loggerFromContext(ctx)
	formats := sortedFormats(artifacts)
	single := len(formats) == 1

	var paths []string
	for _, format := range formats {
		path := outputPath(output, input, format, single)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("wrote artifact", "format", format, "path", path, "bytes", len(artifacts[format]))
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath derives where a format is written.
//
//   - single format, explicit output: output as given
//   - single format, no output: <input base>.<ext>
//   - multiple formats: <base>_<format>.<ext>, where base is output (minus a
//     known extension) or the input base
func outputPath(output, input, format string, single bool) string {
	ext := fileExtension(format)
	if single && output != "" {
		return output
	}
	base := basePath(output, input)
	if single {
		return base + "." + ext
	}
	return base + "_" + format + "." + ext
}

// basePath strips the extension from output, or from input when output is
// empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return strings.TrimSuffix(output, filepath.Ext(output))
}

// fileExtension returns the file extension of a format's output.
func fileExtension(format string) string {
	if format == pipeline.FormatSVG {
		return "svg"
	}
	r, err := pipeline.NewRegistry(nil).New(format, render.DefaultOptions())
	if err != nil {
		return format
	}
	return r.FileExtension()
}
