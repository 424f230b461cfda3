// Package main provides the CLI entry point for picedit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/picedit/pkg/adapters/filesink"
	"github.com/user/picedit/pkg/adapters/ggrenderer"
	"github.com/user/picedit/pkg/adapters/imagecodec"
	"github.com/user/picedit/pkg/adapters/logger"
	"github.com/user/picedit/pkg/adapters/nullsink"
	"github.com/user/picedit/pkg/adapters/osfilesystem"
	"github.com/user/picedit/pkg/config"
	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/imageinfo"
	"github.com/user/picedit/pkg/orchestrator"
	"github.com/user/picedit/pkg/picedit"
	"github.com/user/picedit/pkg/ports"
	"github.com/user/picedit/pkg/stages/compose"
	"github.com/user/picedit/pkg/stages/decode"
	"github.com/user/picedit/pkg/stages/encode"
	"github.com/user/picedit/pkg/summarizer"
)

var version = "dev"

// errUsage is returned for invalid command-line input.
var errUsage = errors.New("invalid arguments")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "picedit",
		Usage:   l10n.T("Crop, rotate, resize and compress images"),
		Version: version,
		Commands: []*cli.Command{
			exportCommand(),
			infoCommand(),
			versionCommand(),
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     l10n.T("Edit an image and save it in a web format"),
		ArgsUsage: "[options] <input>",
		Flags: []cli.Flag{
			// Output
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T("Output"), Usage: l10n.T("Output image path")},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T("Output"), Usage: l10n.T("YAML configuration file")},
			&cli.StringFlag{Name: "summary", Category: l10n.T("Output"), Usage: l10n.T("Output export summary to file (Markdown format)")},

			// Edit
			&cli.StringFlag{Name: "crop", Category: l10n.T("Edit"), Usage: l10n.T("Crop rectangle in source pixels (x,y,width,height)")},
			&cli.Float64Flag{Name: "rotate", Aliases: []string{"r"}, Category: l10n.T("Edit"), Usage: l10n.T("Rotation in degrees")},
			&cli.BoolFlag{Name: "flip-x", Category: l10n.T("Edit"), Usage: l10n.T("Mirror horizontally")},
			&cli.BoolFlag{Name: "flip-y", Category: l10n.T("Edit"), Usage: l10n.T("Mirror vertically")},
			&cli.Float64Flag{Name: "zoom", Category: l10n.T("Edit"), Usage: l10n.T("Zoom factor (0.5-3)")},
			&cli.BoolFlag{Name: "apply-zoom", Category: l10n.T("Edit"), Usage: l10n.T("Apply zoom to the exported pixels")},

			// Format and quality
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Category: l10n.T("Format and Quality"), Usage: l10n.T("Output format (jpeg, png, webp)")},
			&cli.Float64Flag{Name: "quality", Aliases: []string{"q"}, Category: l10n.T("Format and Quality"), Usage: l10n.T("Encoder quality (0.01-1, overrides quality preset)")},
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Category: l10n.T("Format and Quality"), Usage: l10n.T("Quality preset (low, medium, high)")},
			&cli.StringFlag{Name: "target-size", Aliases: []string{"s"}, Category: l10n.T("Format and Quality"), Usage: l10n.T("Target file size (e.g. 500KB, 1.5MB)")},

			// Resize
			&cli.StringFlag{Name: "width", Aliases: []string{"W"}, Category: l10n.T("Resize"), Usage: l10n.T("Output width in pixels")},
			&cli.StringFlag{Name: "height", Aliases: []string{"H"}, Category: l10n.T("Resize"), Usage: l10n.T("Output height in pixels")},
			&cli.BoolFlag{Name: "no-keep-aspect", Category: l10n.T("Resize"), Usage: l10n.T("Do not derive the missing dimension from the aspect ratio")},

			// Watermark
			&cli.StringFlag{Name: "watermark", Category: l10n.T("Watermark"), Usage: l10n.T("Watermark text")},
			&cli.StringFlag{Name: "watermark-color", Category: l10n.T("Watermark"), Usage: l10n.T("Watermark color (hex, e.g., #ffffff)")},
			&cli.Float64Flag{Name: "watermark-opacity", Category: l10n.T("Watermark"), Usage: l10n.T("Watermark opacity (0-1)")},
			&cli.Float64Flag{Name: "watermark-rotation", Category: l10n.T("Watermark"), Usage: l10n.T("Watermark rotation in degrees")},
			&cli.Float64Flag{Name: "watermark-spacing-x", Category: l10n.T("Watermark"), Usage: l10n.T("Horizontal watermark spacing in pixels")},
			&cli.Float64Flag{Name: "watermark-spacing-y", Category: l10n.T("Watermark"), Usage: l10n.T("Vertical watermark spacing in pixels")},

			// Debug
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Category: l10n.T("Debug"), Usage: l10n.T("Enable debug output")},
			&cli.StringFlag{Name: "debug-dir", Category: l10n.T("Debug"), Usage: l10n.T("Directory for debug output")},

			// Logging
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T("Logging"), Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: l10n.T("Logging"), Usage: l10n.T("Suppress all log output")},
		},
		Action: runExport,
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     l10n.T("Show format, dimensions and size of an image"),
		ArgsUsage: "<input>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("%w: %s", errUsage, l10n.T("Input file argument is required"))
			}
			for _, path := range c.Args().Slice() {
				info, err := imageinfo.ReadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintln(c.App.Writer, l10n.F("%s: %s %dx%d, %d bytes", path, info.Format, info.Width, info.Height, info.ByteSize))
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, l10n.F("picedit version %s", version))
			return nil
		},
	}
}

// runExport executes the export command.
func runExport(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	orchConfig, err := cfg.ToOrchestratorConfig()
	if err != nil {
		return err
	}
	if orchConfig.InputPath == "" {
		return fmt.Errorf("%w: %s", errUsage, l10n.T("Input file argument is required"))
	}
	if orchConfig.OutputPath == "" {
		return fmt.Errorf("%w: %s", errUsage, l10n.T("Output path is required"))
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	codec := imagecodec.New()

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, codec)
	} else {
		sink = nullsink.New()
	}

	// Create stages
	orch := orchestrator.New(
		decode.NewStage(codec, log),
		compose.NewStage(renderer, log),
		encode.NewStage(codec, sink, log),
		fs,
		sink,
		log,
	)

	result, err := orch.Run(c.Context, orchConfig)
	if err != nil {
		return err
	}

	if path := c.String("summary"); path != "" {
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(func(key string) string { return l10n.T(key) }),
			summarizer.WithVersion(version),
		)
		summary := summarizer.NewBuilder().WithRunResult(result).Build()
		if err := summarizer.NewWriter(formatter, fs).Write(path, summary); err != nil {
			log.Warn("Failed to write summary: %s", err.Error())
		} else {
			log.Info("Summary saved to %s", path)
		}
	}

	return nil
}

// buildConfig loads the optional YAML file and applies command-line overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.NArg() > 0 {
		cfg.InputPath = c.Args().First()
	}
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}

	if c.IsSet("crop") {
		crop, err := parseCrop(c.String("crop"))
		if err != nil {
			return cfg, err
		}
		cfg.Crop = crop
	}
	if c.IsSet("rotate") {
		cfg.Rotate = c.Float64("rotate")
	}
	if c.IsSet("flip-x") {
		cfg.FlipX = c.Bool("flip-x")
	}
	if c.IsSet("flip-y") {
		cfg.FlipY = c.Bool("flip-y")
	}
	if c.IsSet("zoom") {
		cfg.Zoom = c.Float64("zoom")
	}
	if c.IsSet("apply-zoom") {
		cfg.ApplyZoom = c.Bool("apply-zoom")
	}

	switch {
	case c.IsSet("format"):
		cfg.Format = c.String("format")
	case cfg.OutputPath != "":
		if f, err := ports.ParseImageFormat(filepath.Ext(cfg.OutputPath)); err == nil {
			cfg.Format = f.String()
		}
	}
	if c.IsSet("preset") {
		cfg.Quality = picedit.GetQuality(picedit.QualityPreset(c.String("preset")))
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Float64("quality")
	}
	if c.IsSet("target-size") {
		cfg.TargetSize = c.String("target-size")
	}

	for _, dim := range []struct {
		flag string
		dst  *int
	}{{"width", &cfg.Width}, {"height", &cfg.Height}} {
		if !c.IsSet(dim.flag) {
			continue
		}
		v, err := editor.ParseDimension(c.String(dim.flag))
		if err != nil {
			return cfg, fmt.Errorf("--%s: %w", dim.flag, err)
		}
		*dim.dst = v
	}
	if c.IsSet("no-keep-aspect") {
		cfg.MaintainAspectRatio = !c.Bool("no-keep-aspect")
	}

	if c.IsSet("watermark") {
		cfg.Watermark.Text = c.String("watermark")
	}
	if c.IsSet("watermark-color") {
		cfg.Watermark.Color = c.String("watermark-color")
	}
	if c.IsSet("watermark-opacity") {
		cfg.Watermark.Opacity = c.Float64("watermark-opacity")
	}
	if c.IsSet("watermark-rotation") {
		cfg.Watermark.Rotation = c.Float64("watermark-rotation")
	}
	if c.IsSet("watermark-spacing-x") {
		cfg.Watermark.SpacingX = c.Float64("watermark-spacing-x")
	}
	if c.IsSet("watermark-spacing-y") {
		cfg.Watermark.SpacingY = c.Float64("watermark-spacing-y")
	}

	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	return cfg, nil
}

// parseCrop parses "x,y,width,height".
func parseCrop(s string) (*config.CropConfig, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: crop %q must be x,y,width,height", errUsage, s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: crop %q: %w", errUsage, s, err)
		}
		v[i] = f
	}
	return &config.CropConfig{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
