package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"convertany/converter"
	"convertany/converter/colors"
	"convertany/converter/format"
	"convertany/converter/magick"
	"convertany/converter/raster"
	"convertany/logger"
)

var (
	cfgFile       string
	showLicense   bool
	showCopyright bool
)

var registry = format.NewRegistry()

var rootCmd = &cobra.Command{
	Use:   "convertany <input_folder> [output_folder]",
	Short: "Batch-convert images and PDFs to one image format",
	Long:  guide(registry),
	Args:  cobra.ArbitraryArgs,
	// Usage problems print the error and the help text but still exit 0.
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if showLicense {
		printLicense(out)
		return nil
	}
	if showCopyright {
		printCopyright(out)
		return nil
	}

	printStartupNotice(out)

	if configErr != nil {
		fmt.Fprintf(out, "ERROR: failed to read config: %v\n", configErr)
		return nil
	}

	if len(args) == 0 {
		cmd.Help()
		fmt.Fprintln(out, "\nERROR: Input folder is required.")
		return nil
	}
	if len(args) > 2 {
		return usageError(cmd, fmt.Errorf("expected at most 2 arguments, got %d", len(args)))
	}

	s := loadSettings()

	f, err := registry.Parse(s.Format)
	if err != nil {
		return usageError(cmd, err)
	}
	if s.Quality < 1 || s.Quality > 100 {
		fmt.Fprintln(out, "quality must be in range 1-100")
		return nil
	}
	bg, err := colors.NewColorFromHex(s.Background)
	if err != nil {
		return usageError(cmd, fmt.Errorf("invalid --background: %w", err))
	}
	renderer, err := raster.NewRenderer(raster.RendererKind(s.Renderer))
	if err != nil {
		return usageError(cmd, err)
	}

	console := newConsole(out, s)
	conv := converter.New(registry, converter.Options{
		Background:    bg,
		KeepSourceDPI: s.KeepDPI,
		Renderer:      renderer,
		Logger:        console.Logger,
	})
	batch := converter.NewBatch(conv, registry, console)
	batch.ShowTable = s.Verbose

	outputDir := ""
	if len(args) == 2 {
		outputDir = args[1]
	}

	result, err := batch.Run(args[0], outputDir, f, s.DPI, s.Quality)
	if err != nil {
		if isConfigError(err) {
			console.Error("%v", err)
			return nil
		}
		return err
	}

	if s.Report != "" {
		if err := converter.WriteReport(s.Report, result); err != nil {
			return err
		}
		console.Info("Report written to: %s", s.Report)
	}
	return nil
}

func newConsole(out io.Writer, s settings) *logger.Console {
	opts := logger.DefaultOptions()
	opts.Output = out
	opts.EnableColors = !s.NoColor
	if s.Verbose {
		opts.Level = slog.LevelDebug
	}
	return logger.NewConsole(opts)
}

func isConfigError(err error) bool {
	for _, target := range []error{
		converter.ErrInputDirNotFound,
		converter.ErrNotADirectory,
		converter.ErrNoSupportedFiles,
		converter.ErrInvalidQuality,
		converter.ErrInvalidDPI,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// usageError prints err followed by the help text and swallows it.
func usageError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n\n", err)
	cmd.Help()
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringP("format", "f", "PNG", "Output format: "+strings.Join(registry.Names(), ", "))
	rootCmd.Flags().IntP("dpi", "d", 400, "Output resolution in DPI")
	rootCmd.Flags().IntP("quality", "q", 100, "Image quality 1-100 (100 is lossless where supported)")
	rootCmd.Flags().String("renderer", string(raster.RendererAuto), "PDF renderer: auto, mupdf or poppler")
	rootCmd.Flags().String("background", colors.DefaultBackground().Hex(), "Background color for transparent pixels in JPEG output")
	rootCmd.Flags().Bool("keep-dpi", false, "Embed the input's own resolution when it has one")
	rootCmd.Flags().String("report", "", "Write a YAML report of the run to this file")
	rootCmd.Flags().Bool("verbose", false, "Show debug output and a per-file summary table")
	rootCmd.Flags().Bool("no-color", false, "Disable colored output")

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: ./convertany.yaml or ~/.config/convertany/convertany.yaml)")
	rootCmd.Flags().BoolVar(&showLicense, "license", false, "Show full license information and exit")
	rootCmd.Flags().BoolVar(&showCopyright, "copyright", false, "Show copyright notice and exit")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, err)
	})
}

// Execute runs the root command inside an ImageMagick session.
func Execute() {
	stop := magick.Start()
	err := rootCmd.Execute()
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
