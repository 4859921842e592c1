package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"segfeatures/internal/models"
	"segfeatures/pkg/config"
	"segfeatures/pkg/features"
	"segfeatures/pkg/matching"
	"segfeatures/pkg/visualization"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if errors.Is(err, features.ErrInvalidArgument) {
			log.Printf("Warning: %v", err)
			os.Exit(1)
		}
		log.Fatalf("Feature extraction failed: %v", err)
	}
}

// run parses args, computes the feature vectors and writes them to stdout.
func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("segfeatures", flag.ContinueOnError)

	// Parse command line arguments
	inputPath := flags.String("input", "", "Grayscale bitmap image to analyse")
	configPath := flags.String("config", "segfeatures.yaml", "YAML configuration file (defaults are used if it does not exist)")
	initConfig := flags.String("init-config", "", "Write a default configuration file to this path and exit")
	rows := flags.String("rows", "", "Number of segment rows (default 5)")
	cols := flags.String("cols", "", "Number of segment columns (default 5)")
	threshold := flags.String("threshold", "", "Intensity below which a pixel is dark (default 128)")
	overlayPath := flags.String("overlay", "", "Save a segment overlay image to this path (.png, .jpg or .bmp)")
	overlayScale := flags.Int("scale", 0, "Overlay magnification factor")
	segmentsDir := flags.String("segments-dir", "", "Directory to save every segment as a separate image")
	summary := flags.Bool("summary", false, "Print distribution statistics")
	verbose := flags.Bool("verbose", false, "Print progress information")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *initConfig != "" {
		if err := config.CreateDefaultConfigFile(*initConfig); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Default configuration written to: %s\n", *initConfig)
		return nil
	}

	// Validate inputs
	if *inputPath == "" {
		flags.Usage()
		return fmt.Errorf("%w: no input image given", features.ErrNoImage)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// Command line flags take precedence over the configuration file
	params, err := cfg.Params().Override(*rows, *cols, *threshold)
	if err != nil {
		return err
	}
	if *overlayPath != "" {
		cfg.Output.OverlayPath = *overlayPath
	}
	if *overlayScale > 0 {
		cfg.Output.OverlayScale = *overlayScale
	}
	cfg.Output.Summary = cfg.Output.Summary || *summary
	cfg.Output.Verbose = cfg.Output.Verbose || *verbose

	logger := log.New(io.Discard, "", 0)
	if cfg.Output.Verbose {
		logger = log.New(os.Stderr, "segfeatures: ", log.LstdFlags)
	}

	session := models.NewSession()

	logger.Printf("Loading %s", *inputPath)
	if err := session.Load(*inputPath); err != nil {
		return err
	}
	grid := session.Image.Grid
	logger.Printf("Loaded %s image with dimensions %dx%d", session.Image.Format, grid.Width(), grid.Height())

	startTime := time.Now()
	result, err := session.Compute(params)
	if err != nil {
		return err
	}
	logger.Printf("Computed %dx%d features with threshold %d in %s",
		params.Rows, params.Cols, params.Threshold, time.Since(startTime))

	fmt.Fprintln(stdout, result.String())

	if cfg.Output.Summary {
		s := features.Summarize(result)
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "Dark pixels: %d of %d (%.2f%%)\n", s.DarkPixels, s.TotalPixels, s.DarkRatio*100)
		fmt.Fprintf(stdout, "Mean per segment: %.4f\n", s.Mean)
		fmt.Fprintf(stdout, "Standard deviation: %.4f\n", s.StdDev)
		fmt.Fprintf(stdout, "Entropy: %.4f\n", s.Entropy)
		if s.MaxIndex >= 0 {
			fmt.Fprintf(stdout, "Darkest segment: (%d, %d)\n", s.MaxIndex/params.Cols, s.MaxIndex%params.Cols)
		}
	}

	if len(cfg.Matching.References) > 0 {
		if err := printMatch(stdout, cfg, result); err != nil {
			return err
		}
	}

	if cfg.Output.OverlayPath != "" || *segmentsDir != "" {
		viewer := visualization.NewViewer(grid, result, cfg.Output.OverlayScale)

		if cfg.Output.OverlayPath != "" {
			if err := viewer.Save(cfg.Output.OverlayPath); err != nil {
				return fmt.Errorf("failed to save overlay: %w", err)
			}
			logger.Printf("Overlay saved to: %s", cfg.Output.OverlayPath)
		}

		if *segmentsDir != "" {
			written, err := viewer.SaveSegments(*segmentsDir)
			if err != nil {
				return fmt.Errorf("failed to save segments: %w", err)
			}
			logger.Printf("Saved %d segments to: %s", written, *segmentsDir)
		}
	}

	return nil
}

// printMatch reports the reference closest to the normalized vector
func printMatch(w io.Writer, cfg *config.Config, result *features.Result) error {
	refs := make([]matching.Reference, len(cfg.Matching.References))
	for i, ref := range cfg.Matching.References {
		refs[i] = matching.Reference{Label: ref.Label, Vector: ref.Vector}
	}

	matcher, err := matching.NewMatcher(refs)
	if err != nil {
		return err
	}

	match, err := matcher.Nearest(result.Normalized)
	if err != nil {
		return fmt.Errorf("cannot match a %dx%d vector: %w", result.Rows, result.Cols, err)
	}

	fmt.Fprintln(w)
	if cfg.Matching.MaxDistance > 0 && match.Distance > cfg.Matching.MaxDistance {
		fmt.Fprintf(w, "Match: none within %.4f (nearest %s at %.4f)\n", cfg.Matching.MaxDistance, match.Label, match.Distance)
		return nil
	}
	fmt.Fprintf(w, "Match: %s (distance %.4f)\n", match.Label, match.Distance)

	return nil
}
