package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/esimov/distort"
	"github.com/esimov/distort/imop"
	"github.com/esimov/distort/utils"
	"github.com/spf13/cobra"
)

const HelpBanner = `
┌┬┐┬┌─┐┌┬┐┌─┐┬─┐┌┬┐
 │││└─┐ │ │ │├┬┘ │
─┴┘┴└─┘ ┴ └─┘┴└─ ┴

Supersampled image warping.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version = "dev"

var (
	// Flags
	source     string
	dest       string
	effects    []string
	antialias  int
	emptyColor string
	kernelCPU  int
	scale      float64
	compare    bool
	faceDetect bool
	faceAngle  float64
	cascade    string
	workers    int
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "distort -e <effect> [-e <effect>...] --in <src> --out <dst>",
	Short: "Supersampled image warping",
	Long: `distort remaps images through coordinate formulas: lens and polar
distortions, region and local warps, waves, overlays and composition.
Effects given with -e are applied in order. Run "distort presets" to list them.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the effects, formulas and composition operators",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "effects:         %s\n", strings.Join(distort.EffectNames(), ", "))
		fmt.Fprintf(w, "lens formulas:   %s\n", strings.Join(distort.Formulas(), ", "))
		fmt.Fprintf(w, "polar formulas:  %s\n", strings.Join(distort.PolarFormulas(), ", "))
		fmt.Fprintf(w, "composite ops:   %s\n", joinNames(imop.Ops()))
		fmt.Fprintf(w, "blend modes:     %s\n", joinNames(imop.Modes()))
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"distort %s (%s/%s, %s)\n",
		Version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	f := rootCmd.Flags()
	f.StringVar(&source, "in", pipeName, "Source image, directory or URL")
	f.StringVar(&dest, "out", pipeName, "Destination image or directory")
	f.StringArrayVarP(&effects, "effect", "e", nil, `Effect description, e.g. "lens:formula=sine,aa=3"`)
	f.IntVar(&antialias, "aa", 0, "Default antialias factor of the warp kernels")
	f.StringVar(&emptyColor, "empty", "", "Default empty color as hex, e.g. #808080")
	f.IntVar(&kernelCPU, "cpu", 0, "Workers used by each warp kernel (0 means all CPUs)")
	f.Float64Var(&scale, "scale", 0, "Scale factor applied before the effects")
	f.BoolVar(&compare, "compare", false, "Place the source next to the result")
	f.BoolVar(&faceDetect, "face", false, "Enable face anchored local warps (the face effect)")
	f.Float64Var(&faceAngle, "angle", 0.0, "Plane rotated faces angle")
	f.StringVar(&cascade, "cc", "", "Cascade classifier")
	f.IntVar(&workers, "conc", runtime.NumCPU(), "Number of files to process concurrently")
	f.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log kernel decisions and image fingerprints")
	rootCmd.AddCommand(presetsCmd)
}

func main() {
	log.SetFlags(0)

	rootCmd.SetUsageTemplate(fmt.Sprintf(HelpBanner, Version) + rootCmd.UsageTemplate())
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%s%s",
			utils.DecorateText(fmt.Sprintf("\n%v", err), utils.ErrorMessage),
			utils.DefaultColor,
		)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if len(effects) == 0 {
		return fmt.Errorf("please provide at least one effect with -e")
	}
	if faceDetect && len(cascade) == 0 {
		return fmt.Errorf("please specify a face classifier in case you are using the --face flag")
	}
	setupLogger()

	proc := &distort.Processor{
		Effects:    effects,
		Antialias:  antialias,
		EmptyColor: emptyColor,
		Workers:    kernelCPU,
		Scale:      scale,
		Compare:    compare,
		FaceDetect: faceDetect,
		FaceAngle:  faceAngle,
		Cascade:    cascade,
	}
	return proc.Execute(&distort.Ops{
		Src:      source,
		Dst:      dest,
		PipeName: pipeName,
		Workers:  workers,
		Quiet:    quiet,
	})
}

// setupLogger enables the library logger with --verbose or DISTORT_LOG_LEVEL.
func setupLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("DISTORT_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "":
		if !verbose {
			return
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	distort.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func joinNames[T ~string](names []T) string {
	s := make([]string, len(names))
	for i, n := range names {
		s[i] = string(n)
	}
	return strings.Join(s, ", ")
}
