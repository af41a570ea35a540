package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/imageio"
	"github.com/df07/go-mis-raytracer/pkg/integrator"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// propertyFlags collects repeated -p key=value flags
type propertyFlags []string

func (p *propertyFlags) String() string {
	return strings.Join(*p, ",")
}

func (p *propertyFlags) Set(value string) error {
	*p = append(*p, value)
	return nil
}

// options holds the parsed command line
type options struct {
	Scene       string
	Integrator  string
	Properties  propertyFlags
	SPP         int
	Passes      int
	Width       int
	Height      int
	Workers     int
	Seed        int64
	Output      string
	Supersample int
	Reference   string
	MeshDir     string
	List        bool
	Help        bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.Scene, "scene", "cornell", "Scene ID or path to a .ply mesh shown in the Cornell box")
	fs.StringVar(&opts.Integrator, "integrator", "path", "Integrator: "+strings.Join(integrator.DefaultRegistry().Names(), ", "))
	fs.Var(&opts.Properties, "p", "Scene or integrator property key=value (repeatable)")
	fs.IntVar(&opts.SPP, "spp", 16, "Samples per pixel")
	fs.IntVar(&opts.Passes, "passes", 1, "Number of progressive passes")
	fs.IntVar(&opts.Width, "width", 0, "Output width (0 = scene default)")
	fs.IntVar(&opts.Height, "height", 0, "Output height (0 = scene default)")
	fs.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.Int64Var(&opts.Seed, "seed", 0, "Base random seed")
	fs.StringVar(&opts.Output, "out", "", "Output file (.png, .webp or .tga); default output/<scene>/render_<timestamp>.png")
	fs.IntVar(&opts.Supersample, "supersample", 1, "Render at this multiple of the output size and downsample")
	fs.StringVar(&opts.Reference, "reference", "", "Reference image to report the RMSE against")
	fs.StringVar(&opts.MeshDir, "meshes", "models", "Directory searched for .ply scenes by -list")
	fs.BoolVar(&opts.List, "list", false, "List available scenes")
	fs.BoolVar(&opts.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.Help {
		fmt.Fprintln(output, "MIS Raytracer")
		fmt.Fprintln(output, "Usage: raytracer [options]")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Options:")
		fs.PrintDefaults()
		return opts, nil
	}

	if opts.SPP < 1 || opts.Passes < 1 {
		return options{}, fmt.Errorf("spp and passes must be positive")
	}
	if opts.Supersample < 1 {
		return options{}, fmt.Errorf("supersample must be at least 1, got %d", opts.Supersample)
	}
	if opts.Width < 0 || opts.Height < 0 {
		return options{}, fmt.Errorf("width and height must not be negative")
	}
	return opts, nil
}

// properties turns the -p flags into a property bag, overriding the scene's
// output size with width and height when they are positive
func (o options) properties(width, height int) (*core.Properties, error) {
	props := core.NewProperties()
	for _, assignment := range o.Properties {
		if err := props.ParseAssignment(assignment); err != nil {
			return nil, err
		}
	}
	if width > 0 {
		props.Set("width", width)
	}
	if height > 0 {
		props.Set("height", height)
	}
	return props, nil
}

// buildScene creates the scene and integrator and activates them. The scene
// is rendered at Supersample times the output size, which is returned.
func buildScene(opts options, logger core.Logger) (*scene.Scene, int, int, error) {
	props, err := opts.properties(opts.Width, opts.Height)
	if err != nil {
		return nil, 0, 0, err
	}
	s, err := scene.NewScene(opts.Scene, props)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("creating scene: %w", err)
	}
	width, height := s.Camera().Width, s.Camera().Height

	if opts.Supersample > 1 {
		if props, err = opts.properties(width*opts.Supersample, height*opts.Supersample); err != nil {
			return nil, 0, 0, err
		}
		if s, err = scene.NewScene(opts.Scene, props); err != nil {
			return nil, 0, 0, fmt.Errorf("creating supersampled scene: %w", err)
		}
	}

	integ, err := integrator.DefaultRegistry().Create(opts.Integrator, props)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("creating integrator: %w", err)
	}
	if err := s.AddChild(integ); err != nil {
		return nil, 0, 0, err
	}
	if err := s.AddChild(core.NewRandomSampler(opts.Seed)); err != nil {
		return nil, 0, 0, err
	}
	if err := s.Activate(logger); err != nil {
		return nil, 0, 0, fmt.Errorf("activating scene: %w", err)
	}
	return s, width, height, nil
}

// render draws the scene and returns the display image at the output size
func render(ctx context.Context, s *scene.Scene, opts options, width, height int, logger core.Logger) (image.Image, error) {
	config := renderer.DefaultConfig()
	config.SamplesPerPixel = opts.SPP
	config.MaxPasses = opts.Passes
	config.InitialSamples = max(1, opts.SPP/opts.Passes)
	config.NumWorkers = opts.Workers
	config.Seed = opts.Seed

	raytracer, err := renderer.NewProgressiveRaytracer(s, config, logger)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	hdr, stats, err := raytracer.Render(ctx)
	if err != nil {
		return nil, err
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	if stats.InvalidSamples > 0 {
		logger.Printf("Discarded %d non-finite samples\n", stats.InvalidSamples)
	}

	var img image.Image = hdr.ToRGBA(2.2)
	if hdr.Width != width || hdr.Height != height {
		img = imageio.Downsample(img, width, height)
	}
	return img, nil
}

func outputPath(opts options) string {
	if opts.Output != "" {
		return opts.Output
	}
	name := strings.TrimSuffix(filepath.Base(opts.Scene), filepath.Ext(opts.Scene))
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
}

func listScenes(opts options, w io.Writer) error {
	fmt.Fprintln(w, "Built-in scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Fprintf(w, "  %-10s %s\n", info.ID, info.Description)
	}
	meshes, err := scene.ListMeshScenes(opts.MeshDir)
	if err != nil {
		return err
	}
	if len(meshes) > 0 {
		fmt.Fprintf(w, "Meshes in %s:\n", opts.MeshDir)
		for _, info := range meshes {
			fmt.Fprintf(w, "  %-30s %s\n", info.FilePath, info.Name)
		}
	}
	return nil
}

func run(ctx context.Context, opts options, logger core.Logger) error {
	s, width, height, err := buildScene(opts, logger)
	if err != nil {
		return err
	}

	img, err := render(ctx, s, opts, width, height, logger)
	if err != nil {
		return err
	}

	filename := outputPath(opts)
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := imageio.Save(filename, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)

	if opts.Reference != "" {
		reference, err := imageio.Load(opts.Reference)
		if err != nil {
			return err
		}
		rmse, err := imageio.RMSE(imageio.FromImage(img), reference)
		if err != nil {
			return err
		}
		logger.Printf("RMSE against %s: %.6f\n", opts.Reference, rmse)
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.Help {
		return
	}
	if opts.List {
		if err := listScenes(opts, os.Stdout); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Starting MIS Raytracer...")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, opts, renderer.NewDefaultLogger())
	stop()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
