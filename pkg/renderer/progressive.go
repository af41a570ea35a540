package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/imageio"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains configuration for progressive rendering
type Config struct {
	TileSize           int     // Size of each tile
	SamplesPerPixel    int     // Maximum total samples per pixel
	InitialSamples     int     // Samples for the first pass
	MaxPasses          int     // Maximum number of passes
	NumWorkers         int     // Number of parallel workers (0 = use CPU count)
	Seed               int64   // Base seed mixed into every pixel's sampler
	AdaptiveMinSamples float64 // Fraction of the target samples taken before adaptive stopping
	AdaptiveThreshold  float64 // Relative error at which a pixel stops early, 0 disables
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:           32,
		SamplesPerPixel:    64,
		InitialSamples:     1,
		MaxPasses:          5,
		NumWorkers:         0, // Auto-detect CPU count
		Seed:               0,
		AdaptiveMinSamples: 0.15,
		AdaptiveThreshold:  0,
	}
}

// ProgressiveRaytracer renders an activated scene in passes of increasing
// sample counts
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        Config
	tiles         []*Tile
	film          *film
	logger        core.Logger
}

// NewProgressiveRaytracer creates a renderer for the scene's camera resolution
func NewProgressiveRaytracer(s *scene.Scene, config Config, logger core.Logger) (*ProgressiveRaytracer, error) {
	if s.Camera() == nil || s.Integrator() == nil || s.Sampler() == nil {
		return nil, core.NewConfigurationError("renderer", "scene must be activated before rendering")
	}
	if config.TileSize <= 0 || config.SamplesPerPixel <= 0 || config.MaxPasses <= 0 {
		return nil, core.NewConfigurationError("renderer", "tile size, samples per pixel and passes must be positive")
	}
	config.InitialSamples = max(1, min(config.InitialSamples, config.SamplesPerPixel))
	if logger == nil {
		logger = core.NopLogger{}
	}

	width, height := s.Camera().Width, s.Camera().Height
	return &ProgressiveRaytracer{
		scene:  s,
		width:  width,
		height: height,
		config: config,
		tiles:  NewTileGrid(width, height, config.TileSize),
		film:   newFilm(width, height),
		logger: logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.SamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.SamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	// Calculate target total samples for this pass
	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.SamplesPerPixel
	}

	return targetSamples
}

// renderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) renderPass(pool *WorkerPool, passNumber int) (*imageio.ImageData, RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pool.GetNumWorkers())

	for taskID, tile := range pr.tiles {
		pool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
		})
	}

	// Drain every result so the pool is idle before returning
	var firstErr error
	invalid := 0
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("renderer: worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		pr.tiles[result.TaskID].PassesCompleted++
		invalid += result.Stats.InvalidSamples
	}
	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	img, stats := pr.film.snapshot(targetSamples)
	stats.InvalidSamples = invalid
	return img, stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *imageio.ImageData
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders all passes in a goroutine, sending each pass on
// the first channel. The error channel receives at most one error, including
// ctx.Err() when rendering is cancelled between tiles.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		pool := NewWorkerPool(pr.scene, pr.config, len(pr.tiles), pr.film)
		pool.Start(ctx)
		defer pool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// Check for cancellation before starting this pass
			if err := ctx.Err(); err != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- err
				return
			}

			startTime := time.Now()
			img, stats, err := pr.renderPass(pool, pass)
			if err != nil {
				errChan <- err
				return
			}

			actualSamples := int(stats.AverageSamples)
			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, time.Since(startTime), actualSamples)

			isLast := pass == pr.config.MaxPasses || pr.getSamplesForPass(pass) >= pr.config.SamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, errChan
}

// Render runs every pass and returns the final image
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*imageio.ImageData, RenderStats, error) {
	passes, errs := pr.RenderProgressive(ctx)

	var last PassResult
	for result := range passes {
		last = result
	}
	if err := <-errs; err != nil {
		return nil, RenderStats{}, err
	}
	if last.Image == nil {
		return nil, RenderStats{}, fmt.Errorf("renderer: no pass completed")
	}
	if last.Stats.InvalidSamples > 0 {
		pr.logger.Printf("Warning: %d samples produced non-finite radiance\n", last.Stats.InvalidSamples)
	}
	return last.Image, last.Stats, nil
}

// film is the shared output image. Workers merge finished tiles into it
// under a single lock.
type film struct {
	mu      sync.Mutex
	image   *imageio.ImageData
	samples []int
}

func newFilm(width, height int) *film {
	return &film{
		image:   imageio.NewImageData(width, height),
		samples: make([]int, width*height),
	}
}

// merge copies the tile's current pixel estimates into the image
func (f *film) merge(tile *Tile) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			ps := tile.pixel(x, y)
			f.image.Set(x, y, ps.GetColor())
			f.samples[y*f.image.Width+x] = ps.SampleCount
		}
	}
}

// snapshot copies the image and calculates render statistics in a single pass
func (f *film) snapshot(targetSamples int) (*imageio.ImageData, RenderStats) {
	f.mu.Lock()
	defer f.mu.Unlock()

	img := imageio.NewImageData(f.image.Width, f.image.Height)
	copy(img.Pixels, f.image.Pixels)

	stats := newRenderStats(targetSamples)
	for _, count := range f.samples {
		stats.addPixel(count)
	}
	stats.finalize()

	return img, stats
}

// Tile represents a rectangular region of the image together with the
// sampling state of its pixels
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	pixels          []PixelStats
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		pixels: make([]PixelStats, bounds.Dx()*bounds.Dy()),
	}
}

// pixel returns the statistics of the pixel at image coordinates (x, y)
func (t *Tile) pixel(x, y int) *PixelStats {
	return &t.pixels[(y-t.Bounds.Min.Y)*t.Bounds.Dx()+(x-t.Bounds.Min.X)]
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			// Calculate tile bounds
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
