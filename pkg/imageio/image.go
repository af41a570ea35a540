// Package imageio converts rendered radiance to 8-bit images and reads and
// writes them in the formats the command line tool supports.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// ImageData is a row-major color buffer, top row first
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewImageData creates a black image
func NewImageData(width, height int) *ImageData {
	return &ImageData{Width: width, Height: height, Pixels: make([]core.Vec3, width*height)}
}

// At returns the color at (x, y)
func (d *ImageData) At(x, y int) core.Vec3 {
	return d.Pixels[y*d.Width+x]
}

// Set stores the color at (x, y)
func (d *ImageData) Set(x, y int, c core.Vec3) {
	d.Pixels[y*d.Width+x] = c
}

// ToRGBA gamma-encodes linear colors into an 8-bit image. Non-finite
// components become 0.
func (d *ImageData) ToRGBA(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			c := d.At(x, y)
			if !c.IsFinite() {
				c = core.Vec3{}
			}
			c = c.Clamp(0, 1).GammaCorrect(gamma)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// FromImage converts any image to colors in [0, 1]
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	data := NewImageData(bounds.Dx(), bounds.Dy())

	for y := 0; y < data.Height; y++ {
		for x := 0; x < data.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			data.Set(x, y, core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			))
		}
	}
	return data
}

// Load decodes a PNG, JPEG, TGA or WebP file
func Load(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", filename, err)
	}
	defer file.Close()

	// Decode image (auto-detects the format from the file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", filename, err)
	}
	return FromImage(img), nil
}

// Save encodes img according to the file extension (.png, .webp or .tga)
func Save(filename string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".webp", ".tga":
	default:
		return core.NewConfigurationError("imageio", "unsupported output format %q", ext)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", filename, err)
	}

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	case ".tga":
		err = tga.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("imageio: encode %s: %w", filename, err)
	}
	return f.Close()
}

// Downsample scales img to width×height with CatmullRom filtering. Used to
// resolve supersampled renders.
func Downsample(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// RMSE returns the root mean square difference over all color channels
func RMSE(a, b *ImageData) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("imageio: size mismatch %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	if len(a.Pixels) == 0 {
		return 0, nil
	}

	sum := 0.0
	for i := range a.Pixels {
		d := a.Pixels[i].Subtract(b.Pixels[i])
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(3*len(a.Pixels))), nil
}
