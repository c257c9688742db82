package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Decode decodes raw image bytes (JPEG, PNG, or GIF).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Crop copies the zone's sub-rectangle out of the source image. Out-of-bounds
// geometry is clamped to the source extent; a zone entirely outside the
// source yields an empty image.
func Crop(img image.Image, z Zone) *image.RGBA {
	z = z.Clamp(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, z.Width, z.Height))
	for y := 0; y < z.Height; y++ {
		for x := 0; x < z.Width; x++ {
			out.Set(x, y, img.At(z.X+x, z.Y+y))
		}
	}
	return out
}

// Binarize thresholds every pixel against the given brightness cutoff,
// forcing each channel to pure black or pure white. Luminance uses the
// 0.299/0.587/0.114 RGB weighting. The transform is deterministic and
// idempotent: binarizing an already-binarized image is a no-op.
func Binarize(img image.Image, threshold uint8) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels
			lum := (299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000
			if lum > uint32(threshold) {
				out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, white)
			} else {
				out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, black)
			}
		}
	}
	return out
}

// PrepareZone crops the zone out of the frame, binarizes it with the zone's
// threshold, and upscales small crops so the text extractor has enough
// pixels to work with.
func PrepareZone(frame image.Image, z Zone) *image.RGBA {
	cropped := Crop(frame, z)
	bin := Binarize(cropped, z.Threshold)
	return Upscale(bin, 150)
}

// Upscale scales the image up so its smaller dimension is at least minDim.
// Images already large enough are returned unchanged.
func Upscale(img *image.RGBA, minDim int) *image.RGBA {
	b := img.Bounds()
	short := b.Dx()
	if b.Dy() < short {
		short = b.Dy()
	}
	if short >= minDim || short == 0 {
		return img
	}
	scale := float64(minDim) / float64(short)
	out := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Over, nil)
	return out
}
