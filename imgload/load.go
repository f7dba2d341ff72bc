// Package imgload decodes image files into RGBA pixel buffers sized to
// fit the GPU's maximum texture dimension, with an optional
// content-addressed downscale cache fronting repeated lookups for
// oversized images.
package imgload

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// LoadError identifies a path that failed to load, so the caller (a
// playlist Player) can evict it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading image %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Image is a decoded RGBA image ready for upload to a GPU texture.
type Image struct {
	Path   string
	Pixels *image.NRGBA
}

// Width returns the image width in pixels.
func (i *Image) Width() int { return i.Pixels.Rect.Dx() }

// Height returns the image height in pixels.
func (i *Image) Height() int { return i.Pixels.Rect.Dy() }

// Load decodes path and, if either dimension exceeds maxDimension,
// downscales it using nearest-neighbor resampling (cheap — the panel
// renderer resamples again through the fragment shader, so decode-time
// quality loss here is acceptable; see Downscaler for a
// higher-quality, cached alternative).
func Load(path string, maxDimension int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if max(w, h) > maxDimension {
		w, h = fitWithin(w, h, maxDimension)
		resized := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(resized, resized.Bounds(), img, bounds, draw.Src, nil)
		return &Image{Path: path, Pixels: resized}, nil
	}

	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)
	return &Image{Path: path, Pixels: nrgba}, nil
}

// fitWithin returns dimensions that preserve aspect ratio while
// keeping the longer side at exactly maxDimension.
func fitWithin(w, h, maxDimension int) (int, int) {
	if w >= h {
		newH := h * maxDimension / w
		if newH < 1 {
			newH = 1
		}
		return maxDimension, newH
	}
	newW := w * maxDimension / h
	if newW < 1 {
		newW = 1
	}
	return newW, maxDimension
}
