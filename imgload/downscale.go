package imgload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies one cached downscale: a source path plus the
// target box it was fit into. Per spec §9's open question, this keys
// only on path and size — not source-file mtime.
type cacheKey struct {
	path   string
	width  int
	height int
}

// Downscaler is the orthogonal, advisory downscale cache described in
// spec §4.2: a content-addressed cache directory keyed by hash(path)
// storing precomputed Lanczos downscales, fronted by an in-memory LRU
// index so repeated lookups for a hot size skip the filesystem.
//
// Cache writes are best-effort: a failure to persist a downscale is
// logged by the caller (if it wants to) and otherwise ignored, since
// the cache is advisory and Load still works without it.
type Downscaler struct {
	dir   string
	index *lru.Cache[cacheKey, string]
}

// NewDownscaler creates a downscaler backed by dir, which is created
// if missing. indexSize bounds the in-memory lookup index, not the
// number of files retained on disk.
func NewDownscaler(dir string, indexSize int) (*Downscaler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("imgload: creating downscale cache dir: %w", err)
	}
	if indexSize <= 0 {
		indexSize = 256
	}
	index, err := lru.New[cacheKey, string](indexSize)
	if err != nil {
		return nil, fmt.Errorf("imgload: creating downscale cache index: %w", err)
	}
	return &Downscaler{dir: dir, index: index}, nil
}

// Get returns a downscaled image fit within (width, height), loading
// from the on-disk cache if present and recording the hit in the
// in-memory index. The returned bool is false on a cache miss.
func (d *Downscaler) Get(path string, width, height int) (*Image, bool) {
	key := cacheKey{path: path, width: width, height: height}

	if cachedPath, ok := d.index.Get(key); ok {
		if img, err := loadPNG(cachedPath); err == nil {
			return &Image{Path: path, Pixels: img}, true
		}
		d.index.Remove(key)
	}

	cachedPath := d.filePath(path, width, height)
	img, err := loadPNG(cachedPath)
	if err != nil {
		return nil, false
	}
	d.index.Add(key, cachedPath)
	return &Image{Path: path, Pixels: img}, true
}

// Put Lanczos-downscales src to fit within (width, height) and saves
// it to the cache directory as a PNG (chosen to avoid introducing
// compression artifacts on top of the resample). A save failure is
// returned to the caller but is safe to ignore.
func (d *Downscaler) Put(path string, width, height int, src image.Image) (*Image, error) {
	resized := imaging.Fit(src, width, height, imaging.Lanczos)

	cachedPath := d.filePath(path, width, height)
	if err := imaging.Save(resized, cachedPath); err != nil {
		return nil, fmt.Errorf("imgload: saving downscale cache entry: %w", err)
	}

	nrgba := imaging.Clone(resized)
	d.index.Add(cacheKey{path: path, width: width, height: height}, cachedPath)
	return &Image{Path: path, Pixels: nrgba}, nil
}

// filePath derives the on-disk cache location from hash(path) and the
// target box.
func (d *Downscaler) filePath(path string, width, height int) string {
	sum := sha256.Sum256([]byte(path))
	name := fmt.Sprintf("%s_%dx%d.png", hex.EncodeToString(sum[:16]), width, height)
	return filepath.Join(d.dir, name)
}

func loadPNG(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}
