package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder

	"github.com/ironsheep/image-review-mcp/internal/model"
)

// ImageCache provides thread-safe caching of decoded pixel sources keyed by
// file path.
//
// Images are decoded with EXIF auto-orientation, so the cached dimensions are
// the ones a reviewer sees. Cached images remain in memory until Evict or
// Clear is called; a session that reloads many images should evict the
// previous one.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/slice.png")
//	if err != nil {
//	    return err
//	}
//	defer cache.Evict("/path/to/slice.png")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// Supported formats are PNG, JPEG, GIF, BMP and TIFF. The cache key is the
// exact path string, so relative and absolute paths to one file are cached
// separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo describes a pixel source file.
type ImageInfo struct {
	// Width is the image width in pixels after auto-orientation.
	Width int `json:"width"`

	// Height is the image height in pixels after auto-orientation.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", "bmp", "tiff" or "unknown", detected
	// from the file extension.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// Grayscale is true for single-channel sources, the usual case for
	// exported CT and MRI slices.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	case ".tif", ".tiff":
		format = "tiff"
	}

	grayscale := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.Gray:
		grayscale = true
	case *image.Gray16:
		grayscale = true
		colorDepth = "16-bit"
	case *image.RGBA64, *image.NRGBA64:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		Grayscale:     grayscale,
		FileSizeBytes: stat.Size(),
	}, nil
}

// LoadRequest describes an image to bring into a review session.
type LoadRequest struct {
	// Path is the pixel source on disk.
	Path string
	// ID defaults to the file name without its extension.
	ID       string
	Modality model.Modality
	Metadata map[string]any
}

// LoadMedicalImage decodes req.Path through cache and builds the session's
// image record from its real dimensions.
func LoadMedicalImage(cache *ImageCache, req LoadRequest) (model.MedicalImage, error) {
	img, err := cache.Load(req.Path)
	if err != nil {
		return model.MedicalImage{}, err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return model.MedicalImage{}, fmt.Errorf("image %s has no pixels", req.Path)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		base := filepath.Base(req.Path)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}

	metadata := make(map[string]any, len(req.Metadata))
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	return model.MedicalImage{
		ID:          id,
		Modality:    req.Modality,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		PixelSource: req.Path,
		Metadata:    metadata,
	}, nil
}
