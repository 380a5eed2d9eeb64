package render

import (
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// LogoCache loads team and league marks from per-league asset directories,
// scales them once to the display height, and remembers misses so a missing
// file is only probed once.
type LogoCache struct {
	assetsDir string
	height    int
	logger    *slog.Logger

	mu     sync.Mutex
	loaded map[string]image.Image // nil value means known absent
}

// NewLogoCache constructs a cache over assetsDir; images are scaled so their
// height equals height pixels.
func NewLogoCache(assetsDir string, height int, logger *slog.Logger) *LogoCache {
	return &LogoCache{
		assetsDir: assetsDir,
		height:    height,
		logger:    logger,
		loaded:    make(map[string]image.Image),
	}
}

// Logo returns the scaled mark for name within leagueKey's directory, or
// false when no usable file exists.
func (c *LogoCache) Logo(leagueKey, name string) (image.Image, bool) {
	if c == nil || c.assetsDir == "" || name == "" {
		return nil, false
	}
	key := leagueKey + "/" + strings.ToLower(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if img, seen := c.loaded[key]; seen {
		return img, img != nil
	}

	img := c.load(leagueKey, strings.ToLower(name))
	c.loaded[key] = img
	return img, img != nil
}

func (c *LogoCache) load(leagueKey, name string) image.Image {
	path := filepath.Join(c.assetsDir, leagueKey, name+".png")
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("skipping undecodable logo", "path", path, "error", err)
		}
		return nil
	}
	return c.scale(src)
}

func (c *LogoCache) scale(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dy() == 0 || b.Dy() == c.height {
		return src
	}
	width := b.Dx() * c.height / b.Dy()
	if width < 1 {
		width = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, c.height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
