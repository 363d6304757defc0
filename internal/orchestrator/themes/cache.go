package themes

import (
	"context"
	"image"
	"sync"

	"github.com/corona10/goimagehash"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

// signature is a coarse grid of region colors. The perceptual hash only
// sees luminance, so two stills with the same layout in different hues
// share a hash; the grid tells them apart.
type signature [SignatureGrid * SignatureGrid]colorful.Color

func colorSignature(img image.Image) signature {
	var sig signature
	f := frame.Resize(img, SignatureGrid, SignatureGrid)
	for i := range sig {
		o := i * frame.Channels
		sig[i] = colorful.Color{
			R: float64(f.Pix[o]) / 255,
			G: float64(f.Pix[o+1]) / 255,
			B: float64(f.Pix[o+2]) / 255,
		}
	}
	return sig
}

// near reports whether every region of a is within MaxColorDistance of b.
func (a signature) near(b signature) bool {
	for i := range a {
		if a[i].DistanceLab(b[i]) > MaxColorDistance {
			return false
		}
	}
	return true
}

type entry struct {
	hash  *goimagehash.ImageHash
	sig   signature
	theme palette.Theme
}

// Cache derives themes and reuses them for near-identical images.
type Cache struct {
	mu       sync.Mutex
	entries  []entry
	capacity int
	newQ     func() *palette.Quantizer
}

// NewCache creates a theme cache holding up to capacity themes.
func NewCache(capacity int, newQ func() *palette.Quantizer) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{capacity: capacity, newQ: newQ}
}

// Derive decodes data and returns its theme.
func (c *Cache) Derive(ctx context.Context, data []byte) (palette.Theme, error) {
	img, format, err := frame.Decode(data)
	if err != nil {
		return palette.Theme{}, err
	}
	trace.Logger(ctx).Debug("deriving theme", "format", format)
	return c.DeriveImage(ctx, img)
}

// DeriveImage returns the theme of img, from cache when an image with a
// similar structure and similar colors was seen before.
func (c *Cache) DeriveImage(ctx context.Context, img image.Image) (palette.Theme, error) {
	ctx, span := trace.StartSpan(ctx, "derive_theme")
	defer span.End()

	// Hashing fails only on degenerate images; those are simply not cached.
	hash, hashErr := goimagehash.PerceptionHash(img)
	var sig signature
	if hashErr == nil {
		sig = colorSignature(img)
		if th, ok := c.lookup(hash, sig); ok {
			span.SetAttr("cached", true)
			return th, nil
		}
	}

	th, ok := palette.DeriveTheme(img, c.newQ())
	if !ok {
		return palette.Theme{}, apperrors.New(apperrors.InvalidArgument, "image has no opaque pixels")
	}
	if hashErr == nil {
		c.store(hash, sig, th)
	} else {
		trace.Logger(ctx).Debug("theme not cached", "error", hashErr)
	}
	return th, nil
}

// Len returns the number of cached themes
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(hash *goimagehash.ImageHash, sig signature) (palette.Theme, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		dist, err := e.hash.Distance(hash)
		if err != nil || dist > MaxHashDistance || !e.sig.near(sig) {
			continue
		}
		// Move to the back so recently used themes survive eviction
		c.entries = append(append(c.entries[:i:i], c.entries[i+1:]...), e)
		return e.theme, true
	}
	return palette.Theme{}, false
}

func (c *Cache) store(hash *goimagehash.ImageHash, sig signature, th palette.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{hash: hash, sig: sig, theme: th})
	if len(c.entries) > c.capacity {
		c.entries = c.entries[len(c.entries)-c.capacity:]
	}
}
