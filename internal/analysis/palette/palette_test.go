package palette

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// stripeFrame builds a w x h frame of vertical stripes, each stripe filled with
// the corresponding color and spanning widths[i] columns.
func stripeFrame(h int, widths []int, colors []color.NRGBA) *frame.Frame {
	w := 0
	for _, sw := range widths {
		w += sw
	}
	pix := make([]uint8, w*h*frame.Channels)
	for y := 0; y < h; y++ {
		x := 0
		for i, sw := range widths {
			for k := 0; k < sw; k++ {
				o := (y*w + x) * frame.Channels
				c := colors[i]
				pix[o], pix[o+1], pix[o+2], pix[o+3] = c.R, c.G, c.B, c.A
				x++
			}
		}
	}
	f, _ := frame.New(pix, w, h)
	return f
}

var (
	red   = color.NRGBA{R: 220, G: 30, B: 30, A: 255}
	green = color.NRGBA{R: 30, G: 200, B: 60, A: 255}
	blue  = color.NRGBA{R: 20, G: 40, B: 230, A: 255}
	gray  = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	black = color.NRGBA{R: 5, G: 5, B: 5, A: 255}
)

func TestFilterThresholds(t *testing.T) {
	f := stripeFrame(3, []int{3, 3, 3}, []color.NRGBA{red, gray, black})

	tests := []struct {
		name string
		cfg  FilterConfig
		want int
	}{
		{"saturated only", FilterConfig{MinSaturation: 0.12}, 3},
		{"include neutrals", FilterConfig{MinSaturation: 0.12, IncludeNeutrals: true}, 6},
		{"zero cutoff", FilterConfig{MinSaturation: 0}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 27 pixels sampled every 3rd: three samples per stripe
			got := Filter(f, tt.cfg)
			if len(got) != tt.want {
				t.Errorf("len(Filter()) = %d, want %d", len(got), tt.want)
			}
			for _, s := range got {
				if s == (PixelSample{black.R, black.G, black.B}) {
					t.Error("dark pixels must never be eligible")
				}
			}
		})
	}
}

func TestFilterEmpty(t *testing.T) {
	f := stripeFrame(2, []int{6}, []color.NRGBA{black})
	if got := Filter(f, FilterConfig{IncludeNeutrals: true}); len(got) != 0 {
		t.Errorf("len(Filter()) = %d, want 0", len(got))
	}
}

func samplesOf(counts map[PixelSample]int) []PixelSample {
	var out []PixelSample
	for _, s := range []PixelSample{{220, 30, 30}, {30, 200, 60}, {20, 40, 230}} {
		for i := 0; i < counts[s]; i++ {
			out = append(out, s)
		}
	}
	return out
}

func TestQuantizeSeparatesClusters(t *testing.T) {
	samples := samplesOf(map[PixelSample]int{{220, 30, 30}: 60, {30, 200, 60}: 30, {20, 40, 230}: 10})

	clusters := NewFixedQuantizer(0).Quantize(samples, LiveClusters, LiveIterations)
	if len(clusters) != 3 {
		t.Fatalf("len(clusters) = %d, want 3", len(clusters))
	}

	wantRGB := [][3]uint8{{220, 30, 30}, {30, 200, 60}, {20, 40, 230}}
	wantW := []float64{0.6, 0.3, 0.1}
	for i, c := range clusters {
		if c.RGB() != wantRGB[i] {
			t.Errorf("cluster %d RGB = %v, want %v", i, c.RGB(), wantRGB[i])
		}
		if math.Abs(c.Weight-wantW[i]) > 1e-9 {
			t.Errorf("cluster %d weight = %f, want %f", i, c.Weight, wantW[i])
		}
	}
}

func TestQuantizeWeightsSumToOne(t *testing.T) {
	f := stripeFrame(7, []int{5, 11, 2, 9}, []color.NRGBA{red, green, blue, gray})
	samples := Filter(f, FilterConfig{IncludeNeutrals: true})

	for seed := uint64(0); seed < 8; seed++ {
		for _, k := range []int{LiveClusters, ThemeClusters} {
			clusters := NewQuantizer(seed).Quantize(samples, k, LiveIterations)
			sum := 0.0
			for i, c := range clusters {
				sum += c.Weight
				if i > 0 && c.Weight > clusters[i-1].Weight {
					t.Errorf("seed %d k %d: clusters not sorted by weight", seed, k)
				}
			}
			if math.Abs(sum-1) > 1e-6 {
				t.Errorf("seed %d k %d: weights sum = %f, want 1", seed, k, sum)
			}
		}
	}
}

func TestQuantizeFixedSeedIsIdempotent(t *testing.T) {
	f := stripeFrame(5, []int{4, 6, 3}, []color.NRGBA{red, green, gray})
	samples := Filter(f, FilterConfig{IncludeNeutrals: true})

	a := NewFixedQuantizer(4).Quantize(samples, LiveClusters, LiveIterations)
	b := NewFixedQuantizer(4).Quantize(samples, LiveClusters, LiveIterations)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("cluster %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestQuantizeEmptyClusterKeepsCentroid(t *testing.T) {
	// Two distinct colors but k=3: the third seed duplicates an existing center
	samples := samplesOf(map[PixelSample]int{{220, 30, 30}: 4, {30, 200, 60}: 4})
	clusters := NewFixedQuantizer(0).Quantize(samples, 3, LiveIterations)

	if len(clusters) != 3 {
		t.Fatalf("len(clusters) = %d, want 3", len(clusters))
	}
	if clusters[2].Count != 0 || clusters[2].Weight != 0 {
		t.Errorf("third cluster = %+v, want empty", clusters[2])
	}
}

func TestQuantizeNoSamples(t *testing.T) {
	if got := NewQuantizer(1).Quantize(nil, 3, 7); got != nil {
		t.Errorf("Quantize(nil) = %v, want nil", got)
	}
}

func TestHexAndExport(t *testing.T) {
	if got := Hex([3]uint8{255, 16, 1}); got != "#FF1001" {
		t.Errorf("Hex() = %q, want #FF1001", got)
	}

	entries := []Entry{NewEntry([3]uint8{255, 255, 255}), NewEntry([3]uint8{0, 0, 0})}
	text := ExportText(entries)
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("export lines = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Color 1: #FFFFFF | RGB(255, 255, 255) | OKLCH(1.00 0.00") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Color 2: #000000 | RGB(0, 0, 0) | OKLCH(0.00 0.00") {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestToOKLCHRed(t *testing.T) {
	got := ToOKLCH([3]uint8{255, 0, 0})
	// Reference values for sRGB red: L 0.628, C 0.258, h 29.2
	if math.Abs(got.L-0.628) > 0.005 || math.Abs(got.C-0.258) > 0.005 || math.Abs(got.H-29.2) > 0.5 {
		t.Errorf("ToOKLCH(red) = %+v", got)
	}
}

func TestDeriveTheme(t *testing.T) {
	// Already at theme size so no resampling blends the stripe edges
	img := image.NewNRGBA(image.Rect(0, 0, ThemeWidth, ThemeMinHeight))
	dark := color.NRGBA{R: 20, G: 24, B: 40, A: 255}
	for y := 0; y < ThemeMinHeight; y++ {
		for x := 0; x < ThemeWidth; x++ {
			c := dark
			switch {
			case x >= 64 && x < 96:
				c = color.NRGBA{R: 120, G: 130, B: 150, A: 255}
			case x >= 96 && x < 112:
				c = color.NRGBA{R: 250, G: 200, B: 0, A: 255}
			case x >= 112:
				c = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	theme, ok := DeriveTheme(img, NewFixedQuantizer(0))
	if !ok {
		t.Fatal("DeriveTheme() reported no samples")
	}
	if len(theme.Swatches) != ThemeClusters {
		t.Fatalf("swatches = %d, want %d", len(theme.Swatches), ThemeClusters)
	}
	if theme.Primary != "#141828" {
		t.Errorf("Primary = %s, want #141828", theme.Primary)
	}
	if theme.Accent != "#FAC800" {
		t.Errorf("Accent = %s, want #FAC800", theme.Accent)
	}
	if theme.Secondary != "#788296" {
		t.Errorf("Secondary = %s, want #788296", theme.Secondary)
	}
	if theme.Text != ThemeText {
		t.Errorf("Text = %s, want %s", theme.Text, ThemeText)
	}
}

func TestDeriveThemeTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	if _, ok := DeriveTheme(img, NewFixedQuantizer(0)); ok {
		t.Error("fully transparent image should yield no theme")
	}
}
