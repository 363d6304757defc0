package composition

import (
	"math"
	"testing"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		name   string
		pcts   []float64
		score  int
		tag    Tag
		actual [3]int
	}{
		{"exact target", []float64{60, 30, 10}, 100, TagPass, [3]int{60, 30, 10}},
		{"unsorted input", []float64{10, 60, 30}, 100, TagPass, [3]int{60, 30, 10}},
		// [60,20,20]: 0.35*(10/30) + 0.15*(10/30) = 0.1667
		{"reverse sorted", []float64{20, 20, 60}, 83, TagWarn, [3]int{60, 20, 20}},
		// [100,0,0]: 0.5*1 + 0.35*1 + 0.15*(10/30) = 0.9
		{"single color", []float64{100, 0, 0}, 10, TagFail, [3]int{100, 0, 0}},
		{"renormalized", []float64{6, 3, 1}, 100, TagPass, [3]int{60, 30, 10}},
		// [34,33,33]: 0.5*(26/30) + 0.35*(3/30) + 0.15*(23/30) = 0.5833
		{"even split", []float64{34, 33, 33}, 42, TagFail, [3]int{34, 33, 33}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(tt.pcts)
			if got.Score != tt.score || got.Tag != tt.tag || got.Actual != tt.actual {
				t.Errorf("Grade(%v) = %+v, want {%d %s %v}", tt.pcts, got, tt.score, tt.tag, tt.actual)
			}
		})
	}
}

func TestTagFor(t *testing.T) {
	for score, want := range map[int]Tag{100: TagPass, 85: TagPass, 84: TagWarn, 60: TagWarn, 59: TagFail, 0: TagFail} {
		if got := TagFor(score); got != want {
			t.Errorf("TagFor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestScoreGolden(t *testing.T) {
	w, h := 320, 180
	pts := PowerPoints(w, h)

	for i, want := range cornerOrder {
		fp := ScoreGolden(pts[i][0], pts[i][1], w, h)
		if fp.Score != 100 || fp.Corner != want || fp.Tag != TagPass {
			t.Errorf("point %d = %+v, want 100 at %s", i, fp, want)
		}
	}

	fp := ScoreGolden(float64(w)/Phi, float64(h)/Phi, w, h)
	if fp.Corner != CornerTopLeft || fp.Score != 100 {
		t.Errorf("ScoreGolden(w/phi, h/phi) = %+v, want tl 100", fp)
	}

	// Halfway to the falloff distance scores 50
	diag := math.Hypot(float64(w), float64(h))
	fp = ScoreGolden(pts[0][0]+0.5*GoldenFalloff*diag, pts[0][1], w, h)
	if fp.Score != 50 {
		t.Errorf("half falloff score = %d, want 50", fp.Score)
	}

	if fp = ScoreGolden(0, 0, w, h); fp.Score != 0 || fp.Tag != TagFail {
		t.Errorf("corner of frame = %+v, want 0 fail", fp)
	}
}

func uniformFrame(w, h int, v uint8) *frame.Frame {
	pix := make([]uint8, w*h*frame.Channels)
	for i := range pix {
		pix[i] = v
	}
	f, _ := frame.New(pix, w, h)
	return f
}

func TestEstimateSaliencyUniform(t *testing.T) {
	f := uniformFrame(40, 20, 128)

	m, fp := EstimateSaliency(f, DefaultSaliency())
	if len(m.Values) != 800 {
		t.Fatalf("len(Values) = %d, want 800", len(m.Values))
	}
	// Uniform interior still has baseline saliency 0.25, so the top 5% cutoff
	// keeps every interior pixel and the centroid lands on the interior center.
	if math.Abs(fp.X-19.5) > 1e-9 || math.Abs(fp.Y-9.5) > 1e-9 {
		t.Errorf("centroid = (%f, %f), want (19.5, 9.5)", fp.X, fp.Y)
	}
}

func TestEstimateSaliencyTinyFrameFallback(t *testing.T) {
	// 2x2 has no interior pixels
	f := uniformFrame(2, 2, 200)

	_, fp := EstimateSaliency(f, DefaultSaliency())
	if fp.X != 1 || fp.Y != 1 || fp.Score != 0 || fp.Corner != CornerNone {
		t.Errorf("fallback = %+v, want center score 0 no corner", fp)
	}
}

func TestEstimateSaliencyFindsSaturatedSpot(t *testing.T) {
	w, h := 64, 36
	f := uniformFrame(w, h, 90)
	pts := PowerPoints(w, h)
	sx, sy := int(pts[2][0]), int(pts[2][1]) // tr
	for y := sy - 1; y <= sy+1; y++ {
		for x := sx - 1; x <= sx+1; x++ {
			i := (y*w + x) * frame.Channels
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = 230, 20, 20
		}
	}

	// Full saturation weight zeroes the gray background
	_, fp := EstimateSaliency(f, SaliencyConfig{Beta: 1, Gamma: 1, Quantile: 5})
	if math.Abs(fp.X-float64(sx)) > 1.5 || math.Abs(fp.Y-float64(sy)) > 1.5 {
		t.Errorf("centroid = (%f, %f), want near (%d, %d)", fp.X, fp.Y, sx, sy)
	}
	if fp.Corner != CornerTopRight {
		t.Errorf("Corner = %s, want tr", fp.Corner)
	}
	if fp.Score < 85 {
		t.Errorf("Score = %d, want >= 85", fp.Score)
	}
}

func TestCentroidCutoff(t *testing.T) {
	m := Map{Width: 4, Height: 1, Values: []float64{0, 1, 2, 4}}

	// q=50: rank floor(0.5*4)-1 = 1 in descending order, cutoff 2
	cx, _, ok := m.Centroid(50)
	if !ok {
		t.Fatal("Centroid() reported no survivors")
	}
	if want := (2*2 + 3*4) / 6.0; math.Abs(cx-want) > 1e-9 {
		t.Errorf("cx = %f, want %f", cx, want)
	}

	// q below one pixel keeps only the max
	if cx, _, _ = m.Centroid(1); cx != 3 {
		t.Errorf("cx = %f, want 3", cx)
	}

	zero := Map{Width: 2, Height: 1, Values: []float64{0, 0}}
	if _, _, ok := zero.Centroid(100); ok {
		t.Error("all-zero map should have no centroid")
	}
}

func TestSaliencyConfigClamp(t *testing.T) {
	got := SaliencyConfig{Beta: 3, Gamma: -1, Quantile: 0}.Clamp()
	want := SaliencyConfig{Beta: 1, Gamma: 0, Quantile: DefaultQuantile}
	if got != want {
		t.Errorf("Clamp() = %+v, want %+v", got, want)
	}
}

func TestMapImage(t *testing.T) {
	m := Map{Width: 3, Height: 1, Values: []float64{0, 0.5, 1}}
	img := m.Image()
	if img.Pix[0] != 0 || img.Pix[1] != 128 || img.Pix[2] != 255 {
		t.Errorf("Pix = %v, want [0 128 255]", img.Pix)
	}
}
