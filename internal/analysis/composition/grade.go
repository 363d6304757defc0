package composition

import (
	"math"
	"slices"
)

// Tag buckets a 0-100 score.
type Tag string

const (
	TagPass Tag = "pass"
	TagWarn Tag = "warn"
	TagFail Tag = "fail"
)

// TagFor returns the band a score falls in.
func TagFor(score int) Tag {
	switch {
	case score >= PassScore:
		return TagPass
	case score < FailScore:
		return TagFail
	default:
		return TagWarn
	}
}

// Score is the composition grade of one frame.
type Score struct {
	Score  int    `json:"score"`
	Tag    Tag    `json:"tag"`
	Actual [3]int `json:"actual"`
}

// Grade compares proportions against the 60/30/10 target. Input order does not
// matter; values are ranked descending and renormalized to 100 when needed.
func Grade(pcts []float64) Score {
	ranked := make([]float64, 3)
	sorted := slices.Clone(pcts)
	slices.SortFunc(sorted, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	copy(ranked, sorted)

	total := ranked[0] + ranked[1] + ranked[2]
	if total > 0 && math.Abs(total-100) > 1e-9 {
		for i := range ranked {
			ranked[i] = ranked[i] * 100 / total
		}
	}

	penalty := 0.0
	var s Score
	for i, v := range ranked {
		penalty += Weights[i] * math.Min(1, math.Abs(v-Target[i])/MaxDeviation)
		s.Actual[i] = int(math.Round(v))
	}
	s.Score = int(math.Round(math.Max(0, 100*(1-penalty))))
	s.Tag = TagFor(s.Score)
	return s
}
