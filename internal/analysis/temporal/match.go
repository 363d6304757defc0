package temporal

// permutations of three slot indices
var permutations = [6][Slots]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

// MatchByColor reorders segments so each lands in the slot whose previous
// color it is closest to, minimising the total squared RGB distance. Ties
// keep the ranked order.
func MatchByColor(prev Proportions, segments []Segment) [Slots]Segment {
	cur := Pad(segments)
	best, bestCost := permutations[0], -1.0
	for _, p := range permutations {
		cost := 0.0
		for slot, src := range p {
			cost += colorDist2(prev[slot].Color, cur[src].Color)
		}
		if bestCost < 0 || cost < bestCost {
			best, bestCost = p, cost
		}
	}

	var out [Slots]Segment
	for slot, src := range best {
		out[slot] = cur[src]
	}
	return out
}

func colorDist2(a, b [3]uint8) float64 {
	d := 0.0
	for i := range a {
		v := float64(a[i]) - float64(b[i])
		d += v * v
	}
	return d
}
