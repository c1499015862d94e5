package chart

import "math"

// LinearScale maps a numeric domain onto a pixel range. The domain always
// contains zero, so bars and areas can anchor at Map(0). For vertical axes
// pass the bottom pixel as RangeStart and the top pixel as RangeEnd.
type LinearScale struct {
	Min, Max             float64
	RangeStart, RangeEnd float64
}

// NewLinearScale builds a scale over [min, max] widened to include zero.
// A degenerate domain is widened by one unit.
func NewLinearScale(min, max, rangeStart, rangeEnd float64) LinearScale {
	if math.IsNaN(min) || math.IsInf(min, 0) {
		min = 0
	}
	if math.IsNaN(max) || math.IsInf(max, 0) {
		max = 0
	}
	if min > 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if max <= min {
		max = min + 1
	}
	return LinearScale{Min: min, Max: max, RangeStart: rangeStart, RangeEnd: rangeEnd}
}

// Map converts a domain value to a pixel position
func (s LinearScale) Map(v float64) float64 {
	return s.RangeStart + (v-s.Min)/(s.Max-s.Min)*(s.RangeEnd-s.RangeStart)
}

// Nice extends the domain outward to multiples of a 1/2/5 tick step
func (s LinearScale) Nice(count int) LinearScale {
	step := niceStep(s.Max-s.Min, count)
	s.Min = math.Floor(s.Min/step) * step
	s.Max = math.Ceil(s.Max/step) * step
	return s
}

// Ticks returns evenly spaced tick values inside the domain
func (s LinearScale) Ticks(count int) []float64 {
	step := niceStep(s.Max-s.Min, count)
	first := math.Ceil(s.Min/step - 1e-9)
	last := math.Floor(s.Max/step + 1e-9)
	ticks := make([]float64, 0, int(last-first)+1)
	for i := first; i <= last; i++ {
		v := i * step
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		ticks = append(ticks, v)
	}
	return ticks
}

func niceStep(span float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	if span <= 0 {
		return 1
	}
	raw := span / float64(count)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag
	switch {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// BandScale splits a pixel range into Count equal bands separated by padding.
// PaddingInner is the fraction of each step left empty between bands;
// PaddingOuter is the fraction of a step left before the first and after the last band.
type BandScale struct {
	Count        int
	Start, End   float64
	PaddingInner float64
	PaddingOuter float64
}

// NewBandScale builds a band scale with inner padding and half as much outer padding
func NewBandScale(count int, start, end, padding float64) BandScale {
	if padding < 0 {
		padding = 0
	}
	if padding >= 1 {
		padding = 0.9
	}
	return BandScale{Count: count, Start: start, End: end, PaddingInner: padding, PaddingOuter: padding / 2}
}

// Step is the distance between the starts of adjacent bands
func (b BandScale) Step() float64 {
	if b.Count <= 0 {
		return 0
	}
	return (b.End - b.Start) / (float64(b.Count) - b.PaddingInner + 2*b.PaddingOuter)
}

// Bandwidth is the drawable width of one band
func (b BandScale) Bandwidth() float64 {
	return b.Step() * (1 - b.PaddingInner)
}

// Position returns the left edge of band i
func (b BandScale) Position(i int) float64 {
	step := b.Step()
	return b.Start + step*b.PaddingOuter + step*float64(i)
}

// Center returns the midpoint of band i
func (b BandScale) Center(i int) float64 {
	return b.Position(i) + b.Bandwidth()/2
}
