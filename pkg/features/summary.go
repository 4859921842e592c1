package features

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of dark pixels over the segments.
type Summary struct {
	// DarkPixels is the total feature count, TotalPixels the grid area
	DarkPixels  int
	TotalPixels int

	// DarkRatio is DarkPixels / TotalPixels
	DarkRatio float64

	// Mean and StdDev are taken over the raw per-segment counts
	Mean   float64
	StdDev float64

	// Entropy is the Shannon entropy (nats) of the normalized vector.
	// It is 0 when every dark pixel sits in one segment or none are dark.
	Entropy float64

	// MaxIndex is the row-major index of the darkest segment, -1 when no
	// pixel is dark
	MaxIndex int
}

// Summarize computes distribution statistics for r.
func Summarize(r *Result) Summary {
	s := Summary{MaxIndex: -1}

	for _, seg := range r.Segments {
		s.TotalPixels += seg.Area()
	}
	s.DarkPixels = r.Features.Sum()
	if s.TotalPixels > 0 {
		s.DarkRatio = float64(s.DarkPixels) / float64(s.TotalPixels)
	}

	counts := r.Features.Floats()
	if len(counts) == 0 {
		return s
	}

	s.Mean = stat.Mean(counts, nil)
	if len(counts) > 1 {
		s.StdDev = stat.StdDev(counts, nil)
	}
	if s.DarkPixels > 0 {
		s.MaxIndex = floats.MaxIdx(counts)
		s.Entropy = stat.Entropy(r.Normalized)
	}

	return s
}
