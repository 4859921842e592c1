package features

import (
	"fmt"
	"strconv"
	"strings"
)

// Default partition and threshold used when the caller supplies none.
const (
	DefaultRows      = 5
	DefaultCols      = 5
	DefaultThreshold = 128
)

// Params controls a single feature computation.
type Params struct {
	// Rows and Cols give the number of segments along each axis
	Rows int
	Cols int

	// Threshold is the intensity cutoff; pixels strictly below it are dark
	Threshold int
}

// DefaultParams returns a 5x5 partition with threshold 128.
func DefaultParams() Params {
	return Params{
		Rows:      DefaultRows,
		Cols:      DefaultCols,
		Threshold: DefaultThreshold,
	}
}

// Validate checks that the partition size is usable.
func (p Params) Validate() error {
	if p.Rows <= 0 {
		return invalidf("rows must be positive, got %d", p.Rows)
	}
	if p.Cols <= 0 {
		return invalidf("cols must be positive, got %d", p.Cols)
	}
	return nil
}

// ParseParams converts the textual rows, cols and threshold fields into
// Params. Blank fields fall back to the defaults. Non-numeric text and
// non-positive rows or cols yield ErrInvalidArgument.
func ParseParams(rows, cols, threshold string) (Params, error) {
	return DefaultParams().Override(rows, cols, threshold)
}

// Override returns a copy of p with every non-blank field replaced by its
// parsed value. The result is validated.
func (p Params) Override(rows, cols, threshold string) (Params, error) {
	fields := []struct {
		name string
		text string
		dst  *int
	}{
		{"rows", rows, &p.Rows},
		{"cols", cols, &p.Cols},
		{"threshold", threshold, &p.Threshold},
	}
	for _, f := range fields {
		text := strings.TrimSpace(f.text)
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			return Params{}, invalidf("%s %q is not an integer", f.name, f.text)
		}
		*f.dst = v
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Result is the complete output of one computation. A Result is either fully
// populated or not returned at all.
type Result struct {
	Params

	// Segments is the partition in row-major order
	Segments []Segment

	// Features holds the raw dark-pixel counts
	Features FeatureVector

	// Normalized holds Features rescaled to sum to one
	Normalized NormalizedVector
}

// SegmentAt returns the segment at grid position (row, col).
func (r *Result) SegmentAt(row, col int) Segment {
	return r.Segments[row*r.Cols+col]
}

// Compute runs the full pipeline: segmentation, feature extraction and
// normalization.
//
// Parameters:
//   - grid: the loaded image; nil yields ErrNoImage
//   - params: partition size and threshold
//
// Returns:
//   - the populated Result, or an error matching ErrInvalidArgument
func Compute(grid *PixelGrid, params Params) (*Result, error) {
	if grid == nil {
		return nil, ErrNoImage
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	segments, err := SegmentGrid(grid, params.Rows, params.Cols)
	if err != nil {
		return nil, fmt.Errorf("failed to segment image: %w", err)
	}

	vector := Extract(grid, segments, params.Threshold)

	return &Result{
		Params:     params,
		Segments:   segments,
		Features:   vector,
		Normalized: Normalize(vector),
	}, nil
}
