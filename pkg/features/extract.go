package features

// FeatureVector holds one dark-pixel count per segment in row-major segment
// order.
type FeatureVector []int

// Sum returns the total of all counts.
func (v FeatureVector) Sum() int {
	total := 0
	for _, c := range v {
		total += c
	}
	return total
}

// Floats returns the counts as float64 values.
func (v FeatureVector) Floats() []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = float64(c)
	}
	return out
}

// Extract counts, for every segment in order, the pixels whose intensity is
// strictly less than threshold. A pixel equal to threshold is not counted.
//
// threshold is not range checked: values <= 0 count nothing and values
// above 255 count every pixel.
//
// Segments must lie inside grid; use ExtractChecked for segments that did
// not come from SegmentGrid.
func Extract(grid *PixelGrid, segments []Segment, threshold int) FeatureVector {
	vector := make(FeatureVector, len(segments))
	for k, seg := range segments {
		vector[k] = countBelow(grid, seg, threshold)
	}
	return vector
}

// ExtractChecked is Extract with bounds validation. It returns
// ErrInvalidArgument if any segment is inverted or reaches outside grid.
func ExtractChecked(grid *PixelGrid, segments []Segment, threshold int) (FeatureVector, error) {
	if grid == nil {
		return nil, ErrNoImage
	}
	for k, seg := range segments {
		if seg.StartRow < 0 || seg.StartCol < 0 ||
			seg.EndRow > grid.Height() || seg.EndCol > grid.Width() ||
			seg.StartRow > seg.EndRow || seg.StartCol > seg.EndCol {
			return nil, invalidf("segment %d [%d:%d, %d:%d] outside %dx%d grid",
				k, seg.StartRow, seg.EndRow, seg.StartCol, seg.EndCol, grid.Height(), grid.Width())
		}
	}
	return Extract(grid, segments, threshold), nil
}

func countBelow(grid *PixelGrid, seg Segment, threshold int) int {
	count := 0
	for y := seg.StartRow; y < seg.EndRow; y++ {
		row := grid.pix[y*grid.width+seg.StartCol : y*grid.width+seg.EndCol]
		for _, v := range row {
			if int(v) < threshold {
				count++
			}
		}
	}
	return count
}
