package features

// Segment is one rectangular tile of a PixelGrid. Bounds are half-open:
// rows [StartRow, EndRow) and columns [StartCol, EndCol).
type Segment struct {
	// Row and Col give the tile position inside the rows x cols partition
	Row, Col int

	StartRow, EndRow int
	StartCol, EndCol int
}

// Height returns the number of pixel rows covered by the segment.
func (s Segment) Height() int { return s.EndRow - s.StartRow }

// Width returns the number of pixel columns covered by the segment.
func (s Segment) Width() int { return s.EndCol - s.StartCol }

// Area returns the number of pixels covered by the segment.
func (s Segment) Area() int { return s.Height() * s.Width() }

// Empty reports whether the segment covers no pixels. Empty segments occur
// when rows exceeds the grid height or cols exceeds the grid width.
func (s Segment) Empty() bool { return s.Area() == 0 }

// Index returns the position of the segment in a row-major ordering with
// cols columns.
func (s Segment) Index(cols int) int { return s.Row*cols + s.Col }

// SegmentGrid divides grid into rows x cols rectangular segments.
//
// The base segment height is height/rows and the base width is width/cols
// (integer division). The last row and the last column of segments extend to
// the grid edge and absorb any remainder, so segments never overlap and
// always cover every pixel exactly once.
//
// When rows > height (or cols > width) the base size is zero: every segment
// except those in the last row (column) is empty and the last one spans the
// whole dimension. This is accepted, not rejected.
//
// Parameters:
//   - grid: the image to partition
//   - rows, cols: partition size, both at least 1
//
// Returns:
//   - rows*cols segments in row-major order (row i outer, column j inner)
//   - ErrInvalidArgument for a nil or empty grid or a non-positive rows/cols
func SegmentGrid(grid *PixelGrid, rows, cols int) ([]Segment, error) {
	if grid == nil || grid.Area() == 0 {
		return nil, invalidf("grid has zero area")
	}
	if rows <= 0 {
		return nil, invalidf("rows must be positive, got %d", rows)
	}
	if cols <= 0 {
		return nil, invalidf("cols must be positive, got %d", cols)
	}

	rowBounds := splitRange(grid.Height(), rows)
	colBounds := splitRange(grid.Width(), cols)

	segments := make([]Segment, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			segments = append(segments, Segment{
				Row:      i,
				Col:      j,
				StartRow: rowBounds[i],
				EndRow:   rowBounds[i+1],
				StartCol: colBounds[j],
				EndCol:   colBounds[j+1],
			})
		}
	}

	return segments, nil
}

// splitRange returns n+1 boundaries dividing [0, size) into n parts of
// size/n, with the last part ending at size.
func splitRange(size, n int) []int {
	step := size / n
	bounds := make([]int, n+1)
	for i := 0; i < n; i++ {
		bounds[i] = i * step
	}
	bounds[n] = size
	return bounds
}
