// Package features computes segment-based feature vectors for grayscale
// images. A PixelGrid is partitioned into a rows x cols grid of rectangular
// segments, every segment is reduced to the number of pixels darker than a
// threshold, and the resulting vector is normalized to sum to one.
//
// All functions in this package are pure: they hold no state between calls
// and can be used concurrently on independent inputs.
package features

import (
	"image"
	"image/color"
)

// PixelGrid is a decoded single-channel image. Intensities are stored in
// row-major order, 0 is black and 255 is white.
//
// A PixelGrid is immutable once constructed.
type PixelGrid struct {
	pix    []uint8
	width  int
	height int
}

// NewPixelGrid copies rows into a new PixelGrid.
//
// Parameters:
//   - rows: pixel rows, top to bottom; every row must have the same length
//
// Returns:
//   - the grid, or ErrInvalidArgument if rows is empty or ragged
func NewPixelGrid(rows [][]uint8) (*PixelGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, invalidf("grid must have at least one row and one column")
	}

	width := len(rows[0])
	g := &PixelGrid{
		pix:    make([]uint8, 0, width*len(rows)),
		width:  width,
		height: len(rows),
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, invalidf("row %d has %d pixels, expected %d", y, len(row), width)
		}
		g.pix = append(g.pix, row...)
	}

	return g, nil
}

// GridFromImage converts any image to a PixelGrid using the standard luma
// conversion of color.GrayModel. Colour images are therefore flattened to
// grayscale rather than rejected.
func GridFromImage(img image.Image) (*PixelGrid, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, invalidf("image has zero area (%dx%d)", width, height)
	}

	g := &PixelGrid{
		pix:    make([]uint8, width*height),
		width:  width,
		height: height,
	}

	// Fast path for already gray images
	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			start := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(g.pix[y*width:(y+1)*width], gray.Pix[start:start+width])
		}
		return g, nil
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			g.pix[y*width+x] = c.Y
		}
	}

	return g, nil
}

// Width returns the number of pixel columns.
func (g *PixelGrid) Width() int { return g.width }

// Height returns the number of pixel rows.
func (g *PixelGrid) Height() int { return g.height }

// Area returns the total number of pixels.
func (g *PixelGrid) Area() int { return g.width * g.height }

// At returns the intensity at row y, column x.
func (g *PixelGrid) At(y, x int) uint8 {
	return g.pix[y*g.width+x]
}

// Row returns a copy of pixel row y.
func (g *PixelGrid) Row(y int) []uint8 {
	row := make([]uint8, g.width)
	copy(row, g.pix[y*g.width:(y+1)*g.width])
	return row
}

// Image returns the grid as an *image.Gray.
func (g *PixelGrid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.width, g.height))
	copy(img.Pix, g.pix)
	return img
}

// CountBelow returns the number of pixels in the whole grid strictly below
// threshold.
func (g *PixelGrid) CountBelow(threshold int) int {
	count := 0
	for _, v := range g.pix {
		if int(v) < threshold {
			count++
		}
	}
	return count
}
