package visualization

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"golang.org/x/image/draw"

	"segfeatures/pkg/features"
	"segfeatures/pkg/imageio"
)

// ErrEmptySegment is returned when extracting a segment that covers no pixels
var ErrEmptySegment = errors.New("visualization: segment is empty")

var (
	// borderColor outlines every segment
	borderColor = color.RGBA{R: 0, G: 160, B: 255, A: 255}

	// tintColor marks dark segments; opacity follows the normalized feature
	tintColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// maxTint is the opacity applied to the darkest segment
const maxTint = 0.5

// Viewer renders a computed feature result on top of its source image
type Viewer struct {
	// grid is the source image
	grid *features.PixelGrid

	// result holds the segments and vectors computed from grid
	result *features.Result

	// scale enlarges every source pixel to scale x scale output pixels
	scale int
}

// NewViewer creates a new viewer for result computed on grid.
// A scale below 1 is treated as 1.
func NewViewer(grid *features.PixelGrid, result *features.Result, scale int) *Viewer {
	if scale < 1 {
		scale = 1
	}
	return &Viewer{
		grid:   grid,
		result: result,
		scale:  scale,
	}
}

// Render draws the source image in gray, tints each segment red in
// proportion to its share of the dark pixels and outlines the segment grid.
func (v *Viewer) Render() *image.RGBA {
	src := v.grid.Image()
	dst := image.NewRGBA(image.Rect(0, 0, v.grid.Width()*v.scale, v.grid.Height()*v.scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	peak := 0.0
	for _, n := range v.result.Normalized {
		if n > peak {
			peak = n
		}
	}

	for k, seg := range v.result.Segments {
		if seg.Empty() {
			continue
		}
		rect := v.scaled(seg)

		if peak > 0 && v.result.Normalized[k] > 0 {
			tint(dst, rect, maxTint*v.result.Normalized[k]/peak)
		}
		outline(dst, rect)
	}

	return dst
}

// ExtractSegment returns the source pixels of the segment at (row, col)
func (v *Viewer) ExtractSegment(row, col int) (image.Image, error) {
	if row < 0 || row >= v.result.Rows || col < 0 || col >= v.result.Cols {
		return nil, fmt.Errorf("segment (%d,%d) outside %dx%d partition", row, col, v.result.Rows, v.result.Cols)
	}

	seg := v.result.SegmentAt(row, col)
	if seg.Empty() {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrEmptySegment, row, col)
	}

	rect := image.Rect(seg.StartCol, seg.StartRow, seg.EndCol, seg.EndRow)
	return v.grid.Image().SubImage(rect), nil
}

// Save renders the overlay and writes it to filename
func (v *Viewer) Save(filename string) error {
	return imageio.Save(v.Render(), filename)
}

// SaveSegments writes every non-empty segment to outputDir as
// segment_RR_CC.png and returns the number of files written
func (v *Viewer) SaveSegments(outputDir string) (int, error) {
	written := 0
	for _, seg := range v.result.Segments {
		if seg.Empty() {
			continue
		}

		img, err := v.ExtractSegment(seg.Row, seg.Col)
		if err != nil {
			return written, err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("segment_%02d_%02d.png", seg.Row, seg.Col))
		if err := imageio.Save(img, filename); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

// scaled maps segment bounds to output coordinates
func (v *Viewer) scaled(seg features.Segment) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(seg.StartCol, seg.StartRow).Mul(v.scale),
		Max: image.Pt(seg.EndCol, seg.EndRow).Mul(v.scale),
	}
}

// tint blends tintColor over rect with the given opacity
func tint(img *image.RGBA, rect image.Rectangle, alpha float64) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: blend(c.R, tintColor.R, alpha),
				G: blend(c.G, tintColor.G, alpha),
				B: blend(c.B, tintColor.B, alpha),
				A: 255,
			})
		}
	}
}

func blend(a, b uint8, alpha float64) uint8 {
	return uint8(float64(a)*(1-alpha) + float64(b)*alpha + 0.5)
}

// outline draws the top and left edges of rect, plus the bottom and right
// edges where rect touches the image border
func outline(img *image.RGBA, rect image.Rectangle) {
	bounds := img.Bounds()
	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.SetRGBA(x, rect.Min.Y, borderColor)
		if rect.Max.Y == bounds.Max.Y {
			img.SetRGBA(x, rect.Max.Y-1, borderColor)
		}
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.SetRGBA(rect.Min.X, y, borderColor)
		if rect.Max.X == bounds.Max.X {
			img.SetRGBA(rect.Max.X-1, y, borderColor)
		}
	}
}
