package features

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func quadrantGrid(t *testing.T) *PixelGrid {
	t.Helper()
	g, err := NewPixelGrid([][]uint8{
		{0, 0, 200, 200},
		{0, 0, 200, 200},
		{200, 200, 255, 255},
		{200, 200, 255, 255},
	})
	require.NoError(t, err)
	return g
}

func TestCompute_QuadrantExample(t *testing.T) {
	res, err := Compute(quadrantGrid(t), Params{Rows: 2, Cols: 2, Threshold: 128})
	require.NoError(t, err)

	assert.Equal(t, FeatureVector{4, 0, 0, 0}, res.Features)
	assert.Equal(t, NormalizedVector{1, 0, 0, 0}, res.Normalized)
	assert.Equal(t, "X = (4; 0; 0; 0)", FormatFeatures(res.Features))
	assert.Equal(t, "X_norm = (1.0000; 0.0000; 0.0000; 0.0000)", FormatNormalized(res.Normalized))
	assert.Equal(t, "X = (4; 0; 0; 0)\n\nX_norm = (1.0000; 0.0000; 0.0000; 0.0000)", res.String())
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(nil, DefaultParams())
	assert.ErrorIs(t, err, ErrNoImage)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Compute(quadrantGrid(t), Params{Rows: 0, Cols: 2, Threshold: 128})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.False(t, errors.Is(err, ErrNoImage))

	_, err = Compute(quadrantGrid(t), Params{Rows: 2, Cols: -1, Threshold: 128})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExtract_ThresholdIsExclusive(t *testing.T) {
	g, err := NewPixelGrid([][]uint8{{127, 128, 129}})
	require.NoError(t, err)
	segments, err := SegmentGrid(g, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, FeatureVector{1}, Extract(g, segments, 128))
	assert.Equal(t, FeatureVector{0}, Extract(g, segments, 0))
	assert.Equal(t, FeatureVector{0}, Extract(g, segments, -10))
	assert.Equal(t, FeatureVector{3}, Extract(g, segments, 256))
}

// TestExtract_CountConsistency checks that per-segment counts add up to the
// whole-grid count for every threshold.
func TestExtract_CountConsistency(t *testing.T) {
	g := newTestGrid(t, 17, 13, func(x, y int) uint8 { return uint8((x*31 + y*17) % 256) })

	for _, size := range [][2]int{{1, 1}, {2, 3}, {5, 5}, {13, 17}, {20, 20}} {
		segments, err := SegmentGrid(g, size[0], size[1])
		require.NoError(t, err)
		for threshold := -1; threshold <= 257; threshold += 16 {
			vector := Extract(g, segments, threshold)
			assert.Equal(t, g.CountBelow(threshold), vector.Sum(),
				"partition %v threshold %d", size, threshold)
		}
	}
}

func TestExtract_OrderPreservation(t *testing.T) {
	rows, cols := 3, 4
	// Each segment k gets exactly k+1 dark pixels so the index is recoverable
	g := newTestGrid(t, cols*4, rows*4, func(x, y int) uint8 {
		k := (y/4)*cols + x/4
		local := (y%4)*4 + x%4
		if local <= k {
			return 0
		}
		return 255
	})

	res, err := Compute(g, Params{Rows: rows, Cols: cols, Threshold: 128})
	require.NoError(t, err)

	for k, count := range res.Features {
		assert.Equal(t, k+1, count, "feature %d", k)
		seg := res.SegmentAt(k/cols, k%cols)
		assert.Equal(t, k, seg.Index(cols))
	}
}

func TestExtractChecked(t *testing.T) {
	g := quadrantGrid(t)

	_, err := ExtractChecked(g, []Segment{{StartRow: 0, EndRow: 5, StartCol: 0, EndCol: 2}}, 128)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ExtractChecked(g, []Segment{{StartRow: 2, EndRow: 1, StartCol: 0, EndCol: 2}}, 128)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ExtractChecked(nil, nil, 128)
	assert.ErrorIs(t, err, ErrNoImage)

	vector, err := ExtractChecked(g, []Segment{{StartRow: 0, EndRow: 4, StartCol: 0, EndCol: 4}}, 128)
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{4}, vector)
}

func TestNormalize(t *testing.T) {
	t.Run("ZeroSumPassThrough", func(t *testing.T) {
		assert.Equal(t, NormalizedVector{0, 0, 0}, Normalize(FeatureVector{0, 0, 0}))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Len(t, Normalize(FeatureVector{}), 0)
	})

	t.Run("SumsToOne", func(t *testing.T) {
		n := Normalize(FeatureVector{3, 1, 0, 7, 9})
		assert.InDelta(t, 1.0, n.Sum(), tolerance)
		assert.InDelta(t, 0.15, n[0], tolerance)
		assert.InDelta(t, 0.45, n[4], tolerance)
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := Normalize(FeatureVector{5, 2, 11, 0, 1, 1})
		twice := NormalizeFloat(once)
		require.Len(t, twice, len(once))
		for i := range once {
			assert.InDelta(t, once[i], twice[i], tolerance)
		}
	})

	t.Run("InputUntouched", func(t *testing.T) {
		in := []float64{2, 2}
		NormalizeFloat(in)
		assert.Equal(t, []float64{2, 2}, in)
	})
}

func TestCompute_AllBright(t *testing.T) {
	g := newTestGrid(t, 6, 6, func(x, y int) uint8 { return 250 })

	res, err := Compute(g, DefaultParams())
	require.NoError(t, err)
	assert.Len(t, res.Features, 25)
	assert.Equal(t, 0, res.Features.Sum())
	assert.Equal(t, 0.0, res.Normalized.Sum())
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams("", " ", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)

	p, err = ParseParams("3", "4", "90")
	require.NoError(t, err)
	assert.Equal(t, Params{Rows: 3, Cols: 4, Threshold: 90}, p)

	for _, in := range [][3]string{{"x", "4", "90"}, {"3", "4.5", "90"}, {"3", "4", "dark"}, {"0", "4", "90"}} {
		_, err := ParseParams(in[0], in[1], in[2])
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %v", in)
	}
}

func TestGridFromImage(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(10, 10, 13, 12))
	rgba.Set(10, 10, color.RGBA{255, 255, 255, 255})
	rgba.Set(12, 11, color.RGBA{0, 0, 0, 255})

	g, err := GridFromImage(rgba)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, uint8(255), g.At(0, 0))
	assert.Equal(t, uint8(0), g.At(1, 2))

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	gray.SetGray(1, 2, color.Gray{Y: 77})
	g, err = GridFromImage(gray.SubImage(image.Rect(1, 1, 3, 3)))
	require.NoError(t, err)
	assert.Equal(t, uint8(77), g.At(1, 0))
	assert.Equal(t, gray.SubImage(image.Rect(1, 1, 3, 3)).Bounds().Dx(), g.Image().Bounds().Dx())

	_, err = GridFromImage(image.NewGray(image.Rect(0, 0, 0, 5)))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSummarize(t *testing.T) {
	res, err := Compute(quadrantGrid(t), Params{Rows: 2, Cols: 2, Threshold: 128})
	require.NoError(t, err)

	s := Summarize(res)
	assert.Equal(t, 4, s.DarkPixels)
	assert.Equal(t, 16, s.TotalPixels)
	assert.InDelta(t, 0.25, s.DarkRatio, tolerance)
	assert.InDelta(t, 1.0, s.Mean, tolerance)
	assert.InDelta(t, 2.0, s.StdDev, tolerance)
	assert.InDelta(t, 0.0, s.Entropy, tolerance)
	assert.Equal(t, 0, s.MaxIndex)

	// Uniform darkness spreads entropy evenly over all segments
	res, err = Compute(newTestGrid(t, 4, 4, func(x, y int) uint8 { return 0 }), Params{Rows: 2, Cols: 2, Threshold: 128})
	require.NoError(t, err)
	s = Summarize(res)
	assert.InDelta(t, math.Log(4), s.Entropy, tolerance)
	assert.InDelta(t, 0.0, s.StdDev, tolerance)
}

func TestSummarize_NoDarkPixels(t *testing.T) {
	g := newTestGrid(t, 2, 2, func(x, y int) uint8 { return 255 })
	res, err := Compute(g, Params{Rows: 2, Cols: 2, Threshold: 128})
	require.NoError(t, err)

	s := Summarize(res)
	assert.Equal(t, 0, s.DarkPixels)
	assert.Equal(t, -1, s.MaxIndex)
	assert.Equal(t, 0.0, s.Entropy)
}
