// Package matching classifies normalized feature vectors by finding the
// closest labelled reference vector.
package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

var (
	// ErrInvalidReference indicates an empty reference set, a reference
	// without a label, or references of differing lengths.
	ErrInvalidReference = errors.New("matching: invalid reference set")

	// ErrDimensionMismatch indicates a query vector whose length differs
	// from the reference vectors.
	ErrDimensionMismatch = errors.New("matching: vector length does not match references")
)

// Reference is a labelled feature vector, usually normalized.
type Reference struct {
	Label  string
	Vector []float64
}

// Match is one search hit.
type Match struct {
	Label string

	// Distance is the Euclidean distance between query and reference
	Distance float64
}

// point implements kdtree.Comparable for a labelled vector
type point struct {
	label  string
	vector []float64
}

// Compare implements the kdtree.Comparable interface
func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.vector[d] - c.(point).vector[d]
}

// Dims returns the vector length
func (p point) Dims() int { return len(p.vector) }

// Distance returns the squared Euclidean distance between two points
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	sum := 0.0
	for i, v := range p.vector {
		d := v - q.vector[i]
		sum += d * d
	}
	return sum
}

// points is a collection of point that satisfies kdtree.Interface
type points []point

func (p points) Index(i int) kdtree.Comparable        { return p[i] }
func (p points) Len() int                             { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p points) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{points: p, Dim: d}, kdtree.MedianOfRandoms(plane{points: p, Dim: d}, 100))
}

// plane implements sort.Interface and kdtree.SortSlicer for points
type plane struct {
	points
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.points[i].vector[p.Dim] < p.points[j].vector[p.Dim]
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

// Matcher finds the nearest reference for a feature vector. It is read-only
// after construction and safe for concurrent use.
type Matcher struct {
	tree *kdtree.Tree
	dims int
	size int
}

// NewMatcher builds a k-d tree over refs. Every reference needs a label and
// all vectors must share one non-zero length. The vectors are copied.
func NewMatcher(refs []Reference) (*Matcher, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no references", ErrInvalidReference)
	}

	dims := len(refs[0].Vector)
	if dims == 0 {
		return nil, fmt.Errorf("%w: reference %q has an empty vector", ErrInvalidReference, refs[0].Label)
	}

	pts := make(points, len(refs))
	for i, ref := range refs {
		if ref.Label == "" {
			return nil, fmt.Errorf("%w: reference %d has no label", ErrInvalidReference, i)
		}
		if len(ref.Vector) != dims {
			return nil, fmt.Errorf("%w: reference %q has %d values, expected %d",
				ErrInvalidReference, ref.Label, len(ref.Vector), dims)
		}
		vec := make([]float64, dims)
		copy(vec, ref.Vector)
		pts[i] = point{label: ref.Label, vector: vec}
	}

	return &Matcher{
		tree: kdtree.New(pts, false),
		dims: dims,
		size: len(pts),
	}, nil
}

// Dims returns the vector length the matcher accepts.
func (m *Matcher) Dims() int { return m.dims }

// Nearest returns the reference closest to vector.
func (m *Matcher) Nearest(vector []float64) (Match, error) {
	if len(vector) != m.dims {
		return Match{}, fmt.Errorf("%w: got %d values, expected %d", ErrDimensionMismatch, len(vector), m.dims)
	}

	got, dist := m.tree.Nearest(point{vector: vector})
	return Match{Label: got.(point).label, Distance: math.Sqrt(dist)}, nil
}

// NearestK returns up to k references closest to vector, nearest first.
func (m *Matcher) NearestK(vector []float64, k int) ([]Match, error) {
	if len(vector) != m.dims {
		return nil, fmt.Errorf("%w: got %d values, expected %d", ErrDimensionMismatch, len(vector), m.dims)
	}
	if k <= 0 {
		return nil, nil
	}
	if k > m.size {
		k = m.size
	}

	keeper := kdtree.NewNKeeper(k)
	m.tree.NearestSet(keeper, point{vector: vector})

	matches := make([]Match, 0, k)
	for _, item := range keeper.Heap {
		// Skip the sentinel value
		if item.Comparable == nil {
			continue
		}
		matches = append(matches, Match{
			Label:    item.Comparable.(point).label,
			Distance: math.Sqrt(item.Dist),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	return matches, nil
}
