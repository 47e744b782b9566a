// Package grid resamples scattered (x, y, z) samples onto a regular grid.
//
// Interpolation uses radial basis functions with an affine tail, solved as
// one dense linear system. Grid nodes outside the convex hull of the samples
// are left as NaN.
package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrTooFewPoints indicates fewer than three distinct, non-collinear samples.
var ErrTooFewPoints = errors.New("too few points to interpolate")

// Method selects the radial kernel.
type Method string

const (
	// Cubic uses φ(r) = r³.
	Cubic Method = "cubic"
	// Linear uses φ(r) = r.
	Linear Method = "linear"
)

// Options configures Interpolate.
type Options struct {
	// Nx and Ny are the number of grid nodes along x and y.
	Nx, Ny int
	// Method is the radial kernel. Defaults to Cubic.
	Method Method
}

// Grid is a regular grid of values. Z is indexed [row][col] with rows
// following Y and columns following X.
type Grid struct {
	X []float64
	Y []float64
	Z [][]float64
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (c, r int) { return len(g.X), len(g.Y) }

// Bounds returns the min and max of the finite values of Z.
// ok is false when every value is NaN.
func (g *Grid) Bounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g.Z {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, !math.IsInf(lo, 1)
}

// Interpolate fits the samples and evaluates the fit on a uniform grid
// spanning their bounding box.
func Interpolate(xs, ys, zs []float64, opts Options) (*Grid, error) {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return nil, fmt.Errorf("x, y, z lengths differ: %d, %d, %d", len(xs), len(ys), len(zs))
	}
	if opts.Nx < 2 || opts.Ny < 2 {
		return nil, fmt.Errorf("grid must be at least 2x2, got %dx%d", opts.Nx, opts.Ny)
	}
	kernel, err := kernelFor(opts.Method)
	if err != nil {
		return nil, err
	}

	pts := dedupe(xs, ys, zs)
	hull := convexHull(pts)
	if len(hull) < 3 {
		return nil, fmt.Errorf("%w: %d usable samples", ErrTooFewPoints, len(pts))
	}

	weights, err := solve(pts, kernel)
	if err != nil {
		return nil, err
	}

	px, py := make([]float64, len(pts)), make([]float64, len(pts))
	for i, p := range pts {
		px[i], py[i] = p.x, p.y
	}
	g := &Grid{
		X: linspace(floats.Min(px), floats.Max(px), opts.Nx),
		Y: linspace(floats.Min(py), floats.Max(py), opts.Ny),
	}
	g.Z = make([][]float64, opts.Ny)
	for r, y := range g.Y {
		row := make([]float64, opts.Nx)
		for c, x := range g.X {
			if !insideHull(hull, x, y) {
				row[c] = math.NaN()
				continue
			}
			row[c] = evaluate(pts, weights, kernel, x, y)
		}
		g.Z[r] = row
	}
	return g, nil
}

// FromColumns reshapes samples that already lie on a rectangular grid.
// Samples with a non-finite coordinate or value are skipped. Missing grid
// nodes are NaN.
func FromColumns(xs, ys, zs []float64) (*Grid, error) {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return nil, fmt.Errorf("x, y, z lengths differ: %d, %d, %d", len(xs), len(ys), len(zs))
	}
	xs, ys, zs = finiteSamples(xs, ys, zs)
	g := &Grid{X: uniqueSorted(xs), Y: uniqueSorted(ys)}
	if len(g.X) < 2 || len(g.Y) < 2 {
		return nil, fmt.Errorf("%w: gridded data needs at least two distinct x and y values", ErrTooFewPoints)
	}
	g.Z = make([][]float64, len(g.Y))
	for r := range g.Z {
		row := make([]float64, len(g.X))
		for c := range row {
			row[c] = math.NaN()
		}
		g.Z[r] = row
	}
	for i := range xs {
		c := sort.SearchFloat64s(g.X, xs[i])
		r := sort.SearchFloat64s(g.Y, ys[i])
		g.Z[r][c] = zs[i]
	}
	return g, nil
}

func finiteSamples(xs, ys, zs []float64) (fx, fy, fz []float64) {
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) || !isFinite(zs[i]) {
			continue
		}
		fx = append(fx, xs[i])
		fy = append(fy, ys[i])
		fz = append(fz, zs[i])
	}
	return fx, fy, fz
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

type point struct{ x, y, z float64 }

type kernel func(r float64) float64

func kernelFor(m Method) (kernel, error) {
	switch m {
	case Cubic, "":
		return func(r float64) float64 { return r * r * r }, nil
	case Linear:
		return func(r float64) float64 { return r }, nil
	}
	return nil, fmt.Errorf("unknown interpolation method %q", m)
}

// solve returns the kernel weights followed by the affine coefficients
// (c0, cx, cy) of the interpolant.
func solve(pts []point, phi kernel) ([]float64, error) {
	n := len(pts)
	size := n + 3
	a := mat.NewDense(size, size, nil)
	b := mat.NewVecDense(size, nil)
	for i, p := range pts {
		for j, q := range pts {
			a.Set(i, j, phi(math.Hypot(p.x-q.x, p.y-q.y)))
		}
		a.Set(i, n, 1)
		a.Set(i, n+1, p.x)
		a.Set(i, n+2, p.y)
		a.Set(n, i, 1)
		a.Set(n+1, i, p.x)
		a.Set(n+2, i, p.y)
		b.SetVec(i, p.z)
	}

	var w mat.VecDense
	if err := w.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("interpolation system: %w", err)
	}
	return w.RawVector().Data, nil
}

func evaluate(pts []point, w []float64, phi kernel, x, y float64) float64 {
	n := len(pts)
	v := w[n] + w[n+1]*x + w[n+2]*y
	for i, p := range pts {
		v += w[i] * phi(math.Hypot(x-p.x, y-p.y))
	}
	return v
}

// dedupe drops non-finite samples and averages samples at the same location.
func dedupe(xs, ys, zs []float64) []point {
	type key struct{ x, y float64 }
	sums := make(map[key]*point)
	counts := make(map[key]int)
	var order []key
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) || !isFinite(zs[i]) {
			continue
		}
		k := key{xs[i], ys[i]}
		if p, ok := sums[k]; ok {
			p.z += zs[i]
		} else {
			sums[k] = &point{xs[i], ys[i], zs[i]}
			order = append(order, k)
		}
		counts[k]++
	}
	pts := make([]point, len(order))
	for i, k := range order {
		p := *sums[k]
		p.z /= float64(counts[k])
		pts[i] = p
	}
	return pts
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	floats.Span(out, lo, hi)
	return out
}

func uniqueSorted(v []float64) []float64 {
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	out := s[:0]
	for i, x := range s {
		if i == 0 || x != s[i-1] {
			out = append(out, x)
		}
	}
	return out
}
