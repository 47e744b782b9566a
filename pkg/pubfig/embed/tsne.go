// Package embed projects high-dimensional feature vectors to two dimensions
// with t-distributed stochastic neighbor embedding.
package embed

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrTooFewSamples indicates the input has fewer rows than the perplexity allows.
var ErrTooFewSamples = errors.New("too few samples for t-SNE")

// Options configures TSNE.
type Options struct {
	Perplexity   float64
	Iterations   int
	Seed         uint64
	LearningRate float64 // zero selects max(n/48, 50)
}

// DefaultOptions returns perplexity 30, 1000 iterations and seed 42.
func DefaultOptions() Options {
	return Options{Perplexity: 30, Iterations: 1000, Seed: 42}
}

const (
	maxInputDims     = 50
	exaggeration     = 12.0
	exaggerationIter = 250
	minGain          = 0.01
)

// TSNE embeds the rows of x into the plane. The result has one row per
// input row and two columns. Identical inputs and options yield identical
// output.
func TSNE(x mat.Matrix, opts Options) (*mat.Dense, error) {
	n, d := x.Dims()
	if n < 2 || d == 0 {
		return nil, fmt.Errorf("%w: %dx%d input", ErrTooFewSamples, n, d)
	}
	if opts.Perplexity <= 0 || opts.Iterations <= 0 {
		return nil, fmt.Errorf("perplexity and iterations must be positive")
	}
	if float64(n-1) <= opts.Perplexity {
		return nil, fmt.Errorf("%w: %d samples for perplexity %g", ErrTooFewSamples, n, opts.Perplexity)
	}

	data := mat.DenseCopyOf(x)
	if d > maxInputDims {
		var err error
		if data, err = reduce(data, maxInputDims); err != nil {
			return nil, err
		}
	}

	p := affinities(data, opts.Perplexity)
	y := optimize(p, n, opts)
	return mat.NewDense(n, 2, y), nil
}

// reduce centers x and projects it on its leading k principal axes.
func reduce(x *mat.Dense, k int) (*mat.Dense, error) {
	n, d := x.Dims()
	centered := mat.NewDense(n, d, nil)
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, x)
		mean := floats.Sum(col) / float64(n)
		floats.AddConst(-mean, col)
		centered.SetCol(j, col)
	}

	var svd mat.SVD
	if !svd.Factorize(centered, mat.SVDThin) {
		return nil, errors.New("PCA: SVD did not converge")
	}
	var v mat.Dense
	svd.VTo(&v)
	if _, c := v.Dims(); c < k {
		k = c
	}
	var out mat.Dense
	out.Mul(centered, v.Slice(0, d, 0, k))
	return &out, nil
}

// affinities returns the symmetrized joint probabilities P as a flat n×n
// slice, each conditional row calibrated to the target perplexity.
func affinities(x *mat.Dense, perplexity float64) []float64 {
	n, _ := x.Dims()
	dist := make([]float64, n*n)
	for i := 0; i < n; i++ {
		ri := x.RawRowView(i)
		for j := i + 1; j < n; j++ {
			v := floats.Distance(ri, x.RawRowView(j), 2)
			dist[i*n+j] = v * v
			dist[j*n+i] = v * v
		}
	}

	target := math.Log(perplexity)
	cond := make([]float64, n*n)
	for i := 0; i < n; i++ {
		row := cond[i*n : (i+1)*n]
		di := dist[i*n : (i+1)*n]
		beta, lo, hi := 1.0, 0.0, math.Inf(1)
		for iter := 0; iter < 100; iter++ {
			h := conditional(di, i, beta, row)
			diff := h - target
			if math.Abs(diff) < 1e-5 {
				break
			}
			if diff > 0 {
				lo = beta
				if math.IsInf(hi, 1) {
					beta *= 2
				} else {
					beta = (beta + hi) / 2
				}
			} else {
				hi = beta
				beta = (beta + lo) / 2
			}
		}
	}

	p := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p[i*n+j] = math.Max((cond[i*n+j]+cond[j*n+i])/(2*float64(n)), 1e-12)
		}
	}
	return p
}

// conditional fills row with p(j|i) for precision beta and returns the
// entropy of the distribution in nats.
func conditional(dist []float64, i int, beta float64, row []float64) float64 {
	var sum float64
	for j, d := range dist {
		if j == i {
			row[j] = 0
			continue
		}
		row[j] = math.Exp(-d * beta)
		sum += row[j]
	}
	if sum == 0 {
		sum = 1e-12
	}
	var h float64
	for j := range row {
		row[j] /= sum
		if row[j] > 0 {
			h -= row[j] * math.Log(row[j])
		}
	}
	return h
}

// optimize runs gradient descent on the KL divergence and returns the
// embedding as a row-major n×2 slice.
func optimize(p []float64, n int, opts Options) []float64 {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	y := make([]float64, 2*n)
	for i := range y {
		y[i] = 1e-4 * rng.NormFloat64()
	}

	eta := opts.LearningRate
	if eta <= 0 {
		eta = math.Max(float64(n)/exaggeration/4, 50)
	}

	update := make([]float64, 2*n)
	gains := make([]float64, 2*n)
	for i := range gains {
		gains[i] = 1
	}
	grad := make([]float64, 2*n)
	num := make([]float64, n*n)

	for iter := 0; iter < opts.Iterations; iter++ {
		scale, momentum := 1.0, 0.8
		if iter < exaggerationIter {
			scale, momentum = exaggeration, 0.5
		}

		var qsum float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := y[2*i] - y[2*j]
				dy := y[2*i+1] - y[2*j+1]
				v := 1 / (1 + dx*dx + dy*dy)
				num[i*n+j], num[j*n+i] = v, v
				qsum += 2 * v
			}
		}

		for i := range grad {
			grad[i] = 0
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				w := num[i*n+j]
				f := 4 * (scale*p[i*n+j] - math.Max(w/qsum, 1e-12)) * w
				grad[2*i] += f * (y[2*i] - y[2*j])
				grad[2*i+1] += f * (y[2*i+1] - y[2*j+1])
			}
		}

		for k := range y {
			if (grad[k] > 0) != (update[k] > 0) {
				gains[k] += 0.2
			} else {
				gains[k] = math.Max(gains[k]*0.8, minGain)
			}
			update[k] = momentum*update[k] - eta*gains[k]*grad[k]
			y[k] += update[k]
		}
		center(y, n)
	}
	return y
}

func center(y []float64, n int) {
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += y[2*i]
		my += y[2*i+1]
	}
	mx /= float64(n)
	my /= float64(n)
	for i := 0; i < n; i++ {
		y[2*i] -= mx
		y[2*i+1] -= my
	}
}
