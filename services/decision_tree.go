package services

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// Classifier is the capability the trainer needs from a model.
type Classifier interface {
	Fit(X [][]float64, y []float64) error
	Score(X [][]float64, y []float64) float64
	FeatureImportances() []float64
}

// TreeOptions configure a DecisionTree.
type TreeOptions struct {
	MaxDepth       int
	MinSamplesLeaf int
	RandomState    int64
}

// TreeNode is one node of a fitted tree. Leaves have Feature == -1.
type TreeNode struct {
	Feature     int         `json:"feature"`
	FeatureName string      `json:"feature_name,omitempty"`
	Threshold   float64     `json:"threshold,omitempty"`
	Impurity    float64     `json:"impurity"`
	Samples     int         `json:"samples"`
	Counts      []int       `json:"counts"`
	Class       float64     `json:"class"`
	Left        *TreeNode   `json:"left,omitempty"`
	Right       *TreeNode   `json:"right,omitempty"`
	classIdx    int
}

func (n *TreeNode) IsLeaf() bool { return n.Feature < 0 }

// DecisionTree is a CART classifier using Gini impurity. Every distinct
// target value is its own class. It is the default Classifier; any other
// model can replace it through a ClassifierFactory passed to
// NewTrainerService.
type DecisionTree struct {
	opts        TreeOptions
	classes     []float64
	nFeatures   int
	root        *TreeNode
	importances []float64
}

func NewDecisionTree(opts TreeOptions) *DecisionTree {
	if opts.MinSamplesLeaf < 1 {
		opts.MinSamplesLeaf = 1
	}
	return &DecisionTree{opts: opts}
}

func (t *DecisionTree) Classes() []float64 { return append([]float64(nil), t.classes...) }

func (t *DecisionTree) Root() *TreeNode { return t.root }

func (t *DecisionTree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("fit: no samples")
	}
	if len(X) != len(y) {
		return fmt.Errorf("fit: %d samples but %d labels", len(X), len(y))
	}
	t.nFeatures = len(X[0])
	if t.nFeatures == 0 {
		return errors.New("fit: no features")
	}
	for i, row := range X {
		if len(row) != t.nFeatures {
			return fmt.Errorf("fit: row %d has %d features, want %d", i, len(row), t.nFeatures)
		}
	}

	t.classes = uniqueSorted(y)
	labels := make([]int, len(y))
	for i, v := range y {
		labels[i] = sort.SearchFloat64s(t.classes, v)
	}

	b := &treeBuilder{
		X:       X,
		labels:  labels,
		classes: len(t.classes),
		opts:    t.opts,
		order:   rand.New(rand.NewSource(t.opts.RandomState)).Perm(t.nFeatures),
		gain:    make([]float64, t.nFeatures),
	}
	samples := make([]int, len(X))
	for i := range samples {
		samples[i] = i
	}
	t.root = b.build(samples, 0)
	t.fillClassValues(t.root)

	t.importances = normalize(b.gain)
	return nil
}

func (t *DecisionTree) fillClassValues(n *TreeNode) {
	if n == nil {
		return
	}
	n.Class = t.classes[n.classIdx]
	t.fillClassValues(n.Left)
	t.fillClassValues(n.Right)
}

// Predict returns the majority class of the leaf each row lands in.
func (t *DecisionTree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		n := t.root
		for n != nil && !n.IsLeaf() {
			if row[n.Feature] <= n.Threshold {
				n = n.Left
			} else {
				n = n.Right
			}
		}
		if n != nil {
			out[i] = n.Class
		}
	}
	return out
}

// Score is plain accuracy of Predict against y.
func (t *DecisionTree) Score(X [][]float64, y []float64) float64 {
	if len(y) == 0 || t.root == nil {
		return 0
	}
	pred := t.Predict(X)
	hits := 0
	for i := range y {
		if pred[i] == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(y))
}

// FeatureImportances are the normalized total Gini decreases per feature.
// A tree without any useful split spreads the weight evenly.
func (t *DecisionTree) FeatureImportances() []float64 {
	return append([]float64(nil), t.importances...)
}

// ---------- builder ----------

type treeBuilder struct {
	X       [][]float64
	labels  []int
	classes int
	opts    TreeOptions
	order   []int
	gain    []float64
}

func (b *treeBuilder) counts(samples []int) []int {
	c := make([]int, b.classes)
	for _, s := range samples {
		c[b.labels[s]]++
	}
	return c
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

type split struct {
	feature   int
	threshold float64
	impurity  float64 // weighted child impurity
	left      []int
	right     []int
}

func (b *treeBuilder) build(samples []int, depth int) *TreeNode {
	counts := b.counts(samples)
	n := len(samples)
	node := &TreeNode{
		Feature:  -1,
		Impurity: gini(counts, n),
		Samples:  n,
		Counts:   counts,
		classIdx: argmax(counts),
	}

	minLeaf := b.opts.MinSamplesLeaf
	if node.Impurity == 0 || n < 2*minLeaf || n < 2 {
		return node
	}
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		return node
	}

	best, ok := b.bestSplit(samples)
	if !ok {
		return node
	}

	if dec := float64(n) * (node.Impurity - best.impurity); dec > 0 {
		b.gain[best.feature] += dec
	}
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = b.build(best.left, depth+1)
	node.Right = b.build(best.right, depth+1)
	return node
}

func (b *treeBuilder) bestSplit(samples []int) (split, bool) {
	n := len(samples)
	minLeaf := b.opts.MinSamplesLeaf
	var best split
	found := false

	sorted := make([]int, n)
	for _, f := range b.order {
		copy(sorted, samples)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		left := make([]int, b.classes)
		right := b.counts(sorted)
		for i := 0; i < n-1; i++ {
			lbl := b.labels[sorted[i]]
			left[lbl]++
			right[lbl]--

			nl, nr := i+1, n-i-1
			cur, next := b.X[sorted[i]][f], b.X[sorted[i+1]][f]
			if cur == next || nl < minLeaf || nr < minLeaf {
				continue
			}
			imp := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(n)
			if !found || imp < best.impurity {
				found = true
				best = split{feature: f, threshold: cur + (next-cur)/2, impurity: imp}
			}
		}
	}
	if !found {
		return best, false
	}

	for _, s := range samples {
		if b.X[s][best.feature] <= best.threshold {
			best.left = append(best.left, s)
		} else {
			best.right = append(best.right, s)
		}
	}
	return best, true
}

func uniqueSorted(y []float64) []float64 {
	out := append([]float64(nil), y...)
	sort.Float64s(out)
	k := 0
	for i, v := range out {
		if i == 0 || v != out[k-1] {
			out[k] = v
			k++
		}
	}
	return out[:k]
}

func normalize(w []float64) []float64 {
	out := make([]float64, len(w))
	total := 0.0
	for _, v := range w {
		total += v
	}
	if total <= 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, v := range w {
		out[i] = v / total
	}
	return out
}
