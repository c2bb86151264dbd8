package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"symptracker/models"

	"go.uber.org/zap"
)

const (
	MinTrainingRows = 5
	MinSamplesLeaf  = 2
	TreeRandomState = 42

	DefaultMaxDepth = 4
	MinMaxDepth     = 2
	MaxMaxDepth     = 10
	DefaultFeatures = 5
)

// Dataset is the complete-case feature matrix and target vector.
type Dataset struct {
	Target   string
	Features []string
	X        [][]float64
	Y        []float64
}

func (d *Dataset) Rows() int { return len(d.Y) }

// Prepare keeps features+target, drops every row with a missing value in
// any of them and fails when fewer than MinTrainingRows remain.
func Prepare(t *models.Table, target string, features []string) (*Dataset, error) {
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	targetHeader := models.HeaderOf(target)
	for _, f := range features {
		if models.HeaderOf(f) == targetHeader {
			return nil, fmt.Errorf("%w: %s", ErrTargetInFeatures, target)
		}
	}

	columns := append(append([]string(nil), features...), target)
	for _, c := range columns {
		if t.ColumnIndex(c) < 0 {
			return nil, &UnknownColumnError{Column: c}
		}
	}

	frame := CoerceNumeric(t, columns)
	cols := make([][]float64, len(columns))
	for i, c := range columns {
		cols[i], _ = frame.Values(c)
	}

	ds := &Dataset{Target: target, Features: append([]string(nil), features...)}
	for r := 0; r < t.Len(); r++ {
		complete := true
		for _, col := range cols {
			if math.IsNaN(col[r]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		row := make([]float64, len(features))
		for i := range features {
			row[i] = cols[i][r]
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, cols[len(features)][r])
	}

	if ds.Rows() < MinTrainingRows {
		return nil, &InsufficientDataError{Complete: ds.Rows(), Required: MinTrainingRows}
	}
	return ds, nil
}

type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// TrainResult holds the fitted model and its diagnostics. InSampleScore is
// measured on the training rows themselves, so it overstates real accuracy.
type TrainResult struct {
	Model              Classifier          `json:"-"`
	Rows               int                 `json:"rows"`
	MaxDepth           int                 `json:"max_depth"`
	InSampleScore      float64             `json:"in_sample_score"`
	FeatureImportances []FeatureImportance `json:"feature_importances"`
	Classes            []float64           `json:"classes,omitempty"`
	Tree               *TreeNode           `json:"tree,omitempty"`
}

// ClassifierFactory builds an unfitted classifier.
type ClassifierFactory func(opts TreeOptions) Classifier

func DecisionTreeFactory(opts TreeOptions) Classifier { return NewDecisionTree(opts) }

// Train fits a decision tree with the default factory.
func Train(ds *Dataset, maxDepth int) (*TrainResult, error) {
	return TrainWith(DecisionTreeFactory, ds, maxDepth)
}

// TrainWith fits a classifier from factory on ds. Min leaf size and seed are fixed.
func TrainWith(factory ClassifierFactory, ds *Dataset, maxDepth int) (*TrainResult, error) {
	if ds == nil || len(ds.Features) == 0 {
		return nil, ErrNoFeatures
	}
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, maxDepth)
	}

	model := factory(TreeOptions{
		MaxDepth:       maxDepth,
		MinSamplesLeaf: MinSamplesLeaf,
		RandomState:    TreeRandomState,
	})
	if err := model.Fit(ds.X, ds.Y); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	weights := model.FeatureImportances()
	imps := make([]FeatureImportance, len(ds.Features))
	for i, name := range ds.Features {
		if i < len(weights) {
			imps[i] = FeatureImportance{Feature: name, Importance: weights[i]}
		} else {
			imps[i] = FeatureImportance{Feature: name}
		}
	}
	sort.SliceStable(imps, func(i, j int) bool { return imps[i].Importance > imps[j].Importance })

	res := &TrainResult{
		Model:              model,
		Rows:               ds.Rows(),
		MaxDepth:           maxDepth,
		InSampleScore:      model.Score(ds.X, ds.Y),
		FeatureImportances: imps,
	}
	if tree, ok := model.(*DecisionTree); ok {
		res.Classes = tree.Classes()
		res.Tree = tree.Root()
		nameTree(res.Tree, ds.Features)
	}
	return res, nil
}

func nameTree(n *TreeNode, names []string) {
	if n == nil {
		return
	}
	if !n.IsLeaf() && n.Feature < len(names) {
		n.FeatureName = names[n.Feature]
	}
	nameTree(n.Left, names)
	nameTree(n.Right, names)
}

// ---------- tree view ----------

type TrainerService struct {
	store    StorageManager
	newModel ClassifierFactory
	logger   *zap.Logger
}

func NewTrainerService(store StorageManager, factory ClassifierFactory, logger *zap.Logger) *TrainerService {
	if factory == nil {
		factory = DecisionTreeFactory
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerService{store: store, newModel: factory, logger: logger}
}

type TreeSetup struct {
	Records         int                 `json:"records"`
	Targets         []string            `json:"targets"`
	Features        map[string][]string `json:"features"` // per target
	DefaultFeatures map[string][]string `json:"default_features"`
	DefaultMaxDepth int                 `json:"default_max_depth"`
	MinMaxDepth     int                 `json:"min_max_depth"`
	MaxMaxDepth     int                 `json:"max_max_depth"`
	Warning         *HistoryWarning     `json:"warning,omitempty"`
}

// Setup lists what the tree form can offer for the current table.
func (s *TrainerService) Setup(ctx context.Context) (*TreeSetup, error) {
	t, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := &TreeSetup{
		Records:         t.Len(),
		Targets:         append([]string(nil), models.TreeTargets...),
		Features:        map[string][]string{},
		DefaultFeatures: map[string][]string{},
		DefaultMaxDepth: DefaultMaxDepth,
		MinMaxDepth:     MinMaxDepth,
		MaxMaxDepth:     MaxMaxDepth,
		Warning:         CheckHistory(t.Len()),
	}
	for _, target := range models.TreeTargets {
		opts := FeatureOptions(t, target)
		out.Features[target] = opts
		if len(opts) > DefaultFeatures {
			opts = opts[:DefaultFeatures]
		}
		out.DefaultFeatures[target] = opts
	}
	return out, nil
}

// FeatureOptions are the model columns present in t, minus target.
func FeatureOptions(t *models.Table, target string) []string {
	out := []string{}
	for _, c := range models.ModelColumns {
		if models.HeaderOf(c) == models.HeaderOf(target) || t.ColumnIndex(c) < 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

type TreeReport struct {
	*TrainResult
	Target   string          `json:"target"`
	Features []string        `json:"features"`
	Warning  *HistoryWarning `json:"warning,omitempty"`
}

// Generate loads the table, prepares the dataset and fits the tree.
func (s *TrainerService) Generate(ctx context.Context, target string, features []string, maxDepth int) (*TreeReport, error) {
	t, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	warning := CheckHistory(t.Len())

	ds, err := Prepare(t, target, features)
	if err != nil {
		s.logger.Info("Tree not generated", zap.String("target", target), zap.Error(err))
		return nil, err
	}
	res, err := TrainWith(s.newModel, ds, maxDepth)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Tree generated",
		zap.String("target", target),
		zap.Strings("features", features),
		zap.Int("rows", res.Rows),
		zap.Int("max_depth", maxDepth),
		zap.Float64("in_sample_score", res.InSampleScore))

	return &TreeReport{TrainResult: res, Target: target, Features: ds.Features, Warning: warning}, nil
}
