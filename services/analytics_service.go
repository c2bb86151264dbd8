package services

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"symptracker/models"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ---------- Coercion ----------

// ParseNumber converts a cell to a float. Anything unparseable, empty or
// non-finite becomes NaN, the missing-value marker.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// NumericFrame is a read-only numeric view over a table. Columns that were
// not coerced are still reachable through Table.
type NumericFrame struct {
	Table   *models.Table
	Numeric map[string][]float64 // keyed by the table's header
}

// CoerceNumeric converts the named columns cell by cell. Columns the table
// does not have are skipped. The input table is not modified.
func CoerceNumeric(t *models.Table, columns []string) *NumericFrame {
	f := &NumericFrame{Table: t, Numeric: make(map[string][]float64, len(columns))}
	for _, name := range columns {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			continue
		}
		cells, _ := t.Column(name)
		vals := make([]float64, len(cells))
		for i, c := range cells {
			vals[i] = ParseNumber(c)
		}
		f.Numeric[t.Columns[idx]] = vals
	}
	return f
}

// Values returns the coerced column by header or schema key.
func (f *NumericFrame) Values(name string) ([]float64, bool) {
	if v, ok := f.Numeric[name]; ok {
		return v, true
	}
	v, ok := f.Numeric[models.HeaderOf(name)]
	return v, ok
}

func present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ---------- Statistics ----------

// ColumnSummary mirrors a describe() row. Nil means undefined.
type ColumnSummary struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"p25"`
	P50    *float64 `json:"p50"`
	P75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

// SummaryStatistics describes each column, rounded to two decimals.
// A column with no numeric values (or absent from the table) reports
// Count 0 and nil statistics.
func SummaryStatistics(t *models.Table, columns []string) []ColumnSummary {
	frame := CoerceNumeric(t, columns)
	out := make([]ColumnSummary, 0, len(columns))
	for _, name := range columns {
		vals, _ := frame.Values(name)
		out = append(out, summarize(models.HeaderOf(name), present(vals)))
	}
	return out
}

func summarize(column string, xs []float64) ColumnSummary {
	s := ColumnSummary{Column: column, Count: len(xs)}
	if len(xs) == 0 {
		return s
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	s.Mean = finite(round2(mean))
	if len(xs) > 1 {
		s.Std = finite(round2(std))
	}
	s.Min = finite(round2(floats.Min(sorted)))
	s.P25 = finite(round2(quantile(sorted, 0.25)))
	s.P50 = finite(round2(quantile(sorted, 0.50)))
	s.P75 = finite(round2(quantile(sorted, 0.75)))
	s.Max = finite(round2(floats.Max(sorted)))
	return s
}

// quantile interpolates linearly between closest ranks; sorted must be non-empty.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Mean is the arithmetic mean of present values, nil when there are none
// or the sum overflows.
func Mean(t *models.Table, column string) *float64 {
	vals, _ := CoerceNumeric(t, []string{column}).Values(column)
	xs := present(vals)
	if len(xs) == 0 {
		return nil
	}
	return finite(stat.Mean(xs, nil))
}

// ---------- Time series ----------

type Point struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// TimeSeries pairs each row's date with the column value, in row order.
// Rows are not sorted by date; missing values stay as nil points.
func TimeSeries(t *models.Table, columns []string) map[string][]Point {
	dates, _ := t.Column(models.FieldDate)
	frame := CoerceNumeric(t, columns)

	out := make(map[string][]Point, len(columns))
	for _, name := range columns {
		vals, ok := frame.Values(name)
		if !ok {
			out[name] = []Point{}
			continue
		}
		pts := make([]Point, len(vals))
		for i, v := range vals {
			pts[i].Value = finite(v)
			if dates != nil {
				pts[i].Date = dates[i]
			}
		}
		out[name] = pts
	}
	return out
}

// ---------- Views ----------

type AnalyticsService struct {
	store  StorageManager
	logger *zap.Logger
}

func NewAnalyticsService(store StorageManager, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{store: store, logger: logger}
}

type Dashboard struct {
	Days     int                 `json:"days"`
	Series   map[string][]Point  `json:"series"`
	Averages map[string]*float64 `json:"averages"`
	Message  string              `json:"message,omitempty"`
}

// Dashboard returns the trend lines and averages of the dashboard view.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	t, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := &Dashboard{
		Days:     t.Len(),
		Series:   TimeSeries(t, models.TrendColumns),
		Averages: make(map[string]*float64, len(models.TrendColumns)),
	}
	for _, col := range models.TrendColumns {
		if m := Mean(t, col); m != nil {
			out.Averages[col] = ptr(round2(*m))
		} else {
			out.Averages[col] = nil
		}
	}
	if t.Len() == 0 {
		out.Message = "No data recorded yet. Start by entering today's data."
	}
	s.logger.Debug("Dashboard computed", zap.Int("days", out.Days))
	return out, nil
}

type StatisticsView struct {
	Records int             `json:"records"`
	Columns []ColumnSummary `json:"columns"`
}

// Statistics describes the 0-10 self-rating columns.
func (s *AnalyticsService) Statistics(ctx context.Context) (*StatisticsView, error) {
	t, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return &StatisticsView{
		Records: t.Len(),
		Columns: SummaryStatistics(t, models.ScaleColumns),
	}, nil
}

// ---------- internals ----------

// round2 leaves values too large to scale by 100 untouched.
func round2(v float64) float64 {
	scaled := v * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Round(scaled) / 100
}

func ptr(v float64) *float64 { return &v }

// finite maps NaN and ±Inf to nil so aggregates always encode as JSON.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return ptr(v)
}
