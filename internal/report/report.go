// Package report holds the gas infrastructure reports. Each report reads one
// or more datasets, derives its coverage figures and describes the chart that
// presents them.
package report

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
)

// ErrUnknownReport is returned when a report name is not registered.
var ErrUnknownReport = errors.New("unknown report")

// Params are the run-wide inputs that shape a report.
type Params struct {
	StorageDay time.Time
	SourceURL  string
	DPI        int
}

// Report turns loaded datasets into a figure and summary.
type Report interface {
	Name() string
	// Datasets lists what Build needs, keyed later by Spec.ID.
	Datasets(p Params) []dataset.Spec
	Build(frames map[string]dataframe.DataFrame, p Params) (Result, error)
}

// Result is what a report produces.
type Result struct {
	Figure  chart.Figure
	Summary Summary
	// Output is the image file name without extension.
	Output string
}

// Metric is one named summary number.
type Metric struct {
	Name  string
	Value float64
}

// Summary lists a report's headline numbers in a stable order.
type Summary []Metric

// Value returns the named metric.
func (s Summary) Value(name string) (float64, bool) {
	for _, m := range s {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// LogAttrs renders the summary as slog attributes.
func (s Summary) LogAttrs() []any {
	attrs := make([]any, 0, len(s))
	for _, m := range s {
		attrs = append(attrs, slog.Float64(m.Name, m.Value))
	}
	return attrs
}

// All returns every report in run order.
func All() []Report {
	return []Report{LNGSendOut{}, LNGCapacities{}, GasStorage{}, Pipelines{}}
}

// Names returns the registered report names.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.Name()
	}
	return names
}

// Lookup returns the report registered under name.
func Lookup(name string) (Report, error) {
	for _, r := range All() {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownReport, "%q (known: %s)", name, strings.Join(Names(), ", "))
}

// Select resolves names, dropping duplicates and keeping the first occurrence order.
func Select(names []string) ([]Report, error) {
	var (
		out  []Report
		seen []string
	)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(seen, name) {
			continue
		}
		r, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		seen = append(seen, name)
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, errors.New("no reports selected")
	}
	return out, nil
}

func frame(frames map[string]dataframe.DataFrame, id string) (dataframe.DataFrame, error) {
	df, ok := frames[id]
	if !ok {
		return dataframe.DataFrame{}, errors.Errorf("dataset %s not loaded", id)
	}
	return df, nil
}

// decimal formats v with at least one fractional digit, the way the
// published figures print floats: 6 -> "6.0", 67.37 -> "67.37".
func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
