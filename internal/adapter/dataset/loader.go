package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/eu-gas-report/internal/domain"
	"github.com/couchcryptid/eu-gas-report/internal/observability"
)

var (
	ErrNotFound      = errors.New("dataset file not found")
	ErrMissingColumn = errors.New("missing column")
	ErrMissingRow    = errors.New("missing row")
	ErrNotNumeric    = errors.New("non-numeric value")
)

// Spec describes one dataset file and the shape it must have.
type Spec struct {
	ID string
	// Name is the file base name. Without an extension, .csv is tried first, then .xlsx.
	Name      string
	SkipRows  int
	Delimiter rune
	// Columns are required. Columns listed in Numeric are typed as floats,
	// every other required column as strings.
	Columns []string
	Numeric []string
	// RequiredRows are values that must appear in the Name column.
	RequiredRows []string
}

// Loader reads a dataset into a dataframe.
type Loader interface {
	Load(ctx context.Context, spec Spec) (dataframe.DataFrame, error)
}

// FileLoader reads datasets from a directory.
// It implements Loader.
type FileLoader struct {
	dir     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFileLoader creates a loader rooted at dir.
func NewFileLoader(dir string, logger *slog.Logger, metrics *observability.Metrics) *FileLoader {
	return &FileLoader{dir: dir, logger: logger, metrics: metrics}
}

// Load resolves the dataset file, reads its records and validates them against the Spec.
func (l *FileLoader) Load(ctx context.Context, spec Spec) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	path, err := l.resolve(spec.Name)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "dataset %s", spec.ID)
	}

	var records [][]string
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = readXLSX(path)
	} else {
		records, err = readCSV(path, spec.Delimiter)
	}
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "dataset %s: read %s", spec.ID, path)
	}

	df, err := Parse(spec, records)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	l.metrics.RowsLoaded.WithLabelValues(spec.ID).Add(float64(df.Nrow()))
	l.logger.Debug("dataset loaded", "dataset", spec.ID, "path", path, "rows", df.Nrow())
	return df, nil
}

// resolve returns the path of the file backing name.
func (l *FileLoader) resolve(name string) (string, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = []string{name + ".csv", name + ".xlsx"}
	}
	for _, c := range candidates {
		path := filepath.Join(l.dir, c)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Wrapf(ErrNotFound, "%s in %s", strings.Join(candidates, " or "), l.dir)
}

func readCSV(path string, delimiter rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if delimiter != 0 {
		r.Comma = delimiter
	}
	// Preamble lines have a different field count than the table.
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse csv")
		}
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheets[0])
	}
	return rows, nil
}

// Parse validates raw records against spec and loads them into a dataframe.
// The first spec.SkipRows records are dropped, the next one is the header.
func Parse(spec Spec, records [][]string) (dataframe.DataFrame, error) {
	if len(records) <= spec.SkipRows {
		return dataframe.DataFrame{}, errors.Errorf("dataset %s: no header after %d preamble rows", spec.ID, spec.SkipRows)
	}
	table := trimBlankRows(records[spec.SkipRows:])
	if len(table) == 0 {
		return dataframe.DataFrame{}, errors.Errorf("dataset %s: no header after %d preamble rows", spec.ID, spec.SkipRows)
	}
	header := make([]string, len(table[0]))
	for i, h := range table[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	for _, col := range spec.Columns {
		if _, ok := index[col]; !ok {
			return dataframe.DataFrame{}, errors.Wrapf(ErrMissingColumn, "dataset %s: column %q", spec.ID, col)
		}
	}

	normalized := make([][]string, 0, len(table))
	normalized = append(normalized, header)
	for i, rec := range table[1:] {
		row := make([]string, len(header))
		for j := range header {
			if j < len(rec) {
				row[j] = strings.TrimSpace(rec[j])
			}
		}
		for _, col := range spec.Numeric {
			v := row[index[col]]
			if v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return dataframe.DataFrame{}, errors.Wrapf(ErrNotNumeric, "dataset %s: row %d column %q value %q",
					spec.ID, i+1, col, v)
			}
		}
		normalized = append(normalized, row)
	}

	types := make(map[string]series.Type, len(spec.Columns))
	for _, col := range spec.Columns {
		types[col] = series.String
	}
	for _, col := range spec.Numeric {
		types[col] = series.Float
	}

	df := dataframe.LoadRecords(normalized,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "dataset %s: load records", spec.ID)
	}

	if len(spec.RequiredRows) > 0 {
		names := df.Col(domain.ColName).Records()
		for _, want := range spec.RequiredRows {
			if !slices.Contains(names, want) {
				return dataframe.DataFrame{}, errors.Wrapf(ErrMissingRow, "dataset %s: row %q", spec.ID, want)
			}
		}
	}

	return df, nil
}

// trimBlankRows drops rows whose cells are all empty.
func trimBlankRows(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		if slices.ContainsFunc(rec, func(s string) bool { return strings.TrimSpace(s) != "" }) {
			out = append(out, rec)
		}
	}
	return out
}
