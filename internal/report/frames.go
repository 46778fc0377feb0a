package report

import (
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
	"github.com/couchcryptid/eu-gas-report/internal/domain"
)

// Dataset specs shared by the reports. Reports reading the same file use the
// same spec so the cache serves them from one read.

func lngSpec() dataset.Spec {
	return dataset.Spec{
		ID:           domain.DatasetLNG,
		Name:         domain.LNGFile,
		SkipRows:     1,
		Delimiter:    ';',
		Columns:      domain.LNGColumns,
		Numeric:      []string{domain.ColLNGInventory, domain.ColSendOut, domain.ColDTMI, domain.ColDTRS},
		RequiredRows: []string{domain.AggregateName, "Spain", "Portugal"},
	}
}

func storageSpec(p Params) dataset.Spec {
	return dataset.Spec{
		ID:           domain.DatasetStorage,
		Name:         domain.StorageSnapshotName(p.StorageDay),
		Delimiter:    ';',
		Columns:      domain.StorageColumns,
		Numeric:      []string{domain.ColGasInStorage, domain.ColWorkingVolume, domain.ColFull, domain.ColConsumption},
		RequiredRows: []string{domain.AggregateName},
	}
}

func pipelinesSpec() dataset.Spec {
	return dataset.Spec{
		ID:        domain.DatasetPipelines,
		Name:      domain.PipelinesFile,
		SkipRows:  1,
		Delimiter: ';',
		Columns:   domain.PipelinesColumns,
		Numeric:   []string{domain.ColCapacity, domain.ColMeanFlowWinter},
	}
}

// withoutAggregate drops the EU row.
func withoutAggregate(df dataframe.DataFrame) dataframe.DataFrame {
	return df.Filter(dataframe.F{Colname: domain.ColName, Comparator: series.Neq, Comparando: domain.AggregateName})
}

// sortedDesc orders rows by col, largest first.
func sortedDesc(df dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	out := df.Arrange(dataframe.RevSort(col))
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(out.Err, "sort by %q", col)
	}
	return out, nil
}

// rowValue returns col for the row whose Name is name. A blank cell is an error.
func rowValue(df dataframe.DataFrame, name, col string) (float64, error) {
	row := df.Filter(dataframe.F{Colname: domain.ColName, Comparator: series.Eq, Comparando: name})
	if row.Err != nil {
		return 0, errors.Wrapf(row.Err, "select %q", name)
	}
	if row.Nrow() == 0 {
		return 0, errors.Wrapf(dataset.ErrMissingRow, "%q", name)
	}
	v := row.Col(col).Float()[0]
	if math.IsNaN(v) {
		return 0, errors.Wrapf(dataset.ErrNotNumeric, "%q column %q is empty", name, col)
	}
	return v, nil
}

// values returns a numeric column with missing values as zero.
func values(df dataframe.DataFrame, col string) []float64 {
	vs := df.Col(col).Float()
	for i, v := range vs {
		if math.IsNaN(v) {
			vs[i] = 0
		}
	}
	return vs
}

func sum(vs []float64) float64 {
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}

// Figure furniture shared by the reports.

func baseFigure(p Params) chart.Figure {
	return chart.Figure{
		WidthCM:   30,
		HeightCM:  20,
		DPI:       p.DPI,
		Margins:   chart.Margins{Left: 3, Right: 0.5, Top: 1, Bottom: 7},
		GridColor: chart.LightGray,
	}
}

func note(text string) chart.Note {
	return chart.Note{Segments: []chart.Segment{{Text: text, Color: chart.Gray}}}
}

func winterDaysNote() chart.Note {
	return note("Winter days: From 1/Nov to 31/March (151 days).")
}

// sourceNote links to the published data and code for page.
func sourceNote(p Params, page string) chart.Note {
	link := strings.TrimSuffix(p.SourceURL, "/") + "/" + page
	return chart.Note{Segments: []chart.Segment{
		{Text: "Data, details and code: ", Color: chart.Gray},
		{Text: link, Color: chart.Azure},
	}}
}
