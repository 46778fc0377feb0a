package report

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
	"github.com/couchcryptid/eu-gas-report/internal/domain"
)

// minWorkingVolume drops countries whose storage is too small to show, in TWh.
const minWorkingVolume = 1.0

// GasStorage charts storage capacity and fill per country on one gas day, and
// how many winter days the EU stock covers now and when full.
type GasStorage struct{}

func (GasStorage) Name() string { return "gas-storage" }

func (GasStorage) Datasets(p Params) []dataset.Spec { return []dataset.Spec{storageSpec(p)} }

func (GasStorage) Build(frames map[string]dataframe.DataFrame, p Params) (Result, error) {
	data, err := frame(frames, domain.DatasetStorage)
	if err != nil {
		return Result{}, err
	}

	reported := data.
		Filter(dataframe.F{Colname: domain.ColStatus, Comparator: series.Neq, Comparando: domain.StatusNoData}).
		Filter(dataframe.F{Colname: domain.ColWorkingVolume, Comparator: series.Greater, Comparando: minWorkingVolume})
	if reported.Err != nil {
		return Result{}, errors.Wrap(reported.Err, "filter reported storage")
	}
	selected := reported.Filter(dataframe.F{Colname: domain.ColName, Comparator: series.In, Comparando: domain.StorageCountries})
	countries, err := sortedDesc(selected, domain.ColWorkingVolume)
	if err != nil {
		return Result{}, err
	}
	if countries.Nrow() == 0 {
		return Result{}, errors.New("no storage countries with reported data")
	}

	full, err := rowValue(reported, domain.AggregateName, domain.ColFull)
	if err != nil {
		return Result{}, err
	}
	stored, err := rowValue(reported, domain.AggregateName, domain.ColGasInStorage)
	if err != nil {
		return Result{}, err
	}
	volume, err := rowValue(reported, domain.AggregateName, domain.ColWorkingVolume)
	if err != nil {
		return Result{}, err
	}

	days := domain.DaysCoveredByStock(stored, domain.EUYearConsumption)
	daysFull := domain.DaysCoveredByStock(volume, domain.EUYearConsumption)

	red := chart.Fraction(0.65, 0.3, 0.3)

	fig := baseFigure(p)
	fig.Title = "Gas storage in EU countries"
	fig.YLabel = "TWh"
	fig.Legend = true
	fig.Categories = countries.Col(domain.ColName).Records()
	fig.Series = []chart.Series{
		{Label: "Capacity", Values: values(countries, domain.ColWorkingVolume), Color: chart.LightGray},
		{Label: p.StorageDay.Format("02/01/2006"), Values: values(countries, domain.ColGasInStorage), Color: red},
	}
	fig.Annotations = []chart.Annotation{
		{
			X: 6, Y: 180,
			Text:  fmt.Sprintf("EU storage level: %s%%         %d winter days", decimal(full), days),
			Size:  chart.DefaultFontSize,
			Color: red,
		},
		{
			X: 10.1, Y: 155,
			Text:  fmt.Sprintf("100%%         %d winter days", daysFull),
			Size:  chart.DefaultFontSize,
			Color: chart.Gray,
		},
	}
	fig.Arrows = []chart.Arrow{
		{X: 11.4, Y: 185, DX: 0.75, Color: red},
		{X: 11.4, Y: 160, DX: 0.75, Color: chart.Gray},
	}
	fig.Notes = []chart.Note{
		winterDaysNote(),
		note(fmt.Sprintf("Covered winter days are computed assuming a minimum storage level of %d%%.",
			int(math.Round(100*domain.MinStorageLevel)))),
		sourceNote(p, "EU_gas_storage.py"),
	}

	return Result{
		Figure: fig,
		Summary: Summary{
			{Name: "eu_full_percent", Value: full},
			{Name: "days_covered", Value: float64(days)},
			{Name: "days_covered_full", Value: float64(daysFull)},
		},
		Output: "EU_gas_storage_" + p.StorageDay.Format("2006_01_02"),
	}, nil
}
