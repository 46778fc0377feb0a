package report

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
	"github.com/couchcryptid/eu-gas-report/internal/domain"
)

// LNGCapacities charts regasification capacity per country and how many winter
// days of EU demand it could cover. The constrained figure removes the Iberian
// terminals and adds back only what the Spain to France pipeline can carry.
type LNGCapacities struct{}

func (LNGCapacities) Name() string { return "lng-capacities" }

func (LNGCapacities) Datasets(Params) []dataset.Spec { return []dataset.Spec{lngSpec()} }

func (LNGCapacities) Build(frames map[string]dataframe.DataFrame, p Params) (Result, error) {
	data, err := frame(frames, domain.DatasetLNG)
	if err != nil {
		return Result{}, err
	}
	countries, err := sortedDesc(withoutAggregate(data), domain.ColDTRS)
	if err != nil {
		return Result{}, err
	}

	euDTRS, err := rowValue(data, domain.AggregateName, domain.ColDTRS)
	if err != nil {
		return Result{}, err
	}
	esDTRS, err := rowValue(countries, "Spain", domain.ColDTRS)
	if err != nil {
		return Result{}, err
	}
	ptDTRS, err := rowValue(countries, "Portugal", domain.ColDTRS)
	if err != nil {
		return Result{}, err
	}

	unconstrained := domain.DaysCoveredByFlow(euDTRS, domain.WinterConsumption(domain.EUYearConsumption))
	constrained := domain.DaysCoveredByFlow(
		euDTRS-esDTRS-ptDTRS+domain.ExportCapacityESFR,
		domain.WinterConsumption(domain.EUYearConsumption-domain.ESYearConsumption-domain.PTYearConsumption),
	)

	green := chart.Fraction(0.25, 0.45, 0)

	fig := baseFigure(p)
	fig.Title = "LNG regasification capacity in EU countries"
	fig.YLabel = "GWh/d"
	fig.Categories = countries.Col(domain.ColName).Records()
	fig.Series = []chart.Series{{Label: "DTRS", Values: values(countries, domain.ColDTRS), Color: green}}
	fig.Annotations = []chart.Annotation{
		{
			X: 2.1, Y: 1550,
			Text:  fmt.Sprintf("Gas consumption coverage (unconstrained)†: %d winter days", unconstrained),
			Color: chart.Gray,
		},
		{
			X: 2.1, Y: 1350,
			Text:  fmt.Sprintf("Gas consumption coverage (constrained)†    : %d winter days", constrained),
			Color: green,
		},
	}
	fig.Notes = []chart.Note{
		winterDaysNote(),
		note(fmt.Sprintf("† Constrained: Exports from Spain to France are limited by pipeline capacity (%g GWh/d).", domain.ExportCapacityESFR)),
		sourceNote(p, "EU_LNG_capacities.py"),
	}

	return Result{
		Figure: fig,
		Summary: Summary{
			{Name: "unconstrained_days", Value: float64(unconstrained)},
			{Name: "constrained_days", Value: float64(constrained)},
		},
		Output: "EU_LNG_capacities",
	}, nil
}
