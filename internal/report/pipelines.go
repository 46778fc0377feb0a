package report

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
	"github.com/couchcryptid/eu-gas-report/internal/domain"
)

// pipelineLabelWidth wraps route names on the x axis.
const pipelineLabelWidth = 12

// Pipelines charts firm import capacity per pipeline route against last
// winter's mean flow, with the winter days each would cover.
type Pipelines struct{}

func (Pipelines) Name() string { return "pipelines" }

func (Pipelines) Datasets(Params) []dataset.Spec { return []dataset.Spec{pipelinesSpec()} }

func (Pipelines) Build(frames map[string]dataframe.DataFrame, p Params) (Result, error) {
	data, err := frame(frames, domain.DatasetPipelines)
	if err != nil {
		return Result{}, err
	}
	routes, err := sortedDesc(data, domain.ColCapacity)
	if err != nil {
		return Result{}, err
	}

	capacity := values(routes, domain.ColCapacity)
	flow := values(routes, domain.ColMeanFlowWinter)
	winterCons := domain.WinterConsumption(domain.EUYearConsumptionAGSI)
	capacityDays := domain.DaysCoveredByFlow(sum(capacity), winterCons)
	flowDays := domain.DaysCoveredByFlow(sum(flow), winterCons)

	purple := chart.Fraction(0.5, 0, 1)

	fig := baseFigure(p)
	fig.Title = "Gas import pipelines in EU"
	fig.YLabel = "GWh/d"
	fig.Legend = true
	fig.WrapLabels = pipelineLabelWidth
	fig.Categories = routes.Col(domain.ColName).Records()
	fig.Series = []chart.Series{
		{Label: "Capacity", Values: capacity, Color: chart.LightGray},
		{Label: "Mean flow winter 2021", Values: flow, Color: purple},
	}
	fig.Annotations = []chart.Annotation{
		{X: 1.75, Y: 2600, Text: fmt.Sprintf("Gas consumption coverage: %d winter days", capacityDays), Color: chart.Gray},
		{X: 1.75, Y: 2200, Text: fmt.Sprintf("Gas consumption coverage: %d winter days", flowDays), Color: purple},
	}
	fig.Notes = []chart.Note{
		winterDaysNote(),
		note("Norway pipelines capacity is not included."),
		sourceNote(p, "EU_pipelines.py"),
	}

	return Result{
		Figure: fig,
		Summary: Summary{
			{Name: "capacity_days", Value: float64(capacityDays)},
			{Name: "last_winter_days", Value: float64(flowDays)},
		},
		Output: "EU_pipelines",
	}, nil
}
