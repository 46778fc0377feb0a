package report

import (
	"image/color"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/chart"
	"github.com/couchcryptid/eu-gas-report/internal/domain"
)

// LNGSendOut charts the declared send-out capacity (DTRS) of each country's
// LNG terminals and states the EU total in TWh/d.
type LNGSendOut struct{}

func (LNGSendOut) Name() string { return "lng-send-out" }

func (LNGSendOut) Datasets(Params) []dataset.Spec { return []dataset.Spec{lngSpec()} }

func (LNGSendOut) Build(frames map[string]dataframe.DataFrame, p Params) (Result, error) {
	data, err := frame(frames, domain.DatasetLNG)
	if err != nil {
		return Result{}, err
	}
	euDTRS, err := rowValue(data, domain.AggregateName, domain.ColDTRS)
	if err != nil {
		return Result{}, err
	}
	countries, err := sortedDesc(withoutAggregate(data), domain.ColDTRS)
	if err != nil {
		return Result{}, err
	}

	sendOut := domain.SendOutTWhd(euDTRS)

	fig := baseFigure(p)
	fig.Margins = chart.Margins{Left: 3, Right: 0.5, Top: 0.2, Bottom: 5.6}
	fig.GridColor = chart.MustColor("#DDDDDD")
	fig.YLabel = "GWh/d"
	fig.Categories = countries.Col(domain.ColName).Records()
	fig.Series = []chart.Series{{
		Label:  "DTRS",
		Values: values(countries, domain.ColDTRS),
		Color:  chart.Fraction(0.3, 0.5, 0),
	}}
	fig.Annotations = []chart.Annotation{{
		X:     2,
		Y:     1900,
		Text:  "EU send-out capacity from LNG to gas system: " + decimal(sendOut) + " TWh/d",
		Size:  chart.DefaultFontSize,
		Color: color.Black,
	}}

	return Result{
		Figure:  fig,
		Summary: Summary{{Name: "eu_send_out_twh_per_day", Value: sendOut}},
		Output:  "EU_LNG_send_out",
	}, nil
}
