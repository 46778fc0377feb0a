package chart

import (
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GoChart renders figures with go-chart. Overlaid series are stacked as
// residuals and annotations are drawn as a text block in the upper right of
// the plot area, with the legend in the upper left. Arrows and label
// wrapping are not supported.
type GoChart struct{}

func (GoChart) Name() string { return BackendGoChart }

func (GoChart) Formats() []string { return []string{"png", "svg"} }

func (g GoChart) Render(fig Figure, format string, w io.Writer) error {
	if !Supports(g, format) {
		return unsupported(g, format)
	}
	if err := fig.Validate(); err != nil {
		return err
	}

	provider := gochart.PNG
	if format == "svg" {
		provider = gochart.SVG
	}

	l := newPixelLayout(fig)
	elements := []gochart.Renderable{
		yLabelBlock(fig),
		annotationBlock(fig),
		legendBlock(fig),
		notesBlock(fig, l),
	}

	var err error
	if len(fig.Series) == 1 {
		err = barChart(fig, l, elements).Render(provider, w)
	} else {
		err = stackedBarChart(fig, l, elements).Render(provider, w)
	}
	if err != nil {
		return errors.Wrapf(err, "render %s", format)
	}
	return nil
}

// pixelLayout converts the centimetre geometry of a figure to pixels.
type pixelLayout struct {
	dpi           float64
	width, height int
	padding       gochart.Box
	barWidth      int
	barSpacing    int
}

func newPixelLayout(fig Figure) pixelLayout {
	dpi := float64(fig.DPI)
	px := func(cm float64) int { return int(math.Round(cm / 2.54 * dpi)) }

	l := pixelLayout{
		dpi:    dpi,
		width:  px(fig.WidthCM),
		height: px(fig.HeightCM),
		padding: gochart.Box{
			Left:   px(fig.Margins.Left),
			Right:  px(fig.Margins.Right),
			Top:    px(fig.Margins.Top),
			Bottom: px(fig.Margins.Bottom),
		},
	}
	slot := (l.width - l.padding.Left - l.padding.Right) * 9 / 10 / len(fig.Categories)
	l.barWidth = max(1, slot*4/5)
	l.barSpacing = max(0, slot-l.barWidth)
	return l
}

func textStyle(size float64, c color.Color) gochart.Style {
	return gochart.Style{FontSize: size, FontColor: toDrawing(c)}
}

func barChart(fig Figure, l pixelLayout, elements []gochart.Renderable) gochart.BarChart {
	s := fig.Series[0]
	bars := make([]gochart.Value, len(fig.Categories))
	for i, label := range fig.Categories {
		bars[i] = gochart.Value{
			Label: label,
			Value: s.Values[i],
			Style: gochart.Style{FillColor: toDrawing(s.Color), StrokeColor: toDrawing(s.Color), StrokeWidth: 0},
		}
	}
	return gochart.BarChart{
		Title:      fig.Title,
		TitleStyle: textStyle(fig.fontSize(), color.Black),
		Width:      l.width,
		Height:     l.height,
		DPI:        l.dpi,
		BarWidth:   l.barWidth,
		BarSpacing: l.barSpacing,
		Background: gochart.Style{Padding: l.padding},
		XAxis:      textStyle(SmallFontSize, color.Black),
		YAxis: gochart.YAxis{
			Style:          textStyle(SmallFontSize, color.Black),
			GridMajorStyle: gridStyle(fig),
		},
		Bars:     bars,
		Elements: elements,
	}
}

func stackedBarChart(fig Figure, l pixelLayout, elements []gochart.Renderable) gochart.StackedBarChart {
	bars := make([]gochart.StackedBar, len(fig.Categories))
	for i, label := range fig.Categories {
		bars[i] = gochart.StackedBar{
			Name:   label,
			Width:  l.barWidth,
			Values: residualStack(fig.Series, i),
		}
	}
	return gochart.StackedBarChart{
		Title:      fig.Title,
		TitleStyle: textStyle(fig.fontSize(), color.Black),
		Width:      l.width,
		Height:     l.height,
		DPI:        l.dpi,
		BarSpacing: l.barSpacing,
		Background: gochart.Style{Padding: l.padding},
		XAxis:      textStyle(SmallFontSize, color.Black),
		YAxis:      textStyle(SmallFontSize, color.Black),
		Bars:       bars,
		Elements:   elements,
	}
}

// residualStack turns overlaid series into stack segments for category i.
// The last series sits at the bottom; each earlier series contributes only
// what it adds on top of the next one.
func residualStack(series []Series, i int) []gochart.Value {
	out := make([]gochart.Value, 0, len(series))
	below := 0.0
	for k := len(series) - 1; k >= 0; k-- {
		v := series[k].Values[i]
		if math.IsNaN(v) {
			v = 0
		}
		seg := math.Max(0, v-below)
		below = math.Max(below, v)
		c := toDrawing(series[k].Color)
		out = append(out, gochart.Value{
			Label: series[k].Label,
			Value: seg,
			Style: gochart.Style{FillColor: c, StrokeColor: c},
		})
	}
	return out
}

func gridStyle(fig Figure) gochart.Style {
	if fig.GridColor == nil {
		return gochart.Style{Hidden: true}
	}
	return gochart.Style{
		StrokeColor:     toDrawing(fig.GridColor),
		StrokeWidth:     0.8,
		StrokeDashArray: []float64{4, 2},
	}
}

func yLabelBlock(fig Figure) gochart.Renderable {
	return func(r gochart.Renderer, cb gochart.Box, defaults gochart.Style) {
		if fig.YLabel == "" {
			return
		}
		defaults.WriteTextOptionsToRenderer(r)
		r.SetFontSize(SmallFontSize)
		r.SetFontColor(drawing.ColorBlack)
		tb := r.MeasureText(fig.YLabel)
		r.Text(fig.YLabel, cb.Left, cb.Top-tb.Height())
	}
}

// annotationBlock lists annotations top to bottom in the upper right corner,
// ordered by their Y anchor.
func annotationBlock(fig Figure) gochart.Renderable {
	anns := append([]Annotation(nil), fig.Annotations...)
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].Y > anns[j].Y })

	return func(r gochart.Renderer, cb gochart.Box, defaults gochart.Style) {
		if len(anns) == 0 {
			return
		}
		defaults.WriteTextOptionsToRenderer(r)
		widest, lineHeight := 0, 0
		for _, a := range anns {
			r.SetFontSize(annotationSize(a))
			tb := r.MeasureText(a.Text)
			widest = max(widest, tb.Width())
			lineHeight = max(lineHeight, tb.Height()*3/2)
		}
		x := cb.Right - widest - lineHeight
		y := cb.Top + lineHeight
		for _, a := range anns {
			r.SetFontSize(annotationSize(a))
			r.SetFontColor(toDrawing(a.Color))
			r.Text(a.Text, x, y)
			y += lineHeight
		}
	}
}

// legendEntries returns the series shown in the legend, in figure order.
func legendEntries(fig Figure) []Series {
	if !fig.Legend {
		return nil
	}
	out := make([]Series, 0, len(fig.Series))
	for _, s := range fig.Series {
		if s.Label != "" {
			out = append(out, s)
		}
	}
	return out
}

// legendBlock draws a colour swatch and label per series in the upper left
// of the plot area.
func legendBlock(fig Figure) gochart.Renderable {
	entries := legendEntries(fig)

	return func(r gochart.Renderer, cb gochart.Box, defaults gochart.Style) {
		if len(entries) == 0 {
			return
		}
		defaults.WriteTextOptionsToRenderer(r)
		r.SetFontSize(NoteFontSize)
		r.SetFontColor(drawing.ColorBlack)
		lineHeight := r.MeasureText("Hg").Height() * 3 / 2
		swatch := lineHeight * 2 / 3
		x := cb.Left + lineHeight
		y := cb.Top + lineHeight
		for _, s := range entries {
			c := toDrawing(s.Color)
			r.SetFillColor(c)
			r.SetStrokeColor(c)
			r.MoveTo(x, y-swatch)
			r.LineTo(x+swatch, y-swatch)
			r.LineTo(x+swatch, y)
			r.LineTo(x, y)
			r.Close()
			r.Fill()

			r.SetFontColor(drawing.ColorBlack)
			r.Text(s.Label, x+swatch*3/2, y)
			y += lineHeight
		}
	}
}

// notesBlock writes footer lines at the bottom of the image.
func notesBlock(fig Figure, l pixelLayout) gochart.Renderable {
	return func(r gochart.Renderer, _ gochart.Box, defaults gochart.Style) {
		if len(fig.Notes) == 0 {
			return
		}
		defaults.WriteTextOptionsToRenderer(r)
		r.SetFontSize(NoteFontSize)
		lineHeight := r.MeasureText("Hg").Height() * 3 / 2
		left := int(math.Round(l.dpi / 5))
		y := l.height - left - lineHeight*(len(fig.Notes)-1)
		for _, n := range fig.Notes {
			x := left
			for _, seg := range n.Segments {
				r.SetFontColor(toDrawing(seg.Color))
				r.Text(seg.Text, x, y)
				x += r.MeasureText(seg.Text).Width()
			}
			y += lineHeight
		}
	}
}

func toDrawing(c color.Color) drawing.Color {
	if c == nil {
		return drawing.ColorBlack
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
