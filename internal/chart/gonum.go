package chart

import (
	"image/color"
	"io"
	"math"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/pkg/errors"
)

// Arrow head size in points.
const (
	arrowHeadLength = 7
	arrowHeadWidth  = 5
)

// Gonum renders figures with gonum.org/v1/plot. Margins bound the data area:
// tick labels and the footer notes are drawn inside them.
type Gonum struct{}

func (Gonum) Name() string { return BackendGonum }

func (Gonum) Formats() []string {
	return []string{"jpg", "jpeg", "png", "tif", "tiff", "svg", "pdf", "eps"}
}

func (g Gonum) Render(fig Figure, format string, w io.Writer) error {
	if !Supports(g, format) {
		return unsupported(g, format)
	}
	if err := fig.Validate(); err != nil {
		return err
	}

	width := vg.Length(fig.WidthCM) * vg.Centimeter
	height := vg.Length(fig.HeightCM) * vg.Centimeter
	cw, err := newGonumCanvas(width, height, format, fig.DPI)
	if err != nil {
		return err
	}
	dc := draw.New(cw)

	p, err := buildPlot(fig)
	if err != nil {
		return err
	}
	p.Draw(fitMargins(p, dc, fig.Margins))
	drawNotes(dc, fig.Notes)

	if _, err := cw.WriteTo(w); err != nil {
		return errors.Wrapf(err, "encode %s", format)
	}
	return nil
}

func newGonumCanvas(w, h vg.Length, format string, dpi int) (vg.CanvasWriterTo, error) {
	raster := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	}
	switch format {
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster()}, nil
	case "png":
		return vgimg.PngCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster()}, nil
	default:
		c, err := draw.NewFormattedCanvas(w, h, format)
		if err != nil {
			return nil, errors.Wrap(ErrUnsupportedFormat, err.Error())
		}
		return c, nil
	}
}

func buildPlot(fig Figure) (*plot.Plot, error) {
	size := vg.Points(fig.fontSize())

	p := plot.New()
	p.Title.Text = fig.Title
	p.Title.TextStyle.Font.Size = size
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.Title.Padding = vg.Points(10)

	p.Y.Label.Text = fig.YLabel
	p.Y.Label.TextStyle.Font.Size = size
	p.Y.Tick.Label.Font.Size = size
	p.Y.Min = 0
	p.X.Tick.Label.Font.Size = size
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if fig.GridColor != nil {
		grid := plotter.NewGrid()
		for _, ls := range []*draw.LineStyle{&grid.Vertical, &grid.Horizontal} {
			ls.Color = fig.GridColor
			ls.Width = vg.Points(0.8)
			ls.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(grid)
	}

	p.NominalX(fig.Labels()...)

	barWidth := barWidth(fig)
	for _, s := range fig.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth)
		if err != nil {
			return nil, errors.Wrapf(err, "series %q", s.Label)
		}
		bars.Color = s.Color
		bars.LineStyle.Width = 0
		p.Add(bars)
		if fig.Legend && s.Label != "" {
			p.Legend.Add(s.Label, bars)
		}
	}
	if fig.Legend {
		p.Legend.Top = true
		p.Legend.TextStyle.Font.Size = vg.Points(NoteFontSize)
	}

	for _, a := range fig.Annotations {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: a.X, Y: a.Y}},
			Labels: []string{a.Text},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "annotation %q", a.Text)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = a.Color
			labels.TextStyle[i].Font.Size = vg.Points(annotationSize(a))
			labels.TextStyle[i].XAlign = draw.XLeft
			labels.TextStyle[i].YAlign = draw.YBottom
		}
		p.Add(labels)
	}

	for _, a := range fig.Arrows {
		p.Add(arrowPlotter{a})
	}
	return p, nil
}

// barWidth gives each bar 90% of its category slot.
func barWidth(fig Figure) vg.Length {
	avail := fig.WidthCM - fig.Margins.Left - fig.Margins.Right
	if avail < 1 {
		avail = 1
	}
	return vg.Length(avail/float64(len(fig.Categories))*0.9) * vg.Centimeter
}

// fitMargins crops c so that the plot's data area starts the requested
// margins in from each edge. Margins too small for the axes are left as is.
func fitMargins(p *plot.Plot, c draw.Canvas, m Margins) draw.Canvas {
	da := p.DataCanvas(c)
	extra := func(want float64, used vg.Length) vg.Length {
		d := vg.Length(want)*vg.Centimeter - used
		if d < 0 {
			return 0
		}
		return d
	}
	left := extra(m.Left, da.Min.X-c.Min.X)
	right := extra(m.Right, c.Max.X-da.Max.X)
	bottom := extra(m.Bottom, da.Min.Y-c.Min.Y)
	top := extra(m.Top, c.Max.Y-da.Max.Y)
	return draw.Crop(c, left, -right, bottom, -top)
}

func noteStyle(c color.Color) text.Style {
	f := plot.DefaultFont
	f.Size = vg.Points(NoteFontSize)
	return text.Style{
		Color:   c,
		Font:    f,
		XAlign:  draw.XLeft,
		YAlign:  draw.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

// drawNotes writes the footer lines bottom-up from the lower-left corner.
func drawNotes(c draw.Canvas, notes []Note) {
	lineHeight := vg.Points(NoteFontSize * 1.5)
	x0 := c.Min.X + vg.Centimeter/2
	y := c.Min.Y + vg.Centimeter/2 + lineHeight*vg.Length(len(notes)-1)
	for _, n := range notes {
		x := x0
		for _, seg := range n.Segments {
			sty := noteStyle(seg.Color)
			c.FillText(sty, vg.Point{X: x, Y: y}, seg.Text)
			x += sty.Width(seg.Text)
		}
		y -= lineHeight
	}
}

// arrowPlotter draws a straight arrow with a filled triangular head.
type arrowPlotter struct {
	Arrow
}

func (a arrowPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	x0, y0 := trX(a.X), trY(a.Y)
	x1, y1 := trX(a.X+a.DX), trY(a.Y+a.DY)

	c.StrokeLine2(draw.LineStyle{Color: a.Color, Width: vg.Points(1.2)}, x0, y0, x1, y1)

	dx, dy := float64(x1-x0), float64(y1-y0)
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	ux, uy := vg.Length(dx/n), vg.Length(dy/n)
	hl, hw := vg.Points(arrowHeadLength), vg.Points(arrowHeadWidth)
	c.FillPolygon(a.Color, []vg.Point{
		{X: x1 + hl*ux, Y: y1 + hl*uy},
		{X: x1 - hw*uy, Y: y1 + hw*ux},
		{X: x1 + hw*uy, Y: y1 - hw*ux},
	})
}

// DataRange keeps the whole arrow inside the axes.
func (a arrowPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	return math.Min(a.X, a.X+a.DX), math.Max(a.X, a.X+a.DX),
		math.Min(a.Y, a.Y+a.DY), math.Max(a.Y, a.Y+a.DY)
}
