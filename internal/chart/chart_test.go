package chart

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFigure() Figure {
	green := Fraction(0.25, 0.45, 0)
	return Figure{
		WidthCM:    20,
		HeightCM:   12,
		DPI:        72,
		Margins:    Margins{Left: 1.5, Right: 0.2, Top: 0.5, Bottom: 2},
		Title:      "LNG regasification capacity",
		YLabel:     "GWh/d",
		Categories: []string{"Spain", "France", "Italy"},
		Series: []Series{
			{Label: "DTRS", Values: []float64{1900, 1300, 700}, Color: green},
		},
		Annotations: []Annotation{
			{X: 1, Y: 1500, Text: "coverage: 58 winter days", Color: green},
		},
		Notes: []Note{
			{Segments: []Segment{{Text: "Data, details and code: ", Color: Gray}, {Text: "example.org", Color: Azure}}},
		},
		GridColor: LightGray,
	}
}

func overlayFigure() Figure {
	fig := sampleFigure()
	fig.Series = []Series{
		{Label: "Capacity", Values: []float64{250, 200, 140}, Color: LightGray},
		{Label: "20/01/2024", Values: []float64{170, 150, 70}, Color: Fraction(0.65, 0.3, 0.3)},
	}
	fig.Arrows = []Arrow{{X: 1.4, Y: 185, DX: 0.75, Color: color.Black}}
	fig.Legend = true
	return fig
}

// --- colours ---

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"rgb(0,77,153)", color.NRGBA{R: 0, G: 77, B: 153, A: 255}},
		{"#DDDDDD", color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 255}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"rgba(255,0,0,0.5)", color.NRGBA{R: 255, G: 0, B: 0, A: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	_, err := ParseColor("not-a-colour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-colour")
}

func TestMustColor_Panics(t *testing.T) {
	assert.Panics(t, func() { MustColor("rgb(") })
}

func TestFraction(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 64, G: 115, B: 0, A: 255}, Fraction(0.25, 0.45, 0))
	assert.Equal(t, color.NRGBA{R: 166, G: 77, B: 77, A: 255}, Fraction(0.65, 0.3, 0.3))
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 0, A: 255}, Fraction(1.7, -1, 0), "channels are clamped")
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#8000ff", strings.ToLower(Hex(Fraction(0.5, 0, 1))))
}

// --- figure ---

func TestFigure_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Figure)
		wantErr string
	}{
		{"valid", func(*Figure) {}, ""},
		{"zero size", func(f *Figure) { f.WidthCM = 0 }, "must be positive"},
		{"zero dpi", func(f *Figure) { f.DPI = 0 }, "DPI"},
		{"no categories", func(f *Figure) { f.Categories = nil }, "no categories"},
		{"no series", func(f *Figure) { f.Series = nil }, "no series"},
		{"length mismatch", func(f *Figure) { f.Series[0].Values = []float64{1} }, `series "DTRS" has 1 values for 3 categories`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := sampleFigure()
			tt.mutate(&fig)
			err := fig.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFigure_LabelsWrap(t *testing.T) {
	fig := Figure{
		Categories: []string{"Nord Stream 1", "TurkStream (Strandzha 2)", "Libya"},
		WrapLabels: 12,
	}
	assert.Equal(t, []string{"Nord Stream\n1", "TurkStream\n(Strandzha\n2)", "Libya"}, fig.Labels())

	fig.WrapLabels = 0
	assert.Equal(t, fig.Categories, fig.Labels())
}

func TestNote_Text(t *testing.T) {
	n := Note{Segments: []Segment{{Text: "a "}, {Text: "b"}}}
	assert.Equal(t, "a b", n.Text())
}

// --- renderers ---

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("gonum")
	require.NoError(t, err)
	assert.Equal(t, BackendGonum, r.Name())

	r, err = NewRenderer("gochart")
	require.NoError(t, err)
	assert.Equal(t, BackendGoChart, r.Name())

	_, err = NewRenderer("matplotlib")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matplotlib")
}

func TestGonum_JPEG(t *testing.T) {
	for name, fig := range map[string]Figure{"single": sampleFigure(), "overlay": overlayFigure()} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Gonum{}.Render(fig, "jpg", &buf))

			img, err := jpeg.Decode(&buf)
			require.NoError(t, err)
			assert.InDelta(t, 567, img.Bounds().Dx(), 1)
			assert.InDelta(t, 340, img.Bounds().Dy(), 1)
		})
	}
}

func TestGonum_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Gonum{}.Render(sampleFigure(), "png", &buf))
	_, err := png.Decode(&buf)
	require.NoError(t, err)
}

func TestGonum_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Gonum{}.Render(overlayFigure(), "svg", &buf))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "coverage: 58 winter days")
	assert.Contains(t, out, "example.org")
}

func TestGonum_UnsupportedFormat(t *testing.T) {
	err := Gonum{}.Render(sampleFigure(), "bmp", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestGonum_InvalidFigure(t *testing.T) {
	fig := sampleFigure()
	fig.Categories = nil
	assert.Error(t, Gonum{}.Render(fig, "png", &bytes.Buffer{}))
}

func TestGoChart_PNG(t *testing.T) {
	for name, fig := range map[string]Figure{"single": sampleFigure(), "overlay": overlayFigure()} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, GoChart{}.Render(fig, "png", &buf))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, 567, img.Bounds().Dx())
			assert.Equal(t, 340, img.Bounds().Dy())
		})
	}
}

func TestGoChart_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GoChart{}.Render(sampleFigure(), "svg", &buf))
	assert.Contains(t, buf.String(), "<svg")
}

func TestGoChart_SVG_Legend(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GoChart{}.Render(overlayFigure(), "svg", &buf))
	out := buf.String()
	assert.Contains(t, out, "Capacity")
	assert.Contains(t, out, "20/01/2024")

	buf.Reset()
	fig := overlayFigure()
	fig.Legend = false
	require.NoError(t, GoChart{}.Render(fig, "svg", &buf))
	assert.NotContains(t, buf.String(), "20/01/2024")
}

func TestLegendEntries(t *testing.T) {
	fig := overlayFigure()
	fig.Series = append(fig.Series, Series{Values: []float64{1, 2, 3}})

	got := legendEntries(fig)
	require.Len(t, got, 2)
	assert.Equal(t, "Capacity", got[0].Label)
	assert.Equal(t, "20/01/2024", got[1].Label)

	fig.Legend = false
	assert.Empty(t, legendEntries(fig))
}

func TestGoChart_UnsupportedFormat(t *testing.T) {
	err := GoChart{}.Render(sampleFigure(), "jpg", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "gochart backend cannot write \"jpg\"")
}

func TestResidualStack(t *testing.T) {
	series := []Series{
		{Label: "Capacity", Values: []float64{250, 100}},
		{Label: "Stored", Values: []float64{170, 120}},
	}

	got := residualStack(series, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Stored", got[0].Label)
	assert.InDelta(t, 170, got[0].Value, 1e-9)
	assert.Equal(t, "Capacity", got[1].Label)
	assert.InDelta(t, 80, got[1].Value, 1e-9)

	got = residualStack(series, 1)
	assert.InDelta(t, 120, got[0].Value, 1e-9)
	assert.InDelta(t, 0, got[1].Value, 1e-9, "overflow above capacity leaves no residual")
}

func TestPixelLayout(t *testing.T) {
	fig := sampleFigure()
	fig.WidthCM, fig.HeightCM, fig.DPI = 30, 20, 300
	fig.Margins = Margins{Left: 3, Right: 0.5, Top: 1, Bottom: 7}

	l := newPixelLayout(fig)
	assert.Equal(t, 3543, l.width)
	assert.Equal(t, 2362, l.height)
	assert.Equal(t, 354, l.padding.Left)
	assert.Equal(t, 827, l.padding.Bottom)
	assert.Positive(t, l.barWidth)
}
