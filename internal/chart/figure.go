// Package chart renders labelled bar charts with text annotations and footer
// notes. A Figure describes the chart independently of the drawing library;
// a Renderer turns it into an encoded image.
package chart

import (
	"image/color"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/errors"
)

// Default font sizes in points.
const (
	DefaultFontSize = 18
	SmallFontSize   = 16
	NoteFontSize    = 13
)

// Figure is a bar chart over named categories. All series share the category
// positions and are drawn on top of each other in declaration order, so a
// capacity series followed by a fill-level series reads as "used of total".
type Figure struct {
	// Size in centimetres.
	WidthCM, HeightCM float64
	// Margins is the distance from each edge of the image to the data area,
	// in centimetres. Tick labels and footer notes sit inside it.
	Margins Margins
	DPI     int

	Title  string
	YLabel string

	Categories []string
	Series     []Series

	Annotations []Annotation
	Arrows      []Arrow
	Notes       []Note

	Legend    bool
	GridColor color.Color
	// WrapLabels wraps category labels at this many characters. Zero disables wrapping.
	WrapLabels int
	// FontSize applies to title, axis labels and ticks. Zero means DefaultFontSize.
	FontSize float64
}

// Margins in centimetres.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// Series is one bar per category.
type Series struct {
	Label  string
	Values []float64
	Color  color.Color
}

// Annotation is text anchored at its bottom-left corner, in data coordinates.
// X is the category index.
type Annotation struct {
	X, Y  float64
	Text  string
	Size  float64
	Color color.Color
}

// Arrow points from (X, Y) to (X+DX, Y+DY) in data coordinates.
type Arrow struct {
	X, Y, DX, DY float64
	Color        color.Color
}

// Note is one footer line made of coloured segments.
type Note struct {
	Segments []Segment
}

// Segment is a run of text in one colour.
type Segment struct {
	Text  string
	Color color.Color
}

// Text returns the note's segments joined.
func (n Note) Text() string {
	var b strings.Builder
	for _, s := range n.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Validate reports structural problems that every backend would trip over.
func (f Figure) Validate() error {
	if f.WidthCM <= 0 || f.HeightCM <= 0 {
		return errors.Errorf("figure size %.1fx%.1f cm must be positive", f.WidthCM, f.HeightCM)
	}
	if f.DPI <= 0 {
		return errors.Errorf("figure DPI %d must be positive", f.DPI)
	}
	if len(f.Categories) == 0 {
		return errors.New("figure has no categories")
	}
	if len(f.Series) == 0 {
		return errors.New("figure has no series")
	}
	for _, s := range f.Series {
		if len(s.Values) != len(f.Categories) {
			return errors.Errorf("series %q has %d values for %d categories", s.Label, len(s.Values), len(f.Categories))
		}
	}
	return nil
}

// Labels returns the category labels, wrapped if WrapLabels is set.
func (f Figure) Labels() []string {
	if f.WrapLabels <= 0 {
		return f.Categories
	}
	out := make([]string, len(f.Categories))
	for i, c := range f.Categories {
		out[i] = wordwrap.WrapString(c, uint(f.WrapLabels))
	}
	return out
}

func (f Figure) fontSize() float64 {
	if f.FontSize > 0 {
		return f.FontSize
	}
	return DefaultFontSize
}

func annotationSize(a Annotation) float64 {
	if a.Size > 0 {
		return a.Size
	}
	return SmallFontSize
}
