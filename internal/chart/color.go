package chart

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"
)

// Shared palette.
var (
	Azure     = MustColor("rgb(0,77,153)")    // links
	LightGray = MustColor("rgb(204,204,204)") // grid, capacity bars
	Gray      = MustColor("rgb(102,102,102)") // notes
)

// ParseColor parses a CSS colour: "#rgb", "#rrggbb", "rgb(r,g,b)" or "rgba(r,g,b,a)".
func ParseColor(s string) (color.Color, error) {
	c, err := colors.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse colour %q", s)
	}
	rgba := c.ToRGBA()
	return color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: uint8(math.Round(rgba.A * 255))}, nil
}

// MustColor is like ParseColor but panics on error. It is meant for palette literals.
func MustColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Fraction builds an opaque colour from channel fractions in [0, 1].
func Fraction(r, g, b float64) color.Color {
	c, err := colors.RGB(channel(r), channel(g), channel(b))
	if err != nil {
		panic(errors.Wrap(err, "build colour"))
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	rgb, err := colors.RGB(n.R, n.G, n.B)
	if err != nil {
		return "#000000"
	}
	return rgb.ToHEX().String()
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
