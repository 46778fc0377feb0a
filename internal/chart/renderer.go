package chart

import (
	"io"
	"slices"

	"github.com/pkg/errors"
)

// Backend names accepted by NewRenderer.
const (
	BackendGonum   = "gonum"
	BackendGoChart = "gochart"
)

// ErrUnsupportedFormat is returned when a backend cannot encode the requested image format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Renderer draws a figure and encodes it in one image format.
type Renderer interface {
	Name() string
	Formats() []string
	Render(fig Figure, format string, w io.Writer) error
}

// NewRenderer returns the renderer registered under backend.
func NewRenderer(backend string) (Renderer, error) {
	switch backend {
	case BackendGonum, "":
		return Gonum{}, nil
	case BackendGoChart:
		return GoChart{}, nil
	default:
		return nil, errors.Errorf("unknown render backend %q", backend)
	}
}

// Supports reports whether r can encode format.
func Supports(r Renderer, format string) bool {
	return slices.Contains(r.Formats(), format)
}

func unsupported(r Renderer, format string) error {
	return errors.Wrapf(ErrUnsupportedFormat, "%s backend cannot write %q (supported: %v)", r.Name(), format, r.Formats())
}
