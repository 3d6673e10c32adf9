package strip

import (
	"fmt"

	"github.com/ironsheep/image-strip-mcp/internal/imaging"
)

// Defaults applied by DefaultRequest.
const (
	DefaultOrientation = "horizontal"
	DefaultAlignment   = "center"
	DefaultResize      = "reduce_larger"
	DefaultBorderColor = "#ffffff"
	DefaultFormat      = "webp"
	DefaultQuality     = 90
)

// Request is an unvalidated strip job as it arrives from the CLI, a YAML
// preset or an MCP tool call.
type Request struct {
	Images      []string `json:"images"`
	Orientation string   `json:"orientation"`
	Alignment   string   `json:"alignment"`
	Resize      string   `json:"resize_strategy"`
	KeepAspect  bool     `json:"keep_aspect_ratio"`
	Border      int      `json:"border_thickness"`
	BorderColor string   `json:"border_color"`
	Format      string   `json:"output_format"`
	Quality     int      `json:"output_quality"`
}

// DefaultRequest returns a request with every option at its default and no images.
func DefaultRequest() Request {
	return Request{
		Orientation: DefaultOrientation,
		Alignment:   DefaultAlignment,
		Resize:      DefaultResize,
		KeepAspect:  true,
		BorderColor: DefaultBorderColor,
		Format:      DefaultFormat,
		Quality:     DefaultQuality,
	}
}

// Settings is a validated Request.
type Settings struct {
	Images  []string
	Options imaging.Options
	Output  imaging.OutputSpec
}

// Validate checks the request without touching any image: enum values,
// border thickness and quality first, then the border color, then the
// image count. The returned error is a *StageError.
func (r Request) Validate() (*Settings, error) {
	var (
		s   = Settings{Images: r.Images}
		err error
	)

	if s.Options.Orientation, err = imaging.ParseOrientation(r.Orientation); err != nil {
		return nil, fail(StageParameters, err)
	}
	if s.Options.Alignment, err = imaging.ParseAlignment(r.Alignment); err != nil {
		return nil, fail(StageParameters, err)
	}
	if s.Options.Strategy, err = imaging.ParseResizeStrategy(r.Resize); err != nil {
		return nil, fail(StageParameters, err)
	}
	if s.Output.Format, err = imaging.ParseFormat(r.Format); err != nil {
		return nil, fail(StageParameters, err)
	}
	s.Output.Quality = r.Quality
	if err := s.Output.Validate(); err != nil {
		return nil, fail(StageParameters, err)
	}
	s.Options.KeepAspectRatio = r.KeepAspect
	s.Options.Border.Thickness = r.Border
	if err := s.Options.Border.Validate(); err != nil {
		return nil, fail(StageParameters, err)
	}

	if s.Options.Border.Color, err = imaging.ParseColor(r.BorderColor); err != nil {
		return nil, fail(StageColor, err)
	}

	if len(r.Images) < 2 {
		return nil, fail(StageParameters, fmt.Errorf("%w: got %d", imaging.ErrEmptyInput, len(r.Images)))
	}
	for i, ref := range r.Images {
		if ref == "" {
			return nil, fail(StageParameters, fmt.Errorf("%w: image %d has an empty reference", imaging.ErrInvalidParameter, i))
		}
	}
	return &s, nil
}
