// Package strip runs a complete strip job: validate the request, load the
// images, plan and compose the strip, then encode it.
//
// Every failure is reported as a single *StageError naming the step that
// failed. Nothing is written unless encoding succeeded.
package strip

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-strip-mcp/internal/imaging"
)

// Pipeline runs strip jobs against an image source.
// It is safe for concurrent use when its Source is.
type Pipeline struct {
	source *imaging.Source
	log    *zap.Logger
}

// New creates a pipeline. A nil logger disables logging.
func New(source *imaging.Source, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{source: source, log: log}
}

// Summary describes a finished strip.
type Summary struct {
	Images      int                `json:"images"`
	Canvas      imaging.Dimensions `json:"canvas"`
	Format      imaging.Format     `json:"format"`
	Quality     int                `json:"quality"`
	Transparent bool               `json:"transparent"`
	Bytes       int                `json:"bytes"`
	Layout      *imaging.Layout    `json:"layout"`
}

func (s Summary) String() string {
	return fmt.Sprintf("merged %d image(s) → %d×%d %s (Q=%d)",
		s.Images, s.Canvas.Width, s.Canvas.Height, strings.ToUpper(s.Format.Extension()), s.Quality)
}

// Output is an encoded strip held in memory.
type Output struct {
	Data    []byte
	Summary Summary
}

// Load decodes refs concurrently. Results keep the order of refs.
func (p *Pipeline) Load(ctx context.Context, refs []string) ([]image.Image, error) {
	images := make([]image.Image, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			img, err := p.source.Load(ctx, ref)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fail(StageDecode, err)
	}
	return images, nil
}

// Plan validates req, loads its images and returns the strip geometry
// without rendering anything.
func (p *Pipeline) Plan(ctx context.Context, req Request) (*imaging.Layout, []imaging.ResizePlan, error) {
	settings, err := req.Validate()
	if err != nil {
		return nil, nil, err
	}
	images, err := p.Load(ctx, settings.Images)
	if err != nil {
		return nil, nil, err
	}
	layout, plans, err := imaging.PlanStrip(sizes(images), settings.Options)
	if err != nil {
		return nil, nil, fail(StageResize, err)
	}
	return layout, plans, nil
}

// Render runs every stage except writing and returns the encoded strip.
func (p *Pipeline) Render(ctx context.Context, req Request) (*Output, error) {
	start := time.Now()
	settings, err := req.Validate()
	if err != nil {
		return nil, err
	}
	log := p.log.With(zap.Int("images", len(settings.Images)))

	images, err := p.Load(ctx, settings.Images)
	if err != nil {
		return nil, err
	}
	log.Debug("images decoded", zap.Duration("elapsed", time.Since(start)))

	opts := settings.Options
	layout, plans, err := imaging.PlanStrip(sizes(images), opts)
	if err != nil {
		return nil, fail(StageResize, err)
	}
	log.Debug("strip planned",
		zap.Stringer("strategy", opts.Strategy),
		zap.Stringer("orientation", opts.Orientation),
		zap.Stringer("canvas", layout.Canvas))

	res, err := imaging.Compose(images, plans, layout.CrossOffsets(), opts.Orientation, opts.Border)
	if err != nil {
		return nil, fail(StageComposite, err)
	}
	log.Debug("strip composed", zap.Bool("transparent", res.Transparent))

	data, err := imaging.EncodeBytes(res.Image, settings.Output)
	if err != nil {
		return nil, fail(StageEncode, err)
	}

	summary := Summary{
		Images:      len(images),
		Canvas:      res.Layout.Canvas,
		Format:      settings.Output.Format,
		Quality:     settings.Output.Quality,
		Transparent: res.Transparent,
		Bytes:       len(data),
		Layout:      res.Layout,
	}
	log.Debug(summary.String(), zap.Int("bytes", len(data)), zap.Duration("elapsed", time.Since(start)))
	return &Output{Data: data, Summary: summary}, nil
}

// Run renders req and writes the encoded strip to w.
func (p *Pipeline) Run(ctx context.Context, req Request, w io.Writer) (*Summary, error) {
	out, err := p.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(out.Data); err != nil {
		return nil, fail(StageWrite, err)
	}
	return &out.Summary, nil
}

// RunToFile renders req and writes the result to path. The file is only
// created once the strip has been fully encoded.
func (p *Pipeline) RunToFile(ctx context.Context, req Request, path string) (*Summary, error) {
	out, err := p.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return nil, fail(StageWrite, err)
	}
	p.log.Debug("strip written", zap.String("path", path))
	return &out.Summary, nil
}

func sizes(images []image.Image) []imaging.Dimensions {
	out := make([]imaging.Dimensions, len(images))
	for i, img := range images {
		out[i] = imaging.SizeOf(img)
	}
	return out
}
