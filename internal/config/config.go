// Package config loads strip presets from YAML and logging settings from
// .env files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-strip-mcp/internal/imaging"
	"github.com/ironsheep/image-strip-mcp/internal/strip"
)

// Preset is a YAML document holding any subset of strip options. Fields
// left out of the file stay nil and do not override anything.
//
//	orientation: vertical
//	alignment: end
//	resize: crop_larger
//	keep_aspect: false
//	border: 8
//	border_color: "#202020"
//	format: png
//	quality: 95
//	timeout: 30s
type Preset struct {
	Orientation *imaging.Orientation    `yaml:"orientation"`
	Alignment   *imaging.Alignment      `yaml:"alignment"`
	Resize      *imaging.ResizeStrategy `yaml:"resize"`
	KeepAspect  *bool                   `yaml:"keep_aspect"`
	Border      *int                    `yaml:"border"`
	BorderColor *string                 `yaml:"border_color"`
	Format      *imaging.Format         `yaml:"format"`
	Quality     *int                    `yaml:"quality"`
	Timeout     *time.Duration          `yaml:"timeout"`
}

// Preset keys, matching the CLI flag names they correspond to.
const (
	KeyOrientation = "orientation"
	KeyAlignment   = "alignment"
	KeyResize      = "resize"
	KeyKeepAspect  = "keep-aspect"
	KeyBorder      = "border"
	KeyBorderColor = "border-color"
	KeyFormat      = "format"
	KeyQuality     = "quality"
	KeyTimeout     = "timeout"
)

// LoadPreset reads and decodes the preset at path.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset: %w", err)
	}
	p, err := ParsePreset(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

// ParsePreset decodes a preset. Unknown keys and invalid enum values are
// rejected; an empty document is an empty preset.
func ParsePreset(r io.Reader) (*Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if p.Border != nil && *p.Border < 0 {
		return nil, fmt.Errorf("%w: border %d is negative", imaging.ErrInvalidParameter, *p.Border)
	}
	if p.Timeout != nil && *p.Timeout < 0 {
		return nil, fmt.Errorf("%w: timeout %s is negative", imaging.ErrInvalidParameter, *p.Timeout)
	}
	return &p, nil
}

// Apply copies the preset's values into req. Keys for which skip returns
// true are left alone, so flags given on the command line win.
func (p *Preset) Apply(req *strip.Request, skip func(key string) bool) {
	if skip == nil {
		skip = func(string) bool { return false }
	}
	set := func(key string, ok bool, apply func()) {
		if ok && !skip(key) {
			apply()
		}
	}
	set(KeyOrientation, p.Orientation != nil, func() { req.Orientation = p.Orientation.String() })
	set(KeyAlignment, p.Alignment != nil, func() { req.Alignment = p.Alignment.String() })
	set(KeyResize, p.Resize != nil, func() { req.Resize = p.Resize.String() })
	set(KeyKeepAspect, p.KeepAspect != nil, func() { req.KeepAspect = *p.KeepAspect })
	set(KeyBorder, p.Border != nil, func() { req.Border = *p.Border })
	set(KeyBorderColor, p.BorderColor != nil, func() { req.BorderColor = *p.BorderColor })
	set(KeyFormat, p.Format != nil, func() { req.Format = p.Format.String() })
	set(KeyQuality, p.Quality != nil, func() { req.Quality = *p.Quality })
}

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
// With no paths it looks for ".env" in the working directory.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
