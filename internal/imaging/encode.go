package imaging

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// EncoderFor returns the encoder function for out.
//
//   - png: lossless, quality ignored
//   - jpg, jpeg: baseline JPEG at out.Quality, alpha dropped
//   - webp: lossy at out.Quality, lossless when out.Quality is 100
func EncoderFor(out OutputSpec) (imgio.Encoder, error) {
	if err := out.Validate(); err != nil {
		return nil, err
	}
	switch out.Format {
	case FormatPNG:
		return imgio.PNGEncoder(), nil
	case FormatJPG, FormatJPEG:
		jpeg := imgio.JPEGEncoder(out.Quality)
		return func(w io.Writer, img image.Image) error {
			return jpeg(w, dropAlpha(img))
		}, nil
	case FormatWebP:
		opts := &webp.Options{Quality: float32(out.Quality), Lossless: out.Quality == 100}
		return func(w io.Writer, img image.Image) error {
			return webp.Encode(w, straightRGBA(img), opts)
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %d", ErrInvalidParameter, int(out.Format))
	}
}

// Encode serializes img to w according to out.
//
// # Errors
//
// Returns an error wrapping ErrInvalidParameter for an invalid spec and
// ErrEncode when the encoder fails.
func Encode(w io.Writer, img image.Image, out OutputSpec) error {
	enc, err := EncoderFor(out)
	if err != nil {
		return err
	}
	if err := enc(w, img); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, out.Format, err)
	}
	return nil
}

// EncodeBytes is Encode into a new buffer. Nothing is returned unless the
// whole image was encoded.
func EncodeBytes(img image.Image, out OutputSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dropAlpha discards the alpha channel without compositing, keeping the
// stored color of transparent pixels.
func dropAlpha(img image.Image) image.Image {
	if !HasTransparency(img) {
		return img
	}
	flat := imaging.Clone(img)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xff
	}
	return flat
}

// straightRGBA adapts img for the webp encoder, which reads *image.RGBA
// pixels as non-premultiplied. NRGBA bytes are handed over unchanged.
func straightRGBA(img image.Image) *image.RGBA {
	n := toNRGBA(img)
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}
