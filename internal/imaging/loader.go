package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder (first frame only)
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

const (
	// DefaultFetchTimeout bounds a single remote image download.
	DefaultFetchTimeout = 60 * time.Second

	// DefaultMaxBytes caps the size of a single encoded input image.
	DefaultMaxBytes = 64 << 20
)

// Source resolves image references into decoded images and caches them.
//
// A reference is either a local file path or an http(s) URL. Once a
// reference is loaded, subsequent Load calls return the cached copy without
// touching the disk or the network.
//
// Source is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Short-lived callers such as the CLI can simply drop the Source.
type Source struct {
	mu       sync.RWMutex
	entries  map[string]*sourceEntry
	client   *http.Client
	maxBytes int64
}

type sourceEntry struct {
	img    image.Image
	format string
	size   int64
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithHTTPClient sets the client used for URL references.
func WithHTTPClient(c *http.Client) SourceOption {
	return func(s *Source) { s.client = c }
}

// WithMaxBytes caps the encoded size of any single input.
func WithMaxBytes(n int64) SourceOption {
	return func(s *Source) { s.maxBytes = n }
}

// NewSource creates an empty Source.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		entries:  make(map[string]*sourceEntry),
		client:   &http.Client{Timeout: DefaultFetchTimeout},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the decoded image for ref, reading and caching it on first use.
//
// # Errors
//
// Every failure wraps ErrDecode: missing files, HTTP errors, non-image
// content, oversized input and undecodable data. Nothing is retried.
func (s *Source) Load(ctx context.Context, ref string) (image.Image, error) {
	e, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (s *Source) load(ctx context.Context, ref string) (*sourceEntry, error) {
	s.mu.RLock()
	if e, ok := s.entries[ref]; ok {
		s.mu.RUnlock()
		return e, nil
	}
	s.mu.RUnlock()

	var (
		data []byte
		err  error
	)
	if IsURL(ref) {
		data, err = s.fetch(ctx, ref)
	} else {
		data, err = s.read(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, ref, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, ref, err)
	}
	if !SizeOf(img).Valid() {
		return nil, fmt.Errorf("%w: %s: image has no pixels", ErrDecode, ref)
	}

	e := &sourceEntry{img: img, format: format, size: int64(len(data))}
	s.mu.Lock()
	s.entries[ref] = e
	s.mu.Unlock()
	return e, nil
}

func (s *Source) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return readLimited(f, s.maxBytes)
}

func (s *Source) fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download image: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unable to download image: status %s", res.Status)
	}

	data, err := readLimited(res.Body, s.maxBytes)
	if err != nil {
		return nil, err
	}

	// Only the first 512 bytes are used to sniff the content type.
	if ctype := http.DetectContentType(data); !strings.HasPrefix(ctype, "image/") {
		return nil, fmt.Errorf("the downloaded file is not a valid image type (%s)", ctype)
	}
	return data, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read image data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds %d bytes", limit)
	}
	return data, nil
}

// Clear removes all images from the cache.
func (s *Source) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*sourceEntry)
	s.mu.Unlock()
}

// Evict removes a single reference from the cache. Unknown references are ignored.
func (s *Source) Evict(ref string) {
	s.mu.Lock()
	delete(s.entries, ref)
	s.mu.Unlock()
}

// IsURL reports whether ref is a well-formed http or https URL.
func IsURL(ref string) bool {
	if _, err := url.ParseRequestURI(ref); err != nil {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Ref is the path or URL the image was loaded from.
	Ref string `json:"ref"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that read the data: "png", "jpeg", "gif",
	// "bmp", "tiff" or "webp". Detection is based on content, not extension.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// Remote is true for URL references.
	Remote bool `json:"remote"`

	// SizeBytes is the size of the encoded image.
	SizeBytes int64 `json:"size_bytes"`
}

// Info loads ref and describes it.
func (s *Source) Info(ctx context.Context, ref string) (*ImageInfo, error) {
	e, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	colorDepth := "8-bit"
	switch e.img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		colorDepth = "16-bit"
	}

	d := SizeOf(e.img)
	return &ImageInfo{
		Ref:        ref,
		Width:      d.Width,
		Height:     d.Height,
		Format:     e.format,
		ColorDepth: colorDepth,
		HasAlpha:   HasTransparency(e.img),
		Remote:     IsURL(ref),
		SizeBytes:  e.size,
	}, nil
}
