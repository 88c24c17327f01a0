// Package imaging removes premultiplied-alpha artifacts from product PNGs.
// Transparent pixels exported by authoring tools often carry dark RGB values
// that show up as rectangular halos when composited on the storefront's dark
// background.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/steadybroo69-afk/gym/pkg/logx"
)

// alphaFloor is the opacity below which RGB values are ramped down. Pixels
// at or above it pass through untouched.
const alphaFloor = 15

// Fetcher loads raw image bytes for a URL. Injectable for tests.
type Fetcher func(ctx context.Context, imageURL string) ([]byte, error)

type entry struct {
	servedURL string
	data      []byte
}

// Sanitizer runs the pixel transform with a never-evicting result cache and
// single-flight coalescing per source URL. Callers always get back a usable
// URL; the worst case is the original, artifacts included.
type Sanitizer struct {
	fetch      Fetcher
	proxyURL   func(originalURL string) string
	servedBase string

	mu    sync.RWMutex
	cache map[string]entry
	group singleflight.Group
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Sanitizer) { s.fetch = f }
}

// WithProxy sets the same-origin proxy used when the source host refuses the
// direct fetch.
func WithProxy(build func(originalURL string) string) Option {
	return func(s *Sanitizer) { s.proxyURL = build }
}

// NewSanitizer builds a Sanitizer serving results under servedBase, e.g.
// "https://host/api/images/sanitized".
func NewSanitizer(servedBase string, opts ...Option) *Sanitizer {
	s := &Sanitizer{
		fetch:      httpFetcher(&http.Client{Timeout: 30 * time.Second}),
		servedBase: servedBase,
		cache:      make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sanitize returns a URL serving the cleaned image, or the original URL if
// the pipeline cannot produce one. Concurrent calls for the same URL share a
// single transform; results (including resolved failures) are memoized for
// the process lifetime.
func (s *Sanitizer) Sanitize(ctx context.Context, imageURL string) string {
	if imageURL == "" {
		return imageURL
	}

	s.mu.RLock()
	if e, ok := s.cache[imageURL]; ok {
		s.mu.RUnlock()
		return e.servedURL
	}
	s.mu.RUnlock()

	v, _, _ := s.group.Do(imageURL, func() (interface{}, error) {
		return s.processAndCache(ctx, imageURL), nil
	})
	return v.(string)
}

// processAndCache runs inside the singleflight flight. The cache is checked
// again first: a caller that missed the fast path just as an earlier flight
// completed must not re-run the transform.
func (s *Sanitizer) processAndCache(ctx context.Context, imageURL string) string {
	s.mu.RLock()
	if e, ok := s.cache[imageURL]; ok {
		s.mu.RUnlock()
		return e.servedURL
	}
	s.mu.RUnlock()

	e := s.process(ctx, imageURL)
	s.mu.Lock()
	s.cache[imageURL] = e
	s.mu.Unlock()
	return e.servedURL
}

// Bytes returns the sanitized PNG for a previously processed source URL.
func (s *Sanitizer) Bytes(imageURL string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.cache[imageURL]
	if !ok || e.data == nil {
		return nil, false
	}
	return e.data, true
}

func (s *Sanitizer) process(ctx context.Context, imageURL string) entry {
	data, err := s.sanitizeFrom(ctx, imageURL)
	if err != nil && s.proxyURL != nil {
		logx.Debug().Err(err).Str("url", imageURL).Msg("direct sanitize failed, retrying via proxy")
		data, err = s.sanitizeFrom(ctx, s.proxyURL(imageURL))
	}
	if err != nil {
		logx.Warn().Err(err).Str("url", imageURL).Msg("image sanitization failed, serving original")
		return entry{servedURL: imageURL}
	}
	return entry{servedURL: s.servedBase + "?url=" + url.QueryEscape(imageURL), data: data}
}

func (s *Sanitizer) sanitizeFrom(ctx context.Context, fetchURL string) ([]byte, error) {
	raw, err := s.fetch(ctx, fetchURL)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// The transform is defined on straight (non-premultiplied) alpha, so the
	// pixels are drawn into an NRGBA buffer first.
	nrgba := toNRGBA(src)
	CleanTransparentPixels(nrgba)

	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// CleanTransparentPixels applies the alpha cleanup in place:
// fully transparent pixels are forced to black, near-transparent ones get
// their RGB scaled linearly by alpha/alphaFloor to suppress color bleed
// without a hard cliff at the threshold.
func CleanTransparentPixels(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		alpha := pix[i+3]
		switch {
		case alpha == 0:
			pix[i], pix[i+1], pix[i+2] = 0, 0, 0
		case alpha < alphaFloor:
			factor := float64(alpha) / alphaFloor
			pix[i] = uint8(math.Round(float64(pix[i]) * factor))
			pix[i+1] = uint8(math.Round(float64(pix[i+1]) * factor))
			pix[i+2] = uint8(math.Round(float64(pix[i+2]) * factor))
		}
	}
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func httpFetcher(client *http.Client) Fetcher {
	return func(ctx context.Context, imageURL string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
}
