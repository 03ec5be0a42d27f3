// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"context"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Loader fetches and decodes the image named by src.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, src string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// ErrImageNotFound is returned by MemoryLoader for unknown sources.
var ErrImageNotFound = errors.New("style: image not found")

// DefaultLoader reads http and https URLs with http.DefaultClient and
// everything else from the file system.
var DefaultLoader Loader = LoaderFunc(loadImage)

func loadImage(ctx context.Context, src string) (image.Image, error) {
	var r io.ReadCloser
	if isRemote(src) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "style: request %s", src)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "style: fetch %s", src)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, errors.Newf("style: fetch %s: %s", src, resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, errors.Wrapf(err, "style: open %s", src)
		}
		r = f
	}
	defer func() { _ = r.Close() }()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "style: decode %s", src)
	}
	return img, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// MemoryLoader serves images registered in memory.
type MemoryLoader struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewMemoryLoader creates an empty MemoryLoader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{images: make(map[string]image.Image)}
}

// Add registers img under src.
func (m *MemoryLoader) Add(src string, img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[src] = img
}

// Load returns the image registered under src.
func (m *MemoryLoader) Load(_ context.Context, src string) (image.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[src]
	if !ok {
		return nil, errors.Wrapf(ErrImageNotFound, "%q", src)
	}
	return img, nil
}
