// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import (
	"bytes"

	"github.com/cockroachdb/errors"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkbhex"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/proj"
)

// WKB reads a single well-known binary geometry, raw or hex encoded.
// Extended WKB carrying an SRID is accepted and the SRID names the data
// projection.
type WKB struct {
	opts options
}

// NewWKB creates a WKB reader.
func NewWKB(opts ...Option) *WKB {
	return &WKB{opts: newOptions(opts)}
}

// ReadFeatures implements Format.
func (r *WKB) ReadFeatures(data []byte) ([]*feature.Feature, error) {
	t, err := decodeWKB(data)
	if err != nil {
		return nil, err
	}
	dataProj := r.opts.dataProjection
	if dataProj == nil {
		if dataProj, err = sridProjection(t.SRID()); err != nil {
			return nil, err
		}
	}
	fn, err := r.opts.transformer(dataProj)
	if err != nil {
		return nil, err
	}
	return readGoGeom(t, r.opts.splitCollection, fn)
}

// ReadProjection implements Format.
func (r *WKB) ReadProjection(data []byte) (*proj.Projection, error) {
	if r.opts.dataProjection != nil {
		return r.opts.dataProjection, nil
	}
	t, err := decodeWKB(data)
	if err != nil {
		return nil, err
	}
	return sridProjection(t.SRID())
}

func decodeWKB(data []byte) (gogeom.T, error) {
	if isHex(data) {
		text := string(bytes.TrimSpace(data))
		t, err := wkbhex.Decode(text)
		if err != nil {
			var eerr error
			if t, eerr = ewkbhex.Decode(text); eerr != nil {
				return nil, errors.Wrap(err, "format: reading hex WKB")
			}
		}
		return t, nil
	}
	t, err := wkb.Unmarshal(data)
	if err != nil {
		var eerr error
		if t, eerr = ewkb.Unmarshal(data); eerr != nil {
			return nil, errors.Wrap(err, "format: reading WKB")
		}
	}
	return t, nil
}

// isHex reports whether data is an even-length run of hex digits, ignoring
// surrounding white space. Binary WKB always starts with a byte order
// marker of 0 or 1, which is not a printable digit.
func isHex(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || len(data)%2 != 0 {
		return false
	}
	for _, c := range data {
		if unhex(c) == 0xff {
			return false
		}
	}
	return true
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0xff
}
