// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"os"
)

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return nil
}

// SaveGIF writes an animation to path.
func SaveGIF(path string, anim *gif.GIF) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := gif.EncodeAll(f, anim); err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return nil
}
