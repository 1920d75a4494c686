// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	stdcolor "image/color"

	"golang.org/x/image/draw"
)

// Panel is one labeled image on a contact sheet.
type Panel struct {
	Label string
	Image image.Image
}

// labelHeight fits one line of labelSize text with padding.
const labelHeight = labelSize + 6

// ContactSheet lays panels out left to right in rows of cols, each with its
// label drawn underneath. Cells are sized to the largest panel and labels
// are clipped to their cell. Panels without an image are skipped. cols <= 0
// puts every panel on one row. Returns nil when no panel has an image.
func ContactSheet(panels []Panel, cols int) *image.NRGBA {
	kept := panels[:0:0]
	for _, p := range panels {
		if p.Image != nil {
			kept = append(kept, p)
		}
	}
	panels = kept
	if len(panels) == 0 {
		return nil
	}
	if cols <= 0 || cols > len(panels) {
		cols = len(panels)
	}
	rows := (len(panels) + cols - 1) / cols

	var cellW, cellH int
	for _, p := range panels {
		b := p.Image.Bounds()
		cellW = max(cellW, b.Dx())
		cellH = max(cellH, b.Dy())
	}
	cellH += labelHeight

	sheet := image.NewNRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(stdcolor.Black), image.Point{}, draw.Src)

	for i, p := range panels {
		x0 := (i % cols) * cellW
		y0 := (i / cols) * cellH
		b := p.Image.Bounds()
		dst := image.Rect(x0, y0, x0+b.Dx(), y0+b.Dy())
		draw.Draw(sheet, dst, p.Image, b.Min, draw.Src)
		cell := image.Rect(x0, y0, x0+cellW, y0+cellH)
		drawLabel(sheet, p.Label, x0+4, y0+cellH-5, cell)
	}
	return sheet
}
