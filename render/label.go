// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"image"
	stdcolor "image/color"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/glow"
)

// labelSize is the label font size in pixels.
const labelSize = 12

// labelFace shapes labels with HarfBuzz (go-text/typesetting) and draws
// the shaped glyph outlines from the same font data through sfnt.
//
// Both parsed fonts are read-only and safe for concurrent use; faces,
// shapers and sfnt buffers are created per call.
type labelFace struct {
	shaper  *gtfont.Font
	outline *sfnt.Font
}

var (
	labelFaceOnce sync.Once
	labelFaceData *labelFace
)

// defaultLabelFace returns the Go Regular label face, or nil if the font
// cannot be parsed.
func defaultLabelFace() *labelFace {
	labelFaceOnce.Do(func() {
		lf, err := newLabelFace(goregular.TTF)
		if err != nil {
			glow.Logger().Warn("render: label font unavailable, using basicfont", "err", err)
			return
		}
		labelFaceData = lf
	})
	return labelFaceData
}

func newLabelFace(ttf []byte) (*labelFace, error) {
	gt, err := gtfont.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, err
	}
	sf, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return &labelFace{shaper: gt.Font, outline: sf}, nil
}

// shape returns the positioned glyphs of s at labelSize.
func (lf *labelFace) shape(s string) []shaping.Glyph {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(lf.shaper),
		Size:      fixed.I(labelSize),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	var hb shaping.HarfbuzzShaper
	return hb.Shape(in).Glyphs
}

// draw renders s with its baseline at (x, y), clipped to clip.
func (lf *labelFace) draw(dst draw.Image, s string, x, y int, clip image.Rectangle) {
	glyphs := lf.shape(s)
	if len(glyphs) == 0 {
		return
	}
	var width fixed.Int26_6
	for _, g := range glyphs {
		width += g.Advance
	}

	r := image.Rect(x, y-labelSize, x+width.Ceil()+2, y+labelSize/3+1)
	r = r.Intersect(clip).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	var (
		ras vector.Rasterizer
		buf sfnt.Buffer
	)
	ras.Reset(r.Dx(), r.Dy())
	ox := float32(x - r.Min.X)
	oy := float32(y - r.Min.Y)
	pen := float32(0)
	for _, g := range glyphs {
		gid := sfnt.GlyphIndex(g.GlyphID) //nolint:gosec // Go Regular has fewer than 65536 glyphs
		segs, err := lf.outline.LoadGlyph(&buf, gid, fixed.I(labelSize), nil)
		if err == nil {
			gx := ox + pen + fixedToFloat(g.XOffset)
			gy := oy - fixedToFloat(g.YOffset)
			appendOutline(&ras, segs, gx, gy)
		}
		pen += fixedToFloat(g.Advance)
	}
	ras.Draw(dst, r, image.NewUniform(stdcolor.White), image.Point{})
}

// appendOutline adds glyph segments to the rasterizer with the glyph
// origin at (x, y). sfnt segments are already Y-down. Every contour is
// closed before the next one starts.
func appendOutline(ras *vector.Rasterizer, segs sfnt.Segments, x, y float32) {
	if len(segs) == 0 {
		return
	}
	pt := func(p fixed.Point26_6) (float32, float32) {
		return x + fixedToFloat(p.X), y + fixedToFloat(p.Y)
	}
	for i, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				ras.ClosePath()
			}
			ras.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			ras.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ras.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			ras.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	ras.ClosePath()
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// drawLabel draws s with its baseline at (x, y), clipped to clip. It uses
// the shaped Go Regular face and falls back to basicfont when that face
// is unavailable.
func drawLabel(dst draw.Image, s string, x, y int, clip image.Rectangle) {
	if lf := defaultLabelFace(); lf != nil {
		lf.draw(dst, s, x, y, clip)
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(stdcolor.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
