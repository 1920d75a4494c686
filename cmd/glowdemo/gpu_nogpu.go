//go:build nogpu

package main

import (
	"errors"
	"image"

	"github.com/gogpu/glow"
	"github.com/gogpu/glow/render"
)

func renderGPU(string, glow.GlowParameters, glow.PortalDissolveParameters, bool, render.Options) (image.Image, error) {
	return nil, errors.New("built without GPU support")
}
