// Command glowview is an interactive viewer for the glow and portal
// dissolve effects.
//
// Usage:
//
//	go run ./cmd/glowview [flags]
//
// Flags:
//
//	-preset <file>   YAML preset file
//	-name <name>     preset to start from (default "default")
//	-size <px>       window size
//	-v               verbose logging
//
// Controls:
//
//	Tab              - Switch between glow and portal
//	Up/Down          - Select parameter
//	Left/Right       - Decrease/increase parameter (hold Shift for fine steps)
//	C                - Cycle color
//	Space            - Animate dissolve progress
//	R                - Reset to preset
//	Q/Escape         - Quit
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/glow"
	"github.com/gogpu/glow/config"
)

var (
	//go:embed glow_kage.go
	glowShaderSource []byte

	//go:embed dissolve_kage.go
	dissolveShaderSource []byte
)

var (
	presetFlag  = flag.String("preset", "", "YAML preset file")
	nameFlag    = flag.String("name", "default", "preset name")
	sizeFlag    = flag.Int("size", 640, "window size in pixels")
	verboseFlag = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	glow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	presets := config.Default()
	if *presetFlag != "" {
		f, err := config.Load(*presetFlag)
		if err != nil {
			log.Fatal(err)
		}
		presets = f
	}

	v, err := NewViewer(presets, *nameFlag, *sizeFlag)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(*sizeFlag, *sizeFlag)
	ebiten.SetWindowTitle(fmt.Sprintf("glowview %s", glow.Version))
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

// compileShader compiles Kage source, logging instead of failing so the
// viewer can fall back to an unlit disc.
func compileShader(name string, src []byte) *ebiten.Shader {
	s, err := ebiten.NewShader(src)
	if err != nil {
		glow.Logger().Warn("glowview: shader unavailable, using unlit material", "shader", name, "err", err)
		return nil
	}
	return s
}
