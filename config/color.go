package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/glow"
)

// Color is a linear RGBA color in YAML. It decodes from a hex string
// ("#ff8000", "#ff800080", "f80") or from a sequence of 3 or 4 floats, and
// encodes as a 4-float flow sequence.
type Color glow.RGBA

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, ok := glow.Hex(node.Value)
		if !ok {
			return fmt.Errorf("line %d: invalid hex color %q", node.Line, node.Value)
		}
		*c = Color(v)
		return nil
	case yaml.SequenceNode:
		var vals []float32
		if err := node.Decode(&vals); err != nil {
			return fmt.Errorf("line %d: color: %w", node.Line, err)
		}
		switch len(vals) {
		case 3:
			*c = Color(glow.RGB(vals[0], vals[1], vals[2]))
		case 4:
			*c = Color(glow.RGBA2(vals[0], vals[1], vals[2], vals[3]))
		default:
			return fmt.Errorf("line %d: color needs 3 or 4 components, got %d", node.Line, len(vals))
		}
		return nil
	}
	return fmt.Errorf("line %d: color must be a hex string or a list", node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float32{c.R, c.G, c.B, c.A} {
		n.Content = append(n.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: fmt.Sprint(v),
		})
	}
	return n, nil
}
