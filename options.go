package glow

// GlowOption configures GlowParameters during construction.
//
// Example:
//
//	p, err := glow.NewGlowParameters(
//	    glow.WithGlowIntensity(3),
//	    glow.WithGlowColor(glow.RGB(0.2, 0.8, 1)),
//	)
type GlowOption func(*GlowParameters)

// WithGlowIntensity sets the glow intensity.
func WithGlowIntensity(v float32) GlowOption {
	return func(p *GlowParameters) {
		p.Intensity = v
	}
}

// WithGlowColor sets the glow base color.
func WithGlowColor(c RGBA) GlowOption {
	return func(p *GlowParameters) {
		p.Color = c
	}
}

// WithGlowRadius sets the radial scale.
func WithGlowRadius(v float32) GlowOption {
	return func(p *GlowParameters) {
		p.Radius = v
	}
}

// WithGlowFalloff sets the fresnel exponent.
func WithGlowFalloff(v float32) GlowOption {
	return func(p *GlowParameters) {
		p.Falloff = v
	}
}

// NewGlowParameters starts from DefaultGlowParameters, applies opts and
// validates the result. This is the boundary where invalid input is
// rejected; evaluation functions assume it has been passed.
func NewGlowParameters(opts ...GlowOption) (GlowParameters, error) {
	p := DefaultGlowParameters()
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return GlowParameters{}, err
	}
	return p, nil
}

// DissolveOption configures PortalDissolveParameters during construction.
type DissolveOption func(*PortalDissolveParameters)

// WithDissolveProgress sets the dissolve threshold.
func WithDissolveProgress(v float32) DissolveOption {
	return func(p *PortalDissolveParameters) {
		p.DissolveProgress = v
	}
}

// WithPortalColor sets the portal edge color.
func WithPortalColor(c RGBA) DissolveOption {
	return func(p *PortalDissolveParameters) {
		p.PortalColor = c
	}
}

// WithNoiseScale sets the noise frequency.
func WithNoiseScale(v float32) DissolveOption {
	return func(p *PortalDissolveParameters) {
		p.NoiseScale = v
	}
}

// WithEdgeWidth sets the highlight band width.
func WithEdgeWidth(v float32) DissolveOption {
	return func(p *PortalDissolveParameters) {
		p.EdgeWidth = v
	}
}

// NewPortalDissolveParameters starts from DefaultPortalDissolveParameters,
// applies opts and validates the result.
func NewPortalDissolveParameters(opts ...DissolveOption) (PortalDissolveParameters, error) {
	p := DefaultPortalDissolveParameters()
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return PortalDissolveParameters{}, err
	}
	return p, nil
}
