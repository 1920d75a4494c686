//go:build ignore

//kage:unit pixels

package main

var CameraZ float
var TanHalfFOV float
var Background vec3

var PortalColor vec4
var Progress float
var NoiseScale float
var EdgeWidth float
var Octaves float

func castSphere(p vec2) vec4 {
	size := imageDstSize()
	aspect := size.x / size.y
	sx := (2*p.x/size.x - 1) * aspect * TanHalfFOV
	sy := (1 - 2*p.y/size.y) * TanHalfFOV
	dir := normalize(vec3(sx, sy, -1))
	origin := vec3(0, 0, CameraZ)
	b := dot(origin, dir)
	c := dot(origin, origin) - 1
	disc := b*b - c
	if disc < 0 {
		return vec4(0)
	}
	t := -b - sqrt(disc)
	return vec4(normalize(origin+dir*t), 1)
}

func sphereUV(n vec3) vec2 {
	return vec2(0.5+atan2(n.x, n.z)/(2*3.14159265), 0.5-asin(clamp(n.y, -1, 1))/3.14159265)
}

func encode(c vec3) vec4 {
	c = max(c, vec3(0))
	c = c / (1 + c)
	lo := c * 12.92
	hi := 1.055*pow(c, vec3(1/2.4)) - 0.055
	return vec4(mix(lo, hi, step(vec3(0.0031308), c)), 1)
}

// Kage has no unsigned integer ops, so the lattice hash is the usual sine
// hash rather than the integer hash the CPU model uses.
func lattice(p vec2) float {
	return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453)
}

func valueNoise(p vec2) float {
	i := floor(p)
	f := p - i
	u := f * f * (3 - 2*f)
	a := lattice(i)
	b := lattice(i + vec2(1, 0))
	c := lattice(i + vec2(0, 1))
	d := lattice(i + vec2(1, 1))
	return mix(mix(a, b, u.x), mix(c, d, u.x), u.y)
}

func noise(p vec2) float {
	if Octaves < 1.5 {
		return valueNoise(p)
	}
	sum := 0.0
	norm := 0.0
	amp := 1.0
	q := p
	for i := 0; i < 4; i++ {
		w := step(float(i)+0.5, Octaves)
		sum += w * amp * valueNoise(q)
		norm += w * amp
		amp *= 0.5
		q *= 2
	}
	return sum / norm
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	hit := castSphere(dstPos.xy - imageDstOrigin())
	if hit.w < 0.5 {
		return encode(Background)
	}
	n := noise(sphereUV(hit.xyz) * NoiseScale)
	if n < Progress {
		return encode(Background)
	}
	edge := 1.0
	if EdgeWidth > 0 {
		edge = smoothstep(Progress, Progress+EdgeWidth, n)
	}
	c := PortalColor * (1 - edge)
	a := clamp(c.a, 0, 1)
	return encode(mix(Background, c.rgb, a))
}
