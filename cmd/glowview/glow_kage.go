//go:build ignore

//kage:unit pixels

package main

var CameraZ float
var TanHalfFOV float
var Background vec3

var GlowColor vec4
var Intensity float
var Radius float
var Falloff float

// castSphere returns the unit sphere normal at the pixel in xyz and 1 in w
// on a hit, 0 in w on a miss.
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

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	hit := castSphere(dstPos.xy - imageDstOrigin())
	if hit.w < 0.5 {
		return encode(Background)
	}
	n := hit.xyz
	v := normalize(vec3(0, 0, CameraZ) - n)

	fresnel := pow(1-clamp(dot(n, v), 0, 1), max(Falloff, 1)) * Intensity
	uv := sphereUV(n)
	radial := 1 - smoothstep(0, 1, length(uv-vec2(0.5))*Radius)
	factor := 0.5*fresnel + 0.5*radial

	rgb := GlowColor.rgb + factor*GlowColor.rgb*Intensity
	a := clamp(GlowColor.a, 0, 1)
	return encode(mix(Background, rgb, a))
}
