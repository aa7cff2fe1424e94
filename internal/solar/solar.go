// Package solar holds the low-precision solar position formulas used to
// place prayer times. Angles are in degrees and all arithmetic is single
// precision.
package solar

import "math"

const (
	pi32     = float32(math.Pi)
	degToRad = float32(math.Pi / 180)
	radToDeg = 180 / pi32
)

// Julian day of 2000-01-01 00:00 UT, the epoch of the series below.
const j2000 = 2_451_544.5

func sin32(x float32) float32  { return float32(math.Sin(float64(x))) }
func cos32(x float32) float32  { return float32(math.Cos(float64(x))) }
func tan32(x float32) float32  { return float32(math.Tan(float64(x))) }
func atan32(x float32) float32 { return float32(math.Atan(float64(x))) }
func sqrt32(x float32) float32 { return float32(math.Sqrt(float64(x))) }

// Floor32 is math.Floor in single precision.
func Floor32(x float32) float32 { return float32(math.Floor(float64(x))) }

// Dsin returns the sine of an angle given in degrees.
func Dsin(deg float32) float32 {
	return sin32(deg * degToRad)
}

// Dcos returns the cosine of an angle given in degrees.
func Dcos(deg float32) float32 {
	return cos32(deg * degToRad)
}

// EquationOfTime returns the difference between apparent and mean solar
// time, in minutes, for the given Julian day.
func EquationOfTime(jd float32) float32 {
	n := jd - j2000
	g := 357.528 + 0.9856003*n
	c := 1.9148*Dsin(g) + 0.02*Dsin(2*g) + 0.0003*Dsin(3*g)
	lambda := 280.47 + 0.9856003*n + c
	r := -2.468*Dsin(2*lambda) + 0.053*Dsin(4*lambda) + 0.0014*Dsin(6*lambda)
	return (c + r) * 4
}

// SunDeclination returns the declination of the sun, in degrees, for the
// given Julian day.
func SunDeclination(jd float32) float32 {
	n := jd - j2000
	epsilon := 23.44 - 0.0000004*n
	l := 280.466 + 0.9856474*n
	g := 357.528 + 0.9856003*n
	lambda := l + 1.915*Dsin(g) + 0.02*Dsin(2*g)
	x := Dsin(epsilon) * Dsin(lambda)
	return (180 / (4 * atan32(1))) * atan32(x/sqrt32(1-x*x))
}

// TimeForAngle returns the number of hours from solar noon until the sun
// reaches the given zenith angle. The result is NaN when the sun never
// reaches the angle at this latitude and declination.
func TimeForAngle(angle, latitude, declination float32) float32 {
	s := (Dcos(angle) - Dsin(latitude)*Dsin(declination)) /
		(Dcos(latitude) * Dcos(declination))
	return (radToDeg * (atan32(-s/sqrt32(1-s*s)) + pi32/2)) / 15
}

// AsrAngle returns the zenith angle of the sun at Asr, when an object's
// shadow equals coefficient times its length plus its noon shadow.
func AsrAngle(latitude, declination, coefficient float32) float32 {
	x := Dsin(latitude)*Dsin(declination) + Dcos(latitude)*Dcos(declination)
	a := atan32(x / sqrt32(1-x*x))
	x = coefficient + 1/tan32(a)
	return 90 - radToDeg*(2*atan32(1)+atan32(x))
}
