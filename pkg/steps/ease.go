package steps

// Easing functions map linear progress in [0,1] to shaped progress, usually
// also in [0,1]. Use them as AnimateOptions.Map.

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// QuadIn starts slow and accelerates.
func QuadIn(t float64) float64 { return t * t }

// QuadOut starts fast and decelerates.
func QuadOut(t float64) float64 { return t * (2 - t) }

// QuadInOut accelerates through the first half and decelerates through the second.
func QuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// SmoothStep is the cubic Hermite curve 3t²-2t³.
func SmoothStep(t float64) float64 { return t * t * (3 - 2*t) }

// Eases indexes the easing functions by name.
var Eases = map[string]func(float64) float64{
	"linear":      Linear,
	"quad-in":     QuadIn,
	"quad-out":    QuadOut,
	"quad-in-out": QuadInOut,
	"smoothstep":  SmoothStep,
}
