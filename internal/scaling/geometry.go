package scaling

import (
	"math"
	"strings"
)

const (
	// DefaultServingVolumeML is the volume of one standard serving.
	DefaultServingVolumeML = 150.0
	// DefaultMaxDepth bounds sub-recipe nesting.
	DefaultMaxDepth = 20

	maxServings = 1e9
)

// Config tunes a Calculator. Zero values fall back to the defaults above.
type Config struct {
	ServingVolumeML        float64
	MaxDepth               int
	SuggestClosestFallback bool
}

// Calculator holds the engine settings. It is immutable and safe for
// concurrent use.
type Calculator struct {
	servingVolume   float64
	maxDepth        int
	closestFallback bool
}

// New creates a Calculator from cfg.
func New(cfg Config) *Calculator {
	sv := cfg.ServingVolumeML
	if sv <= 0 {
		sv = DefaultServingVolumeML
	}
	depth := cfg.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Calculator{
		servingVolume:   sv,
		maxDepth:        depth,
		closestFallback: cfg.SuggestClosestFallback,
	}
}

// ServingVolume returns the configured volume of one serving in ml.
func (c *Calculator) ServingVolume() float64 {
	return c.servingVolume
}

// MaxDepth returns the sub-recipe nesting limit.
func (c *Calculator) MaxDepth() int {
	return c.maxDepth
}

// ServingsToVolume converts a serving count into cm³.
func (c *Calculator) ServingsToVolume(servings float64) float64 {
	return servings * c.servingVolume
}

// Volume computes the total volume of pan in cm³ from its shape.
func (c *Calculator) Volume(pan Pan) (float64, error) {
	v, err := shapeVolume(pan)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, newError(KindInvalidGeometry, "pan %q dimensions are out of range", pan.Name)
	}
	return v, nil
}

func shapeVolume(pan Pan) (float64, error) {
	switch s := pan.Shape.(type) {
	case RoundShape:
		if s.Diameter <= 0 || s.Height <= 0 {
			return 0, newError(KindInvalidGeometry, "round pan %q needs a positive diameter and height", pan.Name)
		}
		r := s.Diameter / 2
		return math.Pi * r * r * s.Height, nil
	case RectangleShape:
		if s.Length <= 0 || s.Width <= 0 || s.Height <= 0 {
			return 0, newError(KindInvalidGeometry, "rectangle pan %q needs a positive length, width and height", pan.Name)
		}
		return s.Length * s.Width * s.Height, nil
	case CustomShape:
		if s.VolumeRaw <= 0 {
			return 0, newError(KindInvalidGeometry, "custom pan %q needs a positive volume", pan.Name)
		}
		v := s.VolumeRaw
		switch {
		case s.Unit == "" || strings.EqualFold(s.Unit, UnitCM3):
		case strings.EqualFold(s.Unit, UnitLiter):
			v *= 1000
		default:
			return 0, newError(KindInvalidGeometry, "custom pan %q has unknown unit %q", pan.Name, s.Unit)
		}
		if pan.UnitsInMold > 1 && !s.IsTotal {
			v *= float64(pan.UnitsInMold)
		}
		return v, nil
	case nil:
		return 0, newError(KindInvalidGeometry, "pan %q has no shape", pan.Name)
	default:
		return 0, newError(KindInvalidGeometry, "pan %q has unsupported shape %s", pan.Name, s.Type())
	}
}

// VolumeCached returns the stored volume when present and recomputes otherwise.
func (c *Calculator) VolumeCached(pan Pan) (float64, error) {
	if pan.VolumeCache > 0 {
		return pan.VolumeCache, nil
	}
	return c.Volume(pan)
}

// EstimateServings derives a serving range from a volume in cm³.
// Rounding to the standard count is half-to-even.
func (c *Calculator) EstimateServings(volume float64) (Servings, error) {
	if volume <= 0 || math.IsNaN(volume) || math.IsInf(volume, 0) {
		return Servings{}, newError(KindInvalidVolume, "volume must be positive and finite, got %g", volume)
	}
	n := math.RoundToEven(volume / c.servingVolume)
	if n > maxServings {
		return Servings{}, newError(KindInvalidVolume, "volume %g is out of range", volume)
	}
	s := int(n)
	switch {
	case s <= 2:
		lo := s
		if lo < 1 {
			lo = 1
		}
		return Servings{Standard: s, Min: lo, Max: s}, nil
	case s <= 11:
		return Servings{Standard: s, Min: s - 1, Max: s + 1}, nil
	default:
		return Servings{Standard: s, Min: s - 1, Max: s + 2}, nil
	}
}
