package scaling

import (
	"math"
	"sort"
)

// MatchType tells how a suggested pan relates to the target.
type MatchType string

const (
	MatchClose   MatchType = "close"
	MatchClosest MatchType = "closest"
)

// volumeTolerance is the relative window around the target volume.
const volumeTolerance = 0.05

// Suggestion is a candidate pan for a target serving count.
type Suggestion struct {
	Pan       Pan
	Volume    float64
	Servings  Servings
	MatchType MatchType
}

// SuggestPans returns the pans whose serving range contains target, or whose
// volume is within 5% of the target volume, closest first. An empty result
// is not an error.
func (c *Calculator) SuggestPans(target int, pans []Pan) ([]Suggestion, error) {
	if target < 1 {
		return nil, newError(KindInvalidInput, "target servings must be at least 1, got %d", target)
	}
	targetVolume := c.ServingsToVolume(float64(target))
	lower := targetVolume * (1 - volumeTolerance)
	upper := targetVolume * (1 + volumeTolerance)

	var (
		matches []Suggestion
		closest *Suggestion
		bestGap = math.Inf(1)
	)
	for _, pan := range pans {
		v, err := c.VolumeCached(pan)
		if err != nil {
			continue
		}
		servings, err := c.EstimateServings(v)
		if err != nil {
			continue
		}
		s := Suggestion{Pan: pan, Volume: v, Servings: servings, MatchType: MatchClose}
		inInterval := target >= servings.Min && target <= servings.Max
		inWindow := v >= lower && v <= upper
		if inInterval || inWindow {
			matches = append(matches, s)
			continue
		}
		if gap := math.Abs(v - targetVolume); gap < bestGap {
			bestGap = gap
			cp := s
			cp.MatchType = MatchClosest
			closest = &cp
		}
	}

	if len(matches) == 0 {
		if c.closestFallback && closest != nil {
			return []Suggestion{*closest}, nil
		}
		return []Suggestion{}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		di := absInt(matches[i].Servings.Standard - target)
		dj := absInt(matches[j].Servings.Standard - target)
		if di != dj {
			return di < dj
		}
		if matches[i].Volume != matches[j].Volume {
			return matches[i].Volume < matches[j].Volume
		}
		return matches[i].Pan.Name < matches[j].Pan.Name
	})
	return matches, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
