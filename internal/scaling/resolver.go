package scaling

// Resolution is the root multiplier chosen for a recipe and the volumes it
// was derived from.
type Resolution struct {
	Multiplier   float64
	Mode         Mode
	SourceVolume float64
	TargetVolume float64
}

// PanToPan reports whether the resolution compared two pans.
func (r Resolution) PanToPan(t Targets) bool {
	return r.Mode == ModePan && t.TargetPan != nil
}

// Resolve picks the scaling multiplier for recipe. Rules are tried in a
// strict order: pan to pan, pan to servings, servings to pan, servings to
// servings. A pan on the source side always wins over servings.
func (c *Calculator) Resolve(recipe *Recipe, t Targets) (Resolution, error) {
	if recipe == nil {
		return Resolution{}, newError(KindUnresolvable, "no recipe given")
	}
	if t.TargetServings != nil && *t.TargetServings < 1 {
		return Resolution{}, newError(KindInvalidInput, "target servings must be at least 1, got %d", *t.TargetServings)
	}

	sourcePan := recipe.Pan
	if t.SourcePan != nil {
		sourcePan = t.SourcePan
	}

	if sourcePan != nil && (t.TargetPan != nil || t.TargetServings != nil) {
		src, err := c.sourcePanVolume(recipe, *sourcePan)
		if err != nil {
			return Resolution{}, err
		}
		var dst float64
		if t.TargetPan != nil {
			if dst, err = c.VolumeCached(*t.TargetPan); err != nil {
				return Resolution{}, err
			}
		} else {
			dst = c.ServingsToVolume(float64(*t.TargetServings))
		}
		return ratio(src, dst, ModePan)
	}

	if sourcePan == nil && (t.TargetPan != nil || t.TargetServings != nil) {
		avg, ok, err := c.sourceServings(recipe, t)
		if err != nil {
			return Resolution{}, err
		}
		if ok {
			src := c.ServingsToVolume(avg)
			var dst float64
			if t.TargetPan != nil {
				if dst, err = c.VolumeCached(*t.TargetPan); err != nil {
					return Resolution{}, err
				}
			} else {
				dst = c.ServingsToVolume(float64(*t.TargetServings))
			}
			return ratio(src, dst, ModeServings)
		}
	}

	switch {
	case t.TargetPan == nil && t.TargetServings == nil:
		return Resolution{}, newError(KindUnresolvable, "no target pan or target servings given for recipe %q", recipe.Name)
	default:
		return Resolution{}, newError(KindUnresolvable, "recipe %q has neither a pan nor servings to scale from", recipe.Name)
	}
}

// SourceVolume is the volume one batch of recipe fills, from its pan or its
// servings. ok is false when the recipe declares neither.
func (c *Calculator) SourceVolume(recipe *Recipe) (v float64, ok bool, err error) {
	if recipe.Pan != nil {
		v, err = c.sourcePanVolume(recipe, *recipe.Pan)
		return v, err == nil, err
	}
	avg, ok, err := c.sourceServings(recipe, Targets{})
	if err != nil || !ok {
		return 0, false, err
	}
	return c.ServingsToVolume(avg), true, nil
}

func (c *Calculator) sourcePanVolume(recipe *Recipe, pan Pan) (float64, error) {
	v, err := c.VolumeCached(pan)
	if err != nil {
		return 0, err
	}
	if recipe.PanQuantity > 1 {
		v *= float64(recipe.PanQuantity)
	}
	return v, nil
}

// sourceServings averages the declared serving bounds. An explicit
// SourceServings in t replaces them.
func (c *Calculator) sourceServings(recipe *Recipe, t Targets) (float64, bool, error) {
	if t.SourceServings != nil {
		if *t.SourceServings < 1 {
			return 0, false, newError(KindInvalidInput, "initial servings must be at least 1, got %d", *t.SourceServings)
		}
		return float64(*t.SourceServings), true, nil
	}
	lo, hi := recipe.ServingsMin, recipe.ServingsMax
	switch {
	case lo != nil && hi != nil:
		if *lo < 1 || *hi < 1 {
			return 0, false, newError(KindInvalidInput, "recipe %q has non-positive servings", recipe.Name)
		}
		if *lo > *hi {
			return 0, false, newError(KindInvalidInput, "recipe %q has servings_min %d above servings_max %d", recipe.Name, *lo, *hi)
		}
		return float64(*lo+*hi) / 2, true, nil
	case lo != nil:
		if *lo < 1 {
			return 0, false, newError(KindInvalidInput, "recipe %q has non-positive servings", recipe.Name)
		}
		return float64(*lo), true, nil
	case hi != nil:
		if *hi < 1 {
			return 0, false, newError(KindInvalidInput, "recipe %q has non-positive servings", recipe.Name)
		}
		return float64(*hi), true, nil
	}
	return 0, false, nil
}

func ratio(src, dst float64, mode Mode) (Resolution, error) {
	if src <= 0 {
		return Resolution{}, newError(KindInvalidVolume, "source volume must be positive, got %g", src)
	}
	if dst <= 0 {
		return Resolution{}, newError(KindInvalidVolume, "target volume must be positive, got %g", dst)
	}
	return Resolution{Multiplier: dst / src, Mode: mode, SourceVolume: src, TargetVolume: dst}, nil
}
