package types

import (
	"github.com/google/uuid"

	"github.com/pageza/pastry-scaler/backend/internal/scaling"
)

// PanEstimationResponse reports the volume and serving range of a pan.
type PanEstimationResponse struct {
	PanID                     *uuid.UUID `json:"pan_id,omitempty"`
	PanName                   string     `json:"pan_name,omitempty"`
	VolumeCM3                 float64    `json:"volume_cm3"`
	EstimatedServingsStandard int        `json:"estimated_servings_standard"`
	EstimatedServingsMin      int        `json:"estimated_servings_min"`
	EstimatedServingsMax      int        `json:"estimated_servings_max"`
}

// PanSuggestion is one entry of a pan suggestion list.
type PanSuggestion struct {
	ID                        uuid.UUID `json:"id"`
	PanName                   string    `json:"pan_name"`
	VolumeCM3Cache            float64   `json:"volume_cm3_cache"`
	EstimatedServingsStandard int       `json:"estimated_servings_standard"`
	EstimatedServingsMin      int       `json:"estimated_servings_min"`
	EstimatedServingsMax      int       `json:"estimated_servings_max"`
	MatchType                 string    `json:"match_type"`
}

func NewPanSuggestions(suggestions []scaling.Suggestion) []PanSuggestion {
	out := make([]PanSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, PanSuggestion{
			ID:                        s.Pan.ID,
			PanName:                   s.Pan.Name,
			VolumeCM3Cache:            scaling.Round2(s.Volume),
			EstimatedServingsStandard: s.Servings.Standard,
			EstimatedServingsMin:      s.Servings.Min,
			EstimatedServingsMax:      s.Servings.Max,
			MatchType:                 string(s.MatchType),
		})
	}
	return out
}

// AdaptRecipeResponse is the scaled tree. SuggestedPans is nil, and left out
// of the JSON, for pan to pan adaptations.
type AdaptRecipeResponse struct {
	*scaling.Node
	SuggestedPans *[]PanSuggestion `json:"suggested_pans,omitempty"`
}

// RecipeImageResponse is returned after an image upload.
type RecipeImageResponse struct {
	RecipeID     uuid.UUID `json:"recipe_id"`
	ImageURL     string    `json:"image_url"`
	PresignedURL string    `json:"presigned_url"`
}
