package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/pastry-scaler/backend/internal/scaling"
)

// Pan is a stored baking mold. Which dimension fields are meaningful depends
// on PanType.
type Pan struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	PanName        string    `gorm:"size:200;not null;uniqueIndex" json:"pan_name"`
	PanBrand       string    `gorm:"size:100" json:"pan_brand,omitempty"`
	PanType        string    `gorm:"size:20;not null" json:"pan_type"`
	Diameter       *float64  `json:"diameter,omitempty"`
	Height         *float64  `json:"height,omitempty"`
	Length         *float64  `json:"length,omitempty"`
	Width          *float64  `json:"width,omitempty"`
	VolumeRaw      *float64  `json:"volume_raw,omitempty"`
	Unit           string    `gorm:"size:3" json:"unit,omitempty"`
	IsTotalVolume  bool      `gorm:"not null;default:false" json:"is_total_volume"`
	UnitsInMold    int       `gorm:"not null;default:1" json:"units_in_mold"`
	VolumeCM3Cache float64   `gorm:"column:volume_cm3_cache" json:"volume_cm3_cache"`
}

func (p *Pan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave normalizes the name so uniqueness is case-insensitive, and
// the type and volume unit to their canonical spelling.
func (p *Pan) BeforeSave(tx *gorm.DB) error {
	p.PanName = strings.ToLower(strings.TrimSpace(p.PanName))
	p.PanType = strings.ToUpper(p.PanType)
	switch {
	case strings.EqualFold(p.Unit, scaling.UnitLiter):
		p.Unit = scaling.UnitLiter
	case strings.EqualFold(p.Unit, scaling.UnitCM3):
		p.Unit = scaling.UnitCM3
	}
	if p.UnitsInMold < 1 {
		p.UnitsInMold = 1
	}
	return nil
}

// Shape builds the geometry for the pan's declared type. An unknown type
// yields a nil shape, which the calculator rejects.
func (p *Pan) Shape() scaling.Shape {
	switch scaling.PanType(strings.ToUpper(p.PanType)) {
	case scaling.PanRound:
		return scaling.RoundShape{Diameter: deref(p.Diameter), Height: deref(p.Height)}
	case scaling.PanRectangle, "SQUARE":
		return scaling.RectangleShape{Length: deref(p.Length), Width: deref(p.Width), Height: deref(p.Height)}
	case scaling.PanCustom:
		unit := p.Unit
		if unit == "" {
			unit = scaling.UnitCM3
		}
		return scaling.CustomShape{VolumeRaw: deref(p.VolumeRaw), Unit: unit, IsTotal: p.IsTotalVolume}
	}
	return nil
}

// ToScaling converts the pan for the scaling engine.
func (p *Pan) ToScaling() scaling.Pan {
	return scaling.Pan{
		ID:          p.ID,
		Name:        p.PanName,
		Shape:       p.Shape(),
		UnitsInMold: p.UnitsInMold,
		VolumeCache: p.VolumeCM3Cache,
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
