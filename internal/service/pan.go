package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pastry-scaler/backend/internal/model"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
)

// PanService handles pan operations. Every write refreshes the pan's cached
// volume and invalidates the suggestion cache.
type PanService struct {
	db    *gorm.DB
	calc  *scaling.Calculator
	cache SuggestionCache
	log   *zap.Logger
}

// NewPanService creates a new PanService instance
func NewPanService(db *gorm.DB, calc *scaling.Calculator, cache SuggestionCache, log *zap.Logger) *PanService {
	if cache == nil {
		cache = NoopSuggestionCache{}
	}
	return &PanService{db: db, calc: calc, cache: cache, log: log}
}

// refreshVolume recomputes the cached volume from the geometry. Invalid
// geometry is reported as a scaling error.
func (s *PanService) refreshVolume(pan *model.Pan) error {
	p := pan.ToScaling()
	p.VolumeCache = 0
	v, err := s.calc.Volume(p)
	if err != nil {
		return err
	}
	pan.VolumeCM3Cache = scaling.Round2(v)
	return nil
}

func (s *PanService) CreatePan(ctx context.Context, pan *model.Pan) (*model.Pan, error) {
	if err := s.refreshVolume(pan); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(pan).Error; err != nil {
		return nil, dbError("create pan", err)
	}
	s.cache.Invalidate(ctx)
	s.log.Info("pan created", zap.String("pan_id", pan.ID.String()), zap.String("pan_name", pan.PanName))
	return pan, nil
}

func (s *PanService) GetPan(ctx context.Context, id uuid.UUID) (*model.Pan, error) {
	var pan model.Pan
	if err := s.db.WithContext(ctx).First(&pan, "id = ?", id).Error; err != nil {
		return nil, dbError("get pan", err)
	}
	return &pan, nil
}

// ListPans returns every pan ordered by name
func (s *PanService) ListPans(ctx context.Context) ([]*model.Pan, error) {
	var pans []*model.Pan
	if err := s.db.WithContext(ctx).Order("pan_name").Find(&pans).Error; err != nil {
		return nil, dbError("list pans", err)
	}
	return pans, nil
}

// UpdatePan replaces every field of the pan with id.
func (s *PanService) UpdatePan(ctx context.Context, id uuid.UUID, pan *model.Pan) (*model.Pan, error) {
	existing, err := s.GetPan(ctx, id)
	if err != nil {
		return nil, err
	}
	pan.ID = existing.ID
	pan.CreatedAt = existing.CreatedAt
	if err := s.refreshVolume(pan); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(pan).Error; err != nil {
		return nil, dbError("update pan", err)
	}
	s.cache.Invalidate(ctx)
	return pan, nil
}

// DeletePan removes a pan. Recipes using it lose their pan.
func (s *PanService) DeletePan(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Recipe{}).Where("pan_id = ?", id).Update("pan_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Pan{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return dbError("delete pan", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

// GetScalingPan loads a pan as the engine sees it.
func (s *PanService) GetScalingPan(ctx context.Context, id uuid.UUID) (scaling.Pan, error) {
	pan, err := s.GetPan(ctx, id)
	if err != nil {
		return scaling.Pan{}, err
	}
	return pan.ToScaling(), nil
}

func (s *PanService) ListScalingPans(ctx context.Context) ([]scaling.Pan, error) {
	pans, err := s.ListPans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]scaling.Pan, 0, len(pans))
	for _, p := range pans {
		out = append(out, p.ToScaling())
	}
	return out, nil
}
