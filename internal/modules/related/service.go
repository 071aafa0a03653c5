package related

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/emlakpro/core/internal/models"
	"github.com/emlakpro/core/internal/modules/listing"
	"github.com/emlakpro/core/internal/pkg/apperr"
)

const (
	candidatePoolSize = 100
	priceBandLow      = 0.7
	priceBandHigh     = 1.3
)

// Service picks the related listings shown under a detail page.
type Service struct {
	db       *gorm.DB
	listings *listing.Service
}

func NewService(db *gorm.DB, listings *listing.Service) *Service {
	return &Service{db: db, listings: listings}
}

// ForID ranks the related listings of one reference listing. The
// reference must be active; this is a public surface.
func (s *Service) ForID(ctx context.Context, id string) ([]models.ListingModel, error) {
	ref, err := s.listings.GetVisible(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return s.rankAgainst(ctx, ref)
}

// ForSlug is ForID with slug resolution.
func (s *Service) ForSlug(ctx context.Context, slug string) ([]models.ListingModel, error) {
	ref, err := s.listings.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.rankAgainst(ctx, ref)
}

func (s *Service) rankAgainst(ctx context.Context, ref *models.ListingModel) ([]models.ListingModel, error) {
	db := s.db.WithContext(ctx).Model(&models.ListingModel{}).
		Preload("Konut").
		Preload("Ticari").
		Preload("Arsa").
		Preload("Vasita").
		Preload("Address").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("id <> ?", ref.ID).
		Where("is_active = ?", true).
		Where("property_type = ?", ref.PropertyType)
	if ref.Price > 0 {
		db = db.Where("price BETWEEN ? AND ?", ref.Price*priceBandLow, ref.Price*priceBandHigh)
	}

	var pool []models.ListingModel
	if err := db.Order("created_at DESC").Limit(candidatePoolSize).Find(&pool).Error; err != nil {
		return nil, apperr.Query("related candidates", err)
	}

	byID := make(map[string]*models.ListingModel, len(pool))
	candidates := make([]Candidate, 0, len(pool))
	for i := range pool {
		row := &pool[i]
		byID[row.ID] = row
		candidates = append(candidates, candidateOf(row))
	}

	ranked := Rank(candidateOf(ref), candidates, time.Now(), DefaultLimit)
	out := make([]models.ListingModel, 0, len(ranked))
	for _, sc := range ranked {
		out = append(out, *byID[sc.ID])
	}
	return out, nil
}

func candidateOf(row *models.ListingModel) Candidate {
	c := Candidate{
		ID:         row.ID,
		Price:      row.Price,
		Subtype:    models.VariantOf(row).Subtype(),
		CreatedAt:  row.CreatedAt,
		IsFeatured: row.IsFeatured,
	}
	if row.Address != nil {
		c.Province = row.Address.Province
		c.District = row.Address.District
	}
	switch {
	case row.Konut != nil:
		c.RoomCount = row.Konut.RoomCount
	case row.Ticari != nil:
		c.RoomCount = row.Ticari.RoomCount
	}
	return c
}
