package draft

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emlakpro/core/internal/models"
	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/modules/upload"
)

// Service owns the temp-listing lifecycle: id allocation while the form is
// being filled, folder reconciliation at publish, and cleanup when the
// operator walks away.
type Service struct {
	db       *gorm.DB
	store    media.Store
	resolver *upload.FolderResolver
	sessions *upload.Manager
	log      *zap.Logger
}

func NewService(db *gorm.DB, store media.Store, resolver *upload.FolderResolver, sessions *upload.Manager, log *zap.Logger) *Service {
	return &Service{db: db, store: store, resolver: resolver, sessions: sessions, log: log}
}

// Allocate hands out the id a new draft will publish under. Photos upload
// against this id before the listing row exists.
func (s *Service) Allocate() string {
	return uuid.NewString()
}

// ReconcileFolders moves a draft's photos into their final folder once the
// listing title is settled, rewriting the committed image identities to
// match. A folder already matching the final name is left in place.
func (s *Service) ReconcileFolders(ctx context.Context, propertyType, draftID, finalTitle string, images []upload.CommittedImage) ([]upload.CommittedImage, string, error) {
	current := ""
	if session, ok := s.sessions.Peek(draftID); ok {
		current = session.Folder()
	}
	if current == "" {
		current = s.resolver.Resolve(ctx, propertyType, draftID, finalTitle)
	}

	// a folder already named from this title, suffixed or not, stays put;
	// renaming it onto a fresh suffix would only shuffle its own photos
	if upload.FolderMatchesTitle(current, finalTitle) {
		return images, current, nil
	}

	desired := s.resolver.NameFor(ctx, draftID, finalTitle)
	if desired == current {
		return images, current, nil
	}

	result, err := s.store.RenameFolder(ctx, current, desired)
	if err != nil {
		// keep the old folder rather than lose the photos
		s.log.Warn("folder reconcile failed, keeping original",
			zap.String("from", current), zap.String("to", desired), zap.Error(err))
		return images, current, nil
	}
	if !result.Complete {
		s.log.Warn("folder reconcile moved only part of the photos",
			zap.String("from", current), zap.String("to", desired), zap.Int("moved", len(result.Moved)))
	}

	for i := range images {
		if moved, ok := result.Lookup(images[i].StorageID); ok {
			images[i].StorageID = moved.NewID
			images[i].URL = moved.NewURL
		}
	}
	s.resolver.Reassign(ctx, propertyType, draftID, desired)
	if session, ok := s.sessions.Peek(draftID); ok {
		session.SetFolder(desired)
	}
	return images, desired, nil
}

// Abandon tears down everything a deserted draft left behind. Each step is
// independent; one failure never stops the rest.
func (s *Service) Abandon(ctx context.Context, listingID, folderPath string) {
	steps := []struct {
		name string
		run  func() error
	}{
		{"images", func() error {
			return s.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&models.ImageModel{}).Error
		}},
		{"address", func() error {
			return s.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&models.AddressModel{}).Error
		}},
		{"konut_details", func() error {
			return s.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&models.KonutDetailsModel{}).Error
		}},
		{"ticari_details", func() error {
			return s.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&models.TicariDetailsModel{}).Error
		}},
		{"arsa_details", func() error {
			return s.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&models.ArsaDetailsModel{}).Error
		}},
		{"vasita_details", func() error {
			return s.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&models.VasitaDetailsModel{}).Error
		}},
		{"listing", func() error {
			return s.db.WithContext(ctx).Where("id = ?", listingID).Delete(&models.ListingModel{}).Error
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			s.log.Warn("draft cleanup step failed",
				zap.String("listing_id", listingID), zap.String("step", step.name), zap.Error(err))
		}
	}

	folder := strings.Trim(folderPath, "/")
	if folder == "" {
		if session, ok := s.sessions.Peek(listingID); ok {
			folder = session.Folder()
		}
	}
	if folder != "" {
		if !s.store.DeleteFolder(ctx, folder) {
			s.log.Warn("draft folder removal failed",
				zap.String("listing_id", listingID), zap.String("folder", folder))
		}
	}

	s.sessions.Drop(listingID)
}
