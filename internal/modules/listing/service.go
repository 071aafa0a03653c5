package listing

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emlakpro/core/internal/models"
	"github.com/emlakpro/core/internal/modules/draft"
	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/modules/upload"
	"github.com/emlakpro/core/internal/pkg/apperr"
	"github.com/emlakpro/core/internal/pkg/pagination"
	"github.com/emlakpro/core/internal/pkg/response"
	"github.com/emlakpro/core/internal/pkg/slug"
)

// Service owns listing persistence and the coupled media bookkeeping.
type Service struct {
	db       *gorm.DB
	store    media.Store
	drafts   *draft.Service
	sessions *upload.Manager
	resolver *upload.FolderResolver
	log      *zap.Logger
}

func NewService(db *gorm.DB, store media.Store, drafts *draft.Service, sessions *upload.Manager, resolver *upload.FolderResolver, log *zap.Logger) *Service {
	return &Service{db: db, store: store, drafts: drafts, sessions: sessions, resolver: resolver, log: log}
}

// Filters narrows the public listing feed.
type Filters struct {
	PropertyType    string
	Status          string
	Province        string
	Query           string
	MinPrice        float64
	MaxPrice        float64
	Featured        *bool
	IncludeInactive bool
}

// Create publishes a draft as a listing. Photos come from the draft's
// upload session when one exists, otherwise from the payload. The detail
// row is mandatory and its failure rolls the listing row back; the address
// is best effort.
func (s *Service) Create(ctx context.Context, dto *CreateListingDTO) (*models.ListingModel, []upload.CommitFailure, error) {
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}

	id := strings.TrimSpace(dto.ID)
	if id == "" {
		id = uuid.NewString()
	}

	images, failures := s.collectImages(id, dto)
	images, folder, err := s.drafts.ReconcileFolders(ctx, dto.PropertyType, id, dto.Title, images)
	if err != nil {
		return nil, failures, err
	}

	if err := s.createListingCompensated(ctx, id, dto, images); err != nil {
		return nil, failures, err
	}

	s.sessions.Drop(id)
	s.resolver.Forget(ctx, dto.PropertyType, id)
	s.log.Info("listing published",
		zap.String("listing_id", id),
		zap.String("folder", folder),
		zap.Int("photos", len(images)),
		zap.Int("photo_failures", len(failures)))

	created, err := s.GetByID(ctx, id)
	return created, failures, err
}

func (s *Service) collectImages(draftID string, dto *CreateListingDTO) ([]upload.CommittedImage, []upload.CommitFailure) {
	if session, ok := s.sessions.Peek(draftID); ok {
		return session.CommitAll()
	}

	images := make([]upload.CommittedImage, 0, len(dto.Images))
	for i, img := range dto.Images {
		if img.StorageID == "" {
			continue
		}
		images = append(images, upload.CommittedImage{
			StorageID:  img.StorageID,
			URL:        img.URL,
			Title:      img.Title,
			OrderIndex: i,
			IsCover:    img.IsCover || i == 0,
		})
	}
	return images, nil
}

// createListingCompensated inserts the listing row, then the detail row.
// There is no cross-table transaction; a failed detail insert triggers a
// compensating delete of the listing row instead.
func (s *Service) createListingCompensated(ctx context.Context, id string, dto *CreateListingDTO, images []upload.CommittedImage) error {
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	row := &models.ListingModel{
		Base:          models.Base{ID: id},
		Title:         dto.Title,
		Description:   dto.Description,
		Price:         dto.Price,
		PropertyType:  models.PropertyType(dto.PropertyType),
		ListingStatus: models.ListingStatus(dto.ListingStatus),
		IsActive:      active,
		IsFeatured:    dto.IsFeatured,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Validation("id", "İlan zaten yayınlanmış")
		}
		return apperr.Query("create listing", err)
	}

	variant := dto.BuildVariant()
	if err := s.db.WithContext(ctx).Create(variant.Row(id)).Error; err != nil {
		if derr := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ListingModel{}).Error; derr != nil {
			s.log.Error("compensating listing delete failed",
				zap.String("listing_id", id), zap.Error(derr))
		}
		return apperr.Query("create listing details", err)
	}

	if dto.HasAddress() {
		addr := &models.AddressModel{
			ListingID:    id,
			Province:     dto.Province,
			District:     dto.District,
			Neighborhood: dto.Neighborhood,
			FullAddress:  dto.FullAddress,
		}
		if err := s.db.WithContext(ctx).Create(addr).Error; err != nil {
			// address loss is tolerable, the listing stays publishable
			s.log.Warn("address insert failed", zap.String("listing_id", id), zap.Error(err))
		}
	}

	for _, img := range images {
		row := &models.ImageModel{
			ListingID:  id,
			StorageID:  img.StorageID,
			URL:        img.URL,
			OrderIndex: img.OrderIndex,
			IsCover:    img.IsCover,
		}
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			s.log.Warn("image row insert failed",
				zap.String("listing_id", id), zap.String("storage_id", img.StorageID), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Konut").
		Preload("Ticari").
		Preload("Arsa").
		Preload("Vasita").
		Preload("Address").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		})
}

// GetByID loads one listing with all associations, active or not. Admin
// flows use it; public reads go through GetVisible.
func (s *Service) GetByID(ctx context.Context, id string) (*models.ListingModel, error) {
	return s.getOne(ctx, id, true)
}

// GetVisible loads one listing by id, hiding inactive rows unless the
// caller is allowed to see them.
func (s *Service) GetVisible(ctx context.Context, id string, includeInactive bool) (*models.ListingModel, error) {
	return s.getOne(ctx, id, includeInactive)
}

func (s *Service) getOne(ctx context.Context, id string, includeInactive bool) (*models.ListingModel, error) {
	db := s.preloaded(ctx).Where("id = ?", id)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	var row models.ListingModel
	err := db.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("ilan", id)
	}
	if err != nil {
		return nil, apperr.Query("get listing", err)
	}
	return &row, nil
}

// GetBySlug resolves a title slug against the active listings. Slugs are
// derived, not stored, so this scans the candidate titles.
func (s *Service) GetBySlug(ctx context.Context, wanted string) (*models.ListingModel, error) {
	var rows []struct {
		ID    string
		Title string
	}
	err := s.db.WithContext(ctx).Model(&models.ListingModel{}).
		Select("id", "title").
		Where("is_active = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Query("resolve slug", err)
	}

	for _, row := range rows {
		if slug.Make(row.Title) == wanted {
			return s.GetByID(ctx, row.ID)
		}
	}
	return nil, apperr.NotFound("ilan", wanted)
}

// List returns the filtered, paginated feed.
func (s *Service) List(ctx context.Context, f Filters, q pagination.Query) ([]models.ListingModel, response.Pagination, error) {
	db := s.db.WithContext(ctx).Model(&models.ListingModel{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		})

	if !f.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}
	if f.PropertyType != "" {
		db = db.Where("property_type = ?", f.PropertyType)
	}
	if f.Status != "" {
		db = db.Where("listing_status = ?", f.Status)
	}
	if f.Province != "" {
		db = db.Where("id IN (?)", s.db.Model(&models.AddressModel{}).
			Select("listing_id").Where("province = ?", f.Province))
	}
	if f.Query != "" {
		db = db.Where("title LIKE ?", "%"+f.Query+"%")
	}
	if f.MinPrice > 0 {
		db = db.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		db = db.Where("price <= ?", f.MaxPrice)
	}
	if f.Featured != nil {
		db = db.Where("is_featured = ?", *f.Featured)
	}
	db = db.Order("created_at DESC")

	var rows []models.ListingModel
	meta, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, meta, apperr.Query("list listings", err)
	}
	return rows, meta, nil
}

// UpdatePrice sets a new price on one listing.
func (s *Service) UpdatePrice(ctx context.Context, id string, price float64) error {
	if price <= 0 {
		return apperr.Validation("price", "Geçerli bir fiyat giriniz")
	}
	return s.updateFields(ctx, id, map[string]interface{}{"price": price})
}

// UpdateTitle sets a new title. The derived slug and, at the next publish
// cycle, the storage folder follow the title.
func (s *Service) UpdateTitle(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperr.Validation("title", "Başlık giriniz")
	}
	return s.updateFields(ctx, id, map[string]interface{}{"title": title})
}

// Update applies a partial PATCH payload.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateListingDTO) (*models.ListingModel, error) {
	changes, err := dto.Changes()
	if err != nil {
		return nil, err
	}
	if err := s.updateFields(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *Service) updateFields(ctx context.Context, id string, changes map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.ListingModel{}).
		Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return apperr.Query("update listing", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("ilan", id)
	}
	return nil
}

// DeleteResult reports what a listing delete managed to clean up.
type DeleteResult struct {
	Success              bool     `json:"success"`
	ObjectsDeleted       int      `json:"objectsDeleted"`
	StorageFolderDeleted bool     `json:"storageFolderDeleted"`
	DeletedFolderPaths   []string `json:"deletedFolderPaths"`
}

// Delete removes a listing, its child rows and its stored photos. Remote
// removals are best effort; the database delete is the source of truth.
func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{DeletedFolderPaths: []string{}}
	for _, img := range row.Images {
		if s.store.DeleteObject(ctx, img.StorageID) {
			result.ObjectsDeleted++
			continue
		}
		s.log.Warn("photo removal failed",
			zap.String("listing_id", id), zap.String("storage_id", img.StorageID))
	}
	if folder := folderOf(row.Images); folder != "" {
		if s.store.DeleteFolder(ctx, folder) {
			result.StorageFolderDeleted = true
			result.DeletedFolderPaths = append(result.DeletedFolderPaths, folder)
		} else {
			s.log.Warn("folder removal failed",
				zap.String("listing_id", id), zap.String("folder", folder))
		}
	}

	// child rows go with the parent via FK cascade
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ListingModel{})
	if res.Error != nil {
		return nil, apperr.Query("delete listing", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("ilan", id)
	}
	result.Success = true
	return result, nil
}

// Duplicate copies a listing under a new id, re-uploading every stored photo
// into a fresh folder so the copies never share storage objects with the
// source. The copy starts inactive for review and its counters start at zero.
func (s *Service) Duplicate(ctx context.Context, id, newTitle string) (*models.ListingModel, error) {
	src, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(newTitle)
	if title == "" {
		title = src.Title
	}

	newID := uuid.NewString()
	folder := s.resolver.NameFor(ctx, newID, title)

	var images []upload.CommittedImage
	for _, img := range src.Images {
		data, err := s.store.Fetch(ctx, img.StorageID)
		if err != nil {
			s.log.Warn("source photo fetch failed, skipping",
				zap.String("listing_id", id), zap.String("storage_id", img.StorageID), zap.Error(err))
			continue
		}
		stored, err := s.store.Upload(ctx, media.UploadObject{
			Folder:      folder,
			FileName:    path.Base(img.StorageID),
			Data:        data,
			ContentType: "image/jpeg",
		})
		if err != nil {
			s.log.Warn("photo copy failed, skipping",
				zap.String("listing_id", id), zap.String("storage_id", img.StorageID), zap.Error(err))
			continue
		}
		images = append(images, upload.CommittedImage{
			StorageID:  stored.ID,
			URL:        stored.URL,
			Title:      "",
			OrderIndex: len(images),
			IsCover:    len(images) == 0,
		})
	}

	copyRow := &models.ListingModel{
		Base:          models.Base{ID: newID},
		Title:         title,
		Description:   src.Description,
		Price:         src.Price,
		PropertyType:  src.PropertyType,
		ListingStatus: src.ListingStatus,
		IsActive:      false,
		IsFeatured:    false,
	}
	if err := s.db.WithContext(ctx).Create(copyRow).Error; err != nil {
		return nil, apperr.Query("duplicate listing", err)
	}

	if err := s.db.WithContext(ctx).Create(cloneVariant(src).Row(newID)).Error; err != nil {
		if derr := s.db.WithContext(ctx).Where("id = ?", newID).Delete(&models.ListingModel{}).Error; derr != nil {
			s.log.Error("compensating listing delete failed",
				zap.String("listing_id", newID), zap.Error(derr))
		}
		return nil, apperr.Query("duplicate listing details", err)
	}

	if src.Address != nil {
		addr := &models.AddressModel{
			ListingID:    newID,
			Province:     src.Address.Province,
			District:     src.Address.District,
			Neighborhood: src.Address.Neighborhood,
			FullAddress:  src.Address.FullAddress,
		}
		if err := s.db.WithContext(ctx).Create(addr).Error; err != nil {
			s.log.Warn("address copy failed", zap.String("listing_id", newID), zap.Error(err))
		}
	}

	for _, img := range images {
		row := &models.ImageModel{
			ListingID:  newID,
			StorageID:  img.StorageID,
			URL:        img.URL,
			OrderIndex: img.OrderIndex,
			IsCover:    img.IsCover,
		}
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			s.log.Warn("image row copy failed",
				zap.String("listing_id", newID), zap.String("storage_id", img.StorageID), zap.Error(err))
		}
	}

	return s.GetByID(ctx, newID)
}

// DeleteImage removes one photo row and its stored object.
func (s *Service) DeleteImage(ctx context.Context, imageID string) error {
	var img models.ImageModel
	err := s.db.WithContext(ctx).Where("id = ?", imageID).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("fotoğraf", imageID)
	}
	if err != nil {
		return apperr.Query("get image", err)
	}

	if !s.store.DeleteObject(ctx, img.StorageID) {
		s.log.Warn("photo removal failed", zap.String("storage_id", img.StorageID))
	}
	if err := s.db.WithContext(ctx).Where("id = ?", imageID).Delete(&models.ImageModel{}).Error; err != nil {
		return apperr.Query("delete image", err)
	}
	return nil
}

// IncrementViews bumps the public view counter.
func (s *Service) IncrementViews(ctx context.Context, id string) error {
	return s.bump(ctx, id, "views_count")
}

// IncrementContact bumps the contact-reveal counter.
func (s *Service) IncrementContact(ctx context.Context, id string) error {
	return s.bump(ctx, id, "contact_count")
}

func (s *Service) bump(ctx context.Context, id, column string) error {
	res := s.db.WithContext(ctx).Model(&models.ListingModel{}).
		Where("id = ?", id).
		Update(column, gorm.Expr(fmt.Sprintf("%s + 1", column)))
	if res.Error != nil {
		return apperr.Query("bump "+column, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("ilan", id)
	}
	return nil
}

// isDuplicateKey matches MySQL error 1062.
func isDuplicateKey(err error) bool {
	var myErr *mysqlDriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// folderOf deduces the shared storage folder from image ids.
func folderOf(images []models.ImageModel) string {
	for _, img := range images {
		if dir := path.Dir(img.StorageID); dir != "." && dir != "/" {
			return dir
		}
	}
	return ""
}

// cloneVariant deep-copies a listing's detail row with fresh identity.
func cloneVariant(src *models.ListingModel) models.DetailVariant {
	v := models.DetailVariant{Kind: src.PropertyType}
	switch src.PropertyType {
	case models.PropertyKonut:
		if src.Konut != nil {
			cp := *src.Konut
			cp.Base = models.Base{}
			v.Konut = &cp
		}
	case models.PropertyTicari:
		if src.Ticari != nil {
			cp := *src.Ticari
			cp.Base = models.Base{}
			v.Ticari = &cp
		}
	case models.PropertyArsa:
		if src.Arsa != nil {
			cp := *src.Arsa
			cp.Base = models.Base{}
			v.Arsa = &cp
		}
	case models.PropertyVasita:
		if src.Vasita != nil {
			cp := *src.Vasita
			cp.Base = models.Base{}
			v.Vasita = &cp
		}
	}
	return v
}
