package listing

import (
	"strings"

	"github.com/emlakpro/core/internal/models"
	"github.com/emlakpro/core/internal/pkg/apperr"
)

// ImagePayload carries an already-stored photo in a create request. Used
// when no live upload session exists, e.g. imports and duplicate flows.
type ImagePayload struct {
	StorageID  string `json:"cloudinary_id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
	IsCover    bool   `json:"is_cover"`
}

// CreateListingDTO is the publish payload of the panel's listing form. The
// category-specific fields arrive flattened; BuildVariant selects the ones
// matching PropertyType and ignores the rest.
type CreateListingDTO struct {
	ID            string  `json:"id"` // draft id from the upload flow, optional
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	PropertyType  string  `json:"property_type"`
	ListingStatus string  `json:"listing_status"`
	IsActive      *bool   `json:"is_active"`
	IsFeatured    bool    `json:"is_featured"`

	Province     string `json:"province"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
	FullAddress  string `json:"full_address"`

	KonutType     string `json:"konut_type"`
	RoomCount     string `json:"room_count"`
	GrossArea     int    `json:"gross_area"`
	NetArea       int    `json:"net_area"`
	BuildingAge   string `json:"building_age"`
	Floor         string `json:"floor"`
	TotalFloors   int    `json:"total_floors"`
	HeatingType   string `json:"heating_type"`
	BathroomCount int    `json:"bathroom_count"`
	HasBalcony    bool   `json:"has_balcony"`
	IsFurnished   bool   `json:"is_furnished"`
	InSite        bool   `json:"in_site"`

	TicariType string `json:"ticari_type"`

	ArsaType     string `json:"arsa_type"`
	AreaM2       int    `json:"area_m2"`
	ZoningStatus string `json:"zoning_status"`
	BlockNo      string `json:"block_no"`
	ParcelNo     string `json:"parcel_no"`

	Brand          string `json:"brand"`
	Series         string `json:"series"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	FuelType       string `json:"fuel_type"`
	GearType       string `json:"gear_type"`
	Mileage        int    `json:"mileage"`
	Color          string `json:"color"`
	EngineCapacity string `json:"engine_capacity"`
	HasDamage      bool   `json:"has_damage"`
	UnderWarranty  bool   `json:"under_warranty"`

	Exchangeable   bool `json:"exchangeable"`
	CreditEligible bool `json:"credit_eligible"`

	Images []ImagePayload `json:"images"`
}

// Validate checks the shared fields and the category variant.
func (d *CreateListingDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return apperr.Validation("title", "Başlık giriniz")
	}
	if d.Price <= 0 {
		return apperr.Validation("price", "Geçerli bir fiyat giriniz")
	}
	if !models.PropertyType(d.PropertyType).Valid() {
		return apperr.Validation("property_type", "Geçersiz ilan kategorisi")
	}
	switch models.ListingStatus(d.ListingStatus) {
	case models.StatusSatilik, models.StatusKiralik:
	case "":
		d.ListingStatus = string(models.StatusSatilik)
	default:
		return apperr.Validation("listing_status", "Geçersiz ilan durumu")
	}
	return d.BuildVariant().Validate()
}

// BuildVariant assembles the detail variant from the flattened fields.
func (d *CreateListingDTO) BuildVariant() models.DetailVariant {
	kind := models.PropertyType(d.PropertyType)
	v := models.DetailVariant{Kind: kind}
	switch kind {
	case models.PropertyKonut:
		v.Konut = &models.KonutDetailsModel{
			KonutType:      d.KonutType,
			RoomCount:      d.RoomCount,
			GrossArea:      d.GrossArea,
			NetArea:        d.NetArea,
			BuildingAge:    d.BuildingAge,
			Floor:          d.Floor,
			TotalFloors:    d.TotalFloors,
			HeatingType:    d.HeatingType,
			BathroomCount:  d.BathroomCount,
			HasBalcony:     d.HasBalcony,
			IsFurnished:    d.IsFurnished,
			InSite:         d.InSite,
			Exchangeable:   d.Exchangeable,
			CreditEligible: d.CreditEligible,
		}
	case models.PropertyTicari:
		v.Ticari = &models.TicariDetailsModel{
			TicariType:     d.TicariType,
			GrossArea:      d.GrossArea,
			NetArea:        d.NetArea,
			RoomCount:      d.RoomCount,
			BuildingAge:    d.BuildingAge,
			Floor:          d.Floor,
			HeatingType:    d.HeatingType,
			Exchangeable:   d.Exchangeable,
			CreditEligible: d.CreditEligible,
		}
	case models.PropertyArsa:
		v.Arsa = &models.ArsaDetailsModel{
			ArsaType:       d.ArsaType,
			AreaM2:         d.AreaM2,
			ZoningStatus:   d.ZoningStatus,
			BlockNo:        d.BlockNo,
			ParcelNo:       d.ParcelNo,
			Exchangeable:   d.Exchangeable,
			CreditEligible: d.CreditEligible,
		}
	case models.PropertyVasita:
		v.Vasita = &models.VasitaDetailsModel{
			Brand:          d.Brand,
			Series:         d.Series,
			Model:          d.Model,
			Year:           d.Year,
			FuelType:       d.FuelType,
			GearType:       d.GearType,
			Mileage:        d.Mileage,
			Color:          d.Color,
			EngineCapacity: d.EngineCapacity,
			HasDamage:      d.HasDamage,
			UnderWarranty:  d.UnderWarranty,
			Exchangeable:   d.Exchangeable,
		}
	}
	return v
}

// HasAddress reports whether the payload carries any location data.
// Vehicle listings usually carry none.
func (d *CreateListingDTO) HasAddress() bool {
	return strings.TrimSpace(d.Province) != "" ||
		strings.TrimSpace(d.District) != "" ||
		strings.TrimSpace(d.Neighborhood) != "" ||
		strings.TrimSpace(d.FullAddress) != ""
}

// UpdateListingDTO is the PATCH payload; nil pointers mean "unchanged".
// ID may come in the body instead of the query string.
type UpdateListingDTO struct {
	ID            string   `json:"id"`
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	ListingStatus *string  `json:"listing_status"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    *bool    `json:"is_featured"`
}

// Changes converts the DTO into a gorm update map.
func (d *UpdateListingDTO) Changes() (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if d.Title != nil {
		title := strings.TrimSpace(*d.Title)
		if title == "" {
			return nil, apperr.Validation("title", "Başlık giriniz")
		}
		changes["title"] = title
	}
	if d.Description != nil {
		changes["description"] = *d.Description
	}
	if d.Price != nil {
		if *d.Price <= 0 {
			return nil, apperr.Validation("price", "Geçerli bir fiyat giriniz")
		}
		changes["price"] = *d.Price
	}
	if d.ListingStatus != nil {
		switch models.ListingStatus(*d.ListingStatus) {
		case models.StatusSatilik, models.StatusKiralik:
			changes["listing_status"] = *d.ListingStatus
		default:
			return nil, apperr.Validation("listing_status", "Geçersiz ilan durumu")
		}
	}
	if d.IsActive != nil {
		changes["is_active"] = *d.IsActive
	}
	if d.IsFeatured != nil {
		changes["is_featured"] = *d.IsFeatured
	}
	if len(changes) == 0 {
		return nil, apperr.Validation("", "Güncellenecek alan yok")
	}
	return changes, nil
}
