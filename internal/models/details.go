package models

import "github.com/emlakpro/core/internal/pkg/apperr"

// KonutDetailsModel holds residential-specific fields.
type KonutDetailsModel struct {
	Base
	ListingID      string `json:"listing_id"      gorm:"type:char(36);uniqueIndex;not null"`
	KonutType      string `json:"konut_type"      gorm:"not null"`
	RoomCount      string `json:"room_count"      gorm:"not null"`
	GrossArea      int    `json:"gross_area"`
	NetArea        int    `json:"net_area"`
	BuildingAge    string `json:"building_age"`
	Floor          string `json:"floor"`
	TotalFloors    int    `json:"total_floors"`
	HeatingType    string `json:"heating_type"`
	BathroomCount  int    `json:"bathroom_count"`
	HasBalcony     bool   `json:"has_balcony"`
	IsFurnished    bool   `json:"is_furnished"`
	InSite         bool   `json:"in_site"`
	Exchangeable   bool   `json:"exchangeable"`
	CreditEligible bool   `json:"credit_eligible"`
}

func (KonutDetailsModel) TableName() string { return "konut_details" }

// TicariDetailsModel holds commercial-property fields.
type TicariDetailsModel struct {
	Base
	ListingID      string `json:"listing_id"   gorm:"type:char(36);uniqueIndex;not null"`
	TicariType     string `json:"ticari_type"  gorm:"not null"`
	GrossArea      int    `json:"gross_area"`
	NetArea        int    `json:"net_area"`
	RoomCount      string `json:"room_count"`
	BuildingAge    string `json:"building_age"`
	Floor          string `json:"floor"`
	HeatingType    string `json:"heating_type"`
	Exchangeable   bool   `json:"exchangeable"`
	CreditEligible bool   `json:"credit_eligible"`
}

func (TicariDetailsModel) TableName() string { return "ticari_details" }

// ArsaDetailsModel holds land fields.
type ArsaDetailsModel struct {
	Base
	ListingID      string `json:"listing_id"    gorm:"type:char(36);uniqueIndex;not null"`
	ArsaType       string `json:"arsa_type"     gorm:"not null"`
	AreaM2         int    `json:"area_m2"`
	ZoningStatus   string `json:"zoning_status"`
	BlockNo        string `json:"block_no"`
	ParcelNo       string `json:"parcel_no"`
	Exchangeable   bool   `json:"exchangeable"`
	CreditEligible bool   `json:"credit_eligible"`
}

func (ArsaDetailsModel) TableName() string { return "arsa_details" }

// VasitaDetailsModel holds vehicle fields.
type VasitaDetailsModel struct {
	Base
	ListingID      string `json:"listing_id"      gorm:"type:char(36);uniqueIndex;not null"`
	Brand          string `json:"brand"           gorm:"not null"`
	Series         string `json:"series"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	FuelType       string `json:"fuel_type"       gorm:"not null"`
	GearType       string `json:"gear_type"`
	Mileage        int    `json:"mileage"`
	Color          string `json:"color"`
	EngineCapacity string `json:"engine_capacity"`
	HasDamage      bool   `json:"has_damage"`
	UnderWarranty  bool   `json:"under_warranty"`
	Exchangeable   bool   `json:"exchangeable"`
}

func (VasitaDetailsModel) TableName() string { return "vasita_details" }

// DetailVariant is the tagged union over the four detail tables. Exactly one
// pointer, matching Kind, is set on a valid variant.
type DetailVariant struct {
	Kind   PropertyType
	Konut  *KonutDetailsModel
	Ticari *TicariDetailsModel
	Arsa   *ArsaDetailsModel
	Vasita *VasitaDetailsModel
}

// Validate enforces the one-variant-per-listing invariant and the
// category-required enum fields. Messages are the user-facing form errors.
func (v DetailVariant) Validate() error {
	if !v.Kind.Valid() {
		return apperr.Validation("property_type", "Geçersiz ilan kategorisi")
	}
	if n := v.count(); n != 1 {
		return apperr.Validation("property_type", "İlan kategorisi ile detay bilgileri uyuşmuyor")
	}
	switch v.Kind {
	case PropertyKonut:
		if v.Konut == nil {
			return apperr.Validation("property_type", "Konut detayları eksik")
		}
		if v.Konut.KonutType == "" {
			return apperr.Validation("konut_type", "Konut tipi seçiniz")
		}
		if v.Konut.RoomCount == "" {
			return apperr.Validation("room_count", "Oda sayısı seçiniz")
		}
	case PropertyTicari:
		if v.Ticari == nil {
			return apperr.Validation("property_type", "Ticari detayları eksik")
		}
		if v.Ticari.TicariType == "" {
			return apperr.Validation("ticari_type", "İşyeri tipi seçiniz")
		}
	case PropertyArsa:
		if v.Arsa == nil {
			return apperr.Validation("property_type", "Arsa detayları eksik")
		}
		if v.Arsa.ArsaType == "" {
			return apperr.Validation("arsa_type", "Arsa tipi seçiniz")
		}
	case PropertyVasita:
		if v.Vasita == nil {
			return apperr.Validation("property_type", "Vasıta detayları eksik")
		}
		if v.Vasita.Brand == "" {
			return apperr.Validation("brand", "Marka giriniz")
		}
		if v.Vasita.FuelType == "" {
			return apperr.Validation("fuel_type", "Yakıt tipi seçiniz")
		}
	}
	return nil
}

// Row returns the gorm model to insert for this variant, with the listing FK
// applied. Call Validate first.
func (v DetailVariant) Row(listingID string) interface{} {
	switch v.Kind {
	case PropertyKonut:
		v.Konut.ListingID = listingID
		return v.Konut
	case PropertyTicari:
		v.Ticari.ListingID = listingID
		return v.Ticari
	case PropertyArsa:
		v.Arsa.ListingID = listingID
		return v.Arsa
	case PropertyVasita:
		v.Vasita.ListingID = listingID
		return v.Vasita
	}
	return nil
}

// Subtype returns the category-specific type field used by the ranker.
func (v DetailVariant) Subtype() string {
	switch v.Kind {
	case PropertyKonut:
		if v.Konut != nil {
			return v.Konut.KonutType
		}
	case PropertyTicari:
		if v.Ticari != nil {
			return v.Ticari.TicariType
		}
	case PropertyArsa:
		if v.Arsa != nil {
			return v.Arsa.ArsaType
		}
	case PropertyVasita:
		if v.Vasita != nil {
			return v.Vasita.Brand
		}
	}
	return ""
}

func (v DetailVariant) count() int {
	n := 0
	if v.Konut != nil {
		n++
	}
	if v.Ticari != nil {
		n++
	}
	if v.Arsa != nil {
		n++
	}
	if v.Vasita != nil {
		n++
	}
	return n
}

// VariantOf extracts the populated variant from a loaded listing.
func VariantOf(l *ListingModel) DetailVariant {
	return DetailVariant{
		Kind:   l.PropertyType,
		Konut:  l.Konut,
		Ticari: l.Ticari,
		Arsa:   l.Arsa,
		Vasita: l.Vasita,
	}
}
