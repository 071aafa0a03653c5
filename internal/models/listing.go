package models

// PropertyType selects which detail table a listing owns. Immutable once set.
type PropertyType string

const (
	PropertyKonut  PropertyType = "konut"
	PropertyTicari PropertyType = "ticari"
	PropertyArsa   PropertyType = "arsa"
	PropertyVasita PropertyType = "vasita"
)

// Valid reports whether t is one of the four known categories.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyKonut, PropertyTicari, PropertyArsa, PropertyVasita:
		return true
	}
	return false
}

// ListingStatus is the sale/rent state of a listing.
type ListingStatus string

const (
	StatusSatilik ListingStatus = "satilik"
	StatusKiralik ListingStatus = "kiralik"
)

// ListingModel is the parent listing record. Exactly one of the four detail
// associations exists, matching PropertyType.
type ListingModel struct {
	Base
	Title         string        `json:"title"          gorm:"not null"`
	Description   string        `json:"description"    gorm:"type:longtext"`
	Price         float64       `json:"price"          gorm:"type:decimal(14,2);not null"`
	PropertyType  PropertyType  `json:"property_type"  gorm:"type:varchar(16);not null;index"`
	ListingStatus ListingStatus `json:"listing_status" gorm:"type:varchar(16)"`
	// no DB-side default; every insert sets this explicitly
	IsActive     bool `json:"is_active"      gorm:"index"`
	IsFeatured   bool `json:"is_featured"`
	ViewsCount   int  `json:"views_count"`
	ContactCount int  `json:"contact_count"`

	Konut   *KonutDetailsModel  `json:"konut_details,omitempty"  gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Ticari  *TicariDetailsModel `json:"ticari_details,omitempty" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Arsa    *ArsaDetailsModel   `json:"arsa_details,omitempty"   gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Vasita  *VasitaDetailsModel `json:"vasita_details,omitempty" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Address *AddressModel       `json:"address,omitempty"        gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Images  []ImageModel        `json:"images"                   gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

func (ListingModel) TableName() string { return "listings" }

// AddressModel is the optional location record. Absent for vasita listings.
type AddressModel struct {
	Base
	ListingID    string `json:"listing_id"   gorm:"type:char(36);uniqueIndex;not null"`
	Province     string `json:"province"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
	FullAddress  string `json:"full_address" gorm:"type:text"`
}

func (AddressModel) TableName() string { return "addresses" }

// ImageModel is the metadata row for one stored object. The media store owns
// the bytes; this row owns ordering and cover state. StorageID keeps the
// legacy cloudinary_id column so existing rows survive the backend swap.
type ImageModel struct {
	Base
	ListingID  string `json:"listing_id"    gorm:"type:char(36);index;not null"`
	StorageID  string `json:"cloudinary_id" gorm:"column:cloudinary_id;not null"`
	URL        string `json:"url"           gorm:"type:text;not null"`
	OrderIndex int    `json:"order_index"`
	IsCover    bool   `json:"is_cover"`
}

func (ImageModel) TableName() string { return "images" }
