package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emlakpro/core/internal/models"
	"github.com/emlakpro/core/internal/pkg/apperr"
)

func validKonutDTO() *CreateListingDTO {
	return &CreateListingDTO{
		Title:        "Merkez'de Satılık 3+1 Daire",
		Price:        2450000,
		PropertyType: "konut",
		KonutType:    "daire",
		RoomCount:    "3+1",
		GrossArea:    145,
		Province:     "Ankara",
		District:     "Çankaya",
	}
}

func TestCreateListingDTOValidate(t *testing.T) {
	t.Run("valid konut payload", func(t *testing.T) {
		dto := validKonutDTO()
		require.NoError(t, dto.Validate())
		assert.Equal(t, string(models.StatusSatilik), dto.ListingStatus)
	})

	t.Run("title required", func(t *testing.T) {
		dto := validKonutDTO()
		dto.Title = "   "
		assert.True(t, apperr.IsValidation(dto.Validate()))
	})

	t.Run("price must be positive", func(t *testing.T) {
		dto := validKonutDTO()
		dto.Price = 0
		assert.True(t, apperr.IsValidation(dto.Validate()))
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		dto := validKonutDTO()
		dto.PropertyType = "yat"
		assert.True(t, apperr.IsValidation(dto.Validate()))
	})

	t.Run("konut requires room count", func(t *testing.T) {
		dto := validKonutDTO()
		dto.RoomCount = ""
		err := dto.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Oda sayısı seçiniz")
	})

	t.Run("vasita requires brand and fuel type", func(t *testing.T) {
		dto := &CreateListingDTO{
			Title:        "Temiz Araç",
			Price:        950000,
			PropertyType: "vasita",
			FuelType:     "dizel",
		}
		err := dto.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Marka giriniz")

		dto.Brand = "Renault"
		dto.FuelType = ""
		err = dto.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Yakıt tipi seçiniz")
	})
}

func TestBuildVariantPicksMatchingDetail(t *testing.T) {
	dto := validKonutDTO()
	// stray vehicle fields from the shared form must not leak into konut
	dto.Brand = "Ford"
	dto.FuelType = "benzin"

	v := dto.BuildVariant()
	assert.Equal(t, models.PropertyKonut, v.Kind)
	require.NotNil(t, v.Konut)
	assert.Nil(t, v.Vasita)
	assert.Equal(t, "3+1", v.Konut.RoomCount)
	require.NoError(t, v.Validate())
}

func TestUpdateListingDTOChanges(t *testing.T) {
	t.Run("only set fields included", func(t *testing.T) {
		price := 1500000.0
		active := false
		dto := &UpdateListingDTO{Price: &price, IsActive: &active}
		changes, err := dto.Changes()
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"price":     1500000.0,
			"is_active": false,
		}, changes)
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		_, err := (&UpdateListingDTO{}).Changes()
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		bad := "rezerve"
		_, err := (&UpdateListingDTO{ListingStatus: &bad}).Changes()
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("blank title rejected", func(t *testing.T) {
		blank := "  "
		_, err := (&UpdateListingDTO{Title: &blank}).Changes()
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestHasAddress(t *testing.T) {
	dto := &CreateListingDTO{}
	assert.False(t, dto.HasAddress())
	dto.Province = "İzmir"
	assert.True(t, dto.HasAddress())
}
