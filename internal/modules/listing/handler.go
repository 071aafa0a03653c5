package listing

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emlakpro/core/internal/middleware"
	"github.com/emlakpro/core/internal/modules/upload"
	"github.com/emlakpro/core/internal/pkg/pagination"
	"github.com/emlakpro/core/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// List handles GET /listings. Admin sessions may include inactive rows.
func (h *Handler) List(c *gin.Context) {
	f := Filters{
		PropertyType: c.Query("propertyType"),
		Status:       c.Query("status"),
		Province:     c.Query("province"),
		Query:        strings.TrimSpace(c.Query("q")),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		f.MaxPrice = v
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		f.Featured = &featured
	}
	if c.Query("includeInactive") == "true" && middleware.IsAuthenticated(c) {
		f.IncludeInactive = true
	}

	rows, meta, err := h.service.List(c.Request.Context(), f, pagination.FromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, rows, meta)
}

// Detail handles GET /listings/detail?id=|slug=.
func (h *Handler) Detail(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	slugParam := strings.TrimSpace(c.Query("slug"))

	switch {
	case id != "":
		// only signed-in operators may pull up unpublished listings
		row, err := h.service.GetVisible(c.Request.Context(), id, middleware.IsAuthenticated(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, row)
	case slugParam != "":
		row, err := h.service.GetBySlug(c.Request.Context(), slugParam)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, row)
	default:
		response.BadRequest(c, "id veya slug gerekli")
	}
}

// Create handles POST /listings.
func (h *Handler) Create(c *gin.Context) {
	var dto CreateListingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Geçersiz istek gövdesi")
		return
	}

	row, failures, err := h.service.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, createResponse(row.ID, failures))
}

// createResponse is the publish acknowledgement the panel expects: the new
// id plus any photos that did not make it.
func createResponse(listingID string, failures []upload.CommitFailure) gin.H {
	body := gin.H{"success": true, "listingId": listingID}
	if len(failures) > 0 {
		body["photoFailures"] = failures
	}
	return body
}

// Delete handles DELETE /listings?id=.
func (h *Handler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.BadRequest(c, "id gerekli")
		return
	}
	result, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Update handles PATCH /listings. The id comes from the query string or,
// failing that, the body.
func (h *Handler) Update(c *gin.Context) {
	var dto UpdateListingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Geçersiz istek gövdesi")
		return
	}
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		id = strings.TrimSpace(dto.ID)
	}
	if id == "" {
		response.BadRequest(c, "id gerekli")
		return
	}
	row, err := h.service.Update(c.Request.Context(), id, &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, row)
}

type priceUpdateRequest struct {
	ID    string  `json:"id" binding:"required"`
	Price float64 `json:"price"`
}

// UpdatePrice handles PUT /listings/update/price.
func (h *Handler) UpdatePrice(c *gin.Context) {
	var req priceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Geçersiz istek gövdesi")
		return
	}
	if err := h.service.UpdatePrice(c.Request.Context(), req.ID, req.Price); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

type titleUpdateRequest struct {
	ID    string `json:"id" binding:"required"`
	Title string `json:"title"`
}

// UpdateTitle handles PUT /listings/update/title.
func (h *Handler) UpdateTitle(c *gin.Context) {
	var req titleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Geçersiz istek gövdesi")
		return
	}
	if err := h.service.UpdateTitle(c.Request.Context(), req.ID, req.Title); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

type duplicateRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	NewTitle  string `json:"newTitle"`
}

// Duplicate handles POST /listings/duplicate.
func (h *Handler) Duplicate(c *gin.Context) {
	var req duplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Geçersiz istek gövdesi")
		return
	}
	row, err := h.service.Duplicate(c.Request.Context(), req.ListingID, req.NewTitle)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, row)
}

// DeleteImage handles DELETE /listings/delete-image?id=.
func (h *Handler) DeleteImage(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.BadRequest(c, "id gerekli")
		return
	}
	if err := h.service.DeleteImage(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// View handles POST /listings/:id/view.
func (h *Handler) View(c *gin.Context) {
	if err := h.service.IncrementViews(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"counted": true})
}

// Contact handles POST /listings/:id/contact.
func (h *Handler) Contact(c *gin.Context) {
	if err := h.service.IncrementContact(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"counted": true})
}
