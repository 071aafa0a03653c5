package related

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emlakpro/core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Related handles GET /listings/related?id=|slug=.
func (h *Handler) Related(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	slug := strings.TrimSpace(c.Query("slug"))

	switch {
	case id != "":
		rows, err := h.service.ForID(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, rows)
	case slug != "":
		rows, err := h.service.ForSlug(c.Request.Context(), slug)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, rows)
	default:
		response.BadRequest(c, "id veya slug gerekli")
	}
}
