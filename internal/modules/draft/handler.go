package draft

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

// Allocate handles POST /listings/draft and returns the id the new draft
// will publish under.
func (h *Handler) Allocate(c *gin.Context) {
	response.Created(c, gin.H{"id": h.service.Allocate()})
}

// DeleteTemp handles DELETE /listings/delete-temp?id=&folderPath=. It is the
// browser's parting shot when the operator abandons the form, so it always
// answers 200; partial cleanup is resolved by the next abandon call.
func (h *Handler) DeleteTemp(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.BadRequest(c, "id gerekli")
		return
	}

	h.service.Abandon(c.Request.Context(), id, c.Query("folderPath"))
	response.OK(c, gin.H{"cleaned": true})
}
