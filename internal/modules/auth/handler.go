package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/emlakpro/core/internal/pkg/apperr"
	"github.com/emlakpro/core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Kullanıcı adı ve şifre gerekli")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if apperr.IsValidation(err) {
			response.Unauthorized(c)
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"token": token})
}
