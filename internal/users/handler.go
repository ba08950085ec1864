package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-platform/internal/shared/server/middleware"
	"resume-platform/internal/shared/server/respond"
)

// Handler serves the current-user endpoint.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.Service.Get(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Something went wrong", nil)
		return
	}
	respond.OK(c, gin.H{"user": u})
}
