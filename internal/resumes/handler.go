package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-platform/internal/shared/server/middleware"
	"resume-platform/internal/shared/server/respond"
)

// Handler exposes the resume operations over HTTP.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts the owner-scoped routes. The group is expected
// to carry the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume", h.list)
	rg.POST("/resume", h.create)
	rg.GET("/resume/:id", h.get)
	rg.PUT("/resume/:id", h.update)
	rg.DELETE("/resume/:id", h.delete)
	rg.PUT("/resume/:id/set-default", h.setDefault)
	rg.POST("/resume/:id/duplicate", h.duplicate)
	rg.PUT("/resume/:id/toggle-public", h.togglePublic)
}

// RegisterPublicRoutes mounts the unauthenticated slug lookup.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume/:slug", h.getBySlug)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"resumes": list, "count": len(list)})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set("resumeId", id)

	res, err := h.Service.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Invalid request body", nil)
		return
	}

	res, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set("resumeId", res.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "Resume created successfully",
		"resume":  res,
	})
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set("resumeId", id)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Invalid request body", nil)
		return
	}

	res, err := h.Service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"message": "Resume updated successfully",
		"resume":  res,
	})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set("resumeId", id)

	if err := h.Service.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Resume deleted successfully"})
}

func (h *Handler) setDefault(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set("resumeId", id)

	res, err := h.Service.SetDefault(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"message": "Default resume updated successfully",
		"resume":  res,
	})
}

func (h *Handler) duplicate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set("resumeId", id)

	res, err := h.Service.Duplicate(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set("resumeId", res.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "Resume duplicated successfully",
		"resume":  res,
	})
}

func (h *Handler) togglePublic(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set("resumeId", id)

	res, err := h.Service.TogglePublic(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	visibility := "private"
	if res.IsPublic {
		visibility = "public"
	}
	respond.OK(c, gin.H{
		"message": "Resume made " + visibility + " successfully",
		"resume":  res,
	})
}

func (h *Handler) getBySlug(c *gin.Context) {
	res, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set("resumeId", res.ID)
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Validation failed", verr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Something went wrong", nil)
	}
}
