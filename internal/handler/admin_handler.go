package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type AdminHandler struct {
	service    service.AdminService
	newsletter service.NewsletterService
}

func NewAdminHandler(service service.AdminService, newsletter service.NewsletterService) *AdminHandler {
	return &AdminHandler{
		service:    service,
		newsletter: newsletter,
	}
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	var filter dto.AdminPostFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	rows, meta, err := h.service.ListPosts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "meta": meta})
}

func (h *AdminHandler) BulkDeletePosts(c *gin.Context) {
	var req dto.BulkSoftDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	deleted, err := h.service.SoftDeletePosts(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BulkSoftDeleteResponse{Deleted: deleted})
}

func (h *AdminHandler) FeaturePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req dto.FeaturePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.FeaturePost(c.Request.Context(), id, *req.Featured); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post updated"})
}

func (h *AdminHandler) ListComments(c *gin.Context) {
	var filter dto.AdminCommentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	rows, meta, err := h.service.ListComments(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "meta": meta})
}

func (h *AdminHandler) BulkDeleteComments(c *gin.Context) {
	var req dto.BulkSoftDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	deleted, err := h.service.SoftDeleteComments(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BulkSoftDeleteResponse{Deleted: deleted})
}

func (h *AdminHandler) ApproveComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := h.service.ApproveComment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment approved"})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	users, meta, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows := make([]gin.H, 0, len(users))
	for _, user := range users {
		rows = append(rows, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "meta": meta})
}

func (h *AdminHandler) ListSubscribers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	subs, meta, err := h.newsletter.ListSubscribers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows := make([]gin.H, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, gin.H{
			"email":         sub.Email,
			"is_active":     sub.IsActive,
			"subscribed_at": sub.SubscribedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "meta": meta})
}
