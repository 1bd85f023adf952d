package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type NewsletterHandler struct {
	service service.NewsletterService
}

func NewNewsletterHandler(service service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	outcome, err := h.service.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.SubscribeResponse{Success: true}
	switch outcome {
	case service.OutcomeSubscribed:
		resp.Message = "you have been subscribed to the newsletter"
	case service.OutcomeResubscribed:
		resp.Message = "welcome back, your subscription has been reactivated"
	case service.OutcomeAlreadySubscribed:
		resp.Message = "you are already subscribed"
	}

	c.JSON(http.StatusOK, resp)
}
