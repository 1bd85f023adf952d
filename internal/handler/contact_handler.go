package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type ContactHandler struct {
	service service.ContactService
}

func NewContactHandler(service service.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.SendContactMessage(req); err != nil {
		// Delivery failure is a handled outcome, not a server error. The
		// service already logged the cause; the client only sees the
		// generic message.
		c.JSON(http.StatusOK, dto.ContactResponse{Success: false, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ContactResponse{Success: true, Message: "your message has been sent"})
}
