package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/service"
)

type stubMailer struct {
	err error
}

func (m *stubMailer) Send(to, subject, body string) error { return m.err }

func newContactRouter(mail *stubMailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewContactHandler(service.NewContactService(mail, "owner@example.com"))
	router := gin.New()
	router.POST("/api/contact", h.Submit)
	return router
}

func postContact(t *testing.T, router *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestContactSubmit(t *testing.T) {
	router := newContactRouter(&stubMailer{})

	rec := postContact(t, router, dto.ContactRequest{
		Name:    "Carol",
		Email:   "carol@example.com",
		Subject: "Hello",
		Message: "I enjoy the blog.",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestContactSubmitDeliveryFailureIsHandled(t *testing.T) {
	router := newContactRouter(&stubMailer{err: errors.New("smtp: connection refused")})

	rec := postContact(t, router, dto.ContactRequest{
		Name:    "Carol",
		Email:   "carol@example.com",
		Subject: "Hello",
		Message: "hi",
	})

	// A failed delivery is reported in the body, never as a server error.
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotContains(t, resp.Message, "smtp")
}

func TestContactSubmitValidation(t *testing.T) {
	router := newContactRouter(&stubMailer{})

	rec := postContact(t, router, gin.H{"name": "Carol", "email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
