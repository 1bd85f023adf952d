package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/dto"
)

type fakeMailer struct {
	to      string
	subject string
	body    string
	err     error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.to = to
	m.subject = subject
	m.body = body
	return m.err
}

func TestSendContactMessage(t *testing.T) {
	mail := &fakeMailer{}
	svc := NewContactService(mail, "owner@example.com")

	err := svc.SendContactMessage(dto.ContactRequest{
		Name:    "Carol",
		Email:   "carol@example.com",
		Subject: "Hello",
		Message: "I enjoy the blog.",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", mail.to)
	assert.Equal(t, "Contact Form: Hello", mail.subject)
	assert.Contains(t, mail.body, "Carol")
	assert.Contains(t, mail.body, "carol@example.com")
	assert.Contains(t, mail.body, "I enjoy the blog.")
}

func TestSendContactMessageHidesDeliveryErrors(t *testing.T) {
	mail := &fakeMailer{err: errors.New("smtp: connection refused")}
	svc := NewContactService(mail, "owner@example.com")

	err := svc.SendContactMessage(dto.ContactRequest{
		Name:    "Carol",
		Email:   "carol@example.com",
		Subject: "Hello",
		Message: "hi",
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "smtp")
}

func TestSendContactMessageWithoutMailer(t *testing.T) {
	svc := NewContactService(nil, "")

	err := svc.SendContactMessage(dto.ContactRequest{
		Name:    "Carol",
		Email:   "carol@example.com",
		Subject: "Hello",
		Message: "hi",
	})
	assert.Error(t, err)
}
