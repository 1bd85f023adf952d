package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/pkg/mailer"
)

type ContactService interface {
	SendContactMessage(req dto.ContactRequest) error
}

type contactService struct {
	mailer       mailer.Mailer
	contactEmail string
}

func NewContactService(m mailer.Mailer, contactEmail string) ContactService {
	return &contactService{
		mailer:       m,
		contactEmail: contactEmail,
	}
}

// SendContactMessage delivers the contact form by mail. Delivery is a
// blocking call; failures are logged and surfaced as a generic error, never
// retried.
func (s *contactService) SendContactMessage(req dto.ContactRequest) error {
	if s.mailer == nil || s.contactEmail == "" {
		zap.L().Warn("contact form submitted but mail is not configured")
		return fmt.Errorf("there was an error sending your message, please try again")
	}

	subject := fmt.Sprintf("Contact Form: %s", req.Subject)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message)

	if err := s.mailer.Send(s.contactEmail, subject, body); err != nil {
		zap.L().Error("contact mail delivery failed", zap.Error(err))
		return fmt.Errorf("there was an error sending your message, please try again")
	}

	return nil
}
