package form

import (
	"context"
	"fmt"

	"estate-front/internal/api"
	"estate-front/internal/notify"
)

// ContactBackend is the slice of the API client the contact form needs.
type ContactBackend interface {
	SendContact(ctx context.Context, req api.ContactRequest) (string, error)
}

// ContactForm is the public contact-us form. It needs no auth and no cache:
// sending a message invalidates nothing the visitor can see.
type ContactForm struct {
	backend  ContactBackend
	notifier notify.Notifier

	Fields api.ContactRequest
	errors map[string]string
}

// NewContactForm creates an empty contact form.
func NewContactForm(backend ContactBackend, notifier notify.Notifier) *ContactForm {
	return &ContactForm{
		backend:  backend,
		notifier: notifier,
		errors:   map[string]string{},
	}
}

// Errors returns the field-keyed validation errors from the last submit.
func (f *ContactForm) Errors() map[string]string { return f.errors }

// Submit validates and sends the message. On success the fields reset and
// the backend's confirmation message is surfaced; a declined submission
// leaves the fields for correction.
func (f *ContactForm) Submit(ctx context.Context) error {
	if !f.valid() {
		return fmt.Errorf("validation failed")
	}

	message, err := f.backend.SendContact(ctx, f.Fields)
	if err != nil {
		f.notifier.Error(err.Error())
		return err
	}

	if message == "" {
		message = "Your message has been sent."
	}
	f.notifier.Success(message)
	f.Fields = api.ContactRequest{}
	return nil
}

func (f *ContactForm) valid() bool {
	f.errors = map[string]string{}

	required := map[string]string{
		"name":    f.Fields.Name,
		"email":   f.Fields.Email,
		"subject": f.Fields.Subject,
		"message": f.Fields.Message,
	}
	for name, value := range required {
		if msg := checkField(value, "required"); msg != "" {
			f.errors[name] = msg
		}
	}
	if f.Fields.Email != "" {
		if msg := checkField(f.Fields.Email, "email"); msg != "" {
			f.errors["email"] = msg
		}
	}
	return len(f.errors) == 0
}
