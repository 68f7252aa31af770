package form

import (
	"context"
	"errors"
	"testing"

	"estate-front/internal/api"
	"estate-front/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockContactBackend struct {
	sent    []api.ContactRequest
	message string
	err     error
}

func (m *mockContactBackend) SendContact(ctx context.Context, req api.ContactRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, req)
	return m.message, nil
}

func TestContactSubmit_RequiresAllFields(t *testing.T) {
	backend := &mockContactBackend{}
	recorder := &notify.Recorder{}
	form := NewContactForm(backend, recorder)

	err := form.Submit(context.Background())
	require.Error(t, err)
	for _, name := range []string{"name", "email", "subject", "message"} {
		assert.Equal(t, "This field is required", form.Errors()[name])
	}
	assert.Empty(t, backend.sent)
}

func TestContactSubmit_RejectsMalformedEmail(t *testing.T) {
	backend := &mockContactBackend{}
	form := NewContactForm(backend, &notify.Recorder{})

	form.Fields = api.ContactRequest{
		Name:    "Dana",
		Email:   "not-an-email",
		Subject: "Viewing",
		Message: "Is the loft still listed?",
	}
	err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid email format", form.Errors()["email"])
	assert.Empty(t, backend.sent)
}

func TestContactSubmit_SuccessResetsAndConfirms(t *testing.T) {
	backend := &mockContactBackend{message: "Thanks, we will be in touch."}
	recorder := &notify.Recorder{}
	form := NewContactForm(backend, recorder)

	form.Fields = api.ContactRequest{
		Name:    "Dana",
		Email:   "dana@example.com",
		Subject: "Viewing",
		Message: "Is the loft still listed?",
	}
	require.NoError(t, form.Submit(context.Background()))

	require.Len(t, backend.sent, 1)
	assert.Equal(t, "Dana", backend.sent[0].Name)
	assert.Equal(t, []string{"Thanks, we will be in touch."}, recorder.Successes)
	assert.Equal(t, api.ContactRequest{}, form.Fields, "fields clear after a successful send")
}

func TestContactSubmit_ErrorKeepsFields(t *testing.T) {
	backend := &mockContactBackend{err: errors.New("mail service down")}
	recorder := &notify.Recorder{}
	form := NewContactForm(backend, recorder)

	form.Fields = api.ContactRequest{
		Name:    "Dana",
		Email:   "dana@example.com",
		Subject: "Viewing",
		Message: "Still listed?",
	}
	err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Dana", form.Fields.Name, "a failed send keeps the draft")
	require.Len(t, recorder.Errors, 1)
}
