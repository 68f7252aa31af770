package api

import (
	"context"
	"net/http"
	"net/url"

	"estate-front/internal/domain"
)

// ContactPage is the paginated admin inbox envelope.
type ContactPage struct {
	Contacts   []domain.ContactMessage `json:"contacts"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"totalPages"`
	Total      int                     `json:"total"`
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendContact submits the public contact form and returns the backend's
// confirmation message.
func (c *Client) SendContact(ctx context.Context, req ContactRequest) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/contacts", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListContacts fetches the admin inbox page.
func (c *Client) ListContacts(ctx context.Context, query url.Values) (*ContactPage, error) {
	var page ContactPage
	if err := c.getJSON(ctx, "/api/contacts", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateContactStatus moves a message through the admin workflow.
func (c *Client) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	payload := struct {
		Status domain.ContactStatus `json:"status"`
	}{Status: status}
	return c.sendJSON(ctx, http.MethodPatch, "/api/contacts/"+id+"/status", payload, nil)
}

// DeleteContact removes a message.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/contacts/"+id, nil, nil, "", nil)
}

// ContactStats fetches the per-status message counts.
func (c *Client) ContactStats(ctx context.Context) (*domain.ContactStats, error) {
	var stats domain.ContactStats
	if err := c.getJSON(ctx, "/api/contacts/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
