package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"estate-front/internal/domain"
)

// ProductPage is the paginated listing envelope. Page and TotalPages are
// echoed back by the server; the client never computes them.
type ProductPage struct {
	Data       []domain.Product `json:"data"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
}

// Upload is one image file attached to a product form.
type Upload struct {
	Name    string
	Content []byte
}

// ProductPayload is the assembled multipart body for product create/edit.
// Fields holds only the entries to send; edit forms leave omitted fields
// out entirely so the backend preserves their prior values. Images are
// appended only when the user selected at least one file.
type ProductPayload struct {
	Fields map[string]string
	Images []Upload
}

// ListProducts fetches the paginated, filtered product listing.
func (c *Client) ListProducts(ctx context.Context, query url.Values) (*ProductPage, error) {
	var page ProductPage
	if err := c.getJSON(ctx, "/api/products", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, "/api/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct submits a new product as multipart form data.
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*domain.Product, error) {
	body, contentType, err := encodeMultipart(payload)
	if err != nil {
		return nil, err
	}
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/products/add", nil, body, contentType, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct submits a partial product edit. Only the fields present in
// the payload are sent; the backend keeps everything else as it was.
func (c *Client) UpdateProduct(ctx context.Context, id string, payload ProductPayload) (*domain.Product, error) {
	body, contentType, err := encodeMultipart(payload)
	if err != nil {
		return nil, err
	}
	var product domain.Product
	if err := c.do(ctx, http.MethodPatch, "/api/products/"+id, nil, body, contentType, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil, "", nil)
}

// Categories fetches the category reference list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.getJSON(ctx, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func encodeMultipart(payload ProductPayload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for name, value := range payload.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", name, err)
		}
	}
	for _, img := range payload.Images {
		part, err := w.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to attach image %q: %w", img.Name, err)
		}
		if _, err := part.Write(img.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write image %q: %w", img.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
