package domain

import (
	"encoding/json"
	"time"
)

// ProductState describes availability for listings that do not track stock counts.
type ProductState string

const (
	StateAvailable      ProductState = "available"
	StateReserved       ProductState = "reserved"
	StateNew            ProductState = "new"
	StateUsed           ProductState = "used"
	StateUnderFinishing ProductState = "under-finishing"
)

// Image is the normalized image descriptor. The backend has shipped several
// shapes over time (bare URL strings, {url} objects, a legacy single "image"
// field); everything is folded into this one form at the decode boundary.
type Image struct {
	URL string `json:"url"`
}

// Product represents a property listing.
//
// The backend exposes two schemas: an older one where availability is the
// State enum, and a newer one carrying a numeric Stock plus a Color set.
// Both are genuine, so the model carries both; Stock is nil under the
// enum schema and TracksStock reports which mode a product is in.
type Product struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Size        string       `json:"size"`
	Address     string       `json:"address"`
	Category    Category     `json:"category"`
	State       ProductState `json:"state"`
	Stock       *int         `json:"stock"`
	Colors      []string     `json:"color"`
	Featured    bool         `json:"featured"`
	Images      []Image      `json:"images"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Category is read-only reference data consumed by product forms and filters.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// TracksStock reports whether the product uses the numeric-stock schema.
func (p *Product) TracksStock() bool {
	return p.Stock != nil
}

// Available reports whether the product can be added to a cart.
func (p *Product) Available() bool {
	if p.TracksStock() {
		return *p.Stock > 0
	}
	return p.State != StateReserved
}

// HasColor reports whether color is part of the product's declared color set.
func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// productWire mirrors Product but defers the polymorphic fields.
type productWire struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Size        string          `json:"size"`
	Address     string          `json:"address"`
	Category    json.RawMessage `json:"category"`
	State       ProductState    `json:"state"`
	Stock       *int            `json:"stock"`
	Colors      []string        `json:"color"`
	Featured    bool            `json:"featured"`
	Images      json.RawMessage `json:"images"`
	Image       json.RawMessage `json:"image"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// UnmarshalJSON decodes a product from any of the wire shapes the backend
// has used: category as an object or a bare id, images as []string or
// []{url}, and the legacy single image field.
func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	name := w.Name
	if name == "" {
		name = w.Title
	}

	*p = Product{
		ID:          w.ID,
		Name:        name,
		Description: w.Description,
		Price:       w.Price,
		Size:        w.Size,
		Address:     w.Address,
		Category:    decodeCategory(w.Category),
		State:       w.State,
		Stock:       w.Stock,
		Colors:      w.Colors,
		Featured:    w.Featured,
		Images:      NormalizeImages(w.Images, w.Image),
		CreatedAt:   w.CreatedAt,
	}
	return nil
}

func decodeCategory(raw json.RawMessage) Category {
	if len(raw) == 0 {
		return Category{}
	}
	var c Category
	if err := json.Unmarshal(raw, &c); err == nil && c.ID != "" {
		return c
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return Category{ID: id}
	}
	return Category{}
}

// NormalizeImages folds every legacy image shape into one []Image.
// images may be a list of URL strings, a list of {url} objects, or absent;
// image is the legacy single field, itself a string or {url} object.
// Entries with empty URLs are dropped.
func NormalizeImages(images, image json.RawMessage) []Image {
	var out []Image

	if len(images) > 0 {
		var raws []json.RawMessage
		if err := json.Unmarshal(images, &raws); err == nil {
			for _, r := range raws {
				if img, ok := decodeImage(r); ok {
					out = append(out, img)
				}
			}
		}
	}

	if len(out) == 0 {
		if img, ok := decodeImage(image); ok {
			out = append(out, img)
		}
	}

	return out
}

func decodeImage(raw json.RawMessage) (Image, bool) {
	if len(raw) == 0 {
		return Image{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return Image{}, false
		}
		return Image{URL: s}, true
	}
	var img Image
	if err := json.Unmarshal(raw, &img); err == nil && img.URL != "" {
		return img, true
	}
	return Image{}, false
}
