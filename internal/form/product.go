package form

import (
	"context"
	"fmt"
	"strconv"

	"estate-front/internal/api"
	"estate-front/internal/cache"
	"estate-front/internal/domain"
	"estate-front/internal/mutation"
	"estate-front/internal/notify"
)

// Field names of the product form. Stock and colors belong to the
// stock-tracked schema; state to the enum schema. Both sets go through the
// same form, and empty fields stay out of the payload either way.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldSize        = "size"
	FieldAddress     = "address"
	FieldCategory    = "category"
	FieldState       = "state"
	FieldFeatured    = "featured"
	FieldStock       = "stock"
)

// createRequired are the fields a new product must carry. Edits are partial
// and require nothing.
var createRequired = []string{FieldName, FieldPrice, FieldCategory, FieldDescription, FieldState}

// numericFields must parse as numbers when non-empty.
var numericFields = []string{FieldPrice, FieldStock}

// ProductBackend is the slice of the API client the product form needs.
type ProductBackend interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, payload api.ProductPayload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, payload api.ProductPayload) (*domain.Product, error)
}

// ProductForm is the modal add/edit product form.
type ProductForm struct {
	backend  ProductBackend
	runner   *mutation.Runner
	notifier notify.Notifier

	state    ModalState
	editID   string
	fields   map[string]string
	files    []api.Upload
	previews []string
	errors   map[string]string
}

// NewProductForm creates a closed product form.
func NewProductForm(backend ProductBackend, runner *mutation.Runner, notifier notify.Notifier) *ProductForm {
	return &ProductForm{
		backend:  backend,
		runner:   runner,
		notifier: notifier,
		state:    StateClosed,
		fields:   map[string]string{},
		errors:   map[string]string{},
	}
}

// State returns the modal state.
func (f *ProductForm) State() ModalState { return f.state }

// Editing reports whether the form is editing an existing product.
func (f *ProductForm) Editing() bool { return f.editID != "" }

// OpenCreate opens an empty create form.
func (f *ProductForm) OpenCreate() {
	f.reset()
	f.state = StateReady
}

// OpenEdit opens the form pre-filled with the product's current values.
// The empty string stands for "unchanged" in an edit form, so nothing here
// is required later.
func (f *ProductForm) OpenEdit(ctx context.Context, id string) error {
	f.reset()
	f.state = StateOpening

	product, err := f.backend.GetProduct(ctx, id)
	if err != nil {
		f.state = StateClosed
		return fmt.Errorf("failed to load product for editing: %w", err)
	}

	f.editID = id
	f.fields[FieldName] = product.Name
	f.fields[FieldDescription] = product.Description
	f.fields[FieldPrice] = strconv.FormatFloat(product.Price, 'f', -1, 64)
	f.fields[FieldSize] = product.Size
	f.fields[FieldAddress] = product.Address
	f.fields[FieldCategory] = product.Category.ID
	f.fields[FieldState] = string(product.State)
	if product.Featured {
		f.fields[FieldFeatured] = "true"
	}
	f.state = StateReady
	return nil
}

// SetField records a field edit.
func (f *ProductForm) SetField(name, value string) {
	if f.state != StateReady {
		return
	}
	f.fields[name] = value
	delete(f.errors, name)
}

// Field returns the current value of a field.
func (f *ProductForm) Field(name string) string { return f.fields[name] }

// AttachImages replaces the selected image files and regenerates the local
// previews. Previews never reach the server.
func (f *ProductForm) AttachImages(files []api.Upload) {
	if f.state != StateReady {
		return
	}
	f.files = files
	f.previews = f.previews[:0]
	for _, file := range files {
		f.previews = append(f.previews, PreviewDataURL(file.Content))
	}
}

// Previews returns the ephemeral image previews for the current selection.
func (f *ProductForm) Previews() []string { return f.previews }

// Errors returns the field-keyed validation error map from the last submit.
func (f *ProductForm) Errors() map[string]string { return f.errors }

// Close discards all in-progress edits.
func (f *ProductForm) Close() {
	f.reset()
}

// Submit validates and sends the form. Validation failure populates the
// error map and aborts without a network call. On success the products
// cache is invalidated and the form closes; on a backend error it stays
// open for another attempt.
func (f *ProductForm) Submit(ctx context.Context) error {
	if f.state != StateReady {
		return fmt.Errorf("form is not ready to submit")
	}
	if !f.valid() {
		return fmt.Errorf("validation failed")
	}

	payload := f.payload()
	f.state = StateSubmitting

	_, err := f.runner.Do(ctx, func(ctx context.Context) (interface{}, error) {
		if f.Editing() {
			return f.backend.UpdateProduct(ctx, f.editID, payload)
		}
		return f.backend.CreateProduct(ctx, payload)
	}, cache.NewKey("products"))

	if err != nil {
		f.state = StateReady
		f.notifier.Error(err.Error())
		return err
	}

	if f.Editing() {
		f.notifier.Success("property updated")
	} else {
		f.notifier.Success("property added")
	}
	f.reset()
	return nil
}

// valid runs field-level validation: required presence for creates, numeric
// checks for price and stock whenever they are non-empty.
func (f *ProductForm) valid() bool {
	f.errors = map[string]string{}

	if !f.Editing() {
		for _, name := range createRequired {
			if msg := checkField(f.fields[name], "required"); msg != "" {
				f.errors[name] = msg
			}
		}
	}
	for _, name := range numericFields {
		if f.fields[name] == "" {
			continue
		}
		if msg := checkField(f.fields[name], "numeric"); msg != "" {
			f.errors[name] = msg
		}
	}
	return len(f.errors) == 0
}

// payload assembles the multipart payload. Only non-empty fields are
// included, so edit submissions are partial updates; image files are
// appended only when the user selected at least one, and an empty selection
// leaves the server-side images untouched.
func (f *ProductForm) payload() api.ProductPayload {
	fields := map[string]string{}
	for name, value := range f.fields {
		if value != "" {
			fields[name] = value
		}
	}
	return api.ProductPayload{Fields: fields, Images: f.files}
}

func (f *ProductForm) reset() {
	f.state = StateClosed
	f.editID = ""
	f.fields = map[string]string{}
	f.files = nil
	f.previews = nil
	f.errors = map[string]string{}
}
