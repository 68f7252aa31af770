// Package apitest runs an in-memory rendition of the storefront backend for
// tests: same routes, same envelopes, same {"message": ...} error bodies.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"estate-front/internal/domain"

	"github.com/go-chi/chi/v5"
)

// Server is a fake backend with in-memory state. Mutate the exported fields
// under Lock when seeding scenarios.
type Server struct {
	*httptest.Server

	// Token is the only bearer token the fake accepts.
	Token string

	mu         sync.Mutex
	Products   []domain.Product
	Categories []domain.Category
	CartLines  []CartLine
	Orders     []domain.Order
	Contacts   []domain.ContactMessage

	// ListCalls counts hits on the product listing, for deduplication
	// assertions.
	ListCalls atomic.Int64
	// CartCalls counts hits on the cart read.
	CartCalls atomic.Int64

	nextID int
}

// CartLine is one stored cart entry.
type CartLine struct {
	ProductID string
	Quantity  int
	Color     string
}

// NewServer starts the fake backend. Callers own Close.
func NewServer(token string) *Server {
	s := &Server{Token: token, nextID: 1}

	r := chi.NewRouter()
	r.Get("/api/products", s.listProducts)
	r.Get("/api/products/{id}", s.getProduct)
	r.Get("/api/categories", s.listCategories)
	r.Post("/api/contacts", s.createContact)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/api/products/add", s.createProduct)
		r.Patch("/api/products/{id}", s.updateProduct)
		r.Delete("/api/products/{id}", s.deleteProduct)
		r.Get("/api/cart/get", s.getCart)
		r.Post("/api/cart/add", s.addToCart)
		r.Put("/api/cart/update", s.updateCart)
		r.Delete("/api/cart/remove/{productId}", s.removeFromCart)
		r.Delete("/api/cart/clear", s.clearCart)
		r.Get("/api/cart/checkout", s.checkout)
		r.Get("/api/order/all/user", s.listOrders)
		r.Get("/api/contacts", s.listContacts)
		r.Get("/api/contacts/stats", s.contactStats)
		r.Patch("/api/contacts/{id}/status", s.updateContactStatus)
		r.Delete("/api/contacts/{id}", s.deleteContact)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Lock takes the state mutex for direct seeding.
func (s *Server) Lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// AddProduct seeds a product and returns its generated id.
func (s *Server) AddProduct(p domain.Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("prod-%d", s.nextID)
		s.nextID++
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.Products = append(s.Products, p)
	return p.ID
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header != "Bearer "+s.Token {
			respondMessage(w, http.StatusUnauthorized, "please sign in")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.ListCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	matched := make([]domain.Product, 0, len(s.Products))
	for _, p := range s.Products {
		if name := q.Get("name"); name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			continue
		}
		if cat := q.Get("category"); cat != "" && p.Category.ID != cat {
			continue
		}
		if min := q.Get("minPrice"); min != "" {
			if v, err := strconv.ParseFloat(min, 64); err == nil && p.Price < v {
				continue
			}
		}
		if max := q.Get("maxPrice"); max != "" {
			if v, err := strconv.ParseFloat(max, 64); err == nil && p.Price > v {
				continue
			}
		}
		if featured := q.Get("featured"); featured == "true" && !p.Featured {
			continue
		}
		matched = append(matched, p)
	}

	asc := q.Get("order") == "asc"
	switch q.Get("sort") {
	case "price":
		sort.SliceStable(matched, func(i, j int) bool {
			if asc {
				return matched[i].Price < matched[j].Price
			}
			return matched[i].Price > matched[j].Price
		})
	case "name":
		sort.SliceStable(matched, func(i, j int) bool {
			if asc {
				return matched[i].Name < matched[j].Name
			}
			return matched[i].Name > matched[j].Name
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			if asc {
				return matched[i].CreatedAt.Before(matched[j].CreatedAt)
			}
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	total := len(matched)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":       matched[start:end],
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
	})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findProduct(chi.URLParam(r, "id")); p != nil {
		respondJSON(w, http.StatusOK, p)
		return
	}
	respondMessage(w, http.StatusNotFound, "property not found")
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid form data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	p := domain.Product{
		ID:          fmt.Sprintf("prod-%d", s.nextID),
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Size:        r.FormValue("size"),
		Address:     r.FormValue("address"),
		Category:    domain.Category{ID: r.FormValue("category")},
		State:       domain.ProductState(r.FormValue("state")),
		Featured:    r.FormValue("featured") == "true",
		CreatedAt:   time.Now(),
	}
	s.nextID++
	if stock := r.FormValue("stock"); stock != "" {
		if v, err := strconv.Atoi(stock); err == nil {
			p.Stock = &v
		}
	}
	if r.MultipartForm != nil {
		for i := range r.MultipartForm.File["images"] {
			p.Images = append(p.Images, domain.Image{
				URL: fmt.Sprintf("/uploads/%s-%d.jpg", p.ID, i),
			})
		}
	}
	s.Products = append(s.Products, p)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid form data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(chi.URLParam(r, "id"))
	if p == nil {
		respondMessage(w, http.StatusNotFound, "property not found")
		return
	}

	// Partial update: only fields present in the form change.
	if v := r.FormValue("name"); v != "" {
		p.Name = v
	}
	if v := r.FormValue("description"); v != "" {
		p.Description = v
	}
	if v := r.FormValue("price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			p.Price = price
		}
	}
	if v := r.FormValue("size"); v != "" {
		p.Size = v
	}
	if v := r.FormValue("address"); v != "" {
		p.Address = v
	}
	if v := r.FormValue("category"); v != "" {
		p.Category = domain.Category{ID: v}
	}
	if v := r.FormValue("state"); v != "" {
		p.State = domain.ProductState(v)
	}
	if v := r.FormValue("stock"); v != "" {
		if stock, err := strconv.Atoi(v); err == nil {
			p.Stock = &stock
		}
	}
	if r.MultipartForm != nil && len(r.MultipartForm.File["images"]) > 0 {
		p.Images = nil
		for i := range r.MultipartForm.File["images"] {
			p.Images = append(p.Images, domain.Image{
				URL: fmt.Sprintf("/uploads/%s-%d.jpg", p.ID, i),
			})
		}
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i, p := range s.Products {
		if p.ID == id {
			s.Products = append(s.Products[:i], s.Products[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"message": "property deleted"})
			return
		}
	}
	respondMessage(w, http.StatusNotFound, "property not found")
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.Categories)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.CartCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Color     string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findProduct(req.ProductID) == nil {
		respondMessage(w, http.StatusNotFound, "property not found")
		return
	}
	for i := range s.CartLines {
		if s.CartLines[i].ProductID == req.ProductID {
			s.CartLines[i].Quantity += req.Quantity
			respondJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
			return
		}
	}
	s.CartLines = append(s.CartLines, CartLine(req))
	respondJSON(w, http.StatusOK, map[string]string{"message": "added to cart"})
}

func (s *Server) updateCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Color     string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.CartLines {
		if s.CartLines[i].ProductID == req.ProductID {
			s.CartLines[i].Quantity = req.Quantity
			s.CartLines[i].Color = req.Color
			respondJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
			return
		}
	}
	respondMessage(w, http.StatusNotFound, "item not in cart")
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "productId")
	for i := range s.CartLines {
		if s.CartLines[i].ProductID == id {
			s.CartLines = append(s.CartLines[:i], s.CartLines[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"message": "removed from cart"})
			return
		}
	}
	respondMessage(w, http.StatusNotFound, "item not in cart")
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CartLines = nil
	respondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := domain.CheckoutResult{
		AvailableProducts:   []domain.OrderLine{},
		UnavailableProducts: []domain.UnavailableProduct{},
	}
	var remaining []CartLine
	for _, line := range s.CartLines {
		p := s.findProduct(line.ProductID)
		switch {
		case p == nil:
			result.UnavailableProducts = append(result.UnavailableProducts, domain.UnavailableProduct{
				Name:   line.ProductID,
				Reason: "no longer listed",
			})
			remaining = append(remaining, line)
		case p.TracksStock() && line.Quantity > *p.Stock:
			result.UnavailableProducts = append(result.UnavailableProducts, domain.UnavailableProduct{
				Name:   p.Name,
				Reason: "out of stock",
			})
			remaining = append(remaining, line)
		default:
			result.AvailableProducts = append(result.AvailableProducts, domain.OrderLine{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  line.Quantity,
				Price:     p.Price,
			})
			result.TotalAmount += p.Price * float64(line.Quantity)
		}
	}
	s.CartLines = remaining

	if len(result.AvailableProducts) > 0 {
		s.Orders = append(s.Orders, domain.Order{
			ID:        fmt.Sprintf("order-%d", len(s.Orders)+1),
			Lines:     result.AvailableProducts,
			Total:     result.TotalAmount,
			Status:    domain.OrderPending,
			OrderDate: time.Now(),
		})
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.Orders
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Contacts = append(s.Contacts, domain.ContactMessage{
		ID:        fmt.Sprintf("contact-%d", len(s.Contacts)+1),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    domain.ContactPending,
		IP:        r.RemoteAddr,
		CreatedAt: time.Now(),
	})
	respondJSON(w, http.StatusCreated, map[string]string{"message": "message received"})
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	matched := make([]domain.ContactMessage, 0, len(s.Contacts))
	for _, c := range s.Contacts {
		if status := q.Get("status"); status != "" && string(c.Status) != status {
			continue
		}
		if search := q.Get("search"); search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(c.Name), needle) &&
				!strings.Contains(strings.ToLower(c.Subject), needle) &&
				!strings.Contains(strings.ToLower(c.Email), needle) {
				continue
			}
		}
		matched = append(matched, c)
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	total := len(matched)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"contacts":   matched[start:end],
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
	})
}

func (s *Server) contactStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.ContactStats{Total: len(s.Contacts)}
	for _, c := range s.Contacts {
		switch c.Status {
		case domain.ContactPending:
			stats.Pending++
		case domain.ContactRead:
			stats.Read++
		case domain.ContactReplied:
			stats.Replied++
		case domain.ContactArchived:
			stats.Archived++
		}
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.ContactStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.Contacts {
		if s.Contacts[i].ID == id {
			s.Contacts[i].Status = req.Status
			respondJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
			return
		}
	}
	respondMessage(w, http.StatusNotFound, "message not found")
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range s.Contacts {
		if s.Contacts[i].ID == id {
			s.Contacts = append(s.Contacts[:i], s.Contacts[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
			return
		}
	}
	respondMessage(w, http.StatusNotFound, "message not found")
}

func (s *Server) findProduct(id string) *domain.Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// cartResponse builds the cart envelope with server-side totals. Callers
// hold s.mu.
func (s *Server) cartResponse() map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(s.CartLines))
	totalQuantity := 0
	totalPrice := 0.0
	for i, line := range s.CartLines {
		p := s.findProduct(line.ProductID)
		if p == nil {
			continue
		}
		items = append(items, map[string]interface{}{
			"_id":      fmt.Sprintf("line-%d", i+1),
			"product":  p,
			"quantity": line.Quantity,
			"color":    line.Color,
		})
		totalQuantity += line.Quantity
		totalPrice += p.Price * float64(line.Quantity)
	}
	return map[string]interface{}{
		"cart":          items,
		"totalQuantity": totalQuantity,
		"totalPrice":    totalPrice,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
