package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/cart"
	"github.com/projectbar/barweb/internal/models"
)

// TableHandler drives the per-table ordering flow reached from a scanned QR
// code: menu browsing with a cart, cart mutations, and checkout. The table
// number comes from the URL path segment; there is no other customer session
// identity.
type TableHandler struct {
	API          *api.Client
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// tableFromPath parses the {mesa} path segment. Zero means no usable table
// context, which gets the full-screen "scan the code" state.
func tableFromPath(r *http.Request) int {
	n, err := strconv.Atoi(r.PathValue("mesa"))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// Menu renders the ordering page for one table.
func (h *TableHandler) Menu(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r)
	if table == 0 {
		h.NoTable(w, r)
		return
	}

	category := strings.ToUpper(r.URL.Query().Get("categoria"))
	search := strings.TrimSpace(r.URL.Query().Get("buscar"))

	products, err := h.API.AllProducts(r.Context())
	if err != nil {
		slog.Error("Failed to fetch menu for table", "table", table, "error", err)
	}

	session, _ := h.SessionStore.Get(r, CustomerSession)
	c := cart.FromSession(session)
	c.SetTableNumber(table)

	tmpl := h.Templates.Get("pedido.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"Table":      table,
		"Products":   filterProducts(products, category, search),
		"Categories": models.Categories(),
		"Category":   category,
		"Search":     search,
		"Cart":       c,
		"CartCount":  c.ItemCount(),
		"CartTotal":  c.Total(),
		"ClientName": c.ClientName,
		"LoadFailed": err != nil,
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    GetFlash(session),
	}
	if err := cart.Save(session, c, w, r); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	tmpl.Execute(w, data)
}

// NoTable is the dedicated full-screen state when the table segment is
// missing or not a positive integer.
func (h *TableHandler) NoTable(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("sin_mesa.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	tmpl.Execute(w, nil)
}

// AddToCart merges one product line into the session cart.
func (h *TableHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r)
	if table == 0 {
		h.NoTable(w, r)
		return
	}
	session, _ := h.SessionStore.Get(r, CustomerSession)
	c := cart.FromSession(session)
	c.SetTableNumber(table)

	productID, err := strconv.Atoi(r.FormValue("product_id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Producto inválido."})
		session.Save(r, w)
		http.Redirect(w, r, tablePath(table), http.StatusSeeOther)
		return
	}
	qty := 1
	if q, err := strconv.Atoi(r.FormValue("quantity")); err == nil && q > 0 {
		qty = q
	}

	// The price shown comes back with the form, but the product lookup keeps
	// the cart honest about names and availability.
	product := models.Product{ID: productID, Name: r.FormValue("name")}
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	if detail, err := h.API.ProductByID(r.Context(), productID); err == nil {
		product = models.Product{
			ID:       detail.ID,
			Name:     detail.Name,
			Code:     detail.Code,
			Category: detail.Category,
			Price:    detail.Price,
		}
		price = detail.Price
	}

	c.AddItem(product, price, qty)
	session.AddFlash(FlashMessage{Type: "success", Message: product.Name + " agregado"})
	if err := cart.Save(session, c, w, r); err != nil {
		slog.Error("Failed to save cart", "error", err)
	}
	http.Redirect(w, r, tablePath(table), http.StatusSeeOther)
}

// UpdateCart overwrites a line's quantity; zero or less removes the line.
func (h *TableHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r)
	if table == 0 {
		h.NoTable(w, r)
		return
	}
	session, _ := h.SessionStore.Get(r, CustomerSession)
	c := cart.FromSession(session)

	productID, err := strconv.Atoi(r.FormValue("product_id"))
	if err == nil {
		qty, qerr := strconv.Atoi(r.FormValue("quantity"))
		if qerr != nil {
			qty = 0
		}
		c.UpdateQuantity(productID, qty)
	}
	if err := cart.Save(session, c, w, r); err != nil {
		slog.Error("Failed to save cart", "error", err)
	}
	http.Redirect(w, r, tablePath(table), http.StatusSeeOther)
}

// RemoveFromCart deletes a line; removing an absent product is a no-op.
func (h *TableHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r)
	if table == 0 {
		h.NoTable(w, r)
		return
	}
	session, _ := h.SessionStore.Get(r, CustomerSession)
	c := cart.FromSession(session)

	if productID, err := strconv.Atoi(r.FormValue("product_id")); err == nil {
		c.RemoveItem(productID)
	}
	if err := cart.Save(session, c, w, r); err != nil {
		slog.Error("Failed to save cart", "error", err)
	}
	http.Redirect(w, r, tablePath(table), http.StatusSeeOther)
}

// Checkout validates locally, performs exactly one submission, and clears the
// cart only on success. A failed submission leaves the cart untouched so the
// customer can retry; nothing here retries automatically.
func (h *TableHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r)
	if table == 0 {
		h.NoTable(w, r)
		return
	}
	session, _ := h.SessionStore.Get(r, CustomerSession)
	c := cart.FromSession(session)

	name := strings.TrimSpace(r.FormValue("client_name"))
	notes := strings.TrimSpace(r.FormValue("notes"))

	// Validation failures never reach the network layer.
	validationErrors := make([]string, 0)
	if name == "" {
		validationErrors = append(validationErrors, "Por favor ingresa tu nombre.")
	} else if len([]rune(name)) < 4 {
		validationErrors = append(validationErrors, "El nombre debe tener al menos 4 caracteres.")
	}
	if c.IsEmpty() {
		validationErrors = append(validationErrors, "Tu carrito está vacío.")
	}
	if len(validationErrors) > 0 {
		for _, msg := range validationErrors {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		session.Save(r, w)
		http.Redirect(w, r, tablePath(table), http.StatusSeeOther)
		return
	}

	c.SetClientName(name)
	req := api.CreateOrderRequest{
		TableNumber: table,
		ClientName:  name,
		Notes:       notes,
	}
	for _, item := range c.Items {
		req.Products = append(req.Products, api.CreateOrderLine{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.API.CreateOrder(r.Context(), req)
	if err != nil {
		slog.Error("Order submission failed", "table", table, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "No pudimos enviar tu pedido. Inténtalo de nuevo."})
		// Cart stays as-is for the retry.
		if err := cart.Save(session, c, w, r); err != nil {
			slog.Error("Failed to save session", "error", err)
		}
		http.Redirect(w, r, tablePath(table), http.StatusSeeOther)
		return
	}

	slog.Info("Order submitted", "order", order.ID, "table", table, "items", len(req.Products))
	c.Clear()
	session.AddFlash(FlashMessage{Type: "success", Message: "¡Pedido enviado! Un mesero te atenderá pronto."})
	if err := cart.Save(session, c, w, r); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, fmt.Sprintf("/pedido-confirmado/%d", table), http.StatusSeeOther)
}

func tablePath(table int) string {
	return fmt.Sprintf("/pedido/%d", table)
}
