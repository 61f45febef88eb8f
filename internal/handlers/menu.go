package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/models"
)

// MenuHandler serves the read-only public menu reached from the "view menu"
// QR code. No table context, no cart.
type MenuHandler struct {
	API          *api.Client
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *MenuHandler) Carta(w http.ResponseWriter, r *http.Request) {
	category := strings.ToUpper(r.URL.Query().Get("categoria"))
	search := strings.TrimSpace(r.URL.Query().Get("buscar"))

	products, err := h.API.AllProducts(r.Context())
	if err != nil {
		slog.Error("Failed to fetch menu", "error", err)
		products = nil
	}

	filtered := filterProducts(products, category, search)

	tmpl := h.Templates.Get("carta.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, CustomerSession)
	data := map[string]interface{}{
		"Products":    filtered,
		"Categories":  models.Categories(),
		"Category":    category,
		"Search":      search,
		"LoadFailed":  err != nil,
		"Flashes":     GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// filterProducts applies the category chip and the name search box.
func filterProducts(products []models.Product, category, search string) []models.Product {
	if category == "" || category == "ALL" {
		category = ""
	}
	lowered := strings.ToLower(search)

	var out []models.Product
	for _, p := range products {
		if category != "" && string(p.Category) != category {
			continue
		}
		if lowered != "" && !strings.Contains(strings.ToLower(p.Name), lowered) {
			continue
		}
		out = append(out, p)
	}
	return out
}
