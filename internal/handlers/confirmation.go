package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gorilla/sessions"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/models"
	"github.com/projectbar/barweb/internal/orders"
)

// ConfirmationHandler shows a table's active orders after checkout. The page
// refreshes itself on a fixed interval (meta refresh) to approximate live
// status; terminal orders drop out of the list.
type ConfirmationHandler struct {
	API            *api.Client
	Board          *orders.Board
	Templates      *TemplateCache
	SessionStore   *sessions.CookieStore
	RefreshSeconds int
}

func (h *ConfirmationHandler) Show(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r)
	if table == 0 {
		tmpl := h.Templates.Get("sin_mesa.html")
		if tmpl == nil {
			http.Error(w, "Template not found", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		tmpl.Execute(w, nil)
		return
	}

	tableOrders, err := h.API.OrdersByTable(r.Context(), table)
	stale := false
	if err != nil {
		// Read path degrades to the shared snapshot rather than erroring;
		// the next refresh retries.
		slog.Warn("Confirmation fetch failed, using board snapshot", "table", table, "error", err)
		tableOrders = h.Board.Projection().ForTable(table)
		stale = true
	}

	active := make([]models.Order, 0, len(tableOrders))
	for _, o := range tableOrders {
		if !o.Status.Terminal() {
			active = append(active, o)
		}
	}
	// The backend does not guarantee list order; newest first, same as the
	// board snapshot.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Date.After(active[j].Date)
	})

	refresh := h.RefreshSeconds
	if refresh < 1 {
		refresh = 30
	}

	tmpl := h.Templates.Get("confirmacion.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, CustomerSession)
	data := map[string]interface{}{
		"Table":          table,
		"Orders":         active,
		"Stale":          stale,
		"RefreshSeconds": refresh,
		"MenuPath":       fmt.Sprintf("/pedido/%d", table),
		"Flashes":        GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
