package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/projectbar/barweb/internal/models"
	"github.com/projectbar/barweb/internal/orders"
)

// WaiterHandler is the floor-staff board: every order, newest first, with
// one-tap status advancement. It reads the shared polling projection, so the
// page is as fresh as the last poll tick; the page itself re-requests every
// poll interval.
type WaiterHandler struct {
	Board          *orders.Board
	Templates      *TemplateCache
	SessionStore   *sessions.CookieStore
	RefreshSeconds int
}

func (h *WaiterHandler) Panel(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("estado")
	all := h.Board.Projection().Orders()
	counts := h.Board.Projection().CountByStatus()

	filtered := make([]models.Order, 0, len(all))
	for _, o := range all {
		switch filter {
		case "", "ALL":
			filtered = append(filtered, o)
		case "ACTIVE":
			if !o.Status.Terminal() {
				filtered = append(filtered, o)
			}
		default:
			if string(o.Status) == filter {
				filtered = append(filtered, o)
			}
		}
	}

	refresh := h.RefreshSeconds
	if refresh < 1 {
		refresh = 10
	}

	tmpl := h.Templates.Get("meseros.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, StaffSession)
	data := map[string]interface{}{
		"Orders":         filtered,
		"Filter":         filter,
		"PendingCount":   counts[models.StatusPending],
		"ProgressCount":  counts[models.StatusInProgress],
		"ReadyCount":     counts[models.StatusReady],
		"UpdatedAt":      h.Board.Projection().UpdatedAt(),
		"DemoMode":       h.Board.DemoMode(),
		"RefreshSeconds": refresh,
		"CsrfField":      csrf.TemplateField(r),
		"Flashes":        GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Refresh is the manual refresh button: same fetch, immediately, without
// touching the poll timer.
func (h *WaiterHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Board.Refresh(r.Context())
	http.Redirect(w, r, "/meseros", http.StatusSeeOther)
}

// UpdateStatus advances one order to the requested status. The backend
// decides whether the transition is legal.
func (h *WaiterHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, StaffSession)

	orderID, err := strconv.Atoi(r.FormValue("order_id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Pedido inválido."})
		session.Save(r, w)
		http.Redirect(w, r, "/meseros", http.StatusSeeOther)
		return
	}
	status := models.OrderStatus(r.FormValue("status"))

	err = h.Board.ChangeStatus(r.Context(), orderID, status)
	switch {
	case err == nil:
		session.AddFlash(FlashMessage{Type: "success", Message: "Pedido actualizado a " + status.Label()})
	case errors.Is(err, orders.ErrDemoApplied):
		session.AddFlash(FlashMessage{Type: "warning", Message: "Actualizado solo localmente (modo demo)."})
	default:
		slog.Error("Status change failed", "order", orderID, "status", status, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "No se pudo actualizar el pedido."})
	}
	session.Save(r, w)
	http.Redirect(w, r, "/meseros", http.StatusSeeOther)
}
