package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/models"
	"github.com/projectbar/barweb/internal/orders"
)

// StaffHandler is the management screen: full order list with table and
// status filters, status changes, and billing (generate by table, by client,
// or by explicit selection, plus the PDF download proxy).
type StaffHandler struct {
	API          *api.Client
	Board        *orders.Board
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// client returns the API client carrying this request's staff credentials.
func (h *StaffHandler) client(r *http.Request) *api.Client {
	if token := staffToken(h.SessionStore, r); token != "" {
		return h.API.WithToken(token)
	}
	return h.API
}

func (h *StaffHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	tableFilter, _ := strconv.Atoi(r.URL.Query().Get("mesa"))
	statusFilter := r.URL.Query().Get("estado")

	all := h.Board.Projection().Orders()
	counts := h.Board.Projection().CountByStatus()

	filtered := make([]models.Order, 0, len(all))
	for _, o := range all {
		if tableFilter > 0 && o.TableNumber != tableFilter {
			continue
		}
		if statusFilter != "" && string(o.Status) != statusFilter {
			continue
		}
		filtered = append(filtered, o)
	}

	// Bills and stock load in parallel; neither failing should blank the
	// whole screen.
	var (
		bills     []models.Bill
		inventory []models.InventoryEntry
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		bills, err = h.client(r).AllBills(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		inventory, err = h.client(r).Inventory(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			clearStaffSession(h.SessionStore, w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Warn("Could not fetch bills or inventory", "error", err)
	}

	user, _ := staffUser(h.SessionStore, r)

	tmpl := h.Templates.Get("orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, StaffSession)
	data := map[string]interface{}{
		"Orders":        filtered,
		"Bills":         bills,
		"Inventory":     inventory,
		"User":          user,
		"TableFilter":   r.URL.Query().Get("mesa"),
		"StatusFilter":  statusFilter,
		"PendingCount":  counts[models.StatusPending],
		"ProgressCount": counts[models.StatusInProgress],
		"ReadyCount":    counts[models.StatusReady],
		"UpdatedAt":     h.Board.Projection().UpdatedAt(),
		"DemoMode":      h.Board.DemoMode(),
		"CsrfField":     csrf.TemplateField(r),
		"Flashes":       GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *StaffHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, StaffSession)

	orderID, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	status := models.OrderStatus(r.FormValue("status"))

	err = h.Board.ChangeStatus(r.Context(), orderID, status)
	switch {
	case err == nil:
		session.AddFlash(FlashMessage{Type: "success", Message: "Orden actualizada."})
	case errors.Is(err, orders.ErrDemoApplied):
		session.AddFlash(FlashMessage{Type: "warning", Message: "Actualizada solo localmente (modo demo)."})
	case errors.Is(err, api.ErrUnauthorized):
		clearStaffSession(h.SessionStore, w, r)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	default:
		slog.Error("Status change failed", "order", orderID, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "No se pudo actualizar la orden."})
	}
	session.Save(r, w)
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

// GenerateBill covers the three billing modes behind one form. mode is
// "table", "client" or "selection".
func (h *StaffHandler) GenerateBill(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, StaffSession)

	var (
		bill models.Bill
		err  error
	)
	switch mode := r.FormValue("mode"); mode {
	case "table":
		table, terr := strconv.Atoi(r.FormValue("table"))
		client := r.FormValue("client_name")
		if terr != nil || table < 1 || client == "" {
			err = fmt.Errorf("billing by table needs a table number and client name")
			break
		}
		bill, err = h.client(r).GenerateBillByTable(r.Context(), table, client)
	case "client":
		client := r.FormValue("client_name")
		if client == "" {
			err = fmt.Errorf("billing by client needs a client name")
			break
		}
		bill, err = h.client(r).GenerateBillByClient(r.Context(), client)
	case "selection":
		var ids []int
		for _, raw := range r.Form["order_ids"] {
			if id, ierr := strconv.Atoi(raw); ierr == nil {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			err = fmt.Errorf("billing by selection needs at least one order")
			break
		}
		bill, err = h.client(r).GenerateBillBySelection(r.Context(), ids)
	default:
		err = fmt.Errorf("unknown billing mode %q", mode)
	}

	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			clearStaffSession(h.SessionStore, w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Bill generation failed", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "No se pudo generar la factura."})
		session.Save(r, w)
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	h.Board.Refresh(r.Context())
	session.AddFlash(FlashMessage{Type: "success", Message: fmt.Sprintf("Factura #%d generada (%s).", bill.ID, FormatPrice(bill.TotalAmount))})
	session.Save(r, w)
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

// DownloadBillPDF proxies the backend's rendered PDF to the browser.
func (h *StaffHandler) DownloadBillPDF(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid bill ID", http.StatusBadRequest)
		return
	}

	pdf, err := h.client(r).DownloadBillPDF(r.Context(), billID)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			clearStaffSession(h.SessionStore, w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Bill PDF download failed", "bill", billID, "error", err)
		http.Error(w, "Could not download bill", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=factura_%d.pdf", billID))
	w.Write(pdf)
}
