package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/projectbar/barweb/internal/qr"
)

// QRHandler generates the entry-point codes: a menu-only code (/carta) and
// per-table ordering codes (/pedido/{mesa}), previewable on the admin page
// and downloadable as branded posters.
type QRHandler struct {
	Templates     *TemplateCache
	SessionStore  *sessions.CookieStore
	PublicBaseURL string
}

const maxTables = 50

// targetURL resolves the scanned destination for a code type and table.
func (h *QRHandler) targetURL(qrType string, table int) string {
	if qrType == "menu" {
		return h.PublicBaseURL + "/carta"
	}
	return fmt.Sprintf("%s/pedido/%d", h.PublicBaseURL, table)
}

func (h *QRHandler) Page(w http.ResponseWriter, r *http.Request) {
	qrType := r.URL.Query().Get("tipo")
	if qrType != "menu" {
		qrType = "order"
	}
	table, _ := strconv.Atoi(r.URL.Query().Get("mesa"))
	if table < 1 {
		table = 1
	}
	count, _ := strconv.Atoi(r.URL.Query().Get("mesas"))
	if count < 1 {
		count = 10
	}
	if count > maxTables {
		count = maxTables
	}

	tmpl := h.Templates.Get("qr.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, StaffSession)
	data := map[string]interface{}{
		"Type":       qrType,
		"Table":      table,
		"TableCount": count,
		"TargetURL":  h.targetURL(qrType, table),
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Image serves the plain QR code PNG used for the preview.
func (h *QRHandler) Image(w http.ResponseWriter, r *http.Request) {
	qrType := r.URL.Query().Get("tipo")
	table, _ := strconv.Atoi(r.URL.Query().Get("mesa"))
	if qrType != "menu" && table < 1 {
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	png, err := qr.Code(h.targetURL(qrType, table), size)
	if err != nil {
		slog.Error("QR render failed", "error", err)
		http.Error(w, "Could not render QR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Poster serves the downloadable branded poster for one table (or the menu).
func (h *QRHandler) Poster(w http.ResponseWriter, r *http.Request) {
	qrType := r.URL.Query().Get("tipo")
	table, _ := strconv.Atoi(r.URL.Query().Get("mesa"))
	if qrType != "menu" && table < 1 {
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}

	opts := qr.PosterOptions{}
	filename := "projectbar-menu-qr.png"
	if qrType == "menu" {
		opts.Caption = "Escanea para ver la carta"
	} else {
		opts.Caption = fmt.Sprintf("Mesa %d · Escanea para pedir", table)
		filename = fmt.Sprintf("projectbar-mesa-%d-qr.png", table)
	}

	png, err := qr.PosterPNG(h.targetURL(qrType, table), opts)
	if err != nil {
		slog.Error("Poster render failed", "error", err)
		http.Error(w, "Could not render poster", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(png)
}
