package handlers

import (
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/projectbar/barweb/internal/models"
)

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: make(template.FuncMap),
	}
}

func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses all templates in the templates/ dir
func (tc *TemplateCache) Load(dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Global template functions shared by every page.
	tc.funcs["formatPrice"] = FormatPrice
	tc.funcs["formatTime"] = FormatTime
	tc.funcs["statusLabel"] = func(s models.OrderStatus) string { return s.Label() }
	tc.funcs["statusClass"] = StatusClass
	tc.funcs["nextStatus"] = func(s models.OrderStatus) models.OrderStatus {
		next, _ := s.Next()
		return next
	}
	tc.funcs["tablesUpTo"] = func(n int) []int {
		tables := make([]int, n)
		for i := range tables {
			tables[i] = i + 1
		}
		return tables
	}

	// Find all HTML files
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	for _, file := range files {
		name := filepath.Base(file)
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFiles(file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// FormatPrice renders an amount in Colombian pesos, no decimals. Negative
// amounts (refunds, corrections) round away from zero and keep a leading
// minus sign.
func FormatPrice(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount + 0.5)
	s := fmt.Sprintf("%d", whole)
	// Insert thousands separators right to left.
	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digit)
	}
	return "$" + sign + string(out)
}

// FormatTime renders an order timestamp as HH:MM, matching the staff boards.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Local().Format("15:04")
}

// StatusClass maps a status to the CSS class suffix composed into badge-*
// and status-* classes. Unknown statuses get the generic look rather than
// breaking the page.
func StatusClass(s models.OrderStatus) string {
	switch s {
	case models.StatusPending:
		return "pending"
	case models.StatusInProgress:
		return "progress"
	case models.StatusReady:
		return "ready"
	case models.StatusDelivered:
		return "delivered"
	case models.StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}
