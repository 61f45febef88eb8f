package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/cache"
	"github.com/projectbar/barweb/internal/config"
	"github.com/projectbar/barweb/internal/handlers"
	"github.com/projectbar/barweb/internal/orders"
)

func main() {
	// Configure slog as early as possible in main.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; JSONHandler might suit production.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Backend client. The background poller authenticates with the
	// service account when one is configured.
	apiClient := api.New(cfg.APIBaseURL, cfg.APITimeout)
	boardClient := apiClient
	if cfg.ServiceUsername != "" {
		boardClient = apiClient.WithToken(api.Token(cfg.ServiceUsername, cfg.ServicePassword))
	}

	// 3. Snapshot cache (optional; the board runs without it)
	var snapshots orders.SnapshotStore
	if cfg.CachePath != "" {
		store, err := cache.NewStore(cfg.CachePath)
		if err != nil {
			slog.Warn("Snapshot cache unavailable, continuing without it", "path", cfg.CachePath, "error", err)
		} else {
			defer store.Close()
			snapshots = store
		}
	}

	// 4. Order board: one shared projection polled for all staff screens
	board := orders.NewBoard(boardClient, snapshots, cfg.StaffPollInterval, cfg.DemoMode)

	// 5. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 6. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 7. Setup Handlers
	menuHandler := &handlers.MenuHandler{
		API:          apiClient,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	tableHandler := &handlers.TableHandler{
		API:          apiClient,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	confirmationHandler := &handlers.ConfirmationHandler{
		API:            apiClient,
		Board:          board,
		Templates:      templates,
		SessionStore:   sessionStore,
		RefreshSeconds: cfg.CustomerRefresh,
	}
	waiterHandler := &handlers.WaiterHandler{
		Board:          board,
		Templates:      templates,
		SessionStore:   sessionStore,
		RefreshSeconds: int(cfg.StaffPollInterval / time.Second),
	}
	staffHandler := &handlers.StaffHandler{
		API:          apiClient,
		Board:        board,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	authHandler := &handlers.AuthHandler{
		API:          apiClient,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	qrHandler := &handlers.QRHandler{
		Templates:     templates,
		SessionStore:  sessionStore,
		PublicBaseURL: cfg.PublicBaseURL,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate limiter for order submission (double-click mitigation is
	// best-effort by design)
	rateLimiter := handlers.NewRateLimiter(3 * time.Second)

	// Public routes
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/carta", http.StatusSeeOther)
	})
	mux.HandleFunc("/carta", menuHandler.Carta)
	mux.HandleFunc("/pedido", tableHandler.NoTable) // scanned a bad code
	mux.HandleFunc("/pedido/{mesa}", tableHandler.Menu)
	mux.HandleFunc("POST /pedido/{mesa}/cart/add", tableHandler.AddToCart)
	mux.HandleFunc("POST /pedido/{mesa}/cart/update", tableHandler.UpdateCart)
	mux.HandleFunc("POST /pedido/{mesa}/cart/remove", tableHandler.RemoveFromCart)
	mux.HandleFunc("POST /pedido/{mesa}/checkout", rateLimiter.Middleware(tableHandler.Checkout))
	mux.HandleFunc("/pedido-confirmado/{mesa}", confirmationHandler.Show)

	// Waiter board
	mux.HandleFunc("/meseros", waiterHandler.Panel)
	mux.HandleFunc("POST /meseros/refresh", waiterHandler.Refresh)
	mux.HandleFunc("POST /meseros/status", waiterHandler.UpdateStatus)

	// Login
	mux.HandleFunc("/login", authHandler.LoginGet)
	mux.HandleFunc("POST /login", authHandler.LoginPost)
	mux.HandleFunc("/logout", authHandler.Logout)

	// Staff routes behind the session gate
	mux.HandleFunc("/orders", authHandler.AuthMiddleware(staffHandler.ListOrders))
	mux.HandleFunc("POST /orders/status", authHandler.AuthMiddleware(staffHandler.UpdateOrderStatus))
	mux.HandleFunc("POST /orders/bill", authHandler.AuthMiddleware(staffHandler.GenerateBill))
	mux.HandleFunc("/orders/bill/{id}/pdf", authHandler.AuthMiddleware(staffHandler.DownloadBillPDF))
	mux.HandleFunc("/admin/qr", authHandler.AuthMiddleware(qrHandler.Page))
	mux.HandleFunc("/admin/qr/image", authHandler.AuthMiddleware(qrHandler.Image))
	mux.HandleFunc("/admin/qr/poster", authHandler.AuthMiddleware(qrHandler.Poster))

	// 8. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 9. Start the order board and the server with graceful shutdown
	boardCtx, stopBoard := context.WithCancel(context.Background())
	board.Start(boardCtx)
	defer stopBoard()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "backend", cfg.APIBaseURL, "demo", cfg.DemoMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")
	board.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
