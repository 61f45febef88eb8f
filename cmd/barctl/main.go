// barctl is the operator CLI: batch-render QR posters, check backend health,
// and list current orders from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/models"
	"github.com/projectbar/barweb/internal/qr"
)

var (
	apiBaseURL    string
	publicBaseURL string
	username      string
	password      string
)

func main() {
	root := &cobra.Command{
		Use:           "barctl",
		Short:         "Operator tools for the bar ordering frontend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&apiBaseURL, "api", envOr("API_BASE_URL", "http://localhost:8090"), "backend base URL")
	root.PersistentFlags().StringVar(&publicBaseURL, "public-url", envOr("PUBLIC_BASE_URL", "http://localhost:8585"), "public base URL encoded in QR codes")
	root.PersistentFlags().StringVar(&username, "username", os.Getenv("SERVICE_USERNAME"), "backend username")
	root.PersistentFlags().StringVar(&password, "password", os.Getenv("SERVICE_PASSWORD"), "backend password")

	root.AddCommand(qrCmd(), healthCmd(), ordersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func client() *api.Client {
	c := api.New(apiBaseURL, 10*time.Second)
	if username != "" {
		c = c.WithToken(api.Token(username, password))
	}
	return c
}

func qrCmd() *cobra.Command {
	var (
		tables int
		outDir string
		menu   bool
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render QR posters for tables into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}

			if menu {
				png, err := qr.PosterPNG(publicBaseURL+"/carta", qr.PosterOptions{
					Caption: "Escanea para ver la carta",
				})
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, "projectbar-menu-qr.png")
				if err := os.WriteFile(path, png, 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", path)
			}

			for table := 1; table <= tables; table++ {
				url := fmt.Sprintf("%s/pedido/%d", publicBaseURL, table)
				png, err := qr.PosterPNG(url, qr.PosterOptions{
					Caption: fmt.Sprintf("Mesa %d · Escanea para pedir", table),
				})
				if err != nil {
					return fmt.Errorf("rendering table %d: %w", table, err)
				}
				path := filepath.Join(outDir, fmt.Sprintf("projectbar-mesa-%d-qr.png", table))
				if err := os.WriteFile(path, png, 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", path)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&tables, "tables", 10, "number of tables to render")
	cmd.Flags().StringVar(&outDir, "out", "./qr-posters", "output directory")
	cmd.Flags().BoolVar(&menu, "menu", true, "also render the menu-only poster")
	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			start := time.Now()
			products, err := client().AllProducts(ctx)
			if err != nil {
				return fmt.Errorf("backend at %s is not healthy: %w", apiBaseURL, err)
			}
			fmt.Printf("backend OK: %d products in %s\n", len(products), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func ordersCmd() *cobra.Command {
	var table int
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List current orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			c := client()
			var (
				list []models.Order
				err  error
			)
			if table > 0 {
				list, err = c.OrdersByTable(ctx, table)
			} else {
				list, err = c.AllOrders(ctx)
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("no orders")
				return nil
			}
			for _, o := range list {
				fmt.Printf("#%-4d mesa %-3d %-12s %-20s %10.2f  %s\n",
					o.ID, o.TableNumber, o.Status, o.ClientName, o.Total, o.Date.Local().Format("15:04"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&table, "table", 0, "filter by table number")
	return cmd
}
