package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/projectbar/barweb/internal/models"
)

// AllBills fetches every generated bill.
func (c *Client) AllBills(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := c.get(ctx, "/api/bill/all", &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// GenerateBillByTable asks the backend to bill all open orders for a client
// at one table.
func (c *Client) GenerateBillByTable(ctx context.Context, table int, clientName string) (models.Bill, error) {
	var bill models.Bill
	path := fmt.Sprintf("/api/bill/save/by-table/%d/%s", table, url.PathEscape(clientName))
	if err := c.post(ctx, path, nil, &bill); err != nil {
		return models.Bill{}, err
	}
	return bill, nil
}

// GenerateBillByClient bills all open orders for a client regardless of table.
func (c *Client) GenerateBillByClient(ctx context.Context, clientName string) (models.Bill, error) {
	var bill models.Bill
	if err := c.post(ctx, "/api/bill/save/by-client/"+url.PathEscape(clientName), nil, &bill); err != nil {
		return models.Bill{}, err
	}
	return bill, nil
}

// GenerateBillBySelection bills an explicit set of orders.
func (c *Client) GenerateBillBySelection(ctx context.Context, orderIDs []int) (models.Bill, error) {
	payload := struct {
		OrdersID []int `json:"ordersId"`
	}{OrdersID: orderIDs}
	var bill models.Bill
	if err := c.post(ctx, "/api/bill/save/by-selection", payload, &bill); err != nil {
		return models.Bill{}, err
	}
	return bill, nil
}

// DownloadBillPDF returns the rendered PDF bytes for a bill. The backend does
// the rendering; this is a pass-through for the download proxy.
func (c *Client) DownloadBillPDF(ctx context.Context, billID int) ([]byte, error) {
	return c.raw(ctx, fmt.Sprintf("/api/bill/download-pdf/%d", billID))
}
