// Package cache persists the last-known-good order snapshot in a local
// sqlite file. It exists purely for continuity: when the backend is down at
// startup, staff screens show the stale snapshot instead of an empty board.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/projectbar/barweb/internal/models"
)

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{DB: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS order_snapshot (
		id INTEGER PRIMARY KEY,
		client_name TEXT NOT NULL,
		table_number INTEGER NOT NULL,
		waiter_name TEXT,
		notes TEXT,
		status TEXT NOT NULL,
		order_date DATETIME,
		total REAL NOT NULL,
		items TEXT,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.DB.Exec(query)
	if err != nil {
		return fmt.Errorf("creating snapshot schema: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot wholesale, mirroring how the
// in-memory projection is replaced on every poll tick.
func (s *Store) SaveSnapshot(orders []models.Order) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM order_snapshot`); err != nil {
		return err
	}

	insert := `
		INSERT INTO order_snapshot (id, client_name, table_number, waiter_name, notes, status, order_date, total, items)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, o := range orders {
		items, err := json.Marshal(o.Items)
		if err != nil {
			return fmt.Errorf("encoding items for order %d: %w", o.ID, err)
		}
		_, err = tx.Exec(insert, o.ID, o.ClientName, o.TableNumber, o.WaiterName, o.Notes,
			string(o.Status), o.Date.Format(time.RFC3339), o.Total, string(items))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadSnapshot returns the stored snapshot, or an empty slice when none has
// ever been saved.
func (s *Store) LoadSnapshot() ([]models.Order, error) {
	rows, err := s.DB.Query(`
		SELECT id, client_name, table_number, waiter_name, notes, status, order_date, total, items
		FROM order_snapshot
		ORDER BY order_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var status, orderDate, items string
		if err := rows.Scan(&o.ID, &o.ClientName, &o.TableNumber, &o.WaiterName, &o.Notes,
			&status, &orderDate, &o.Total, &items); err != nil {
			return nil, err
		}
		o.Status = models.OrderStatus(status)
		if t, err := time.Parse(time.RFC3339, orderDate); err == nil {
			o.Date = t
		}
		if items != "" {
			if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
				return nil, fmt.Errorf("decoding items for order %d: %w", o.ID, err)
			}
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) Close() error {
	return s.DB.Close()
}
