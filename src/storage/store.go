// Package storage implements the record store over SQLite. The store owns all
// persisted records; callers receive value snapshots and never share row state.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/username/fxdiary/backend/src/models"
)

// ErrPairExists is returned by CloseMatch when a profit row for the same
// (buy, sell) pair already exists. Callers treat it as a silent skip.
var ErrPairExists = errors.New("profit record for pair already exists")

// Store is the persistence boundary consumed by the service layer.
type Store interface {
	ListOpen(direction string, ascending bool) ([]models.InvestmentRecord, error)
	GetOpen(id string) (*models.InvestmentRecord, error)
	InsertOpen(rec models.InvestmentRecord) error
	DeleteOpen(id string) (int64, error)

	ListClosed() ([]models.ProfitRecord, error)
	// CloseMatch atomically inserts the profit row and deletes both source
	// records. Nothing is written if any step fails.
	CloseMatch(profit models.ProfitRecord, buyID, sellID string) error
	DeleteClosed(id string) (int64, error)
	DeleteClosedByOpenID(id string) (int64, error)
	HasClosedPair(buyID, sellID string) (bool, error)

	ClearAll() error
	NextID() (string, error)
}

// SQLStore is the SQLite-backed Store. It is constructed with an explicit
// *sql.DB handle; there is no package-level connection.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const openColumns = "id, occurred_at, type, foreign_amount, exchange_rate, won_amount, origin, created_at"

func (s *SQLStore) ListOpen(direction string, ascending bool) ([]models.InvestmentRecord, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	query := fmt.Sprintf("SELECT %s FROM investments ORDER BY occurred_at %s, id %s", openColumns, order, order)
	args := []any{}
	if direction != "" {
		query = fmt.Sprintf("SELECT %s FROM investments WHERE type = ? ORDER BY occurred_at %s, id %s", openColumns, order, order)
		args = append(args, direction)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying investments: %w", err)
	}
	defer rows.Close()

	var records []models.InvestmentRecord
	for rows.Next() {
		var rec models.InvestmentRecord
		if err := rows.Scan(&rec.ID, &rec.OccurredAt, &rec.Type, &rec.ForeignAmount,
			&rec.ExchangeRate, &rec.WonAmount, &rec.Origin, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning investment row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLStore) GetOpen(id string) (*models.InvestmentRecord, error) {
	var rec models.InvestmentRecord
	err := s.db.QueryRow(fmt.Sprintf("SELECT %s FROM investments WHERE id = ?", openColumns), id).
		Scan(&rec.ID, &rec.OccurredAt, &rec.Type, &rec.ForeignAmount,
			&rec.ExchangeRate, &rec.WonAmount, &rec.Origin, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying investment %s: %w", id, err)
	}
	return &rec, nil
}

func (s *SQLStore) InsertOpen(rec models.InvestmentRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO investments (id, occurred_at, type, foreign_amount, exchange_rate, won_amount, origin)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OccurredAt, rec.Type, rec.ForeignAmount, rec.ExchangeRate, rec.WonAmount, rec.Origin)
	if err != nil {
		return fmt.Errorf("inserting investment %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLStore) DeleteOpen(id string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM investments WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("deleting investment %s: %w", id, err)
	}
	return res.RowsAffected()
}

const closedColumns = "id, buy_occurred_at, sell_occurred_at, buy_record_id, sell_record_id, foreign_amount, buy_rate, sell_rate, buy_won_amount, sell_won_amount, profit, profit_rate, created_at"

func (s *SQLStore) ListClosed() ([]models.ProfitRecord, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s FROM profits ORDER BY sell_occurred_at DESC, id DESC", closedColumns))
	if err != nil {
		return nil, fmt.Errorf("querying profits: %w", err)
	}
	defer rows.Close()

	var records []models.ProfitRecord
	for rows.Next() {
		var rec models.ProfitRecord
		if err := rows.Scan(&rec.ID, &rec.BuyOccurredAt, &rec.SellOccurredAt, &rec.BuyRecordID,
			&rec.SellRecordID, &rec.ForeignAmount, &rec.BuyRate, &rec.SellRate,
			&rec.BuyWonAmount, &rec.SellWonAmount, &rec.Profit, &rec.ProfitRate, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning profit row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLStore) CloseMatch(profit models.ProfitRecord, buyID, sellID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning close transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO profits (id, buy_occurred_at, sell_occurred_at, buy_record_id, sell_record_id,
			foreign_amount, buy_rate, sell_rate, buy_won_amount, sell_won_amount, profit, profit_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profit.ID, profit.BuyOccurredAt, profit.SellOccurredAt, profit.BuyRecordID, profit.SellRecordID,
		profit.ForeignAmount, profit.BuyRate, profit.SellRate, profit.BuyWonAmount, profit.SellWonAmount,
		profit.Profit, profit.ProfitRate)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return ErrPairExists
		}
		return fmt.Errorf("inserting profit %s: %w", profit.ID, err)
	}

	for _, id := range []string{buyID, sellID} {
		if _, err := tx.Exec("DELETE FROM investments WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting matched investment %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing close transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteClosed(id string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM profits WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("deleting profit %s: %w", id, err)
	}
	return res.RowsAffected()
}

// DeleteClosedByOpenID removes profit rows referencing the given open record
// on either side. Used for cascading cleanup when a user force-deletes a
// record.
func (s *SQLStore) DeleteClosedByOpenID(id string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM profits WHERE buy_record_id = ? OR sell_record_id = ?", id, id)
	if err != nil {
		return 0, fmt.Errorf("deleting profits referencing %s: %w", id, err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) HasClosedPair(buyID, sellID string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM profits WHERE buy_record_id = ? AND sell_record_id = ?", buyID, sellID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting profits for pair (%s, %s): %w", buyID, sellID, err)
	}
	return count > 0, nil
}

func (s *SQLStore) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning clear transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM profits"); err != nil {
		return fmt.Errorf("clearing profits: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM investments"); err != nil {
		return fmt.Errorf("clearing investments: %w", err)
	}
	return tx.Commit()
}

// NextID returns the next identifier in the INV_0001 sequence. The maximum is
// taken over live records and the record IDs referenced by profit rows, so an
// ID is never reused even after its record was matched and deleted.
func (s *SQLStore) NextID() (string, error) {
	var last sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(n) FROM (
			SELECT CAST(SUBSTR(id, 5) AS INTEGER) AS n FROM investments WHERE id LIKE 'INV_%'
			UNION ALL
			SELECT CAST(SUBSTR(buy_record_id, 5) AS INTEGER) FROM profits WHERE buy_record_id LIKE 'INV_%'
			UNION ALL
			SELECT CAST(SUBSTR(sell_record_id, 5) AS INTEGER) FROM profits WHERE sell_record_id LIKE 'INV_%'
		)`).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("querying last record id: %w", err)
	}
	next := int64(1)
	if last.Valid {
		next = last.Int64 + 1
	}
	return fmt.Sprintf("INV_%04d", next), nil
}
