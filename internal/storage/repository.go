package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	upsertDailyPriceSQL = `INSERT INTO daily_prices (
        price_date,
        records
    ) VALUES (
        $1,$2
    )
    ON CONFLICT (price_date) DO UPDATE
    SET records = EXCLUDED.records;`

	findLatestDailyPriceSQL = `SELECT
        price_date,
        records,
        created_at
    FROM daily_prices
    ORDER BY price_date DESC
    LIMIT 1;`

	listDailyPricesBetweenSQL = `SELECT
        price_date,
        records,
        created_at
    FROM daily_prices
    WHERE price_date >= $1
      AND price_date <= $2
    ORDER BY price_date;`

	listRecentDailyPricesSQL = `SELECT
        price_date,
        records,
        created_at
    FROM daily_prices
    ORDER BY price_date DESC
    LIMIT $1;`

	countDailyPricesSQL = `SELECT COUNT(*) FROM daily_prices;`

	listSubscribersSQL = `SELECT
        email,
        commodities,
        created_at
    FROM subscribers
    ORDER BY email;`

	upsertSubscriberSQL = `INSERT INTO subscribers (
        email,
        commodities
    ) VALUES (
        $1,$2
    )
    ON CONFLICT (email) DO UPDATE
    SET commodities = EXCLUDED.commodities;`
)

// DailyPriceStore defines operations for daily snapshot persistence.
type DailyPriceStore interface {
	UpsertDailyPrice(ctx context.Context, day DailyPrice) error
	FindLatestDailyPrice(ctx context.Context) (*DailyPrice, error)
	ListDailyPricesBetween(ctx context.Context, from, to time.Time) ([]DailyPrice, error)
	ListRecentDailyPrices(ctx context.Context, limit int) ([]DailyPrice, error)
	CountDailyPrices(ctx context.Context) (int64, error)
}

// SubscriberStore defines operations for subscriber watch-lists.
type SubscriberStore interface {
	ListSubscribers(ctx context.Context) ([]Subscriber, error)
	UpsertSubscriber(ctx context.Context, sub Subscriber) error
}

// Store aggregates access to daily snapshots and subscribers.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// UpsertDailyPrice persists or fully replaces one day's snapshot.
func (s *Store) UpsertDailyPrice(ctx context.Context, day DailyPrice) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	records, err := json.Marshal(day.Records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if _, execErr := pool.Exec(ctx, upsertDailyPriceSQL, day.Date, records); execErr != nil {
		return fmt.Errorf("upsert daily price: %w", execErr)
	}
	return nil
}

// FindLatestDailyPrice returns the most recently dated snapshot, or nil when
// the store is empty.
func (s *Store) FindLatestDailyPrice(ctx context.Context) (*DailyPrice, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	row := pool.QueryRow(ctx, findLatestDailyPriceSQL)
	day, scanErr := scanDailyPrice(row)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, scanErr
	}
	return &day, nil
}

// ListDailyPricesBetween lists snapshots within an inclusive date window.
func (s *Store) ListDailyPricesBetween(ctx context.Context, from, to time.Time) ([]DailyPrice, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listDailyPricesBetweenSQL, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("list daily prices between: %w", queryErr)
	}
	defer rows.Close()

	return collectDailyPrices(rows, 0)
}

// ListRecentDailyPrices lists the most recent snapshots ordered by descending date.
func (s *Store) ListRecentDailyPrices(ctx context.Context, limit int) ([]DailyPrice, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentDailyPricesSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent daily prices: %w", queryErr)
	}
	defer rows.Close()

	return collectDailyPrices(rows, limit)
}

// CountDailyPrices counts stored snapshots.
func (s *Store) CountDailyPrices(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countDailyPricesSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count daily prices: %w", scanErr)
	}
	return count, nil
}

// ListSubscribers returns every subscriber and their watch-list.
func (s *Store) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listSubscribersSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list subscribers: %w", queryErr)
	}
	defer rows.Close()

	subs := make([]Subscriber, 0)
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(&sub.Email, &sub.Commodities, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return subs, nil
}

// UpsertSubscriber inserts or replaces a subscriber's watch-list.
func (s *Store) UpsertSubscriber(ctx context.Context, sub Subscriber) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, upsertSubscriberSQL, sub.Email, sub.Commodities); execErr != nil {
		return fmt.Errorf("upsert subscriber: %w", execErr)
	}
	return nil
}

func collectDailyPrices(rows pgx.Rows, capacityHint int) ([]DailyPrice, error) {
	days := make([]DailyPrice, 0, capacityHint)
	for rows.Next() {
		day, scanErr := scanDailyPrice(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		days = append(days, day)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return days, nil
}

func scanDailyPrice(row pgx.Row) (DailyPrice, error) {
	var (
		date      time.Time
		records   json.RawMessage
		createdAt time.Time
	)

	if err := row.Scan(&date, &records, &createdAt); err != nil {
		return DailyPrice{}, err
	}

	day := DailyPrice{Date: date.UTC(), CreatedAt: createdAt}
	if err := json.Unmarshal(records, &day.Records); err != nil {
		return DailyPrice{}, fmt.Errorf("unmarshal records: %w", err)
	}
	return day, nil
}
