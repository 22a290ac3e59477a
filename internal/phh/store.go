package phh

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrHandNotFound is returned by Store.Hand for unknown hand ids.
var ErrHandNotFound = errors.New("phh: hand not found")

const storeTimeout = 5 * time.Second

// Store keeps hands in SQLite or Postgres, one row per hand holding the PHH
// text.
type Store struct {
	db       *sql.DB
	postgres bool
}

// OpenStore opens dsn. postgres:// and postgresql:// URLs use Postgres;
// anything else is a SQLite file path (or ":memory:").
func OpenStore(dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("phh: empty database path")
	}

	s := &Store{postgres: strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")}
	driver := "sqlite"
	if s.postgres {
		driver = "postgres"
	} else if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("phh: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("phh: open %s: %w", driver, err)
	}
	if !s.postgres {
		db.SetMaxOpenConns(1)
	}
	s.db = db

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS phh_hands (
    hand_id    TEXT PRIMARY KEY,
    table_id   TEXT NOT NULL,
    variant    TEXT NOT NULL,
    players    INTEGER NOT NULL,
    played_at  BIGINT NOT NULL,
    body       TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS phh_hands_table ON phh_hands (table_id, played_at)`,
	}
	if !s.postgres {
		stmts = append([]string{`PRAGMA busy_timeout = 5000`, `PRAGMA journal_mode = WAL`}, stmts...)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("phh: migrate: %w", err)
		}
	}
	return nil
}

// bind rewrites ? placeholders to $n for Postgres.
func (s *Store) bind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WriteHand upserts the hand, so a replayed table overwrites its rows.
func (s *Store) WriteHand(hand *HandHistory) error {
	body, err := EncodeToBytes(hand)
	if err != nil {
		return err
	}
	played := hand.Timestamp
	if played.IsZero() {
		played = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	_, err = s.db.ExecContext(ctx, s.bind(`
INSERT INTO phh_hands (hand_id, table_id, variant, players, played_at, body)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id) DO UPDATE SET
    table_id = excluded.table_id,
    variant = excluded.variant,
    players = excluded.players,
    played_at = excluded.played_at,
    body = excluded.body`),
		hand.HandID, hand.Table, hand.Variant, len(hand.Players), played.UTC().UnixMilli(), string(body))
	if err != nil {
		return fmt.Errorf("phh: store %s: %w", hand.HandID, err)
	}
	return nil
}

// Hand loads one hand by id.
func (s *Store) Hand(ctx context.Context, handID string) (*HandHistory, error) {
	var body string
	err := s.db.QueryRowContext(ctx, s.bind(`SELECT body FROM phh_hands WHERE hand_id = ?`), handID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrHandNotFound, handID)
	}
	if err != nil {
		return nil, fmt.Errorf("phh: load %s: %w", handID, err)
	}
	return Decode(bytes.NewReader([]byte(body)))
}

// HandIDs lists a table's hands, oldest first. A limit <= 0 lists them all.
func (s *Store) HandIDs(ctx context.Context, tableID string, limit int) ([]string, error) {
	query := `SELECT hand_id FROM phh_hands WHERE table_id = ? ORDER BY played_at, hand_id`
	args := []any{tableID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("phh: list %s: %w", tableID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MultiSink writes each hand to every sink, reporting the first failure.
type MultiSink []Sink

func (m MultiSink) WriteHand(hand *HandHistory) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteHand(hand); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
