package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"RedPacket/internal/money"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists packet history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS packets (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			source       TEXT,
			message      TEXT,
			total_amount TEXT NOT NULL,
			recipients   INTEGER NOT NULL,
			expire_at    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_packets_ts ON packets(timestamp)`,

		`CREATE TABLE IF NOT EXISTS claims (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp            INTEGER NOT NULL,
			packet_id            TEXT NOT NULL,
			seq                  INTEGER NOT NULL,
			claimant             TEXT,
			amount               TEXT NOT NULL,
			remaining_amount     TEXT,
			remaining_recipients INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_packet ON claims(packet_id)`,

		`CREATE TABLE IF NOT EXISTS refunds (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			packet_id TEXT NOT NULL,
			amount    TEXT NOT NULL,
			unpaid    INTEGER,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refunds_ts ON refunds(timestamp)`,
	}

	return r.execAll(stmts)
}

func (r *SQLiteRecorder) execAll(stmts []string) error {
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:min(len(s), 40)], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPacket(evt *PacketEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := evt.Packet
	var expireAt int64
	if !p.ExpireAt.IsZero() {
		expireAt = p.ExpireAt.Unix()
	}
	_, err := r.db.Exec(`INSERT OR REPLACE INTO packets
		(id, timestamp, source, message, total_amount, recipients, expire_at)
		VALUES (?,?,?,?,?,?,?)`,
		p.ID, p.CreatedAt.Unix(), evt.Source, p.Message,
		money.Format(p.TotalAmount), p.Recipients, expireAt,
	)
	return err
}

func (r *SQLiteRecorder) RecordClaim(evt *ClaimEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := evt.Claim
	_, err := r.db.Exec(`INSERT INTO claims
		(timestamp, packet_id, seq, claimant, amount, remaining_amount, remaining_recipients)
		VALUES (?,?,?,?,?,?,?)`,
		c.ClaimedAt.Unix(), evt.PacketID, c.Seq, c.Claimant,
		money.Format(c.Amount), evt.RemainingAmount, evt.RemainingRecipients,
	)
	return err
}

func (r *SQLiteRecorder) RecordRefund(evt *RefundEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refunds
		(timestamp, packet_id, amount, unpaid, note)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.PacketID, evt.Amount, evt.Unpaid, evt.Note,
	)
	return err
}

// ClaimTotal returns the sum of all recorded shares of a packet.
func (r *SQLiteRecorder) ClaimTotal(packetID string) (string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT amount FROM claims WHERE packet_id = ? ORDER BY seq`, packetID)
	if err != nil {
		return "", 0, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var amounts []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return "", 0, fmt.Errorf("scan claim: %w", err)
		}
		amounts = append(amounts, a)
	}
	if err := rows.Err(); err != nil {
		return "", 0, err
	}

	total, err := sumAmounts(amounts)
	if err != nil {
		return "", 0, err
	}
	return total, len(amounts), nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func sumAmounts(amounts []string) (string, error) {
	total := decimal.Zero
	for _, s := range amounts {
		d, err := money.Parse(s)
		if err != nil {
			return "", err
		}
		total = total.Add(d)
	}
	return money.Format(total), nil
}
