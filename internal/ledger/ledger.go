// Package ledger keeps a local record of what a run generated and minted.
// Pinning is not idempotent and partial mint batches are never rolled back,
// so this sqlite file next to the generated artifacts is what an operator
// reconciles against after a failed run.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/tokendrop/internal/common"
	"github.com/dmitrijs2005/tokendrop/internal/dbx"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

const schema = `
CREATE TABLE IF NOT EXISTS drops (
  series_id TEXT PRIMARY KEY,
  series TEXT NOT NULL,
  loan_id INTEGER NOT NULL DEFAULT 0,
  token_count INTEGER NOT NULL,
  image_cid TEXT NOT NULL DEFAULT '',
  metadata_cid TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS tokens (
  uuid TEXT PRIMARY KEY,
  series_id TEXT NOT NULL,
  seq INTEGER NOT NULL,
  dna TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS mints (
  dna TEXT PRIMARY KEY,
  series_id TEXT NOT NULL,
  contract TEXT NOT NULL,
  wallet TEXT NOT NULL,
  tx_hash TEXT NOT NULL,
  minted_at TIMESTAMP NOT NULL
);
`

// Drop is the persisted summary of one generation run.
type Drop struct {
	SeriesID    string
	Series      string
	LoanID      int
	TokenCount  int
	ImageCID    string
	MetadataCID string
	CreatedAt   time.Time
}

// Mint is one submitted mint transaction.
type Mint struct {
	DNA      string
	SeriesID string
	Contract string
	Wallet   string
	TxHash   string
	MintedAt time.Time
}

type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordDrop upserts the drop summary and its token rows in one transaction.
func (l *Ledger) RecordDrop(ctx context.Context, d *Drop, tokens []token.Record) error {
	return dbx.WithTx(ctx, l.db, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO drops (series_id, series, loan_id, token_count, image_cid, metadata_cid, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(series_id) DO UPDATE SET
				token_count = excluded.token_count,
				image_cid = excluded.image_cid,
				metadata_cid = excluded.metadata_cid`,
			d.SeriesID, d.Series, d.LoanID, d.TokenCount, d.ImageCID, d.MetadataCID, d.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert drop: %w", err)
		}

		for _, t := range tokens {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO tokens (uuid, series_id, seq, dna, image_url)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(uuid) DO UPDATE SET image_url = excluded.image_url`,
				t.UUID, d.SeriesID, t.Seq, t.DNA, t.ImageURL)
			if err != nil {
				return fmt.Errorf("failed to upsert token %s: %w", t.DNA, err)
			}
		}
		return nil
	})
}

// DropBySeries returns the recorded drop for seriesID.
func (l *Ledger) DropBySeries(ctx context.Context, seriesID string) (*Drop, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT series_id, series, loan_id, token_count, image_cid, metadata_cid, created_at
		FROM drops WHERE series_id = ?`, seriesID)

	var d Drop
	err := row.Scan(&d.SeriesID, &d.Series, &d.LoanID, &d.TokenCount, &d.ImageCID, &d.MetadataCID, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select drop: %w", err)
	}
	return &d, nil
}

// TokensBySeries returns the generated token rows of a drop in sequence
// order. These carry the exact identifiers the metadata files were pinned
// under; minting must use them rather than recomputing names.
func (l *Ledger) TokensBySeries(ctx context.Context, seriesID string) ([]token.Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT uuid, seq, dna, image_url
		FROM tokens WHERE series_id = ? ORDER BY seq`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tokens: %w", err)
	}
	defer rows.Close()

	var result []token.Record
	for rows.Next() {
		var r token.Record
		if err := rows.Scan(&r.UUID, &r.Seq, &r.DNA, &r.ImageURL); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RecordMint stores one submitted mint. Recording happens after the
// transaction is sent; the chain is the source of truth, this row is the
// local trace of it.
func (l *Ledger) RecordMint(ctx context.Context, m *Mint) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO mints (dna, series_id, contract, wallet, tx_hash, minted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(dna) DO UPDATE SET tx_hash = excluded.tx_hash, minted_at = excluded.minted_at`,
		m.DNA, m.SeriesID, m.Contract, m.Wallet, m.TxHash, m.MintedAt)
	if err != nil {
		return fmt.Errorf("failed to record mint: %w", err)
	}
	return nil
}

// MintsBySeries lists the recorded mints of a series in submission order,
// the view an operator needs after a partially failed batch.
func (l *Ledger) MintsBySeries(ctx context.Context, seriesID string) ([]Mint, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT dna, series_id, contract, wallet, tx_hash, minted_at
		FROM mints WHERE series_id = ? ORDER BY dna`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to select mints: %w", err)
	}
	defer rows.Close()

	var result []Mint
	for rows.Next() {
		var m Mint
		if err := rows.Scan(&m.DNA, &m.SeriesID, &m.Contract, &m.Wallet, &m.TxHash, &m.MintedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
