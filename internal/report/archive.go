package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greyline-systems/honeytrap/internal/intel"
)

// Archive persists final intelligence reports to Postgres so reported
// sessions survive the session store's TTL.
type Archive struct {
	pool *pgxpool.Pool
}

func NewArchive(ctx context.Context, databaseURL string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Archive{pool: pool}, nil
}

func (a *Archive) Close() {
	a.pool.Close()
}

// SaveReport writes one row to the reports table and returns its id.
func (a *Archive) SaveReport(ctx context.Context, sessionID string, rec intel.Record, turns int, scamType string) (uuid.UUID, error) {
	reportID := uuid.New()
	_, err := a.pool.Exec(ctx, `
		INSERT INTO reports (id, session_id, scam_type, turns, upi_ids, bank_accounts, phone_numbers, phishing_links, tactics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
		reportID, sessionID, scamType, turns,
		rec.UPIIDs, rec.BankAccounts, rec.PhoneNumbers, rec.PhishingLinks, rec.Tactics,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert report: %w", err)
	}
	return reportID, nil
}
