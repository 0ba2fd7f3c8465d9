package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Calibrator/models"
)

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStore persists trade outcomes as an append-only audit log.
// Mutex-guarded since cmd may share it across goroutines.
type PostgresStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewPostgresStore opens the connection, retrying the ping with
// exponential backoff so a slow-starting database does not fail the
// process, and creates the schema if missing.
func NewPostgresStore(params ConnectionParams) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(func() error {
		if pingErr := db.Ping(); pingErr != nil {
			log.Warn().Err(pingErr).Msg("database not ready, retrying")
			return pingErr
		}
		return nil
	}, policy); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trade_outcomes (
			id BIGSERIAL PRIMARY KEY,
			asset TEXT NOT NULL,
			timeframe TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			rr DOUBLE PRECISION NOT NULL,
			volatility TEXT,
			hour_utc SMALLINT NOT NULL,
			day_of_week SMALLINT NOT NULL,
			asset_type TEXT,
			recorded_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// SaveOutcome appends one outcome row.
func (p *PostgresStore) SaveOutcome(asset string, timeframe models.Timeframe, outcome models.TradeOutcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.db.Exec(`
		INSERT INTO trade_outcomes (
			asset, timeframe, success, rr, volatility, hour_utc, day_of_week, asset_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		asset, string(timeframe), outcome.Success, outcome.RR,
		string(outcome.Volatility), outcome.Hour, outcome.Day, string(outcome.AssetType))

	return err
}

// LoadOutcomes replays all persisted outcomes for a key, oldest first, so
// a fresh in-memory store can be rebuilt at startup.
func (p *PostgresStore) LoadOutcomes(asset string, timeframe models.Timeframe) ([]models.TradeOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, err := p.db.Query(`
		SELECT success, rr, volatility, hour_utc, day_of_week, asset_type
		FROM trade_outcomes
		WHERE asset = $1 AND timeframe = $2
		ORDER BY id
	`, asset, string(timeframe))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.TradeOutcome
	for rows.Next() {
		var o models.TradeOutcome
		var volatility, assetType string
		if err := rows.Scan(&o.Success, &o.RR, &volatility, &o.Hour, &o.Day, &assetType); err != nil {
			return nil, err
		}
		o.Volatility = models.VolatilityRegime(volatility)
		o.AssetType = models.AssetType(assetType)
		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
