package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Alias1177/Accumulator/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	// Create PostgreSQL connection string
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS signal_history (
			id BIGSERIAL PRIMARY KEY,
			scenario INT NOT NULL,
			scenario_name TEXT NOT NULL,
			combined_score DOUBLE PRECISION NOT NULL,
			buy_signal BOOLEAN NOT NULL,
			signal_strength TEXT NOT NULL,
			action TEXT NOT NULL,
			position_size DOUBLE PRECISION NOT NULL,
			position_value DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)

	return err
}

// SaveResult persists one scenario analysis outcome
func (db *DB) SaveResult(ctx context.Context, result *models.AnalysisResult) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO signal_history (
			scenario, scenario_name, combined_score, buy_signal,
			signal_strength, action, position_size, position_value, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		result.Scenario, result.ScenarioName, result.Signals.CombinedScore,
		result.Signals.BuySignal, result.Signals.Strength, result.TradePlan.Action,
		result.TradePlan.PositionSize, result.TradePlan.PositionValue, result.Timestamp)

	return err
}

// RecentResults returns the most recent signal records, newest first
func (db *DB) RecentResults(ctx context.Context, limit int) ([]models.SignalRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT
			id, scenario, scenario_name, combined_score, buy_signal,
			signal_strength, action, position_size, position_value, created_at
		FROM signal_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.SignalRecord
	for rows.Next() {
		var r models.SignalRecord
		if err := rows.Scan(
			&r.ID, &r.Scenario, &r.ScenarioName, &r.CombinedScore, &r.BuySignal,
			&r.Strength, &r.Action, &r.PositionSize, &r.PositionValue, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
