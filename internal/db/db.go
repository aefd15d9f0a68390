// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/unclebandit/paigham-backend/internal/config"
)

// RequiredTables is the persisted schema the diagnostics probe checks for.
var RequiredTables = []string{
	"companies",
	"company_settings",
	"profiles",
	"email_templates",
	"sms_templates",
	"campaigns",
	"contacts",
	"contact_lists",
	"credit_transactions",
}

// Open connects to postgres and verifies the connection.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Println("✅ Connected to database", cfg.Name)
	return conn, nil
}

// TableExists checks the catalog for a public table.
func TableExists(conn *sql.DB, name string) (bool, error) {
	var exists bool
	err := conn.QueryRow(
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema='public' AND table_name=$1
		)`, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CheckTables returns a per-table existence map for the required schema.
func CheckTables(conn *sql.DB) (map[string]bool, error) {
	out := make(map[string]bool, len(RequiredTables))
	for _, t := range RequiredTables {
		ok, err := TableExists(conn, t)
		if err != nil {
			return nil, err
		}
		out[t] = ok
	}
	return out, nil
}
