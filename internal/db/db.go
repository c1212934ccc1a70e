package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Init opens the datastore behind the users, tokens and boards tables.
// The driver switch carries two backends: a local sqlite file (default)
// and pgx for a hosted Postgres.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" && !strings.HasPrefix(connection, ":memory:") {
		err := os.MkdirAll(filepath.Dir(connection), 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	conn, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Small pool. sqlite serializes writers regardless, and the auth
	// workload is short single-row queries.
	conn.SetMaxOpenConns(16)
	conn.SetMaxIdleConns(4)
	conn.SetConnMaxLifetime(5 * time.Minute)

	err = conn.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("datastore ready", "driver", driver)
	return conn, nil
}

func Close(conn *sqlx.DB) error {
	if conn != nil {
		return conn.Close()
	}
	return nil
}
