package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/ghostvault/internal/migrations"
)

// VaultDSN returns the per-user database path inside dataDir. The file name is
// a hash of the user id, so databases of different users on the same device
// never collide and the id itself does not leak into the directory listing.
func VaultDSN(dataDir, userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return filepath.Join(dataDir, fmt.Sprintf("ghost-%s.db", hex.EncodeToString(sum[:8])))
}

// OpenDatabase opens the SQLite database at dsn and applies embedded goose
// migrations.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite is single-writer, and in-memory databases are
	// per-connection.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
