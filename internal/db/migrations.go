package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema and adds columns introduced
// after the first release.
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if err := ensureTaxiColumns(db); err != nil {
		return err
	}
	return nil
}

// ensureTaxiColumns adds the extra column on databases created before
// unknown fields were stored.
func ensureTaxiColumns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(taxis)")
	if err != nil {
		return err
	}
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			_ = rows.Close()
			return err
		}
		cols[name] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if !cols["extra"] {
		if _, err := db.Exec("ALTER TABLE taxis ADD COLUMN extra TEXT NOT NULL DEFAULT '{}'"); err != nil {
			return fmt.Errorf("add extra column: %w", err)
		}
	}
	return nil
}
