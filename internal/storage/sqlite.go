// Package storage persists record collections as SQLite databases and JSON Lines.
package storage

import (
	"database/sql"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/brettviren/recibi/internal/record"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			cite_key TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS fields (
			record_key TEXT NOT NULL REFERENCES records(cite_key),
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (record_key, name)
		);

		CREATE INDEX IF NOT EXISTS idx_fields_name ON fields(name);
	`

	_, err := db.Exec(schema)
	return err
}

// Replace clears the database and stores c in its place.
func (d *DB) Replace(c *record.Collection) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := sq.Delete("fields").RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("clearing fields table: %w", err)
	}
	if _, err := sq.Delete("records").RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("clearing records table: %w", err)
	}

	position := 0
	err = c.Each(func(key string, rec *record.Record) error {
		_, err := sq.Insert("records").
			Columns("cite_key", "kind", "position").
			Values(key, rec.Kind, position).
			RunWith(tx).Exec()
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", key, err)
		}
		position++

		for i, name := range rec.Names() {
			_, err := sq.Insert("fields").
				Columns("record_key", "name", "value", "position").
				Values(key, name, rec.Get(name), i).
				RunWith(tx).Exec()
			if err != nil {
				return fmt.Errorf("inserting field %s of %s: %w", name, key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Collection reads every stored record in stored order.
func (d *DB) Collection() (*record.Collection, error) {
	out := record.NewCollection()

	rows, err := sq.Select("cite_key", "kind").
		From("records").
		OrderBy("position").
		RunWith(d.db).Query()
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, kind string
		if err := rows.Scan(&key, &kind); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out.Put(key, record.New(kind))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fieldRows, err := sq.Select("record_key", "name", "value").
		From("fields").
		OrderBy("record_key", "position").
		RunWith(d.db).Query()
	if err != nil {
		return nil, fmt.Errorf("querying fields: %w", err)
	}
	defer fieldRows.Close()

	for fieldRows.Next() {
		var key, name, value string
		if err := fieldRows.Scan(&key, &name, &value); err != nil {
			return nil, fmt.Errorf("scanning field: %w", err)
		}
		rec, ok := out.Get(key)
		if !ok {
			return nil, fmt.Errorf("field %s refers to unknown record %s", name, key)
		}
		rec.Set(name, value)
	}

	return out, fieldRows.Err()
}

// WriteCollection replaces the contents of the database at path with c,
// creating the file if needed.
func WriteCollection(path string, c *record.Collection) error {
	db, err := OpenDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Replace(c)
}

// ReadCollection loads all records from an existing database file.
func ReadCollection(path string) (*record.Collection, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Collection()
}
