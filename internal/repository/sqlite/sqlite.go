package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tripora/tripora/internal/domain"
	"github.com/tripora/tripora/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and hands out repositories bound to it.
// It is the single owner of the connection; nothing else in the
// process holds database state.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for
// use: WAL mode, foreign key enforcement (gallery rows cascade on
// product delete), and a single connection since SQLite serializes
// writers anyway.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Products returns the catalog repository.
func (d *DB) Products() domain.ProductRepository {
	return &productRepo{db: d.SqlDB}
}

// Users returns the user repository.
func (d *DB) Users() domain.UserRepository {
	return &UserRepository{db: d.SqlDB}
}
