package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
)

// sqlitePragmas are applied to every pooled SQLite connection. WAL lets
// readers proceed while a writer commits; busy_timeout makes concurrent
// writers wait for the lock instead of failing with SQLITE_BUSY.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// DB is the connection pool together with the dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the configured store and verifies the connection.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := prepareDSN(dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	// Pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if dialect.Name == SQLite && isMemoryDSN(cfg.DSN) {
		// every new connection to :memory: is a fresh, empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

// EnsureSchema creates the items table and its name index when they are
// missing. It is safe to call any number of times.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range db.Dialect.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func prepareDSN(d Dialect, dsn string) (string, error) {
	switch d.Name {
	case SQLite:
		if strings.Contains(dsn, "_pragma=") {
			return dsn, nil
		}
		params := make([]string, 0, len(sqlitePragmas))
		for _, p := range sqlitePragmas {
			params = append(params, "_pragma="+p)
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + strings.Join(params, "&"), nil
	case MySQL:
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		// UPDATE reports matched rather than changed rows, so rewriting an
		// item with identical values is still a hit.
		mc.ClientFoundRows = true
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	default:
		return dsn, nil
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
