package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Supported dialect names, matching config database.driver.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// Dialect captures what differs between the supported stores: the
// database/sql driver, the DDL for the items table, the placeholder syntax
// and whether INSERT ... RETURNING is available.
type Dialect struct {
	Name      string
	Returning bool // INSERT ... RETURNING is supported

	driver string
	dollar bool
	schema []string
}

var dialects = map[string]Dialect{
	SQLite: {
		Name:      SQLite,
		Returning: true,
		driver:    "sqlite",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				description TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_items_name ON items (name)`,
		},
	},
	MySQL: {
		Name:   MySQL,
		driver: "mysql",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS items (
				id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				INDEX idx_items_name (name)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		},
	},
	Postgres: {
		Name:      Postgres,
		Returning: true,
		driver:    "pgx",
		dollar:    true,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS items (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_items_name ON items (name)`,
		},
	},
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(name)]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
	return d, nil
}

// Rebind rewrites ? placeholders into the dialect's own syntax. Queries in
// this module never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
