// Package testutil helpers for tests using the configuration and database
// components.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/database"
)

// UseInMemoryDB registers a SQLite dialect unique to the current test and
// points the "database.*" entries of the given config to a private in-memory
// database. The connection pool is limited to a single connection so every
// query sees the same database.
//
// Returns the name of the registered dialect.
func UseInMemoryDB(t testing.TB, cfg *config.Config) string {
	t.Helper()
	dialect := fmt.Sprintf("sqlite3_%s_test", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	database.RegisterDialect(dialect, "file:{name}?{options}", sqlite.Open)
	cfg.Set("database.connection", dialect)
	cfg.Set("database.name", dialect+".db")
	cfg.Set("database.options", "mode=memory&cache=shared")
	cfg.Set("database.maxOpenConnections", 1)
	cfg.Set("database.maxIdleConnections", 1)
	return dialect
}
