package database

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/util/errors"
)

var (
	mu sync.Mutex

	dialects = map[string]dialect{}

	optionPlaceholders = map[string]string{
		"{username}": "database.username",
		"{password}": "database.password",
		"{host}":     "database.host",
		"{name}":     "database.name",
		"{options}":  "database.options",
	}
)

// DialectorInitializer function initializing a GORM Dialector using the given
// data source name (DSN).
type DialectorInitializer func(dsn string) gorm.Dialector

type dialect struct {
	initializer DialectorInitializer
	template    string
}

func (d dialect) buildDSN(cfg *config.Config) string {
	connStr := d.template
	for k, v := range optionPlaceholders {
		connStr = strings.Replace(connStr, k, cfg.GetString(v), 1)
	}
	return strings.Replace(connStr, "{port}", strconv.Itoa(cfg.GetInt("database.port")), 1)
}

// Dialects returns the sorted names of the registered dialects.
func Dialects() []string {
	mu.Lock()
	defer mu.Unlock()
	names := lo.Keys(dialects)
	slices.Sort(names)
	return names
}

// RegisterDialect registers a connection string template for the given dialect.
// Dialects are registered by the "database/dialect" sub-packages when imported.
//
// You cannot override a dialect that already exists.
//
// Template format accepts the following placeholders, which will be replaced with
// the corresponding configuration entries automatically:
//   - "{username}"
//   - "{password}"
//   - "{host}"
//   - "{port}"
//   - "{name}"
//   - "{options}"
//
// Example template for the "mysql" dialect:
//
//	{username}:{password}@({host}:{port})/{name}?{options}
func RegisterDialect(name, template string, initializer DialectorInitializer) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := dialects[name]; ok {
		panic(errors.Errorf("dialect %q already exists", name))
	}
	dialects[name] = dialect{initializer, template}
}
