// Package emailvalidator bundles the email validation engine with the resources
// it needs when used as an application: configuration, languages, logger and an
// optional database connection for audits and uniqueness checks.
package emailvalidator

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"

	"gorm.io/gorm"
	"goyave.dev/emailvalidator/audit"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/database"
	"goyave.dev/emailvalidator/email"
	"goyave.dev/emailvalidator/lang"
	"goyave.dev/emailvalidator/slog"
	"goyave.dev/emailvalidator/util/errors"
	"goyave.dev/emailvalidator/validation"
)

// LangDirectory the directory of the `LangFS` containing the language directories.
const LangDirectory = "resources/lang"

// Options represent checker creation options.
type Options struct {

	// Config used by the checker and propagated to all its components.
	// If no configuration is provided, automatically load
	// the default configuration using `config.Load()`.
	Config *config.Config

	// Logger used by the checker and propagated to all its components.
	// If no logger is provided in the options, writes to stderr.
	Logger *slog.Logger

	// LangFS the file system from which the language files
	// will be loaded. This file system is expected to contain
	// a `resources/lang` directory.
	// If not provided, uses the working directory.
	LangFS fs.FS
}

// Checker the central component of the email validation application.
type Checker struct {
	config *config.Config
	Lang   *lang.Languages

	db *gorm.DB

	// Logger the logger for default output
	// Writes to stderr by default.
	Logger *slog.Logger

	options email.Options
}

// New create a new `Checker` using the given options.
//
// Returns an error if the configuration cannot be loaded, if the language files
// are invalid or if the database connection cannot be opened.
func New(opts Options) (*Checker, error) {
	cfg := opts.Config

	if opts.Config == nil {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return nil, errors.New(err)
		}
	}

	slogger := opts.Logger
	if slogger == nil {
		slogger = slog.New(slog.NewHandler(cfg.GetBool("app.debug"), os.Stderr))
	}

	langFS := opts.LangFS
	if langFS == nil {
		langFS = os.DirFS(".")
	}

	languages := lang.New()
	languages.Default = cfg.GetString("app.defaultLanguage")
	if err := languages.LoadDirectory(langFS, LangDirectory); err != nil {
		return nil, err
	}

	checker := &Checker{
		config: cfg,
		Lang:   languages,
		Logger: slogger,
		options: email.Options{
			StrictMode: cfg.GetBool("email.strictMode"),
			Domain:     cfg.GetString("email.domain"),
		},
	}

	if cfg.GetString("database.connection") != "none" {
		db, err := database.New(cfg, func() *slog.Logger { return checker.Logger })
		if err != nil {
			return nil, errors.New(err)
		}
		checker.db = db
	}

	return checker, nil
}

// Config returns the checker's config.
func (c *Checker) Config() *config.Config {
	return c.config
}

// EmailOptions returns the engine options built from the "email.*" config entries.
func (c *Checker) EmailOptions() email.Options {
	return c.options
}

// Check classifies the given candidate using the configured options.
// A nil candidate is valid only if "email.allowNil" is enabled.
func (c *Checker) Check(candidate *string) email.Result {
	return email.Classify(candidate, c.options, c.config.GetBool("email.allowNil"))
}

// Validate the given data using the given rules. Messages are written in the
// given language, or in the default language if it is not available.
//
// The returned error joins the operation errors (such as failed database queries)
// raised by the rules.
func (c *Checker) Validate(data map[string]any, rules validation.Ruler, language string) (*validation.Errors, error) {
	opts := &validation.Options{
		Data:     data,
		Rules:    rules,
		Language: c.Lang.DetectLanguage(language),
		DB:       c.db,
		Config:   c.config,
		Logger:   c.Logger,
	}
	validationErrors, errs := validation.Validate(opts)
	if len(errs) > 0 {
		return nil, errors.New(errs)
	}
	return validationErrors, nil
}

// Audit the addresses stored in the database as configured by the "audit.*"
// config entries.
func (c *Checker) Audit(ctx context.Context) (*audit.Report, error) {
	return audit.New(c.config, c.DB(), c.Logger).Run(ctx)
}

// HasDB returns true if a database connection is set up.
func (c *Checker) HasDB() bool {
	return c.db != nil
}

// DB returns the root database instance. Panics if no
// database connection is set up.
func (c *Checker) DB() *gorm.DB {
	if c.db == nil {
		panic(errors.NewSkip("No database connection. Database is set to \"none\" in the config", 3))
	}
	return c.db
}

// ReplaceDB manually replace the automatic DB connection.
// If a connection already exists, closes it before discarding it.
// This can be used to create a mock DB in tests. Using this function
// is not recommended outside of tests. Prefer using a custom dialect.
// This operation is not concurrently safe.
func (c *Checker) ReplaceDB(dialector gorm.Dialector) error {
	if err := c.CloseDB(); err != nil {
		return err
	}

	db, err := database.NewFromDialector(c.config, func() *slog.Logger { return c.Logger }, dialector)
	if err != nil {
		return err
	}

	c.db = db
	return nil
}

// CloseDB close the database connection if there is one.
// Does nothing and returns `nil` if there is no connection.
func (c *Checker) CloseDB() error {
	if c.db == nil {
		return nil
	}
	db, err := c.db.DB()
	if err != nil {
		if stderrors.Is(err, gorm.ErrInvalidDB) {
			return nil
		}
		return errors.New(err)
	}
	return errors.New(db.Close())
}
