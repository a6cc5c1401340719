package emailvalidator

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/email"
	"goyave.dev/emailvalidator/util/testutil"
	"goyave.dev/emailvalidator/validation"
)

type checkerTestUser struct {
	Email *string
	ID    int64
}

func (checkerTestUser) TableName() string {
	return "users"
}

func testLangFS() fstest.MapFS {
	return fstest.MapFS{
		"resources/lang/fr-FR/locale.json": &fstest.MapFile{Data: []byte(`{"address.valid": "valide", "address.invalid": "invalide"}`)},
		"resources/lang/fr-FR/rules.json":  &fstest.MapFile{Data: []byte(`{"email": "n'est pas une adresse valide", "required": "est requis"}`)},
		"resources/lang/fr-FR/fields.json": &fstest.MapFile{Data: []byte(`{"email": "l'adresse"}`)},
	}
}

func TestChecker(t *testing.T) {

	t.Run("New", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("app.defaultLanguage", "fr-FR")
		logger := testutil.NewTestLogger(t)

		c, err := New(Options{Config: cfg, Logger: logger, LangFS: testLangFS()})
		require.NoError(t, err)

		assert.Equal(t, cfg, c.Config())
		assert.Equal(t, logger, c.Logger)
		assert.Equal(t, "fr-FR", c.Lang.Default)
		assert.Equal(t, []string{"en-US", "fr-FR"}, c.Lang.GetAvailableLanguages())
		assert.Equal(t, email.Options{}, c.EmailOptions())
		assert.False(t, c.HasDB())
		assert.Panics(t, func() {
			c.DB()
		})
		assert.NoError(t, c.CloseDB())
	})

	t.Run("New_default_logger", func(t *testing.T) {
		c, err := New(Options{Config: config.LoadDefault(), LangFS: fstest.MapFS{}})
		require.NoError(t, err)
		assert.NotNil(t, c.Logger)
		assert.Equal(t, []string{"en-US"}, c.Lang.GetAvailableLanguages())
	})

	t.Run("New_invalid_lang", func(t *testing.T) {
		fsys := fstest.MapFS{
			"resources/lang/fr-FR/locale.json": &fstest.MapFile{Data: []byte(`{"invalid"}`)},
		}
		c, err := New(Options{Config: config.LoadDefault(), LangFS: fsys})
		require.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("New_db_error", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("database.connection", "not_a_driver")

		c, err := New(Options{Config: cfg, LangFS: fstest.MapFS{}})
		require.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("Check", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("email.strictMode", true)
		cfg.Set("email.domain", "example.org")

		c, err := New(Options{Config: cfg, LangFS: fstest.MapFS{}})
		require.NoError(t, err)

		assert.Equal(t, email.Options{StrictMode: true, Domain: "example.org"}, c.EmailOptions())
		assert.Equal(t, email.ResultValid, c.Check(lo.ToPtr("john.doe@EXAMPLE.org")))
		assert.Equal(t, email.ResultInvalid, c.Check(lo.ToPtr("john.doe@other.org")))
		assert.Equal(t, email.ResultInvalid, c.Check(lo.ToPtr(" john.doe@example.org")))
		assert.Equal(t, email.ResultInvalid, c.Check(nil))

		cfg.Set("email.allowNil", true)
		assert.Equal(t, email.ResultValid, c.Check(nil))
	})

	t.Run("Validate", func(t *testing.T) {
		c, err := New(Options{Config: config.LoadDefault(), LangFS: testLangFS()})
		require.NoError(t, err)

		rules := validation.RuleSet{
			"email": validation.List{validation.Required(), validation.String(), validation.Email()},
		}

		errs, err := c.Validate(map[string]any{"email": "john@example.org"}, rules, "fr")
		require.NoError(t, err)
		assert.Nil(t, errs)

		errs, err = c.Validate(map[string]any{"email": "not an address"}, rules, "fr")
		require.NoError(t, err)
		require.NotNil(t, errs)
		assert.Equal(t, []string{"n'est pas une adresse valide"}, errs.Get("email"))

		errs, err = c.Validate(map[string]any{"email": "not an address"}, rules, "de-DE")
		require.NoError(t, err)
		require.NotNil(t, errs)
		assert.Equal(t, []string{"is invalid"}, errs.Get("email"))
	})

	t.Run("Validate_without_db", func(t *testing.T) {
		c, err := New(Options{Config: config.LoadDefault(), LangFS: fstest.MapFS{}})
		require.NoError(t, err)

		rules := validation.RuleSet{
			"email": validation.List{validation.Unique(nil)},
		}
		assert.Panics(t, func() {
			// No database connection
			_, _ = c.Validate(map[string]any{"email": "john@example.org"}, rules, "")
		})
	})

	t.Run("DB_and_Audit", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("app.debug", false)
		testutil.UseInMemoryDB(t, cfg)

		c, err := New(Options{Config: cfg, LangFS: fstest.MapFS{}})
		require.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, c.CloseDB())
		})
		require.True(t, c.HasDB())

		db := c.DB()
		require.NoError(t, db.AutoMigrate(&checkerTestUser{}))
		require.NoError(t, db.Create([]*checkerTestUser{
			{ID: 1, Email: lo.ToPtr("john@example.org")},
			{ID: 2, Email: lo.ToPtr("john@")},
		}).Error)

		rules := validation.RuleSet{
			"email": validation.List{validation.Email(), validation.Unique(func(db *gorm.DB, val any) *gorm.DB {
				return db.Table("users").Where("email = ?", val)
			})},
		}
		errs, err := c.Validate(map[string]any{"email": "john@example.org"}, rules, "en-US")
		require.NoError(t, err)
		require.NotNil(t, errs)
		assert.Equal(t, []string{"has already been taken"}, errs.Get("email"))

		errs, err = c.Validate(map[string]any{"email": "jane@example.org"}, rules, "en-US")
		require.NoError(t, err)
		assert.Nil(t, errs)

		report, err := c.Audit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, report.Checked)
		assert.Equal(t, 1, report.Invalid)
		assert.Equal(t, "1 invalid address(es) out of 2", report.Summary(c.Lang.GetDefault()))
	})

	t.Run("ReplaceDB", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("app.debug", false)
		c, err := New(Options{Config: cfg, LangFS: fstest.MapFS{}})
		require.NoError(t, err)

		require.NoError(t, c.ReplaceDB(sqlite.Open("file:checker_replace_db_test.db?mode=memory")))
		assert.True(t, c.HasDB())
		assert.NotNil(t, c.DB())
		assert.NoError(t, c.CloseDB())
	})
}
