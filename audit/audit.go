// Package audit checks the email addresses already stored in a database
// table against the validation engine.
package audit

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/email"
	"goyave.dev/emailvalidator/lang"
	"goyave.dev/emailvalidator/slog"
	"goyave.dev/emailvalidator/util/errors"
)

const (
	keyAlias     = "record_key"
	addressAlias = "address"
)

// Reason why a stored value was reported.
type Reason string

// Finding reasons.
const (
	// ReasonNull the value is NULL and nil values are not allowed.
	ReasonNull Reason = "null"
	// ReasonInvalid the value is not an acceptable address.
	ReasonInvalid Reason = "invalid"
	// ReasonDomain the value is an acceptable address but its domain
	// doesn't match the configured domain restriction.
	ReasonDomain Reason = "domain"
)

// Finding a stored value rejected by the audit.
type Finding struct {
	Key     any     `json:"key"`
	Address *string `json:"address"`
	Reason  Reason  `json:"reason"`
	Domain  string  `json:"domain,omitempty"`
}

// Report the result of an audit run.
type Report struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Table      string    `json:"table"`
	Column     string    `json:"column"`
	Findings   []Finding `json:"findings"`
	Checked    int       `json:"checked"`
	Invalid    int       `json:"invalid"`
	ID         uuid.UUID `json:"id"`
}

// Summary returns the localized one-line summary of the report.
func (r *Report) Summary(language *lang.Language) string {
	return language.Get("audit.summary", ":invalid", strconv.Itoa(r.Invalid), ":checked", strconv.Itoa(r.Checked))
}

// Auditor scans a table column in batches and classifies every value with the
// validation engine. Records are read in primary key order (keyset pagination)
// so the table can be modified while the audit is running.
type Auditor struct {
	DB     *gorm.DB
	Logger *slog.Logger

	Table      string
	Column     string
	PrimaryKey string
	Options    email.Options
	BatchSize  int
	AllowNil   bool
}

// New create an `Auditor` using the "audit.*" and "email.*" configuration entries.
// If the given logger is nil, nothing is logged.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.New(slog.NewHandler(false, io.Discard))
	}
	return &Auditor{
		DB:         db,
		Logger:     logger,
		Table:      cfg.GetString("audit.table"),
		Column:     cfg.GetString("audit.column"),
		PrimaryKey: cfg.GetString("audit.primaryKey"),
		BatchSize:  cfg.GetInt("audit.batchSize"),
		AllowNil:   cfg.GetBool("email.allowNil"),
		Options: email.Options{
			StrictMode: cfg.GetBool("email.strictMode"),
			Domain:     cfg.GetString("email.domain"),
		},
	}
}

// Run the audit. The context is checked between each batch: if it is done,
// the partial report is returned along with the context error.
//
// Returns an error if `Options.Domain` is invalid or if a query fails.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	if err := a.Options.Validate(); err != nil {
		return nil, err
	}
	if a.BatchSize <= 0 {
		return nil, errors.Errorf("audit: invalid batch size %d", a.BatchSize)
	}

	report := &Report{
		ID:        uuid.New(),
		Table:     a.Table,
		Column:    a.Column,
		StartedAt: time.Now(),
		Findings:  []Finding{},
	}
	logger := a.Logger.With("audit", report.ID.String(), "table", a.Table, "column", a.Column)
	logger.Info("audit started")

	var lastKey any
	for batch := 1; ; batch++ {
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now()
			return report, errors.New(err)
		}

		rows, err := a.fetch(ctx, lastKey)
		if err != nil {
			report.FinishedAt = time.Now()
			return report, err
		}

		for _, row := range rows {
			a.check(report, row)
		}
		logger.Debug("batch checked", "batch", batch, "rows", len(rows))

		if len(rows) < a.BatchSize {
			break
		}
		lastKey = rows[len(rows)-1][keyAlias]
	}

	report.FinishedAt = time.Now()
	logger.Info("audit finished", "checked", report.Checked, "invalid", report.Invalid)
	return report, nil
}

func (a *Auditor) fetch(ctx context.Context, lastKey any) ([]map[string]any, error) {
	primaryKey := clause.Column{Name: a.PrimaryKey}
	tx := a.DB.WithContext(ctx).
		Table(a.Table).
		Clauses(clause.Select{Columns: []clause.Column{
			{Name: a.PrimaryKey, Alias: keyAlias},
			{Name: a.Column, Alias: addressAlias},
		}}).
		Order(clause.OrderByColumn{Column: primaryKey}).
		Limit(a.BatchSize)
	if lastKey != nil {
		tx = tx.Where(clause.Gt{Column: primaryKey, Value: lastKey})
	}

	rows := []map[string]any{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errors.New(err)
	}
	return rows, nil
}

func (a *Auditor) check(report *Report, row map[string]any) {
	report.Checked++
	address := toString(row[addressAlias])
	if email.Classify(address, a.Options, a.AllowNil) == email.ResultValid {
		return
	}

	report.Invalid++
	finding := Finding{
		Key:     row[keyAlias],
		Address: address,
		Reason:  ReasonInvalid,
	}
	if address != nil {
		if _, domain, ok := email.Split(email.Trim(*address, a.Options)); ok {
			finding.Domain = domain
		}
	}
	switch {
	case address == nil:
		finding.Reason = ReasonNull
	case a.Options.Domain != "" && email.Valid(*address, email.Options{StrictMode: a.Options.StrictMode}):
		finding.Reason = ReasonDomain
	}
	report.Findings = append(report.Findings, finding)
}

func toString(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return &v
	case *string:
		return v
	case []byte:
		s := string(v)
		return &s
	default:
		s := fmt.Sprint(v)
		return &s
	}
}
