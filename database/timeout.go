package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"goyave.dev/emailvalidator/util/errors"
)

const (
	timeoutCallbackBeforeName = "emailvalidator:timeout_before"
	timeoutCallbackAfterName  = "emailvalidator:timeout_after"
)

type timeoutContext struct {
	context.Context

	parentContext context.Context

	// The original statement. The context is canceled only when this
	// statement is finished so sub-statements (such as preloads) don't
	// cancel it early.
	statement *gorm.Statement

	cancel context.CancelFunc
}

// TimeoutPlugin GORM plugin adding a default timeout to read queries (`Find`, `First`,
// `Count`, ...) if none is applied on the statement already. It works by replacing
// the statement's context with a child context having the configured timeout in a
// "before" callback. In an "after" callback, the new context is canceled.
//
// The audit executes one read query per batch, so each batch gets its own timeout.
//
// A timeout duration inferior or equal to 0 disables the plugin.
type TimeoutPlugin struct {
	Timeout time.Duration
}

// Name returns the name of the plugin
func (p *TimeoutPlugin) Name() string {
	return "emailvalidator:timeout"
}

// Initialize registers the callbacks for the query operation.
func (p *TimeoutPlugin) Initialize(db *gorm.DB) error {
	queryCallback := db.Callback().Query()
	if err := queryCallback.Before("*").Register(timeoutCallbackBeforeName, p.timeoutBefore); err != nil {
		return errors.New(err)
	}
	if err := queryCallback.After("*").Register(timeoutCallbackAfterName, p.timeoutAfter); err != nil {
		return errors.New(err)
	}
	return nil
}

func (p *TimeoutPlugin) timeoutBefore(db *gorm.DB) {
	if p.Timeout <= 0 || db.Statement.Context == nil {
		return
	}
	parent := db.Statement.Context
	if tc, ok := parent.(*timeoutContext); ok {
		// The statement is re-used, replace the context with a new one
		parent = tc.parentContext
	} else if _, hasDeadline := parent.Deadline(); hasDeadline {
		return
	}
	ctx, cancel := context.WithTimeout(parent, p.Timeout)
	db.Statement.Context = &timeoutContext{
		Context:       ctx,
		parentContext: parent,
		statement:     db.Statement,
		cancel:        cancel,
	}
}

func (p *TimeoutPlugin) timeoutAfter(db *gorm.DB) {
	ctx, ok := db.Statement.Context.(*timeoutContext)
	if !ok || ctx.cancel == nil || db.Statement != ctx.statement {
		return
	}
	ctx.cancel()
}
