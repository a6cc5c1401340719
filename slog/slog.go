package slog

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"goyave.dev/emailvalidator/util/errors"
)

type unwrapper interface {
	Unwrap() []error
}

// Logger an extension of the standard `*slog.Logger` whose `Error()` functions take
// an error as parameter. `*errors.Error` are printed with their stack trace and each
// of their reasons is logged as a separate record.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the given non-nil Handler.
func New(h slog.Handler) *Logger {
	return &Logger{slog.New(h)}
}

// With returns a new Logger that includes the given arguments in each record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// DebugWithSource logs at `LevelDebug` using the given program counter as source.
func (l *Logger) DebugWithSource(ctx context.Context, source uintptr, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, source, msg, args...)
}

// InfoWithSource logs at `LevelInfo` using the given program counter as source.
func (l *Logger) InfoWithSource(ctx context.Context, source uintptr, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, source, msg, args...)
}

// WarnWithSource logs at `LevelWarn` using the given program counter as source.
func (l *Logger) WarnWithSource(ctx context.Context, source uintptr, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, source, msg, args...)
}

// Error logs the given error at `LevelError`.
func (l *Logger) Error(err error, args ...any) {
	l.logError(context.Background(), 0, err, args...)
}

// ErrorCtx logs the given error at `LevelError` with the given context.
func (l *Logger) ErrorCtx(ctx context.Context, err error, args ...any) {
	l.logError(ctx, 0, err, args...)
}

// ErrorWithSource logs the given error at `LevelError` using the given program counter as source.
func (l *Logger) ErrorWithSource(ctx context.Context, source uintptr, err error, args ...any) {
	l.logError(ctx, source, err, args...)
}

func (l *Logger) logError(ctx context.Context, source uintptr, err error, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, slog.LevelError) {
		return
	}
	msg := "<nil>"
	if err != nil {
		msg = err.Error()
	}
	r := l.makeRecord(slog.LevelError, msg, source, args...)

	switch e := err.(type) {
	case *errors.Error:
		l.handleError(ctx, e, r)
	case unwrapper:
		_ = l.Handler().Handle(ctx, r)
		for _, reason := range e.Unwrap() {
			l.handleReason(ctx, reason, r)
		}
	default:
		_ = l.Handler().Handle(ctx, r)
	}
}

func (l *Logger) log(ctx context.Context, level slog.Level, source uintptr, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	_ = l.Handler().Handle(ctx, l.makeRecord(level, msg, source, args...))
}

func (l *Logger) makeRecord(level slog.Level, msg string, pc uintptr, args ...any) slog.Record {
	if pc == 0 {
		var pcs [1]uintptr
		runtime.Callers(4, pcs[:]) // runtime.Callers, makeRecord, log/logError, exported func
		pc = pcs[0]
	}
	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.Add(args...)
	return r
}

func (l *Logger) handleError(ctx context.Context, err *errors.Error, record slog.Record) {
	record.AddAttrs(slog.String("trace", err.StackFrames().String()))
	if err.Len() == 0 {
		_ = l.Handler().Handle(ctx, record)
		return
	}

	for _, r := range err.Unwrap() {
		l.handleReason(ctx, r, record)
	}
}

func (l *Logger) handleReason(ctx context.Context, reason error, record slog.Record) {
	clone := record.Clone()
	if reason == nil {
		clone.Message = "<nil>"
		_ = l.Handler().Handle(ctx, clone)
		return
	}
	clone.Message = reason.Error()
	switch e := reason.(type) {
	case *errors.Error:
		l.handleError(ctx, e, clone)
	case errors.Reason:
		if _, isDevMode := l.Handler().(*DevModeHandler); !isDevMode {
			clone.AddAttrs(slog.Any("reason", e.Value()))
		}
		_ = l.Handler().Handle(ctx, clone)
	default:
		_ = l.Handler().Handle(ctx, clone)
	}
}
